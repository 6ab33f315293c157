package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handler processes one decoded job payload. A returned error requeues
// the job until maxJobAttempts, then parks it on the dead queue.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Pool runs n workers BRPOPing the job queues. Blocking pops use a short
// timeout so the pool notices context cancellation quickly.
type Pool struct {
	rdb      *redis.Client
	size     int
	handlers map[string]Handler
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		rdb:      rdb,
		size:     size,
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a queue. Must be called before Start.
func (p *Pool) Register(queue string, h Handler) {
	p.handlers[queue] = h
}

func (p *Pool) Start(ctx context.Context) {
	queues := make([]string, 0, len(p.handlers))
	for q := range p.handlers {
		queues = append(queues, q)
	}
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i, queues)
	}
	log.Info().Int("workers", p.size).Strs("queues", queues).Msg("worker pool started")
}

// Wait blocks until all workers have drained after ctx is cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int, queues []string) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		res, err := p.rdb.BRPop(ctx, 2*time.Second, queues...).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}
		// BRPOP returns [queue, value].
		if len(res) != 2 {
			continue
		}
		p.process(ctx, res[0], []byte(res[1]))
	}
}

func (p *Pool) process(ctx context.Context, queue string, raw []byte) {
	var j job
	if err := json.Unmarshal(raw, &j); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("malformed job dropped")
		return
	}
	handler, ok := p.handlers[queue]
	if !ok {
		return
	}

	err := handler(ctx, j.Payload)
	if err == nil {
		return
	}
	log.Warn().Err(err).Str("queue", queue).Str("job", j.ID).Int("attempt", j.Attempts+1).Msg("job failed")

	j.Attempts++
	j.LastError = err.Error()
	envelope, merr := json.Marshal(j)
	if merr != nil {
		return
	}
	target := queue
	if j.Attempts >= maxJobAttempts {
		target = QueueDead
	}
	if perr := p.rdb.LPush(ctx, target, envelope).Err(); perr != nil {
		log.Error().Err(perr).Str("queue", target).Str("job", j.ID).Msg("requeue failed, job lost")
	}
}
