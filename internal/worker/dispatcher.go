package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis list names. Producers LPUSH, the pool BRPOPs, so each list is a
// FIFO queue shared by every server instance.
const (
	QueueReceipts    = "shoptrack:jobs:receipts"
	QueueStockAlerts = "shoptrack:jobs:stock_alerts"
	QueueDead        = "shoptrack:jobs:dead"
)

const maxJobAttempts = 3

// ReceiptJobPayload asks for the PDF receipt of a committed sale.
type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
}

// StockAlertJobPayload notifies that a sale pushed a product to or below
// the low-stock threshold.
type StockAlertJobPayload struct {
	ProductID   string `json:"product_id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Remaining   int    `json:"remaining"`
}

// job is the envelope stored in Redis.
type job struct {
	ID         string          `json:"id"`
	Queue      string          `json:"queue"`
	Attempts   int             `json:"attempts"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	LastError  string          `json:"last_error,omitempty"`
}

// Dispatcher enqueues background jobs. Enqueue failures are logged by the
// callers and never fail the request that produced the job.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueReceipt(ctx context.Context, p ReceiptJobPayload) error {
	return d.enqueue(ctx, QueueReceipts, p)
}

func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, p StockAlertJobPayload) error {
	return d.enqueue(ctx, QueueStockAlerts, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	envelope, err := json.Marshal(job{
		ID:         uuid.NewString(),
		Queue:      queue,
		Payload:    raw,
		EnqueuedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, queue, envelope).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("enqueue failed")
		return err
	}
	return nil
}
