package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"shoptrack/internal/infra"

	"github.com/rs/zerolog/log"
)

// StockAlertWorker emails the configured recipient when a product drops
// to or below the low-stock threshold.
type StockAlertWorker struct {
	mailer *infra.Mailer
	to     string
}

func NewStockAlertWorker(mailer *infra.Mailer, to string) *StockAlertWorker {
	return &StockAlertWorker{mailer: mailer, to: to}
}

func (w *StockAlertWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p StockAlertJobPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode stock alert job: %w", err)
	}
	if w.to == "" || !w.mailer.Enabled() {
		log.Debug().Str("product", p.ProductCode).Msg("stock alert skipped, mail not configured")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s (%s)", p.ProductName, p.ProductCode)
	body := fmt.Sprintf(
		"<p>Product <strong>%s</strong> (%s) is down to <strong>%d</strong> units.</p><p>Consider restocking.</p>",
		p.ProductName, p.ProductCode, p.Remaining,
	)
	if err := w.mailer.Send(w.to, subject, body); err != nil {
		return fmt.Errorf("send stock alert: %w", err)
	}
	log.Info().Str("product", p.ProductCode).Int("remaining", p.Remaining).Msg("stock alert sent")
	return nil
}
