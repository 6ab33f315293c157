package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shoptrack/internal/infra"
	"shoptrack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptWorker renders the PDF receipt for a committed sale and, when
// the customer contact is an email address, mails a copy of the summary.
type ReceiptWorker struct {
	saleRepo repository.SaleRepository
	receipts *infra.ReceiptWriter
	mailer   *infra.Mailer
}

func NewReceiptWorker(saleRepo repository.SaleRepository, receipts *infra.ReceiptWriter, mailer *infra.Mailer) *ReceiptWorker {
	return &ReceiptWorker{saleRepo: saleRepo, receipts: receipts, mailer: mailer}
}

func (w *ReceiptWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p ReceiptJobPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode receipt job: %w", err)
	}
	id, err := uuid.Parse(p.SaleID)
	if err != nil {
		return fmt.Errorf("receipt job sale id: %w", err)
	}
	sale, err := w.saleRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load sale %s: %w", p.SaleID, err)
	}
	path, err := w.receipts.Write(sale)
	if err != nil {
		return err
	}
	log.Info().Str("invoice", sale.InvoiceNumber).Str("path", path).Msg("receipt written")

	// Mail a copy when the contact field holds an address. Mail failure
	// does not fail the job; the PDF already exists on disk.
	if strings.Contains(sale.CustomerContact, "@") && w.mailer.Enabled() {
		subject := fmt.Sprintf("Receipt %s", sale.InvoiceNumber)
		body := fmt.Sprintf(
			"<p>Thank you, %s.</p><p>Invoice <strong>%s</strong> total: %s</p>",
			sale.CustomerName, sale.InvoiceNumber, sale.NetAmount.StringFixed(2),
		)
		if err := w.mailer.Send(sale.CustomerContact, subject, body); err != nil {
			log.Warn().Err(err).Str("invoice", sale.InvoiceNumber).Msg("receipt mail failed")
		}
	}
	return nil
}
