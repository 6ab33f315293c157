package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"shoptrack/internal/model"

	"github.com/go-pdf/fpdf"
)

// ReceiptWriter renders sale receipts as PDF files under the configured
// storage path, named by invoice number.
type ReceiptWriter struct {
	dir string
}

func NewReceiptWriter(dir string) (*ReceiptWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("receipt storage: %w", err)
	}
	return &ReceiptWriter{dir: dir}, nil
}

// Write renders the receipt and returns the file path.
func (w *ReceiptWriter) Write(sale *model.Sale) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt "+sale.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "ShopTrack", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Receipt "+sale.InvoiceNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, sale.CreatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Customer: "+sale.CustomerName, "", 1, "L", false, 0, "")
	if sale.CustomerContact != "" {
		pdf.CellFormat(0, 6, "Contact: "+sale.CustomerContact, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range sale.Items {
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		pdf.CellFormat(80, 7, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, item.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(140, 7, "Subtotal", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, sale.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	discountLabel := fmt.Sprintf("Discount (%s%%)", sale.DiscountPercentage.StringFixed(2))
	pdf.CellFormat(140, 7, discountLabel, "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "-"+sale.DiscountAmount.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, sale.NetAmount.StringFixed(2), "", 1, "R", false, 0, "")

	path := filepath.Join(w.dir, sale.InvoiceNumber+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
