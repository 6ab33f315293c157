package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is an order header in the ledger. Immutable once committed, except
// for the totals recomputation utility which re-derives the five money
// columns from the item rows.
//
// Invariants (enforced by the sale engine, asserted in tests):
//
//	NetAmount   = TotalAmount - DiscountAmount
//	TotalProfit = NetAmount - TotalCost
//	TotalAmount = Σ items.TotalPrice
//	TotalCost   = Σ items.TotalCost
type Sale struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber   string          `gorm:"uniqueIndex;not null"`
	CustomerName    string          `gorm:"not null"`
	CustomerContact string          `gorm:"type:varchar(30)"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// DiscountPercentage applies at the order level only; item profit
	// fields are gross of it.
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:5.00"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NetAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCost          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalProfit        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedByID        *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt          time.Time       `gorm:"index"`
	UpdatedAt          time.Time

	CreatedBy *Employee  `gorm:"foreignKey:CreatedByID"`
	Items     []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one product line within a sale. UnitPrice and UnitCost are
// snapshots taken at transaction time; later catalog price changes must
// not rewrite history.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sale_product"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sale_product"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Profit = TotalPrice - TotalCost, gross of the order-level discount.
	Profit decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
