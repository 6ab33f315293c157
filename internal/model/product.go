package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// LowStockThreshold is the quantity at or below which an active product
// counts as low stock in dashboard and inventory views.
const LowStockThreshold = 10

// Product is a catalog entry. Quantity is only mutated by the sale engine
// (decrement on commit) and by catalog stock adjustments; a sale that
// depletes the stock to zero flips Status to inactive.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description string
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null"`
	SupplierID  uuid.UUID `gorm:"type:uuid;index;not null"`
	// BuyPrice is the unit cost; SellPrice the list price. Profit figures
	// are derived on read, never stored.
	BuyPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"not null;default:0"`
	Status    string          `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (p *Product) IsActive() bool { return p.Status == StatusActive }

// ProfitPerUnit returns SellPrice - BuyPrice.
func (p *Product) ProfitPerUnit() decimal.Decimal {
	return p.SellPrice.Sub(p.BuyPrice)
}

// ProfitMarginPct returns the margin as a percentage of cost.
// Zero when BuyPrice is zero (informational metric, never an error).
func (p *Product) ProfitMarginPct() decimal.Decimal {
	if p.BuyPrice.IsZero() {
		return decimal.Zero
	}
	return p.ProfitPerUnit().Div(p.BuyPrice).Mul(decimal.NewFromInt(100))
}

// InventoryValueCost is BuyPrice × Quantity.
func (p *Product) InventoryValueCost() decimal.Decimal {
	return p.BuyPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// InventoryValueSell is SellPrice × Quantity.
func (p *Product) InventoryValueSell() decimal.Decimal {
	return p.SellPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// PotentialProfit is the profit if the whole current stock sold at list price.
func (p *Product) PotentialProfit() decimal.Decimal {
	return p.ProfitPerUnit().Mul(decimal.NewFromInt(int64(p.Quantity)))
}
