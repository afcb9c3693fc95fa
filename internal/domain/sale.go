package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of a completed transaction. Lines are
// snapshots taken at sale time and never reference live products.
type Sale struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"fecha"`
	Lines     []SaleLine      `json:"productos"`
	Total     decimal.Decimal `json:"total"`
	Tendered  decimal.Decimal `json:"efectivo"`
	Change    decimal.Decimal `json:"cambio"`
}

// SaleLine is one product of a sale
type SaleLine struct {
	ProductID string          `json:"id"`
	Name      string          `json:"nombre"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio"`
}

// Subtotal returns unit price times quantity
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
