package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a menu item offered to the cart.
type Candidate struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type LineItem struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// LinePrice is unitPrice × quantity.
func (it LineItem) LinePrice() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Summary is a read-only snapshot of the cart. Items is a copy.
type Summary struct {
	Items          []LineItem      `json:"items"`
	TotalItemCount int             `json:"totalItemCount"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
}

func (s Summary) Empty() bool {
	return len(s.Items) == 0
}

type OrderConfirmation struct {
	OrderID        string          `json:"orderId"`
	Items          []LineItem      `json:"items"`
	TotalItemCount int             `json:"totalItemCount"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	PlacedAt       time.Time       `json:"placedAt"`
}

func summarize(items []LineItem) Summary {
	s := Summary{
		Items:      make([]LineItem, len(items)),
		TotalPrice: decimal.Zero,
	}
	copy(s.Items, items)

	// Recalculate from scratch
	for _, it := range items {
		s.TotalItemCount += it.Quantity
		s.TotalPrice = s.TotalPrice.Add(it.LinePrice())
	}
	return s
}
