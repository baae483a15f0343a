// Package render turns cart summaries into view models the UI can draw.
package render

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

const (
	DefaultCurrency  = "₹"
	EmptyPlaceholder = "Your cart is empty"
)

// Controller is the subset of the cart manager that line controls call back into.
type Controller interface {
	SetQuantity(id, quantity int)
	RemoveItem(id int)
}

type Badge struct {
	Count   int
	Visible bool
}

// Line is one rendered line item. Its callbacks are bound to the line's ID
// and quantity at render time.
type Line struct {
	ID        int
	Name      string
	Quantity  int
	Price     string
	Increment func()
	Decrement func()
	Remove    func()
}

type View struct {
	Badge       Badge
	Lines       []Line
	Empty       bool
	Placeholder string
	Total       string
	Currency    string
}

type Adapter struct {
	ctrl     Controller
	currency string
	view     View
	onChange []func(View)
}

type AdapterOption func(*Adapter)

func WithCurrency(symbol string) AdapterOption {
	return func(a *Adapter) {
		if symbol != "" {
			a.currency = symbol
		}
	}
}

// OnChange registers a hook that receives each freshly built view.
func OnChange(fn func(View)) AdapterOption {
	return func(a *Adapter) {
		if fn != nil {
			a.onChange = append(a.onChange, fn)
		}
	}
}

func NewAdapter(ctrl Controller, opts ...AdapterOption) *Adapter {
	a := &Adapter{ctrl: ctrl, currency: DefaultCurrency}
	for _, opt := range opts {
		opt(a)
	}
	a.view = a.build(cart.Summary{TotalPrice: decimal.Zero})
	return a
}

// Render implements cart.Renderer.
func (a *Adapter) Render(s cart.Summary) {
	a.view = a.build(s)
	for _, fn := range a.onChange {
		fn(a.view)
	}
}

func (a *Adapter) View() View {
	return a.view
}

func (a *Adapter) Currency() string {
	return a.currency
}

func (a *Adapter) build(s cart.Summary) View {
	v := View{
		Badge: Badge{
			Count:   s.TotalItemCount,
			Visible: s.TotalItemCount > 0,
		},
		Total:    FormatAmount(s.TotalPrice),
		Currency: a.currency,
	}

	if s.Empty() {
		v.Empty = true
		v.Placeholder = EmptyPlaceholder
		return v
	}

	v.Lines = make([]Line, 0, len(s.Items))
	for _, it := range s.Items {
		v.Lines = append(v.Lines, a.line(it))
	}
	return v
}

func (a *Adapter) line(it cart.LineItem) Line {
	id, qty := it.ID, it.Quantity
	return Line{
		ID:        id,
		Name:      it.Name,
		Quantity:  qty,
		Price:     FormatMoney(a.currency, it.LinePrice()),
		Increment: func() { a.ctrl.SetQuantity(id, qty+1) },
		Decrement: func() { a.ctrl.SetQuantity(id, qty-1) },
		Remove:    func() { a.ctrl.RemoveItem(id) },
	}
}

// FormatAmount renders an amount with two decimals and no symbol.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func FormatMoney(symbol string, d decimal.Decimal) string {
	return symbol + d.StringFixed(2)
}
