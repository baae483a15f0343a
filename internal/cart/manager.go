// Package cart owns the storefront's in-memory cart and the contract used
// to render it.
//
// A Manager is driven from a single UI event loop. It holds no locks and
// must not be shared across goroutines.
package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("your cart is empty")

// Renderer receives a fresh Summary after every mutation. Rendering must be
// a pure function of the summary.
type Renderer interface {
	Render(s Summary)
}

type RendererFunc func(s Summary)

func (f RendererFunc) Render(s Summary) { f(s) }

// OrderConfirmer is told about every successfully placed order.
type OrderConfirmer interface {
	ConfirmOrder(c OrderConfirmation)
}

type ConfirmerFunc func(c OrderConfirmation)

func (f ConfirmerFunc) ConfirmOrder(c OrderConfirmation) { f(c) }

// Flasher shows the transient "added to cart" acknowledgement. It is fire
// and forget and must not touch cart state.
type Flasher interface {
	Flash()
}

type FlasherFunc func()

func (f FlasherFunc) Flash() { f() }

type Manager struct {
	items []LineItem

	renderers   []Renderer
	confirmers  []OrderConfirmer
	flasher     Flasher
	maxQuantity int
	now         func() time.Time
	logger      *zap.Logger
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithRenderer(r Renderer) Option {
	return func(m *Manager) {
		if r != nil {
			m.renderers = append(m.renderers, r)
		}
	}
}

// WithConfirmer adds an order confirmer. Confirmers run in registration order.
func WithConfirmer(c OrderConfirmer) Option {
	return func(m *Manager) {
		if c != nil {
			m.confirmers = append(m.confirmers, c)
		}
	}
}

func WithFlasher(f Flasher) Option {
	return func(m *Manager) { m.flasher = f }
}

// WithMaxQuantity caps every line at n. Zero or less means unbounded.
func WithMaxQuantity(n int) Option {
	return func(m *Manager) { m.maxQuantity = n }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		items:  []LineItem{},
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers a renderer and renders the current state to it.
func (m *Manager) Subscribe(r Renderer) {
	if r == nil {
		return
	}
	m.renderers = append(m.renderers, r)
	r.Render(m.Summary())
}

// AddItem increments the line with the same ID or appends a new line with
// quantity 1.
func (m *Manager) AddItem(c Candidate) {
	if i := m.indexOf(c.ID); i >= 0 {
		m.items[i].Quantity = m.clamp(m.items[i].Quantity + 1)
		m.logger.Debug("cart item incremented",
			zap.Int("item_id", c.ID),
			zap.Int("quantity", m.items[i].Quantity))
	} else {
		m.items = append(m.items, LineItem{
			ID:        c.ID,
			Name:      c.Name,
			UnitPrice: c.UnitPrice,
			Quantity:  1,
		})
		m.logger.Debug("cart item added", zap.Int("item_id", c.ID), zap.String("name", c.Name))
	}

	m.render()
	if m.flasher != nil {
		m.flasher.Flash()
	}
}

// RemoveItem deletes the line with the given ID. Unknown IDs are ignored.
func (m *Manager) RemoveItem(id int) {
	if i := m.indexOf(id); i >= 0 {
		m.items = append(m.items[:i], m.items[i+1:]...)
		m.logger.Debug("cart item removed", zap.Int("item_id", id))
	}
	m.render()
}

// SetQuantity sets a line's quantity. A quantity of zero or less removes
// the line; unknown IDs are ignored.
func (m *Manager) SetQuantity(id, quantity int) {
	if quantity <= 0 {
		m.RemoveItem(id)
		return
	}

	if i := m.indexOf(id); i >= 0 {
		m.items[i].Quantity = m.clamp(quantity)
		m.logger.Debug("cart quantity set", zap.Int("item_id", id), zap.Int("quantity", m.items[i].Quantity))
	}
	m.render()
}

func (m *Manager) Summary() Summary {
	return summarize(m.items)
}

// PlaceOrder confirms the current cart and clears it. An empty cart yields
// ErrEmptyCart and is left untouched.
func (m *Manager) PlaceOrder() (OrderConfirmation, error) {
	if len(m.items) == 0 {
		m.logger.Info("order rejected: cart is empty")
		return OrderConfirmation{}, ErrEmptyCart
	}

	s := m.Summary()
	conf := OrderConfirmation{
		OrderID:        uuid.NewString(),
		Items:          s.Items,
		TotalItemCount: s.TotalItemCount,
		TotalPrice:     s.TotalPrice,
		PlacedAt:       m.now().UTC(),
	}

	for _, c := range m.confirmers {
		c.ConfirmOrder(conf)
	}
	m.logger.Info("order placed",
		zap.String("order_id", conf.OrderID),
		zap.Int("items", conf.TotalItemCount),
		zap.String("total", conf.TotalPrice.StringFixed(2)))

	m.items = []LineItem{}
	m.render()
	return conf, nil
}

// Clear empties the cart. It is safe to call on an empty cart.
func (m *Manager) Clear() {
	m.items = []LineItem{}
	m.render()
}

func (m *Manager) indexOf(id int) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) clamp(q int) int {
	if m.maxQuantity > 0 && q > m.maxQuantity {
		return m.maxQuantity
	}
	return q
}

func (m *Manager) render() {
	if len(m.renderers) == 0 {
		return
	}
	s := m.Summary()
	for _, r := range m.renderers {
		r.Render(s)
	}
}
