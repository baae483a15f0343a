// Package tui is the storefront's terminal front end.
//
// The bubbletea event loop is the only caller of the cart manager, so all
// cart mutations happen one at a time on the Update goroutine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/menu"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/render"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/reservation"
)

type pane int

const (
	paneMenu pane = iota
	paneCart
	paneReservation
)

const (
	MsgCartEmpty = "Your cart is empty!"
	orderPlaced  = "Order placed successfully! 🎉\nTotal: %s\nThank you for your order!"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("166"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("166"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
	labelStyle  = lipgloss.NewStyle().Width(10).Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true).MarginTop(1)
	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("220")).
			Padding(1, 2)
)

// flashDoneMsg reverts the badge highlight of the flash with the same id.
type flashDoneMsg struct{ id int }

type reservationResultMsg struct {
	res reservation.Reservation
	err error
}

type Options struct {
	// Context bounds reservation recording; cancelling it aborts in-flight
	// database and broker calls.
	Context       context.Context
	Catalog       *menu.Catalog
	Reservations  *reservation.Service
	Currency      string
	FlashDuration time.Duration
	// CartOptions are appended to the options the model installs itself.
	CartOptions []cart.Option
	Now         func() time.Time
	Logger      *zap.Logger
}

type Model struct {
	cart         *cart.Manager
	adapter      *render.Adapter
	term         *render.Terminal
	items        []menu.Item
	reservations *reservation.Service
	logger       *zap.Logger
	now          func() time.Time
	ctx          context.Context

	pane       pane
	menuCursor int
	cartCursor int
	form       *reservationForm
	submitting bool

	flashDuration time.Duration
	flashPending  bool
	flashID       int
	flashing      bool

	notice   string
	quitting bool
}

func New(opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := &Model{
		items:         opts.Catalog.Items(),
		reservations:  opts.Reservations,
		term:          render.NewTerminal(),
		logger:        opts.Logger,
		now:           opts.Now,
		ctx:           opts.Context,
		flashDuration: opts.FlashDuration,
	}

	cartOpts := []cart.Option{
		cart.WithLogger(opts.Logger),
		cart.WithFlasher(cart.FlasherFunc(func() { m.flashPending = true })),
		cart.WithConfirmer(cart.ConfirmerFunc(m.confirmOrder)),
	}
	m.cart = cart.NewManager(append(cartOpts, opts.CartOptions...)...)
	m.adapter = render.NewAdapter(m.cart, render.WithCurrency(opts.Currency))
	m.cart.Subscribe(m.adapter)
	m.form = newReservationForm(reservation.MinDate(m.now()))

	return m
}

// Cart exposes the manager the model drives.
func (m *Model) Cart() *cart.Manager {
	return m.cart
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flashDoneMsg:
		if msg.id == m.flashID {
			m.flashing = false
		}
		return m, nil

	case reservationResultMsg:
		return m, m.handleReservationResult(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}

		var cmd tea.Cmd
		switch m.pane {
		case paneMenu:
			cmd = m.updateMenu(msg)
		case paneCart:
			cmd = m.updateCart(msg)
		case paneReservation:
			cmd = m.updateReservation(msg)
		}
		if flash := m.takeFlash(); flash != nil {
			if cmd == nil {
				return m, flash
			}
			return m, tea.Batch(cmd, flash)
		}
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(m.items)-1 {
			m.menuCursor++
		}
	case "enter", "a":
		if len(m.items) > 0 {
			m.cart.AddItem(m.items[m.menuCursor].Candidate())
		}
	case "c":
		m.pane = paneCart
		m.clampCartCursor()
	case "r":
		m.pane = paneReservation
	}
	return nil
}

func (m *Model) updateCart(msg tea.KeyMsg) tea.Cmd {
	lines := m.adapter.View().Lines

	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "esc", "c":
		m.pane = paneMenu
	case "up", "k":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case "down", "j":
		if m.cartCursor < len(lines)-1 {
			m.cartCursor++
		}
	case "+", "=":
		if m.cartCursor < len(lines) {
			lines[m.cartCursor].Increment()
		}
	case "-":
		if m.cartCursor < len(lines) {
			lines[m.cartCursor].Decrement()
		}
	case "x", "delete":
		if m.cartCursor < len(lines) {
			lines[m.cartCursor].Remove()
		}
	case "C":
		m.cart.Clear()
	case "o":
		if _, err := m.cart.PlaceOrder(); errors.Is(err, cart.ErrEmptyCart) {
			m.notice = MsgCartEmpty
		} else {
			m.pane = paneMenu
		}
	}

	m.clampCartCursor()
	return nil
}

func (m *Model) updateReservation(msg tea.KeyMsg) tea.Cmd {
	if m.submitting {
		return nil
	}

	switch msg.String() {
	case "esc":
		m.pane = paneMenu
		return nil
	case "tab", "down":
		m.form.next()
		return nil
	case "shift+tab", "up":
		m.form.prev()
		return nil
	case "enter":
		if !m.form.onLastField() {
			m.form.next()
			return nil
		}
		return m.submitReservation()
	}
	return m.form.update(msg)
}

func (m *Model) submitReservation() tea.Cmd {
	if m.reservations == nil {
		return nil
	}
	req := m.form.request()
	svc, ctx := m.reservations, m.ctx
	m.submitting = true
	return func() tea.Msg {
		res, err := svc.Submit(ctx, req)
		return reservationResultMsg{res: res, err: err}
	}
}

func (m *Model) handleReservationResult(msg reservationResultMsg) tea.Cmd {
	m.submitting = false

	var verr *reservation.ValidationError
	switch {
	case msg.err == nil:
		m.logger.Info("reservation accepted", zap.String("reservation_id", msg.res.ID))
		m.notice = reservation.SuccessMessage
		m.form.reset()
		m.pane = paneMenu
	case errors.As(msg.err, &verr):
		m.notice = verr.Message
	default:
		m.logger.Error("reservation submit failed", zap.Error(msg.err))
		m.notice = "Sorry, we could not send your reservation. Please try again."
	}
	return nil
}

func (m *Model) confirmOrder(c cart.OrderConfirmation) {
	m.notice = fmt.Sprintf(orderPlaced, render.FormatMoney(m.adapter.Currency(), c.TotalPrice))
}

// takeFlash starts the badge highlight if the last event added an item.
func (m *Model) takeFlash() tea.Cmd {
	if !m.flashPending {
		return nil
	}
	m.flashPending = false
	m.flashing = true
	m.flashID++
	id := m.flashID
	return tea.Tick(m.flashDuration, func(time.Time) tea.Msg {
		return flashDoneMsg{id: id}
	})
}

func (m *Model) clampCartCursor() {
	n := len(m.adapter.View().Lines)
	if m.cartCursor >= n {
		m.cartCursor = n - 1
	}
	if m.cartCursor < 0 {
		m.cartCursor = 0
	}
}

func (m *Model) View() string {
	if m.quitting {
		return "Thanks for visiting Café Delight!\n"
	}

	v := m.adapter.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Café Delight"))
	b.WriteString("  ")
	b.WriteString(m.term.Badge(v, m.flashing))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("press any key"))
		return b.String()
	}

	switch m.pane {
	case paneMenu:
		b.WriteString(m.menuView())
		b.WriteString(helpStyle.Render("↑/↓ select • enter add • c cart • r reserve a table • q quit"))
	case paneCart:
		b.WriteString(m.term.Cart(v, m.cartCursor))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • +/- quantity • x remove • o place order • C clear • esc back"))
	case paneReservation:
		b.WriteString(titleStyle.Render("Reserve a table"))
		b.WriteString("\n")
		b.WriteString(m.form.view())
		if m.submitting {
			b.WriteString(dimStyle.Render("sending..."))
		}
		b.WriteString(helpStyle.Render("tab next • enter on last field submits • esc back"))
	}

	return b.String()
}

func (m *Model) menuView() string {
	var b strings.Builder
	category := ""
	for i, it := range m.items {
		if it.Category != category {
			category = it.Category
			b.WriteString(dimStyle.Render(strings.ToUpper(category)))
			b.WriteString("\n")
		}
		line := fmt.Sprintf("%-22s %s", it.Name, render.FormatMoney(m.adapter.Currency(), it.Price))
		if i == m.menuCursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
