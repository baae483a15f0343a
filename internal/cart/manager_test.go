package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	pizza = Candidate{ID: 1, Name: "Pizza", UnitPrice: decimal.RequireFromString("250.00")}
	soda  = Candidate{ID: 2, Name: "Soda", UnitPrice: decimal.RequireFromString("50.00")}
	pasta = Candidate{ID: 3, Name: "Pasta", UnitPrice: decimal.RequireFromString("180.50")}
)

type recordingRenderer struct {
	summaries []Summary
}

func (r *recordingRenderer) Render(s Summary) {
	r.summaries = append(r.summaries, s)
}

func (r *recordingRenderer) last() Summary {
	return r.summaries[len(r.summaries)-1]
}

func TestAddItemMergesSameID(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		m := NewManager()
		for i := 0; i < n; i++ {
			m.AddItem(pizza)
		}

		s := m.Summary()
		require.Len(t, s.Items, 1)
		assert.Equal(t, 1, s.Items[0].ID)
		assert.Equal(t, n, s.Items[0].Quantity)
		assert.Equal(t, n, s.TotalItemCount)
	}
}

func TestAddItemAppendsInInsertionOrder(t *testing.T) {
	m := NewManager()
	m.AddItem(soda)
	m.AddItem(pizza)
	m.AddItem(soda)
	m.AddItem(pasta)

	s := m.Summary()
	require.Len(t, s.Items, 3)
	assert.Equal(t, []int{2, 1, 3}, []int{s.Items[0].ID, s.Items[1].ID, s.Items[2].ID})
	assert.Equal(t, 2, s.Items[0].Quantity)
}

func TestAddThenRemoveRestoresPriorState(t *testing.T) {
	tests := map[string][]Candidate{
		"empty cart":      nil,
		"one item":        {soda},
		"several items":   {pizza, soda, pizza},
		"after a removal": {pizza, soda},
	}

	for name, setup := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewManager()
			for _, c := range setup {
				m.AddItem(c)
			}
			if name == "after a removal" {
				m.RemoveItem(pizza.ID)
			}
			before := m.Summary()

			m.AddItem(pasta)
			m.RemoveItem(pasta.ID)

			after := m.Summary()
			assert.Equal(t, before.Items, after.Items)
			assert.Equal(t, before.TotalItemCount, after.TotalItemCount)
			assert.True(t, before.TotalPrice.Equal(after.TotalPrice))
		})
	}
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	for _, q := range []int{0, -1, -40} {
		a := NewManager()
		b := NewManager()
		for _, m := range []*Manager{a, b} {
			m.AddItem(pizza)
			m.AddItem(pizza)
			m.AddItem(soda)
		}

		a.SetQuantity(pizza.ID, q)
		b.RemoveItem(pizza.ID)

		assert.Equal(t, b.Summary().Items, a.Summary().Items, "quantity %d", q)
	}
}

func TestSetQuantity(t *testing.T) {
	m := NewManager()
	m.AddItem(pizza)
	m.AddItem(soda)

	m.SetQuantity(soda.ID, 4)
	s := m.Summary()
	assert.Equal(t, 4, s.Items[1].Quantity)
	assert.Equal(t, "450.00", s.TotalPrice.StringFixed(2))

	// unknown id is a no-op
	m.SetQuantity(99, 3)
	assert.Equal(t, s.Items, m.Summary().Items)
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(WithRenderer(r))
	m.AddItem(pizza)

	m.RemoveItem(42)

	assert.Len(t, m.Summary().Items, 1)
	// still re-rendered
	assert.Len(t, r.summaries, 2)
}

func TestTotalIsRecomputedFromScratch(t *testing.T) {
	m := NewManager()
	m.AddItem(pasta)
	m.AddItem(pizza)
	m.AddItem(pasta)
	m.SetQuantity(pizza.ID, 3)
	m.AddItem(soda)
	m.RemoveItem(pasta.ID)
	m.AddItem(pasta)
	m.SetQuantity(soda.ID, 7)

	s := m.Summary()
	want := decimal.Zero
	count := 0
	for _, it := range s.Items {
		want = want.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
	}
	assert.True(t, want.Equal(s.TotalPrice), "got %s want %s", s.TotalPrice, want)
	assert.Equal(t, count, s.TotalItemCount)
	assert.Equal(t, "1280.50", s.TotalPrice.StringFixed(2))
}

func TestScenarioPizzaAndSoda(t *testing.T) {
	m := NewManager()
	m.AddItem(pizza)
	m.AddItem(pizza)
	m.AddItem(soda)

	s := m.Summary()
	require.Len(t, s.Items, 2)
	assert.Equal(t, LineItem{ID: 1, Name: "Pizza", UnitPrice: pizza.UnitPrice, Quantity: 2}, s.Items[0])
	assert.Equal(t, LineItem{ID: 2, Name: "Soda", UnitPrice: soda.UnitPrice, Quantity: 1}, s.Items[1])
	assert.Equal(t, 3, s.TotalItemCount)
	assert.Equal(t, "550.00", s.TotalPrice.StringFixed(2))

	m.SetQuantity(1, 0)
	s = m.Summary()
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].ID)
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.Equal(t, "50.00", s.TotalPrice.StringFixed(2))
}

func TestPlaceOrder(t *testing.T) {
	now := time.Date(2026, time.October, 19, 18, 30, 0, 0, time.UTC)
	var confirmed []OrderConfirmation
	r := &recordingRenderer{}

	m := NewManager(
		WithRenderer(r),
		WithClock(func() time.Time { return now }),
		WithConfirmer(ConfirmerFunc(func(c OrderConfirmation) {
			confirmed = append(confirmed, c)
		})),
	)
	m.AddItem(pizza)
	m.AddItem(pizza)
	m.AddItem(soda)
	before := m.Summary()

	conf, err := m.PlaceOrder()
	require.NoError(t, err)

	require.Len(t, confirmed, 1)
	assert.Equal(t, conf, confirmed[0])
	assert.True(t, conf.TotalPrice.Equal(before.TotalPrice))
	assert.Equal(t, "550.00", conf.TotalPrice.StringFixed(2))
	assert.Equal(t, 3, conf.TotalItemCount)
	assert.Equal(t, before.Items, conf.Items)
	assert.Equal(t, now, conf.PlacedAt)
	assert.NotEmpty(t, conf.OrderID)

	assert.True(t, m.Summary().Empty())
	assert.True(t, r.last().Empty())
	assert.True(t, r.last().TotalPrice.IsZero())
}

func TestPlaceOrderOnEmptyCart(t *testing.T) {
	confirmCalls := 0
	r := &recordingRenderer{}
	m := NewManager(
		WithRenderer(r),
		WithConfirmer(ConfirmerFunc(func(OrderConfirmation) { confirmCalls++ })),
	)

	_, err := m.PlaceOrder()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCart))
	assert.True(t, m.Summary().Empty())
	assert.Zero(t, confirmCalls)
	assert.Empty(t, r.summaries, "failed order must not re-render")
}

func TestClearIsIdempotent(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(WithRenderer(r))
	m.AddItem(pizza)

	m.Clear()
	m.Clear()

	assert.True(t, m.Summary().Empty())
	assert.Len(t, r.summaries, 3)
	assert.True(t, r.summaries[1].Empty())
	assert.True(t, r.summaries[2].Empty())
}

func TestEveryMutationRenders(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(WithRenderer(r))

	m.AddItem(pizza)
	m.AddItem(soda)
	m.SetQuantity(pizza.ID, 3)
	m.RemoveItem(soda.ID)
	_, err := m.PlaceOrder()
	require.NoError(t, err)

	require.Len(t, r.summaries, 5)
	for i, s := range r.summaries {
		// each render matches a snapshot taken from the same state
		total := decimal.Zero
		for _, it := range s.Items {
			total = total.Add(it.LinePrice())
		}
		assert.True(t, total.Equal(s.TotalPrice), "render %d", i)
	}
	assert.Equal(t, 3, r.summaries[2].Items[0].Quantity)
}

func TestSummaryIsACopy(t *testing.T) {
	m := NewManager()
	m.AddItem(pizza)

	s := m.Summary()
	s.Items[0].Quantity = 99

	assert.Equal(t, 1, m.Summary().Items[0].Quantity)
}

func TestSubscribeRendersCurrentState(t *testing.T) {
	m := NewManager()
	m.AddItem(soda)

	var got []Summary
	m.Subscribe(RendererFunc(func(s Summary) { got = append(got, s) }))

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].TotalItemCount)

	m.AddItem(soda)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1].TotalItemCount)
}

func TestFlashOnlyOnAdd(t *testing.T) {
	flashes := 0
	m := NewManager(WithFlasher(FlasherFunc(func() { flashes++ })))

	m.AddItem(pizza)
	m.AddItem(pizza)
	m.SetQuantity(pizza.ID, 5)
	m.RemoveItem(pizza.ID)
	m.Clear()

	assert.Equal(t, 2, flashes)
}

func TestMaxQuantityClamps(t *testing.T) {
	m := NewManager(WithMaxQuantity(3))
	for i := 0; i < 5; i++ {
		m.AddItem(soda)
	}
	assert.Equal(t, 3, m.Summary().Items[0].Quantity)

	m.SetQuantity(soda.ID, 10)
	assert.Equal(t, 3, m.Summary().Items[0].Quantity)

	m.SetQuantity(soda.ID, 2)
	assert.Equal(t, 2, m.Summary().Items[0].Quantity)
}

func TestUnboundedByDefault(t *testing.T) {
	m := NewManager()
	m.AddItem(soda)
	m.SetQuantity(soda.ID, 10000)
	assert.Equal(t, 10000, m.Summary().Items[0].Quantity)
}

func TestConfirmersRunInOrder(t *testing.T) {
	var calls []string
	m := NewManager(
		WithConfirmer(ConfirmerFunc(func(OrderConfirmation) { calls = append(calls, "notice") })),
		WithConfirmer(ConfirmerFunc(func(OrderConfirmation) { calls = append(calls, "audit") })),
	)
	m.AddItem(soda)

	_, err := m.PlaceOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"notice", "audit"}, calls)
}
