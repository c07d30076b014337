package store_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir/internal/models"
	"kasir/internal/store"
)

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

var (
	burger = models.Product{ID: 1, Name: "Burger", Price: decimal.NewFromInt(10), Category: "food"}
	pizza  = models.Product{ID: 2, Name: "Pizza", Price: decimal.NewFromInt(20), Category: "food"}
	cheese = models.AddOn{ID: "cheese", Name: "Cheese", Price: decimal.NewFromInt(2)}
	bacon  = models.AddOn{ID: "bacon", Name: "Bacon", Price: decimal.RequireFromString("3.50")}
)

func reduceAll(actions ...store.CartAction) models.Cart {
	cart := store.InitialCart()
	for _, a := range actions {
		cart = store.ReduceCart(cart, a)
	}
	return cart
}

func assertSubtotal(t *testing.T, want string, cart models.Cart) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(cart.Subtotal),
		"subtotal: want %s, got %s", want, cart.Subtotal)
}

func TestLineID(t *testing.T) {
	tests := []struct {
		name   string
		addOns []models.AddOn
		want   string
	}{
		{name: "no add-ons", addOns: nil, want: "1-"},
		{name: "single add-on", addOns: []models.AddOn{cheese}, want: "1-cheese"},
		{name: "sorted ids", addOns: []models.AddOn{cheese, bacon}, want: "1-bacon,cheese"},
		{name: "selection order is irrelevant", addOns: []models.AddOn{bacon, cheese}, want: "1-bacon,cheese"},
		{name: "repeated id counts once", addOns: []models.AddOn{cheese, cheese}, want: "1-cheese"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.LineID(1, tt.addOns))
		})
	}
}

func TestReduceCart_AddItem(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		cart := reduceAll(store.AddItem{Product: burger})

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "Burger", cart.Lines[0].Name)
		assert.Equal(t, 1, cart.Lines[0].Quantity)
		assert.Equal(t, "1-", cart.Lines[0].LineID)
		assertSubtotal(t, "10", cart)
	})

	t.Run("same item twice collapses", func(t *testing.T) {
		cart := reduceAll(
			store.AddItem{Product: burger},
			store.AddItem{Product: burger},
		)

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 2, cart.Lines[0].Quantity)
		assertSubtotal(t, "20", cart)
	})

	t.Run("add-on order does not split lines", func(t *testing.T) {
		cart := reduceAll(
			store.AddItem{Product: burger, AddOns: []models.AddOn{cheese, bacon}},
			store.AddItem{Product: burger, AddOns: []models.AddOn{bacon, cheese}},
		)

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 2, cart.Lines[0].Quantity)
		assert.Equal(t, "1-bacon,cheese", cart.Lines[0].LineID)
		assertSubtotal(t, "31", cart)
	})

	t.Run("different add-ons make separate lines", func(t *testing.T) {
		cart := reduceAll(
			store.AddItem{Product: burger},
			store.AddItem{Product: burger, AddOns: []models.AddOn{cheese}},
		)

		require.Len(t, cart.Lines, 2)
		assert.Empty(t, cart.Lines[0].AddOns)
		assert.Len(t, cart.Lines[1].AddOns, 1)
		assert.Equal(t, 1, cart.Lines[0].Quantity)
		assert.Equal(t, 1, cart.Lines[1].Quantity)
		assertSubtotal(t, "22", cart)
	})

	t.Run("add-ons priced into subtotal", func(t *testing.T) {
		cart := reduceAll(store.AddItem{Product: burger, AddOns: []models.AddOn{cheese}})
		assertSubtotal(t, "12", cart)
	})
}

func TestReduceCart_UpdateQuantity(t *testing.T) {
	base := reduceAll(store.AddItem{Product: burger})

	tests := []struct {
		name      string
		action    store.UpdateQuantity
		wantLines int
		wantQty   int
		wantTotal string
	}{
		{name: "absolute set", action: store.UpdateQuantity{LineID: "1-", Quantity: 5}, wantLines: 1, wantQty: 5, wantTotal: "50"},
		{name: "zero removes", action: store.UpdateQuantity{LineID: "1-", Quantity: 0}, wantLines: 0, wantTotal: "0"},
		{name: "negative removes", action: store.UpdateQuantity{LineID: "1-", Quantity: -3}, wantLines: 0, wantTotal: "0"},
		{name: "unknown line is a no-op", action: store.UpdateQuantity{LineID: "99-", Quantity: 4}, wantLines: 1, wantQty: 1, wantTotal: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := store.ReduceCart(base, tt.action)

			require.Len(t, cart.Lines, tt.wantLines)
			if tt.wantLines > 0 {
				assert.Equal(t, tt.wantQty, cart.Lines[0].Quantity)
			}
			assertSubtotal(t, tt.wantTotal, cart)
		})
	}
}

func TestReduceCart_RemoveItem(t *testing.T) {
	cart := reduceAll(
		store.AddItem{Product: burger},
		store.AddItem{Product: pizza},
	)

	cart = store.ReduceCart(cart, store.RemoveItem{LineID: "1-"})
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "2-", cart.Lines[0].LineID)
	assertSubtotal(t, "20", cart)

	cart = store.ReduceCart(cart, store.RemoveItem{LineID: "1-"})
	require.Len(t, cart.Lines, 1)
	assertSubtotal(t, "20", cart)
}

func TestReduceCart_UpdateItem(t *testing.T) {
	t.Run("replaces in place under new identity", func(t *testing.T) {
		cart := reduceAll(
			store.AddItem{Product: burger},
			store.AddItem{Product: pizza},
		)

		cart = store.ReduceCart(cart, store.UpdateItem{LineID: "1-", AddOns: []models.AddOn{cheese}, Quantity: 3})

		require.Len(t, cart.Lines, 2)
		assert.Equal(t, "1-cheese", cart.Lines[0].LineID)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
		assert.Equal(t, "2-", cart.Lines[1].LineID)
		assertSubtotal(t, "56", cart)
	})

	t.Run("collision merges by summing", func(t *testing.T) {
		cart := reduceAll(
			store.AddItem{Product: burger, AddOns: []models.AddOn{cheese}},
			store.AddItem{Product: pizza},
			store.AddItem{Product: burger},
		)

		cart = store.ReduceCart(cart, store.UpdateItem{LineID: "1-", AddOns: []models.AddOn{cheese}, Quantity: 2})

		require.Len(t, cart.Lines, 2)
		assert.Equal(t, "1-cheese", cart.Lines[0].LineID)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
		assert.Equal(t, "2-", cart.Lines[1].LineID)
		assertSubtotal(t, "56", cart)
	})

	t.Run("same add-ons only changes quantity", func(t *testing.T) {
		cart := reduceAll(store.AddItem{Product: burger, AddOns: []models.AddOn{cheese}})

		cart = store.ReduceCart(cart, store.UpdateItem{LineID: "1-cheese", AddOns: []models.AddOn{cheese}, Quantity: 4})

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 4, cart.Lines[0].Quantity)
		assertSubtotal(t, "48", cart)
	})

	t.Run("zero quantity removes", func(t *testing.T) {
		cart := reduceAll(store.AddItem{Product: burger})

		cart = store.ReduceCart(cart, store.UpdateItem{LineID: "1-", Quantity: 0})

		assert.Empty(t, cart.Lines)
		assertSubtotal(t, "0", cart)
	})

	t.Run("unknown line is a no-op", func(t *testing.T) {
		before := reduceAll(store.AddItem{Product: burger})

		after := store.ReduceCart(before, store.UpdateItem{LineID: "7-", Quantity: 2})

		assert.Empty(t, cmp.Diff(before, after, decimalComparer))
	})
}

func TestReduceCart_ClearCart(t *testing.T) {
	cart := reduceAll(
		store.AddItem{Product: burger},
		store.AddItem{Product: pizza, AddOns: []models.AddOn{cheese}},
		store.ClearCart{},
	)

	assert.Empty(t, cart.Lines)
	assertSubtotal(t, "0", cart)
}

func TestReduceCart_DoesNotMutatePriorState(t *testing.T) {
	before := reduceAll(store.AddItem{Product: burger, AddOns: []models.AddOn{cheese}})
	snapshot := models.Cart{Lines: models.CloneLines(before.Lines), Subtotal: before.Subtotal}

	_ = store.ReduceCart(before, store.AddItem{Product: burger, AddOns: []models.AddOn{cheese}})
	_ = store.ReduceCart(before, store.UpdateItem{LineID: "1-cheese", AddOns: []models.AddOn{bacon}, Quantity: 9})
	_ = store.ReduceCart(before, store.ClearCart{})

	assert.Empty(t, cmp.Diff(snapshot, before, decimalComparer))
}

func TestReduceCart_SubtotalHoldsAfterEveryMutation(t *testing.T) {
	products := make([]models.Product, 5)
	for i := range products {
		products[i] = models.Product{
			ID:       i + 1,
			Name:     gofakeit.ProductName(),
			Price:    decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
			Category: gofakeit.ProductCategory(),
		}
	}
	addOnSets := [][]models.AddOn{nil, {cheese}, {bacon}, {cheese, bacon}}

	cart := store.InitialCart()
	for step := 0; step < 300; step++ {
		var action store.CartAction
		lineID := ""
		if len(cart.Lines) > 0 {
			lineID = cart.Lines[gofakeit.Number(0, len(cart.Lines)-1)].LineID
		}

		switch gofakeit.Number(0, 5) {
		case 0, 1:
			action = store.AddItem{
				Product: products[gofakeit.Number(0, len(products)-1)],
				AddOns:  addOnSets[gofakeit.Number(0, len(addOnSets)-1)],
			}
		case 2:
			action = store.UpdateQuantity{LineID: lineID, Quantity: gofakeit.Number(-1, 6)}
		case 3:
			action = store.RemoveItem{LineID: lineID}
		case 4:
			action = store.UpdateItem{
				LineID:   lineID,
				AddOns:   addOnSets[gofakeit.Number(0, len(addOnSets)-1)],
				Quantity: gofakeit.Number(0, 4),
			}
		default:
			if gofakeit.Number(0, 9) == 0 {
				action = store.ClearCart{}
			} else {
				action = store.AddItem{Product: products[0]}
			}
		}

		cart = store.ReduceCart(cart, action)

		want := decimal.Zero
		seen := make(map[string]bool)
		for _, l := range cart.Lines {
			require.Positive(t, l.Quantity, "step %d: %#v", step, action)
			require.False(t, seen[l.LineID], "step %d: duplicate line %s", step, l.LineID)
			seen[l.LineID] = true
			require.Equal(t, store.LineID(l.ID, l.AddOns), l.LineID)

			unit := l.Price
			for _, a := range l.AddOns {
				unit = unit.Add(a.Price)
			}
			want = want.Add(unit.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		require.True(t, want.Equal(cart.Subtotal), "step %d: want %s, got %s", step, want, cart.Subtotal)
	}
}

func TestCartSelectors(t *testing.T) {
	cart := reduceAll(
		store.AddItem{Product: burger, AddOns: []models.AddOn{cheese}},
		store.AddItem{Product: burger, AddOns: []models.AddOn{cheese}},
		store.AddItem{Product: pizza},
	)

	assert.Equal(t, 3, store.ItemCount(cart))

	line, ok := store.LineByID(cart, "1-cheese")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, decimal.NewFromInt(12).Equal(line.UnitPrice()))
	assert.True(t, decimal.NewFromInt(24).Equal(line.Amount()))

	_, ok = store.LineByID(cart, "3-")
	assert.False(t, ok)
}
