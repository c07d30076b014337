package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kasir/internal/repositories"
	"kasir/internal/services"
)

func newCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	catalog := services.NewCatalogService(repositories.NewMockCatalogSource(repositories.SampleMenu()), zap.NewNop())
	require.NoError(t, catalog.FetchCatalog(context.Background()))
	return catalog
}

func TestCartService_AddItem(t *testing.T) {
	cart := services.NewCartService(newCatalog(t), zap.NewNop())

	_, err := cart.AddItem(1, []string{"gift-wrap"})
	require.NoError(t, err)
	got, err := cart.AddItem(1, []string{"gift-wrap"})
	require.NoError(t, err)

	require.Len(t, got.Lines, 1)
	assert.Equal(t, "1-gift-wrap", got.Lines[0].LineID)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, "26", got.Subtotal.String())
	assert.Equal(t, 2, cart.ItemCount())
}

func TestCartService_AddItemErrors(t *testing.T) {
	cart := services.NewCartService(newCatalog(t), zap.NewNop())

	_, err := cart.AddItem(99, nil)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = cart.AddItem(1, []string{"jetpack"})
	assert.ErrorIs(t, err, services.ErrUnknownAddOn)

	assert.Empty(t, cart.Cart().Lines)
}

func TestCartService_EditLines(t *testing.T) {
	cart := services.NewCartService(newCatalog(t), zap.NewNop())

	_, err := cart.AddItem(2, nil)
	require.NoError(t, err)
	_, err = cart.AddItem(4, nil)
	require.NoError(t, err)

	got := cart.UpdateQuantity("2-", 3)
	assert.Equal(t, "48.5", got.Subtotal.String())

	got, err = cart.UpdateItem("2-", []string{"warranty", "gift-wrap"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "2-gift-wrap,warranty", got.Lines[0].LineID)
	assert.Equal(t, "31.5", got.Subtotal.String())

	_, err = cart.UpdateItem("2-gift-wrap,warranty", []string{"nope"}, 1)
	assert.ErrorIs(t, err, services.ErrUnknownAddOn)

	got = cart.RemoveItem("4-")
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "28", got.Subtotal.String())

	got = cart.UpdateQuantity("2-gift-wrap,warranty", 0)
	assert.Empty(t, got.Lines)
	assert.True(t, got.Subtotal.IsZero())

	_, err = cart.AddItem(3, nil)
	require.NoError(t, err)
	got = cart.ClearCart()
	assert.Empty(t, got.Lines)
	assert.Equal(t, 0, cart.ItemCount())
}
