package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kasir/internal/models"
	"kasir/internal/store"
)

var (
	// ErrProductNotFound is returned when a product id is not in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrUnknownAddOn is returned when an add-on id is not offered.
	ErrUnknownAddOn = errors.New("unknown add-on")
)

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	ProductByID(id int) (models.Product, bool)
}

// CartService handles cart commands.
type CartService struct {
	store    *store.Store[models.Cart, store.CartAction]
	products ProductLookup
	logger   *zap.Logger
}

// NewCartService creates a new CartService resolving products through
// products.
func NewCartService(products ProductLookup, logger *zap.Logger) *CartService {
	return &CartService{
		store:    store.New(store.InitialCart(), store.ReduceCart),
		products: products,
		logger:   logger.Named("cart"),
	}
}

// Cart returns the current cart.
func (s *CartService) Cart() models.Cart {
	return s.store.State()
}

// ItemCount returns the number of units in the cart.
func (s *CartService) ItemCount() int {
	return store.ItemCount(s.store.State())
}

// AddItem adds one unit of the catalog product productID with the given
// add-ons.
func (s *CartService) AddItem(productID int, addOnIDs []string) (models.Cart, error) {
	product, ok := s.products.ProductByID(productID)
	if !ok {
		return s.Cart(), fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	addOns, err := resolveAddOns(addOnIDs)
	if err != nil {
		return s.Cart(), err
	}
	return s.AddProduct(product, addOns), nil
}

// AddProduct adds one unit of product with addOns.
func (s *CartService) AddProduct(product models.Product, addOns []models.AddOn) models.Cart {
	cart := s.store.Dispatch(store.AddItem{Product: product, AddOns: addOns})
	s.logger.Debug("item added",
		zap.String("line_id", store.LineID(product.ID, addOns)),
		zap.String("subtotal", cart.Subtotal.String()),
	)
	return cart
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (s *CartService) UpdateQuantity(lineID string, quantity int) models.Cart {
	return s.store.Dispatch(store.UpdateQuantity{LineID: lineID, Quantity: quantity})
}

// RemoveItem deletes a line.
func (s *CartService) RemoveItem(lineID string) models.Cart {
	return s.store.Dispatch(store.RemoveItem{LineID: lineID})
}

// UpdateItem changes the add-ons and quantity of a line.
func (s *CartService) UpdateItem(lineID string, addOnIDs []string, quantity int) (models.Cart, error) {
	addOns, err := resolveAddOns(addOnIDs)
	if err != nil {
		return s.Cart(), err
	}
	return s.store.Dispatch(store.UpdateItem{LineID: lineID, AddOns: addOns, Quantity: quantity}), nil
}

// ClearCart empties the cart.
func (s *CartService) ClearCart() models.Cart {
	return s.store.Dispatch(store.ClearCart{})
}

// Drain empties the cart and returns what it held, as one store step.
func (s *CartService) Drain() models.Cart {
	prev, _ := s.store.Exchange(store.ClearCart{})
	return prev
}

func resolveAddOns(ids []string) ([]models.AddOn, error) {
	addOns, err := models.LookupAddOns(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAddOn, err)
	}
	return addOns, nil
}
