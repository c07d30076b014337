package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"kasir/internal/models"
	"kasir/internal/store"
)

var (
	// ErrEmptyCart is returned when completing an order with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoReceipt is returned when no order has been completed.
	ErrNoReceipt = errors.New("no active receipt")
)

// OrderEventPublisher announces completed orders.
type OrderEventPublisher interface {
	PublishOrderCompleted(ctx context.Context, receipt models.Receipt) error
}

// CheckoutService handles receipt generation and the complete-order flow.
type CheckoutService struct {
	store      *store.Store[store.CheckoutState, store.CheckoutAction]
	cart       *CartService
	publisher  OrderEventPublisher
	logger     *zap.Logger
	now        func() time.Time
	newOrderID func() string
	mu         sync.Mutex
}

// CheckoutOption customizes a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithClock sets the clock used for receipt timestamps.
func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

// WithOrderIDGenerator sets the generator of order ids.
func WithOrderIDGenerator(gen func() string) CheckoutOption {
	return func(s *CheckoutService) { s.newOrderID = gen }
}

// NewCheckoutService creates a new CheckoutService. publisher may be nil, in
// which case completed orders are not announced.
func NewCheckoutService(cart *CartService, publisher OrderEventPublisher, logger *zap.Logger, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		store:      store.New(store.CheckoutState{}, store.ReduceCheckout),
		cart:       cart,
		publisher:  publisher,
		logger:     logger.Named("checkout"),
		now:        time.Now,
		newOrderID: RandomOrderID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RandomOrderID returns a random 12-digit order number. It is a display
// label with no uniqueness guarantee.
func RandomOrderID() string {
	return fmt.Sprintf("%d", 100_000_000_000+rand.Int64N(900_000_000_000))
}

// GenerateReceipt turns a cart snapshot into the active receipt, replacing
// any previous one.
func (s *CheckoutService) GenerateReceipt(cart models.Cart) models.Receipt {
	state := s.store.Dispatch(store.GenerateReceipt{
		Cart:    cart,
		At:      s.now(),
		OrderID: s.newOrderID(),
	})
	return *state.Receipt
}

// CompleteOrder takes the cart's lines and empties it in one step, then
// generates the receipt from those lines. Commands landing after the drain
// stay in the cart for the next order.
func (s *CheckoutService) CompleteOrder(ctx context.Context) (models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.cart.Drain()
	if len(snapshot.Lines) == 0 {
		return models.Receipt{}, ErrEmptyCart
	}

	receipt := s.GenerateReceipt(snapshot)

	s.logger.Info("order completed",
		zap.String("order_id", receipt.OrderID),
		zap.Int("lines", len(receipt.Lines)),
		zap.String("total", receipt.Total.StringFixed(2)),
	)

	if s.publisher == nil {
		s.logger.Debug("no order publisher configured, skipping event")
		return receipt, nil
	}
	if err := s.publisher.PublishOrderCompleted(ctx, receipt); err != nil {
		s.logger.Warn("failed to publish order completed event",
			zap.String("order_id", receipt.OrderID),
			zap.Error(err),
		)
	}
	return receipt, nil
}

// StartNewOrder discards the active receipt.
func (s *CheckoutService) StartNewOrder() {
	s.store.Dispatch(store.ClearReceipt{})
}

// Receipt returns the active receipt.
func (s *CheckoutService) Receipt() (models.Receipt, error) {
	receipt, ok := store.CurrentReceipt(s.store.State())
	if !ok {
		return models.Receipt{}, ErrNoReceipt
	}
	return receipt, nil
}

// Total returns the total of the active receipt, or zero.
func (s *CheckoutService) Total() decimal.Decimal {
	return store.Total(s.store.State())
}

const ticketWidth = 28

// RenderTicket formats a receipt as a fixed-width text ticket. Each line
// shows the product amount followed by one row per add-on for the same
// quantity, so the amount column sums to the subtotal.
func RenderTicket(r models.Receipt) string {
	var b strings.Builder
	row := func(label string, amount decimal.Decimal) {
		fmt.Fprintf(&b, "%-*s %9s\n", ticketWidth, label, amount.StringFixed(2))
	}

	fmt.Fprintf(&b, "ORDER #%s\n", r.OrderID)
	fmt.Fprintf(&b, "%s\n", r.Timestamp)
	for _, l := range r.Lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		row(fmt.Sprintf("%dx %s", l.Quantity, l.Name), l.Price.Mul(qty))
		for _, a := range l.AddOns {
			row("   + "+a.Name, a.Price.Mul(qty))
		}
	}
	row("SUBTOTAL", r.Subtotal)
	row("SERVICE CHARGE (10%)", r.ServiceCharge)
	row("TOTAL", r.Total)
	return b.String()
}
