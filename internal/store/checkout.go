package store

import (
	"time"

	"github.com/shopspring/decimal"

	"kasir/internal/models"
)

// TimestampLayout is the sortable UTC layout of receipt timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ServiceChargeRate is the surcharge applied to the subtotal at checkout.
var ServiceChargeRate = decimal.RequireFromString("0.10")

// CheckoutState holds the receipt of the last completed order, if any.
type CheckoutState struct {
	Receipt *models.Receipt `json:"receipt"`
}

// CheckoutAction is an action understood by ReduceCheckout.
type CheckoutAction interface {
	checkoutAction()
}

// GenerateReceipt snapshots Cart into a receipt. At and OrderID are supplied
// by the caller so that the reducer stays deterministic.
type GenerateReceipt struct {
	Cart    models.Cart
	At      time.Time
	OrderID string
}

// ClearReceipt discards the active receipt.
type ClearReceipt struct{}

func (GenerateReceipt) checkoutAction() {}
func (ClearReceipt) checkoutAction()    {}

// ServiceCharge is ServiceChargeRate of subtotal, rounded to cents.
func ServiceCharge(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(ServiceChargeRate).Round(2)
}

// ReduceCheckout applies action to state.
func ReduceCheckout(state CheckoutState, action CheckoutAction) CheckoutState {
	switch a := action.(type) {
	case GenerateReceipt:
		charge := ServiceCharge(a.Cart.Subtotal)
		lines := models.CloneLines(a.Cart.Lines)
		if lines == nil {
			lines = []models.CartLine{}
		}
		state.Receipt = &models.Receipt{
			OrderID:       a.OrderID,
			Lines:         lines,
			Subtotal:      a.Cart.Subtotal,
			ServiceCharge: charge,
			Total:         a.Cart.Subtotal.Add(charge),
			Timestamp:     a.At.UTC().Format(TimestampLayout),
		}

	case ClearReceipt:
		state.Receipt = nil
	}
	return state
}

// CurrentReceipt returns the active receipt.
func CurrentReceipt(state CheckoutState) (models.Receipt, bool) {
	if state.Receipt == nil {
		return models.Receipt{}, false
	}
	return *state.Receipt, true
}

// Total is the total of the active receipt, or zero.
func Total(state CheckoutState) decimal.Decimal {
	if state.Receipt == nil {
		return decimal.Zero
	}
	return state.Receipt.Total
}
