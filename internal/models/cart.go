package models

import "github.com/shopspring/decimal"

// CartLine is one entry of the cart. Lines are keyed by LineID, which
// combines the product id with the sorted add-on ids.
type CartLine struct {
	Product
	Quantity int     `json:"quantity"`
	AddOns   []AddOn `json:"addOns"`
	LineID   string  `json:"cartItemId"`
}

// UnitPrice is the product price plus the price of every add-on.
func (l CartLine) UnitPrice() decimal.Decimal {
	price := l.Price
	for _, a := range l.AddOns {
		price = price.Add(a.Price)
	}
	return price
}

// Amount is the unit price times the quantity.
func (l CartLine) Amount() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered list of lines and their subtotal.
type Cart struct {
	Lines    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Receipt is the immutable snapshot produced by completing an order.
type Receipt struct {
	OrderID       string          `json:"orderId"`
	Lines         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	Total         decimal.Decimal `json:"total"`
	Timestamp     string          `json:"timestamp"`
}

// CloneLines deep-copies lines so the copy shares no add-on slices.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		addOns := make([]AddOn, len(l.AddOns))
		copy(addOns, l.AddOns)
		l.AddOns = addOns
		out[i] = l
	}
	return out
}
