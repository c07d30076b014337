package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AddOn is a customization option that can be attached to a cart line.
type AddOn struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// AvailableAddOns is the fixed add-on catalog offered for every product.
var AvailableAddOns = []AddOn{
	{ID: "gift-wrap", Name: "Gift Wrapping", Price: decimal.NewFromInt(3)},
	{ID: "express-ship", Name: "Express Shipping", Price: decimal.NewFromInt(5)},
	{ID: "warranty", Name: "Extended Warranty", Price: decimal.NewFromInt(10)},
	{ID: "gift-card", Name: "Gift Card Message", Price: decimal.NewFromInt(1)},
	{ID: "premium-pack", Name: "Premium Packaging", Price: decimal.RequireFromString("2.50")},
}

// LookupAddOns resolves add-on ids against AvailableAddOns, keeping the
// requested order. Unknown ids are reported in the error.
func LookupAddOns(ids []string) ([]AddOn, error) {
	addOns := make([]AddOn, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		found := false
		for _, a := range AvailableAddOns {
			if a.ID == id {
				addOns = append(addOns, a)
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown add-on ids %v", unknown)
	}
	return addOns, nil
}
