package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"kasir/internal/models"
)

// InitialCart is the empty cart.
func InitialCart() models.Cart {
	return models.Cart{Lines: []models.CartLine{}, Subtotal: decimal.Zero}
}

// CartAction is an action understood by ReduceCart.
type CartAction interface {
	cartAction()
}

// AddItem adds one unit of Product customized with AddOns.
type AddItem struct {
	Product models.Product
	AddOns  []models.AddOn
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
type UpdateQuantity struct {
	LineID   string
	Quantity int
}

// RemoveItem deletes the line LineID.
type RemoveItem struct{ LineID string }

// UpdateItem changes the add-ons and quantity of an existing line.
type UpdateItem struct {
	LineID   string
	AddOns   []models.AddOn
	Quantity int
}

// ClearCart removes every line.
type ClearCart struct{}

func (AddItem) cartAction()        {}
func (UpdateQuantity) cartAction() {}
func (RemoveItem) cartAction()     {}
func (UpdateItem) cartAction()     {}
func (ClearCart) cartAction()      {}

// LineID derives the identity of a cart line from the product id and the
// sorted ids of its add-ons, e.g. "1-express-ship,gift-wrap".
func LineID(productID int, addOns []models.AddOn) string {
	ids := make([]string, 0, len(addOns))
	for _, a := range addOns {
		ids = append(ids, a.ID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)
	return fmt.Sprintf("%d-%s", productID, strings.Join(ids, ","))
}

// ReduceCart applies action to cart. The subtotal of the result is always
// recomputed from its lines.
func ReduceCart(cart models.Cart, action CartAction) models.Cart {
	lines := models.CloneLines(cart.Lines)
	if lines == nil {
		lines = []models.CartLine{}
	}

	switch a := action.(type) {
	case AddItem:
		addOns := normalizeAddOns(a.AddOns)
		id := LineID(a.Product.ID, addOns)
		if i := indexOfLine(lines, id); i >= 0 {
			lines[i].Quantity++
		} else {
			lines = append(lines, models.CartLine{
				Product:  a.Product,
				Quantity: 1,
				AddOns:   addOns,
				LineID:   id,
			})
		}

	case UpdateQuantity:
		if i := indexOfLine(lines, a.LineID); i >= 0 {
			if a.Quantity <= 0 {
				lines = slices.Delete(lines, i, i+1)
			} else {
				lines[i].Quantity = a.Quantity
			}
		}

	case RemoveItem:
		if i := indexOfLine(lines, a.LineID); i >= 0 {
			lines = slices.Delete(lines, i, i+1)
		}

	case UpdateItem:
		lines = updateItem(lines, a)

	case ClearCart:
		lines = []models.CartLine{}
	}

	return models.Cart{Lines: lines, Subtotal: Subtotal(lines)}
}

func updateItem(lines []models.CartLine, a UpdateItem) []models.CartLine {
	i := indexOfLine(lines, a.LineID)
	if i < 0 {
		return lines
	}
	if a.Quantity <= 0 {
		return slices.Delete(lines, i, i+1)
	}

	addOns := normalizeAddOns(a.AddOns)
	newID := LineID(lines[i].Product.ID, addOns)

	if j := indexOfLine(lines, newID); j >= 0 && j != i {
		lines[j].Quantity += a.Quantity
		return slices.Delete(lines, i, i+1)
	}

	lines[i].AddOns = addOns
	lines[i].Quantity = a.Quantity
	lines[i].LineID = newID
	return lines
}

// normalizeAddOns returns the add-ons de-duplicated by id and ordered by id.
func normalizeAddOns(addOns []models.AddOn) []models.AddOn {
	out := make([]models.AddOn, 0, len(addOns))
	for _, a := range addOns {
		if !slices.ContainsFunc(out, func(b models.AddOn) bool { return b.ID == a.ID }) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b models.AddOn) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func indexOfLine(lines []models.CartLine, id string) int {
	return slices.IndexFunc(lines, func(l models.CartLine) bool { return l.LineID == id })
}

// Subtotal sums (price + add-on prices) * quantity over lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}
	return total
}

// ItemCount is the total number of units in the cart.
func ItemCount(cart models.Cart) int {
	n := 0
	for _, l := range cart.Lines {
		n += l.Quantity
	}
	return n
}

// LineByID looks up a cart line.
func LineByID(cart models.Cart, id string) (models.CartLine, bool) {
	if i := indexOfLine(cart.Lines, id); i >= 0 {
		return cart.Lines[i], true
	}
	return models.CartLine{}, false
}
