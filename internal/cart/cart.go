package cart

import (
	"github.com/google/uuid"

	"example.com/edueat/services/cafeteria/internal/models"
)

// Line is one (menu item, notes) entry in a cart. Quantity is always >= 1;
// a line that would drop to zero is removed instead.
type Line struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes"`
}

// Catalog resolves current menu prices for cart totals.
type Catalog interface {
	PriceOf(id uuid.UUID) (float64, bool)
}

// Cart is a session-scoped selection of menu items. It is never persisted;
// it lives for a single ordering session and is discarded on submission.
type Cart struct {
	lines []Line
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add inserts a new line or increments an existing line with the same
// (item id, notes) pair by one. Distinct notes produce distinct lines even
// for the same item.
func (c *Cart) Add(itemID uuid.UUID, notes string) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == itemID && c.lines[i].Notes == notes {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{MenuItemID: itemID, Quantity: 1, Notes: notes})
}

// AdjustQuantity changes the matching line's quantity by delta, removing
// the line entirely when the result is <= 0. Lines that do not exist are
// left alone.
func (c *Cart) AdjustQuantity(itemID uuid.UUID, notes string, delta int) {
	for i := range c.lines {
		if c.lines[i].MenuItemID != itemID || c.lines[i].Notes != notes {
			continue
		}
		c.lines[i].Quantity += delta
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Total sums current catalog price times quantity over all lines. A line
// whose item is missing from the catalog contributes zero rather than
// failing the whole total.
func (c *Cart) Total(catalog Catalog) float64 {
	var total float64
	for _, line := range c.lines {
		price, ok := catalog.PriceOf(line.MenuItemID)
		if !ok {
			continue
		}
		total += price * float64(line.Quantity)
	}
	return total
}

// Lines returns a copy of the cart's lines
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// MenuCatalog adapts a slice of menu items into a Catalog
type MenuCatalog map[uuid.UUID]float64

// NewMenuCatalog builds a price lookup from menu items
func NewMenuCatalog(items []models.MenuItem) MenuCatalog {
	catalog := make(MenuCatalog, len(items))
	for _, item := range items {
		catalog[item.ID] = item.Price
	}
	return catalog
}

// PriceOf returns the catalog price for an item
func (m MenuCatalog) PriceOf(id uuid.UUID) (float64, bool) {
	price, ok := m[id]
	return price, ok
}
