package cart

import (
	"math"

	"restaurant-client/internal/models"
)

// SlotKey identifies one line of a cart. Two added items land in the
// same slot only when both the menu item id and the customization note
// match; an empty note equals no note.
type SlotKey struct {
	ItemID string `json:"item_id"`
	Note   string `json:"note,omitempty"`
}

// Line is one slot: a menu item snapshot, its quantity and note, plus
// display-only local reviews. The snapshot is taken at add time; later
// menu changes do not reach the cart.
type Line struct {
	Item     models.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
	Note     string          `json:"note,omitempty"`
	Reviews  []string        `json:"reviews,omitempty"`
}

// Key returns the slot identity of this line.
func (l *Line) Key() SlotKey {
	return SlotKey{ItemID: l.Item.ID, Note: l.Note}
}

// Total returns unit price × quantity for this line. Lines whose price
// or quantity cannot be read as a valid non-negative number contribute
// zero instead of aborting the computation; they stay visible in the
// cart. This defensive policy is deliberate, not a bug to fix.
func (l *Line) Total() float64 {
	if !validPrice(l.Item.Price) || l.Quantity < 1 {
		return 0
	}
	return l.Item.Price * float64(l.Quantity)
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// Op names a cart mutation for change notifications.
type Op string

const (
	OpAdd      Op = "add"
	OpQuantity Op = "quantity"
	OpRemove   Op = "remove"
	OpClear    Op = "clear"
	OpReview   Op = "review"
)

// Change is delivered to subscribers after every mutation, carrying the
// freshly recomputed grand total.
type Change struct {
	Op    Op
	Key   SlotKey
	Total float64
}

// Cart is an ordered collection of lines keyed by slot identity. The
// order is insertion order and carries no meaning. Not safe for
// concurrent use; all mutations happen on one logical thread.
type Cart struct {
	lines []*Line
	subs  []func(Change)
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from previously snapshotted lines, preserving
// their order. Used by the view layer to carry a cart across commands.
func Restore(lines []Line) *Cart {
	c := New()
	for i := range lines {
		line := lines[i]
		c.lines = append(c.lines, &line)
	}
	return c
}

// Subscribe registers a change listener invoked synchronously after
// every mutation.
func (c *Cart) Subscribe(fn func(Change)) {
	c.subs = append(c.subs, fn)
}

func (c *Cart) notify(op Op, key SlotKey) {
	ch := Change{Op: op, Key: key, Total: c.Total()}
	for _, fn := range c.subs {
		fn(ch)
	}
}

// AddItem merges the item into an existing slot with the same id and
// note, incrementing its quantity, or appends a new quantity-1 slot.
// The line total is always re-derived from the unit price rather than
// accumulated, so repeated merges cannot pick up rounding drift.
// AddItem never fails.
func (c *Cart) AddItem(item models.MenuItem, note string) {
	key := SlotKey{ItemID: item.ID, Note: note}
	if l := c.find(key); l != nil {
		l.Quantity++
		c.notify(OpAdd, key)
		return
	}
	c.lines = append(c.lines, &Line{Item: item, Quantity: 1, Note: note})
	c.notify(OpAdd, key)
}

// ChangeQuantity adjusts a slot's quantity by the signed delta, clamped
// so the quantity never drops below 1: decreasing a quantity-1 slot is
// a no-op, not a removal. Removal is only ever explicit via RemoveItem.
// Unknown keys are ignored.
func (c *Cart) ChangeQuantity(key SlotKey, delta int) {
	l := c.find(key)
	if l == nil {
		return
	}
	q := l.Quantity + delta
	if q < 1 {
		q = 1
	}
	l.Quantity = q
	c.notify(OpQuantity, key)
}

// RemoveItem deletes the slot entirely regardless of quantity.
// Idempotent: removing an absent key is a no-op.
func (c *Cart) RemoveItem(key SlotKey) {
	for i, l := range c.lines {
		if l.Key() == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.notify(OpRemove, key)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.notify(OpClear, SlotKey{})
}

// AddReview attaches a display-only comment to every slot holding the
// given item. Reviews never leave the cart; they are not sent remotely.
func (c *Cart) AddReview(itemID, text string) {
	found := false
	for _, l := range c.lines {
		if l.Item.ID == itemID {
			l.Reviews = append(l.Reviews, text)
			found = true
		}
	}
	if found {
		c.notify(OpReview, SlotKey{ItemID: itemID})
	}
}

// Total recomputes the grand total fresh from the current lines. Calling
// it twice without a mutation yields the same value.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Total()
	}
	return total
}

// Len returns the number of slots.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a deep copy of the current slots in insertion order.
func (c *Cart) Lines() []Line {
	return c.Snapshot()
}

// Snapshot returns a read-only deep copy of the cart contents, the form
// handed to checkout and to the session store.
func (c *Cart) Snapshot() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		line := *l
		if l.Reviews != nil {
			line.Reviews = append([]string(nil), l.Reviews...)
		}
		if l.Item.Tags != nil {
			line.Item.Tags = append([]string(nil), l.Item.Tags...)
		}
		if l.Item.Ingredients != nil {
			line.Item.Ingredients = append([]string(nil), l.Item.Ingredients...)
		}
		if l.Item.Reviews != nil {
			line.Item.Reviews = append([]models.Review(nil), l.Item.Reviews...)
		}
		out = append(out, line)
	}
	return out
}

func (c *Cart) find(key SlotKey) *Line {
	for _, l := range c.lines {
		if l.Key() == key {
			return l
		}
	}
	return nil
}
