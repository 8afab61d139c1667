package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-client/internal/models"
)

func menuItem(id string, price float64) models.MenuItem {
	return models.MenuItem{ID: id, Name: "Item " + id, Price: price}
}

func TestAddItem_MergesSameSlot(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.AddItem(menuItem("A", 10), "")

	require.Equal(t, 1, c.Len())
	lines := c.Lines()
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 20.0, lines[0].Total())
	assert.Equal(t, 20.0, c.Total())
}

func TestAddItem_NoteCreatesDistinctSlot(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.AddItem(menuItem("A", 10), "no onions")

	require.Equal(t, 2, c.Len())
	assert.Equal(t, 20.0, c.Total())

	// Empty note equals no note: merging back into the first slot.
	c.AddItem(menuItem("A", 10), "")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 30.0, c.Total())
}

func TestAddItem_LineTotalRederived(t *testing.T) {
	// Repeated merges must not accumulate rounding error: the line
	// total is unitPrice × count exactly, not a running sum.
	c := New()
	const count = 10
	for i := 0; i < count; i++ {
		c.AddItem(menuItem("A", 0.1), "")
	}

	lines := c.Lines()
	require.Equal(t, 1, c.Len())
	assert.Equal(t, count, lines[0].Quantity)
	assert.Equal(t, 0.1*float64(count), lines[0].Total())
	assert.Equal(t, 0.1*float64(count), c.Total())
}

func TestChangeQuantity(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.AddItem(menuItem("A", 10), "")
	key := SlotKey{ItemID: "A"}

	c.ChangeQuantity(key, -1)
	assert.Equal(t, 1, c.Lines()[0].Quantity)
	assert.Equal(t, 10.0, c.Total())

	// Decreasing from 1 clamps: a no-op, not a removal.
	c.ChangeQuantity(key, -1)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Lines()[0].Quantity)
	assert.Equal(t, 10.0, c.Total())

	c.ChangeQuantity(key, +1)
	assert.Equal(t, 2, c.Lines()[0].Quantity)
	assert.Equal(t, 20.0, c.Total())
}

func TestChangeQuantity_UnknownKeyIgnored(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.ChangeQuantity(SlotKey{ItemID: "missing"}, +1)
	assert.Equal(t, 10.0, c.Total())
}

func TestRemoveItem_Idempotent(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.AddItem(menuItem("A", 10), "")
	key := SlotKey{ItemID: "A"}

	c.RemoveItem(key)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.Total())

	// Removing an absent slot is a no-op, not an error.
	c.RemoveItem(key)
	assert.Equal(t, 0, c.Len())
}

func TestRemoveItem_OnlyMatchingNote(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.AddItem(menuItem("A", 10), "extra cheese")

	c.RemoveItem(SlotKey{ItemID: "A", Note: "extra cheese"})
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "", c.Lines()[0].Note)
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.AddItem(menuItem("B", 5), "")

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.Total())
}

func TestTotal_Idempotent(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 9.99), "")
	c.AddItem(menuItem("B", 4.5), "")
	c.AddItem(menuItem("B", 4.5), "")

	first := c.Total()
	second := c.Total()
	assert.Equal(t, first, second)
	assert.Equal(t, 9.99+4.5*2, first)
}

func TestTotal_InvalidLinesContributeZero(t *testing.T) {
	c := New()
	c.AddItem(menuItem("ok", 10), "")
	c.AddItem(menuItem("nan", math.NaN()), "")
	c.AddItem(menuItem("neg", -5), "")
	c.AddItem(menuItem("inf", math.Inf(1)), "")

	// Malformed prices are excluded from the total but the lines stay.
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 10.0, c.Total())
}

func TestAddReview(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.AddItem(menuItem("A", 10), "spicy")

	c.AddReview("A", "great value")

	for _, l := range c.Lines() {
		assert.Equal(t, []string{"great value"}, l.Reviews)
	}
	// Reviews are display-only annotations; the total is untouched.
	assert.Equal(t, 20.0, c.Total())
}

func TestSubscribe_NotifiedOnEveryMutation(t *testing.T) {
	c := New()
	var ops []Op
	var totals []float64
	c.Subscribe(func(ch Change) {
		ops = append(ops, ch.Op)
		totals = append(totals, ch.Total)
	})

	c.AddItem(menuItem("A", 10), "")
	c.ChangeQuantity(SlotKey{ItemID: "A"}, +1)
	c.RemoveItem(SlotKey{ItemID: "A"})
	c.Clear()

	assert.Equal(t, []Op{OpAdd, OpQuantity, OpRemove, OpClear}, ops)
	assert.Equal(t, []float64{10, 20, 0, 0}, totals)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "")
	c.AddReview("A", "first")

	snap := c.Snapshot()
	snap[0].Quantity = 99
	snap[0].Reviews[0] = "mutated"

	assert.Equal(t, 1, c.Lines()[0].Quantity)
	assert.Equal(t, "first", c.Lines()[0].Reviews[0])
}

func TestRestore_RoundTrip(t *testing.T) {
	c := New()
	c.AddItem(menuItem("A", 10), "no onions")
	c.AddItem(menuItem("B", 2.5), "")
	c.AddItem(menuItem("B", 2.5), "")

	restored := Restore(c.Snapshot())
	assert.Equal(t, c.Len(), restored.Len())
	assert.Equal(t, c.Total(), restored.Total())

	// The restored cart keeps slot identity: merging still works.
	restored.AddItem(menuItem("A", 10), "no onions")
	assert.Equal(t, 2, restored.Lines()[0].Quantity)
}
