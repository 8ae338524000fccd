package pos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartMergesSameProductAndVariant(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(coffee, "large", 1))
	require.NoError(t, c.AddItem(coffee, "large", 2))
	require.NoError(t, c.AddItem(coffee, "small", 1))

	items := c.Items()
	require.Len(t, items, 2, "same product+variant merges, different variant stays separate")
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "large", items[0].Variant)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCartSnapshotsNameAndPrice(t *testing.T) {
	c := NewCart()
	p := Product{ID: "p1", Name: "Original Name", PriceCents: 100, IsAvailable: true}
	require.NoError(t, c.AddItem(p, "", 1))

	// a later catalog edit must not leak into the staged line
	p.Name = "Renamed"
	p.PriceCents = 999

	items := c.Items()
	assert.Equal(t, "Original Name", items[0].ProductName)
	assert.Equal(t, int64(100), items[0].UnitPriceCents)
}

func TestCartRejectsUnavailableProduct(t *testing.T) {
	c := NewCart()
	p := burger
	p.IsAvailable = false
	assert.ErrorIs(t, c.AddItem(p, "", 1), ErrProductUnavailable)
	assert.Empty(t, c.Items())
}

func TestCartQuantityRules(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(burger, "", 0)) // clamps to 1
	assert.Equal(t, 1, c.Items()[0].Quantity)

	c.SetQuantity(burger.ID, "", 4)
	assert.Equal(t, 4, c.Items()[0].Quantity)

	c.SetQuantity(burger.ID, "", 0) // dropping to zero removes the line
	assert.Empty(t, c.Items())
}

func TestCartDraftEmptyFails(t *testing.T) {
	c := NewCart()
	_, err := c.Draft("", "")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCartTableAssignmentDrivesOrderType(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(burger, "", 1))

	d, err := c.Draft("Alice", "")
	require.NoError(t, err)
	assert.Equal(t, TypeTakeaway, d.Type)
	assert.Empty(t, d.TableID)

	c.AssignTable(&Table{ID: "t1", Name: "Table 1"})
	d, err = c.Draft("Alice", "")
	require.NoError(t, err)
	assert.Equal(t, TypeDineIn, d.Type)
	assert.Equal(t, "t1", d.TableID)

	c.AssignTable(nil) // back to takeaway
	d, err = c.Draft("Alice", "")
	require.NoError(t, err)
	assert.Equal(t, TypeTakeaway, d.Type)
}

func TestCommitResetsCartOnSuccessOnly(t *testing.T) {
	ctx := context.Background()
	mgr, _, _ := newTestManager(newTestStore(), DefaultPolicy)

	c := NewCart()
	require.NoError(t, c.AddItem(burger, "", 2))
	require.NoError(t, c.AddItem(soda, "", 1))
	c.AssignTable(&Table{ID: "t1", Name: "Table 1"})

	order, err := mgr.Commit(ctx, c, "Bob", "no onions")
	require.NoError(t, err)
	assert.Equal(t, int64(638), order.TotalCents)
	assert.Equal(t, "Bob", order.CustomerName)
	assert.Empty(t, c.Items(), "successful commit clears the cart")
	assert.Nil(t, c.Table(), "table assignment passes to the order")

	// table 1 is now occupied; a second commit against it must fail and
	// must leave the losing cart intact
	c2 := NewCart()
	require.NoError(t, c2.AddItem(coffee, "small", 1))
	c2.AssignTable(&Table{ID: "t1", Name: "Table 1"})
	_, err = mgr.Commit(ctx, c2, "Carol", "")
	var conflict *TableConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Len(t, c2.Items(), 1, "failed commit keeps the cart")
	require.NotNil(t, c2.Table())
}

func TestCartRegistryIsolatesTerminals(t *testing.T) {
	reg := NewCartRegistry()
	a := reg.Get("counter-1")
	b := reg.Get("counter-2")
	require.NotSame(t, a, b)

	require.NoError(t, a.AddItem(burger, "", 1))
	assert.Empty(t, b.Items())
	assert.Same(t, a, reg.Get("counter-1"))

	reg.Discard("counter-1")
	assert.Empty(t, reg.Get("counter-1").Items())
}
