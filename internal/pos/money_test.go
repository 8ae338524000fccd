package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalsBurgerAndSoda(t *testing.T) {
	// 2x Burger @ 250, 1x Soda @ 80, 10% tax
	items := []OrderItem{line(burger, 2), line(soda, 1)}
	subtotal, tax, total := Totals(items, 1000)
	assert.Equal(t, int64(580), subtotal)
	assert.Equal(t, int64(58), tax)
	assert.Equal(t, int64(638), total)
}

func TestTaxRounding(t *testing.T) {
	cases := []struct {
		subtotal int64
		rateBps  int
		want     int64
	}{
		{580, 1000, 58},
		{575, 1000, 58}, // 57.5 rounds up
		{574, 1000, 57}, // 57.4 rounds down
		{100, 0, 0},     // tax-free deployment
		{333, 1550, 52}, // 51.615
		{0, 1000, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TaxCents(c.subtotal, c.rateBps), "subtotal=%d rate=%d", c.subtotal, c.rateBps)
	}
}

func TestTotalsConsistentForAnyItemSequence(t *testing.T) {
	c := NewCart()
	check := func() {
		items := c.Items()
		subtotal, tax, total := Totals(items, 1000)
		var manual int64
		for _, it := range items {
			manual += it.UnitPriceCents * int64(it.Quantity)
		}
		assert.Equal(t, manual, subtotal)
		assert.Equal(t, subtotal+tax, total)
	}

	check()
	_ = c.AddItem(burger, "", 2)
	check()
	_ = c.AddItem(coffee, "large", 1)
	check()
	c.SetQuantity(coffee.ID, "large", 5)
	check()
	c.RemoveItem(burger.ID, "")
	check()
	_ = c.AddItem(soda, "", 3)
	c.SetQuantity(soda.ID, "", 0)
	check()
}
