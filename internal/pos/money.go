package pos

// All money is integer cents; floats never enter the arithmetic.

func SubtotalCents(items []OrderItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.UnitPriceCents * int64(it.Quantity)
	}
	return sum
}

// TaxCents applies a basis-point rate, rounding half up.
func TaxCents(subtotal int64, rateBps int) int64 {
	return (subtotal*int64(rateBps) + 5000) / 10000
}

// Totals fills the derived amounts: total = subtotal + tax, always.
func Totals(items []OrderItem, rateBps int) (subtotal, tax, total int64) {
	subtotal = SubtotalCents(items)
	tax = TaxCents(subtotal, rateBps)
	return subtotal, tax, subtotal + tax
}
