package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []Order {
	return []Order{
		{ID: "a", Number: 42, CustomerName: "Alice", Status: StatusPreparing},
		{ID: "b", Number: 423, CustomerName: "Bob", Status: StatusServed},
		{ID: "c", Number: 7, CustomerName: "alison smith", Status: StatusBilled},
		{ID: "d", Number: 100, Status: StatusCancelled},
	}
}

func TestSearchByNumberSubstring(t *testing.T) {
	got := SearchOrders(sampleOrders(), "42", "")
	require.Len(t, got, 2, "42 matches order 42 and order 423")
	assert.Equal(t, int64(42), got[0].Number)
	assert.Equal(t, int64(423), got[1].Number)
}

func TestSearchByCustomerNameCaseInsensitive(t *testing.T) {
	got := SearchOrders(sampleOrders(), "ALI", "")
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].CustomerName)
	assert.Equal(t, "alison smith", got[1].CustomerName)
}

func TestSearchStatusFilter(t *testing.T) {
	// text matches but the status filter excludes it
	got := SearchOrders(sampleOrders(), "42", string(StatusServed))
	require.Len(t, got, 1)
	assert.Equal(t, int64(423), got[0].Number)

	got = SearchOrders(sampleOrders(), "", string(StatusCancelled))
	require.Len(t, got, 1)
	assert.Equal(t, "d", got[0].ID)
}

func TestSearchAllAndEmptyMatchEverything(t *testing.T) {
	orders := sampleOrders()
	assert.Len(t, SearchOrders(orders, "", ""), len(orders))
	assert.Len(t, SearchOrders(orders, "", StatusAll), len(orders))
}

func TestSearchNoMatch(t *testing.T) {
	assert.Empty(t, SearchOrders(sampleOrders(), "zzz", ""))
	assert.Empty(t, SearchOrders(sampleOrders(), "42", string(StatusBilled)))
}

func TestSearchIsIdempotentAndPreservesSourceOrder(t *testing.T) {
	orders := sampleOrders()
	first := SearchOrders(orders, "", "")
	second := SearchOrders(orders, "", "")
	assert.Equal(t, first, second)
	for i := range first {
		assert.Equal(t, orders[i].ID, first[i].ID)
	}
}
