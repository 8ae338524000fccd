package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/pos"
)

func newTestServer(t *testing.T) (*httptest.Server, *pos.MemStore) {
	t.Helper()
	store := pos.NewMemStore()
	store.AddTable(pos.Table{ID: "t1", Name: "Table 1", Capacity: 2})
	store.AddProduct(pos.Product{ID: "p-burger", Name: "Burger", PriceCents: 250, IsAvailable: true})
	store.AddProduct(pos.Product{ID: "p-soda", Name: "Soda", PriceCents: 80, IsAvailable: true})
	store.AddProduct(pos.Product{ID: "p-off", Name: "Off Menu", PriceCents: 100, IsAvailable: false})

	mgr := pos.NewManager(store, pos.DefaultPolicy, pos.Settings{Currency: "Rs.", TaxRateBps: 1000}, nil, nil, "pos-test")

	router := NewRouter()
	(&CartHandler{Carts: pos.NewCartRegistry(), Catalog: store, Manager: mgr}).Register(router)
	(&OrdersHandler{Manager: mgr, Catalog: store, UrgentAfter: pos.DefaultUrgentAfter}).Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCheckoutFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/counter-1/items",
		map[string]any{"product_id": "p-burger", "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/carts/counter-1/items",
		map[string]any{"product_id": "p-soda"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, srv.URL+"/carts/counter-1/table",
		map[string]any{"table_id": "t1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/carts/counter-1/checkout",
		map[string]any{"customer_name": "Alice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[pos.Order](t, resp)
	assert.Equal(t, pos.StatusPreparing, order.Status)
	assert.Equal(t, pos.TypeDineIn, order.Type)
	assert.Equal(t, int64(580), order.SubtotalCents)
	assert.Equal(t, int64(638), order.TotalCents)

	// the cart is empty again
	resp = doJSON(t, http.MethodGet, srv.URL+"/carts/counter-1", nil)
	view := decode[map[string]any](t, resp)
	assert.Empty(t, view["items"])

	// the table shows occupied with the active order
	resp = doJSON(t, http.MethodGet, srv.URL+"/tables", nil)
	tables := decode[[]pos.TableView](t, resp)
	require.Len(t, tables, 1)
	assert.Equal(t, pos.TableOccupied, tables[0].Status)
	assert.Equal(t, order.Number, tables[0].OrderNumber)
}

func TestCheckoutEmptyCart(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/c1/checkout", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddUnavailableProduct(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/c1/items", map[string]any{"product_id": "p-off"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTransitionEndpointAndConflicts(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/c1/items", map[string]any{"product_id": "p-burger"})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, srv.URL+"/carts/c1/checkout", map[string]any{})
	order := decode[pos.Order](t, resp)

	url := fmt.Sprintf("%s/orders/%s/status", srv.URL, order.ID)
	resp = doJSON(t, http.MethodPatch, url, map[string]any{"status": "served"})
	updated := decode[pos.Order](t, resp)
	assert.Equal(t, pos.StatusServed, updated.Status)

	resp = doJSON(t, http.MethodPatch, url, map[string]any{"status": "billed"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// billed is terminal: the next attempt conflicts and changes nothing
	resp = doJSON(t, http.MethodPatch, url, map[string]any{"status": "cancelled"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders/"+order.ID, nil)
	final := decode[pos.Order](t, resp)
	assert.Equal(t, pos.StatusBilled, final.Status)

	resp = doJSON(t, http.MethodPatch, srv.URL+"/orders/missing/status", map[string]any{"status": "served"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrdersSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	for i, name := range []string{"Alice", "Bob", "Carol"} {
		resp := doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/carts/c%d/items", i), map[string]any{"product_id": "p-soda"})
		resp.Body.Close()
		resp = doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/carts/c%d/checkout", i), map[string]any{"customer_name": name})
		resp.Body.Close()
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/orders?q=bob", nil)
	got := decode[[]pos.Order](t, resp)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].CustomerName)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders?status=served", nil)
	got = decode[[]pos.Order](t, resp)
	assert.Empty(t, got)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders?status=all", nil)
	got = decode[[]pos.Order](t, resp)
	assert.Len(t, got, 3)
}

func TestKitchenQueueEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/c1/items", map[string]any{"product_id": "p-burger"})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, srv.URL+"/carts/c1/checkout", map[string]any{})
	order := decode[pos.Order](t, resp)

	resp = doJSON(t, http.MethodGet, srv.URL+"/kitchen/queue", nil)
	tickets := decode[[]pos.Ticket](t, resp)
	require.Len(t, tickets, 1)
	assert.Equal(t, order.ID, tickets[0].Order.ID)
	assert.False(t, tickets[0].Urgent)

	// mark served from the kitchen display; the queue empties
	resp = doJSON(t, http.MethodPatch, srv.URL+"/orders/"+order.ID+"/status", map[string]any{"status": "served"})
	resp.Body.Close()
	resp = doJSON(t, http.MethodGet, srv.URL+"/kitchen/queue", nil)
	tickets = decode[[]pos.Ticket](t, resp)
	assert.Empty(t, tickets)
}
