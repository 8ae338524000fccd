package pos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-process Store and Catalog. It serializes every mutation
// behind one mutex, which gives the same per-order linearizability the
// Postgres store gets from its compare-and-set update. Used by tests and as
// a drop-in backend for single-node deployments.
type MemStore struct {
	mu         sync.RWMutex
	orders     []Order // creation order
	byID       map[string]int
	tables     map[string]Table
	tableOrder []string
	products   map[string]Product
	nextNumber int64

	now func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID:       make(map[string]int),
		tables:     make(map[string]Table),
		products:   make(map[string]Product),
		nextNumber: 1,
		now:        time.Now,
	}
}

// SetClock overrides the creation timestamp source. Test hook.
func (s *MemStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemStore) AddTable(t Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[t.ID]; !ok {
		s.tableOrder = append(s.tableOrder, t.ID)
	}
	s.tables[t.ID] = t
}

func (s *MemStore) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *MemStore) CreateOrder(ctx context.Context, draft OrderDraft, subtotal, tax, total int64) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tableName string
	if draft.Type == TypeDineIn {
		t, ok := s.tables[draft.TableID]
		if !ok {
			return Order{}, ErrTableNotFound
		}
		tableName = t.Name
		for _, o := range s.orders {
			if o.TableID == draft.TableID && !IsTerminal(o.Status) {
				return Order{}, &TableConflictError{TableID: draft.TableID, OrderNumber: o.Number}
			}
		}
	}

	now := s.now()
	order := Order{
		ID:            uuid.NewString(),
		Number:        s.nextNumber,
		Type:          draft.Type,
		TableID:       draft.TableID,
		TableName:     tableName,
		CustomerName:  draft.CustomerName,
		Notes:         draft.Notes,
		Items:         append([]OrderItem(nil), draft.Items...),
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
		Status:        StatusPreparing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.nextNumber++
	s.byID[order.ID] = len(s.orders)
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *MemStore) UpdateOrderStatus(ctx context.Context, id string, target Status, origins []Status) (Order, Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return Order{}, "", ErrOrderNotFound
	}
	cur := s.orders[i].Status
	for _, o := range origins {
		if cur == o {
			s.orders[i].Status = target
			s.orders[i].UpdatedAt = s.now()
			return s.orders[i], cur, nil
		}
	}
	return Order{}, "", &InvalidTransitionError{From: cur, To: target}
}

func (s *MemStore) GetOrder(ctx context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return s.orders[i], nil
}

func (s *MemStore) ListOrders(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

func (s *MemStore) GetTable(ctx context.Context, id string) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	if !ok {
		return Table{}, ErrTableNotFound
	}
	return t, nil
}

func (s *MemStore) ListTables(ctx context.Context) ([]Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Table, 0, len(s.tableOrder))
	for _, id := range s.tableOrder {
		out = append(out, s.tables[id])
	}
	return out, nil
}

func (s *MemStore) GetProduct(ctx context.Context, id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *MemStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}
