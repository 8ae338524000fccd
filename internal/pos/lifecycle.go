package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Store is the authoritative order set. It is the final arbiter: creation
// enforces the one-active-order-per-table rule, and UpdateOrderStatus is a
// compare-and-set (apply target only while the current status is still in
// origins) so concurrent transitions on one order serialize instead of
// overwriting each other.
type Store interface {
	CreateOrder(ctx context.Context, draft OrderDraft, subtotal, tax, total int64) (Order, error)
	// UpdateOrderStatus returns the updated order and the status it left.
	// A miss (order moved, or already terminal) is an *InvalidTransitionError.
	UpdateOrderStatus(ctx context.Context, id string, target Status, origins []Status) (Order, Status, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetTable(ctx context.Context, id string) (Table, error)
	ListTables(ctx context.Context) ([]Table, error)
}

// Catalog supplies product snapshots at cart-build time.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
}

// Publisher is the notification sink. Publishing happens after the store has
// committed; a sink failure never rolls a transition back, which is why this
// matches the async producer's fire-and-forget signature.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Manager owns the order lifecycle: it validates drafts, prices them, drives
// every status change through the store's compare-and-set, and emits events.
type Manager struct {
	store      Store
	policy     TransitionPolicy
	settings   Settings
	pubCreated Publisher // topic pos.order.created
	pubStatus  Publisher // topic pos.order.status
	producer   string
}

func NewManager(store Store, policy TransitionPolicy, settings Settings, pubCreated, pubStatus Publisher, producer string) *Manager {
	return &Manager{
		store:      store,
		policy:     policy,
		settings:   settings,
		pubCreated: pubCreated,
		pubStatus:  pubStatus,
		producer:   producer,
	}
}

func (m *Manager) Settings() Settings { return m.settings }

// Commit turns a cart into an order. The cart is reset only once the store
// has accepted the draft, so a rejected commit (empty cart, table conflict,
// transport error) leaves the terminal's cart untouched.
func (m *Manager) Commit(ctx context.Context, cart *Cart, customerName, notes string) (Order, error) {
	draft, err := cart.Draft(customerName, notes)
	if err != nil {
		return Order{}, err
	}
	order, err := m.Create(ctx, draft)
	if err != nil {
		return Order{}, err
	}
	cart.Reset()
	return order, nil
}

// Create validates and prices a draft and hands it to the store, which
// assigns id, number and timestamp and sets status to preparing atomically.
func (m *Manager) Create(ctx context.Context, draft OrderDraft) (Order, error) {
	if len(draft.Items) == 0 {
		return Order{}, ErrEmptyCart
	}
	for _, it := range draft.Items {
		if it.Quantity < 1 {
			return Order{}, fmt.Errorf("line %q: quantity must be at least 1", it.ProductName)
		}
	}
	switch draft.Type {
	case TypeDineIn:
		if draft.TableID == "" {
			return Order{}, fmt.Errorf("dine-in order requires a table")
		}
	case TypeTakeaway:
		if draft.TableID != "" {
			return Order{}, fmt.Errorf("takeaway order cannot reference a table")
		}
	default:
		return Order{}, fmt.Errorf("unknown order type %q", draft.Type)
	}

	subtotal, tax, total := Totals(draft.Items, m.settings.TaxRateBps)
	order, err := m.store.CreateOrder(ctx, draft, subtotal, tax, total)
	if err != nil {
		return Order{}, err
	}
	m.publish(m.pubCreated, EventOrderCreated, order.ID, OrderCreatedPayload{
		OrderID:      order.ID,
		OrderNumber:  order.Number,
		Type:         order.Type,
		TableID:      order.TableID,
		CustomerName: order.CustomerName,
		Items:        order.Items,
		TotalCents:   order.TotalCents,
	})
	return order, nil
}

// Transition moves an order along the status graph. Validation and apply are
// one store round-trip; when two terminals race for the same order, the loser
// observes the already-changed state as an InvalidTransitionError.
func (m *Manager) Transition(ctx context.Context, orderID string, target Status) (Order, error) {
	if !ValidStatus(target) {
		return Order{}, fmt.Errorf("unknown status %q", target)
	}
	// an empty origin set (nothing may reach target) still goes through the
	// store so the error carries the order's actual current status
	order, from, err := m.store.UpdateOrderStatus(ctx, orderID, target, m.policy.OriginsFor(target))
	if err != nil {
		return Order{}, err
	}
	m.publish(m.pubStatus, EventOrderStatusChanged, order.ID, OrderStatusChangedPayload{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		From:        from,
		To:          target,
		ChangedAt:   order.UpdatedAt,
	})
	return order, nil
}

func (m *Manager) Get(ctx context.Context, orderID string) (Order, error) {
	return m.store.GetOrder(ctx, orderID)
}

func (m *Manager) List(ctx context.Context) ([]Order, error) {
	return m.store.ListOrders(ctx)
}

func (m *Manager) GetTableByID(ctx context.Context, id string) (Table, error) {
	return m.store.GetTable(ctx, id)
}

func (m *Manager) Tables(ctx context.Context) ([]Table, error) {
	return m.store.ListTables(ctx)
}

func (m *Manager) publish(pub Publisher, eventType, orderID string, payload any) {
	if pub == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      m.producer,
		CorrelationID: orderID,
		Payload:       mustMarshal(payload),
	}
	pub.Publish(PartitionKey(orderID), mustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
