package pos

import (
	"sync"
)

// Cart is the per-terminal staging area for an order. It is local state: two
// terminals never share a cart, and nothing in it is visible to other views
// until Commit turns it into an order. The mutex only guards against
// concurrent requests from the same terminal session.
type Cart struct {
	mu    sync.Mutex
	items []OrderItem
	table *Table
}

func NewCart() *Cart { return &Cart{} }

// AddItem appends a line for the product, or bumps quantity when the same
// product+variant is already in the cart. Name and price are snapshotted here.
func (c *Cart) AddItem(p Product, variant string, quantity int) error {
	if !p.IsAvailable {
		return ErrProductUnavailable
	}
	if quantity < 1 {
		quantity = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ProductID == p.ID && c.items[i].Variant == variant {
			c.items[i].Quantity += quantity
			return nil
		}
	}
	c.items = append(c.items, OrderItem{
		ProductID:      p.ID,
		ProductName:    p.Name,
		Variant:        variant,
		Quantity:       quantity,
		UnitPriceCents: p.PriceCents,
	})
	return nil
}

func (c *Cart) RemoveItem(productID, variant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID, variant)
}

func (c *Cart) removeLocked(productID, variant string) {
	for i := range c.items {
		if c.items[i].ProductID == productID && c.items[i].Variant == variant {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity pins a line to quantity n; n <= 0 removes the line.
func (c *Cart) SetQuantity(productID, variant string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 {
		c.removeLocked(productID, variant)
		return
	}
	for i := range c.items {
		if c.items[i].ProductID == productID && c.items[i].Variant == variant {
			c.items[i].Quantity = n
			return
		}
	}
}

func (c *Cart) SetItemNotes(productID, variant, notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ProductID == productID && c.items[i].Variant == variant {
			c.items[i].Notes = notes
			return
		}
	}
}

// AssignTable marks the pending order dine-in at t; nil switches to takeaway.
// This is terminal focus only -- occupancy is derived from committed orders.
func (c *Cart) AssignTable(t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = t
}

func (c *Cart) Table() *Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil {
		return nil
	}
	t := *c.table
	return &t
}

func (c *Cart) Items() []OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]OrderItem, len(c.items))
	copy(out, c.items)
	return out
}

// Draft snapshots the cart as an order draft without clearing it. The
// lifecycle manager resets the cart only after the store accepts the order,
// so a failed commit leaves the cart intact.
func (c *Cart) Draft(customerName, notes string) (OrderDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return OrderDraft{}, ErrEmptyCart
	}
	d := OrderDraft{
		Type:         TypeTakeaway,
		CustomerName: customerName,
		Notes:        notes,
		Items:        make([]OrderItem, len(c.items)),
	}
	copy(d.Items, c.items)
	if c.table != nil {
		d.Type = TypeDineIn
		d.TableID = c.table.ID
	}
	return d, nil
}

// Reset empties the cart and releases the table assignment.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.table = nil
}

// CartRegistry hands out one cart per terminal id, creating on first use.
type CartRegistry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewCartRegistry() *CartRegistry {
	return &CartRegistry{carts: make(map[string]*Cart)}
}

func (r *CartRegistry) Get(terminal string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[terminal]
	if !ok {
		c = NewCart()
		r.carts[terminal] = c
	}
	return c
}

// Discard drops a terminal's cart without committing it.
func (r *CartRegistry) Discard(terminal string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, terminal)
}
