package pos

// Table occupancy is never stored: it is recomputed from the live order set
// on every read. Cancelling or billing a table's order makes the table
// available on the next recomputation, with no manual reset.

// ActiveOrderForTable returns the non-terminal order bound to the table, if
// any. The store guarantees there is at most one.
func ActiveOrderForTable(tableID string, orders []Order) (Order, bool) {
	for _, o := range orders {
		if o.TableID == tableID && !IsTerminal(o.Status) {
			return o, true
		}
	}
	return Order{}, false
}

func DeriveTableStatus(tableID string, orders []Order) TableStatus {
	if _, ok := ActiveOrderForTable(tableID, orders); ok {
		return TableOccupied
	}
	return TableAvailable
}

// TableView is what the floor screen shows per table: static registry data
// plus derived occupancy and, when occupied, the active order.
type TableView struct {
	Table       Table       `json:"table"`
	Status      TableStatus `json:"status"`
	OrderID     string      `json:"order_id,omitempty"`
	OrderNumber int64       `json:"order_number,omitempty"`
	TotalCents  int64       `json:"total_cents,omitempty"`
}

func BuildTableViews(tables []Table, orders []Order) []TableView {
	out := make([]TableView, 0, len(tables))
	for _, t := range tables {
		v := TableView{Table: t, Status: TableAvailable}
		if o, ok := ActiveOrderForTable(t.ID, orders); ok {
			v.Status = TableOccupied
			v.OrderID = o.ID
			v.OrderNumber = o.Number
			v.TotalCents = o.TotalCents
		}
		out = append(out, v)
	}
	return out
}
