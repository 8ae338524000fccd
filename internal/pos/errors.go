package pos

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("cart has no items")
	ErrOrderNotFound      = errors.New("order not found")
	ErrTableNotFound      = errors.New("table not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
)

// InvalidTransitionError: the requested edge is not in the status graph, or
// the order moved before the request was applied. Not transient, never retried.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// TableConflictError: the table is already bound to a non-terminal order.
type TableConflictError struct {
	TableID     string
	OrderNumber int64
}

func (e *TableConflictError) Error() string {
	return fmt.Sprintf("table %s is occupied by order #%d", e.TableID, e.OrderNumber)
}
