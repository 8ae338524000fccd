package pos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed Store and Catalog. Order numbers come from an
// identity column, so they stay unique and strictly increasing across
// restarts. Status updates are a single conditional UPDATE: the database,
// not the terminal, decides whether a transition still applies.
type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, number, type, table_id, table_name, customer_name, notes,
	subtotal_cents, tax_cents, total_cents, status, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var tableID, tableName, customer, notes *string
	err := row.Scan(&o.ID, &o.Number, &o.Type, &tableID, &tableName, &customer, &notes,
		&o.SubtotalCents, &o.TaxCents, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	if tableID != nil {
		o.TableID = *tableID
	}
	if tableName != nil {
		o.TableName = *tableName
	}
	if customer != nil {
		o.CustomerName = *customer
	}
	if notes != nil {
		o.Notes = *notes
	}
	return o, nil
}

// CreateOrder inserts the order and its items in one transaction. For
// dine-in the parent table row is locked first, so two concurrent commits
// against the same table serialize and the second sees the conflict.
func (r *Repo) CreateOrder(ctx context.Context, draft OrderDraft, subtotal, tax, total int64) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var tableID *string
	var tableName string
	if draft.Type == TypeDineIn {
		err := tx.QueryRow(ctx, `SELECT name FROM tables WHERE id=$1 FOR UPDATE`, draft.TableID).Scan(&tableName)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrTableNotFound
		} else if err != nil {
			return Order{}, err
		}
		var activeNumber int64
		err = tx.QueryRow(ctx, `
			SELECT number FROM orders
			WHERE table_id=$1 AND status IN ('preparing','served')`, draft.TableID).Scan(&activeNumber)
		if err == nil {
			return Order{}, &TableConflictError{TableID: draft.TableID, OrderNumber: activeNumber}
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return Order{}, err
		}
		tableID = &draft.TableID
	}

	orderID := uuid.NewString()
	row := tx.QueryRow(ctx, `
		INSERT INTO orders(id, type, table_id, table_name, customer_name, notes,
		                   subtotal_cents, tax_cents, total_cents, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'preparing')
		RETURNING `+orderColumns,
		orderID, draft.Type, tableID, nullable(tableName), nullable(draft.CustomerName),
		nullable(draft.Notes), subtotal, tax, total)
	order, err := scanOrder(row)
	if err != nil {
		return Order{}, err
	}

	for i, it := range draft.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, position, product_id, product_name, variant,
			                        quantity, unit_price_cents, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			orderID, i, it.ProductID, it.ProductName, nullable(it.Variant),
			it.Quantity, it.UnitPriceCents, nullable(it.Notes))
		if err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	order.Items = append([]OrderItem(nil), draft.Items...)
	return order, nil
}

// UpdateOrderStatus is the compare-and-set: the row is locked, its current
// status checked against origins, only then written. A losing racer gets the
// winner's already-applied status back inside an InvalidTransitionError
// instead of overwriting it, and the change event carries that exact prior
// status.
func (r *Repo) UpdateOrderStatus(ctx context.Context, id string, target Status, origins []Status) (Order, Status, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var prev Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, "", ErrOrderNotFound
	} else if err != nil {
		return Order{}, "", err
	}

	allowed := false
	for _, s := range origins {
		if s == prev {
			allowed = true
			break
		}
	}
	if !allowed {
		return Order{}, "", &InvalidTransitionError{From: prev, To: target}
	}

	order, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, updated_at=now()
		WHERE id=$1
		RETURNING `+orderColumns, id, target))
	if err != nil {
		return Order{}, "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, "", err
	}
	order.Items, err = r.itemsFor(ctx, id)
	if err != nil {
		return Order{}, "", err
	}
	return order, prev, nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (Order, error) {
	order, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	} else if err != nil {
		return Order{}, err
	}
	order.Items, err = r.itemsFor(ctx, id)
	return order, err
}

func (r *Repo) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	index := map[string]int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	irows, err := r.DB.Query(ctx, `
		SELECT order_id, product_id, product_name, variant, quantity, unit_price_cents, notes
		FROM order_items ORDER BY order_id, position`)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var orderID string
		var it OrderItem
		var variant, notes *string
		if err := irows.Scan(&orderID, &it.ProductID, &it.ProductName, &variant,
			&it.Quantity, &it.UnitPriceCents, &notes); err != nil {
			return nil, err
		}
		if variant != nil {
			it.Variant = *variant
		}
		if notes != nil {
			it.Notes = *notes
		}
		if i, ok := index[orderID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, irows.Err()
}

func (r *Repo) itemsFor(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, product_name, variant, quantity, unit_price_cents, notes
		FROM order_items WHERE order_id=$1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		var variant, notes *string
		if err := rows.Scan(&it.ProductID, &it.ProductName, &variant,
			&it.Quantity, &it.UnitPriceCents, &notes); err != nil {
			return nil, err
		}
		if variant != nil {
			it.Variant = *variant
		}
		if notes != nil {
			it.Notes = *notes
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) GetTable(ctx context.Context, id string) (Table, error) {
	var t Table
	err := r.DB.QueryRow(ctx, `SELECT id, name, capacity FROM tables WHERE id=$1`, id).
		Scan(&t.ID, &t.Name, &t.Capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Table{}, ErrTableNotFound
	}
	return t, err
}

func (r *Repo) ListTables(ctx context.Context) ([]Table, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, capacity FROM tables ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, price_cents, variants, is_available, category_id, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.PriceCents, &p.Variants, &p.IsAvailable, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price_cents, variants, is_available, category_id, created_at, updated_at
		FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Variants, &p.IsAvailable,
			&p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LoadSettings reads the single settings row, falling back to defaults on an
// empty table.
func (r *Repo) LoadSettings(ctx context.Context) (Settings, error) {
	s := Settings{Currency: "Rs.", TaxRateBps: 1000}
	err := r.DB.QueryRow(ctx, `SELECT currency, tax_rate_bps FROM settings LIMIT 1`).
		Scan(&s.Currency, &s.TaxRateBps)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, nil
	} else if err != nil {
		return Settings{}, err
	}
	return s, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
