package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/travel-booking-platform/internal/booking"
	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// OrderRepo provides CRUD operations for orders and order_items and hosts
// the duplicate-booking guard query.  Order items are immutable after
// creation; only the order status column changes afterwards, always inside
// a transaction together with the matching capacity mutation.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span several repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// activeStatusesIn builds the IN (...) fragment for the duplicate-booking
// guard from booking.ActiveOrderStatuses so both layers agree on what
// counts as an active order.
func activeStatusesIn() (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(booking.ActiveOrderStatuses)), ",")
	args := make([]interface{}, len(booking.ActiveOrderStatuses))
	for i, s := range booking.ActiveOrderStatuses {
		args[i] = s
	}
	return placeholders, args
}

// HasActiveBookingTx implements the duplicate-booking guard: it reports
// whether the user already has an order in a non-terminal state for the
// same product and travel date.  Running it inside the caller's transaction
// keeps the check and the subsequent insert atomic.
func (r *OrderRepo) HasActiveBookingTx(ctx context.Context, tx *sql.Tx, userID, productID uint64, date time.Time) (bool, error) {
	placeholders, statusArgs := activeStatusesIn()
	args := append([]interface{}{userID, productID, date.UTC().Format("2006-01-02")}, statusArgs...)
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			JOIN inventory_units iu ON iu.id = oi.unit_id
			WHERE o.user_id = ? AND oi.product_id = ? AND iu.unit_date = ?
			  AND o.status IN (`+placeholders+`))`,
		args...).Scan(&exists)
	return exists, err
}

// HasActiveBookingForUnitTx is the checkout-time variant of the guard: the
// travel date is taken from the inventory unit the cart item points at
// instead of being passed in.
func (r *OrderRepo) HasActiveBookingForUnitTx(ctx context.Context, tx *sql.Tx, userID, productID, unitID uint64) (bool, error) {
	placeholders, statusArgs := activeStatusesIn()
	args := append([]interface{}{unitID, userID, productID}, statusArgs...)
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			JOIN inventory_units iu ON iu.id = oi.unit_id
			JOIN inventory_units target ON target.id = ?
			WHERE o.user_id = ? AND oi.product_id = ? AND iu.unit_date = target.unit_date
			  AND o.status IN (`+placeholders+`))`,
		args...).Scan(&exists)
	return exists, err
}

// CreateTx inserts an order and its items within the provided transaction,
// populating the generated IDs.  Status should be a valid model.Order*
// constant; checkout always starts orders as PENDING.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order, items []model.OrderItem) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (reference, user_id, status, total_amount) VALUES (?,?,?,?)`,
		o.Reference, o.UserID, o.Status, o.TotalAmount.String())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, product_id, unit_id, adults, children, infants, quantity, price) VALUES `
	args := make([]interface{}, 0, len(items)*8)
	for i := range items {
		items[i].OrderID = o.ID
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?,?,?)"
		args = append(args, o.ID, items[i].ProductID, items[i].UnitID,
			items[i].Adults, items[i].Children, items[i].Infants,
			items[i].Quantity, items[i].Price.String())
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

const orderColumns = `id, reference, user_id, status, total_amount, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (model.Order, error) {
	var (
		o     model.Order
		total string
	)
	err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.Status, &total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	o.TotalAmount, err = decimal.NewFromString(total)
	return o, err
}

// GetForUpdateTx loads an order row under an exclusive lock so a status
// transition and its capacity side effect are serialized per order.  When
// userID is non-zero the order must belong to that user; a mismatch yields
// ErrForbidden so handlers can distinguish it from a missing order.
func (r *OrderRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, orderID, userID uint64) (model.Order, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ? FOR UPDATE`, orderID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return o, ErrOrderNotFound
	}
	if err != nil {
		return o, err
	}
	if userID != 0 && o.UserID != userID {
		return o, ErrForbidden
	}
	return o, nil
}

// UpdateStatusTx sets the order status within the provided transaction.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, orderID uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	return err
}

// ItemsTx returns the items of an order within the provided transaction,
// used by status transitions to apply capacity side effects per unit.
func (r *OrderRepo) ItemsTx(ctx context.Context, tx *sql.Tx, orderID uint64) ([]model.OrderItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, order_id, product_id, unit_id, adults, children, infants, quantity, price, created_at
		 FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderItems(rows)
}

// Items returns the items of an order outside a transaction, for read-only
// responses.
func (r *OrderRepo) Items(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, unit_id, adults, children, infants, quantity, price, created_at
		 FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderItems(rows)
}

func scanOrderItems(rows *sql.Rows) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for rows.Next() {
		var (
			it    model.OrderItem
			price string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.UnitID,
			&it.Adults, &it.Children, &it.Infants, &it.Quantity, &price, &it.CreatedAt); err != nil {
			return nil, err
		}
		var err error
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetByID returns a single order regardless of owner, for agent and CLI
// read paths.
func (r *OrderRepo) GetByID(ctx context.Context, orderID uint64) (model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ? LIMIT 1`, orderID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return o, ErrOrderNotFound
	}
	return o, err
}

// GetByIDForUser returns a single order owned by the user.  It returns
// ErrOrderNotFound for both a missing order and one owned by someone else
// so the API does not leak other users' order ids.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, orderID, userID uint64) (model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ? AND user_id = ? LIMIT 1`,
		orderID, userID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return o, ErrOrderNotFound
	}
	return o, err
}

// ListByUser returns all orders of a user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// List returns orders across all users, optionally filtered by status,
// newest first.  Used by agent endpoints and the admin CLI.
func (r *OrderRepo) List(ctx context.Context, status string, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE status = ? ORDER BY created_at DESC LIMIT ?`,
			status, limit)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]model.Order, error) {
	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
