package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// CartRepo provides data access to the cart_items and cart_item_options
// tables.  Cart items double as capacity holds: each row accounts for a
// reservation on its inventory unit until expires_at.  All timestamp
// comparisons are performed in UTC.
type CartRepo struct {
	db *sql.DB
}

// NewCartRepo returns a new CartRepo bound to the provided database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span several repositories.
func (r *CartRepo) DB() *sql.DB { return r.db }

const cartItemColumns = `id, user_id, product_id, unit_id, adults, children, infants, quantity,
	round_trip, pickup_time, price_snapshot, hold_token, expires_at, created_at`

func scanCartItem(row interface{ Scan(...interface{}) error }) (model.CartItem, error) {
	var (
		it     model.CartItem
		pickup sql.NullString
		price  string
	)
	err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.UnitID,
		&it.Adults, &it.Children, &it.Infants, &it.Quantity,
		&it.RoundTrip, &pickup, &price, &it.HoldToken, &it.ExpiresAt, &it.CreatedAt)
	if err != nil {
		return it, err
	}
	if pickup.Valid {
		p := pickup.String
		it.PickupTime = &p
	}
	it.PriceSnapshot, err = decimal.NewFromString(price)
	return it, err
}

// CreateItemTx inserts a cart item and its selected options within the
// provided transaction.  The generated ID is populated on the item.  The
// caller must have reserved the capacity on the unit in the same
// transaction before calling this.
func (r *CartRepo) CreateItemTx(ctx context.Context, tx *sql.Tx, it *model.CartItem) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, unit_id, adults, children, infants, quantity,
			round_trip, pickup_time, price_snapshot, hold_token, expires_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		it.UserID, it.ProductID, it.UnitID, it.Adults, it.Children, it.Infants, it.Quantity,
		it.RoundTrip, it.PickupTime, it.PriceSnapshot.String(), it.HoldToken,
		it.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	if len(it.OptionIDs) == 0 {
		return nil
	}
	query := `INSERT INTO cart_item_options (cart_item_id, option_id) VALUES `
	args := make([]interface{}, 0, len(it.OptionIDs)*2)
	for i, oid := range it.OptionIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, it.ID, oid)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// ListByUser returns all cart items of a user, newest first, including the
// ids of their selected options.
func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range items {
		if err := r.loadOptionIDs(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *CartRepo) loadOptionIDs(ctx context.Context, it *model.CartItem) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT option_id FROM cart_item_options WHERE cart_item_id = ?`, it.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var oid uint64
		if err := rows.Scan(&oid); err != nil {
			return err
		}
		it.OptionIDs = append(it.OptionIDs, oid)
	}
	return rows.Err()
}

// GetForUserTx loads one cart item owned by the user under an exclusive row
// lock.  It returns ErrCartItemNotFound when no row matches.
func (r *CartRepo) GetForUserTx(ctx context.Context, tx *sql.Tx, itemID, userID uint64) (model.CartItem, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE id = ? AND user_id = ? FOR UPDATE`,
		itemID, userID)
	it, err := scanCartItem(row)
	if err == sql.ErrNoRows {
		return it, ErrCartItemNotFound
	}
	return it, err
}

// ActiveItemsByUserTx loads all non-expired cart items of a user under row
// locks, for checkout.  Options are loaded through the same transaction.
func (r *CartRepo) ActiveItemsByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]model.CartItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items
		 WHERE user_id = ? AND expires_at > UTC_TIMESTAMP() ORDER BY id FOR UPDATE`,
		userID)
	if err != nil {
		return nil, err
	}
	var items []model.CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	for i := range items {
		optRows, err := tx.QueryContext(ctx,
			`SELECT option_id FROM cart_item_options WHERE cart_item_id = ?`, items[i].ID)
		if err != nil {
			return nil, err
		}
		for optRows.Next() {
			var oid uint64
			if err := optRows.Scan(&oid); err != nil {
				optRows.Close()
				return nil, err
			}
			items[i].OptionIDs = append(items[i].OptionIDs, oid)
		}
		if err := optRows.Close(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// DeleteItemTx removes a cart item (options cascade via FK) within the
// provided transaction.
func (r *CartRepo) DeleteItemTx(ctx context.Context, tx *sql.Tx, itemID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, itemID)
	return err
}

// ExpiredItemsTx loads all cart items whose hold has lapsed, under row
// locks, so the sweeper can release their capacity and delete them in one
// transaction.  Limit bounds the batch size per sweep.
func (r *CartRepo) ExpiredItemsTx(ctx context.Context, tx *sql.Tx, limit int) ([]model.CartItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items
		 WHERE expires_at <= UTC_TIMESTAMP() ORDER BY expires_at LIMIT ? FOR UPDATE`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ExtendHoldTx pushes the expiry of a cart item forward, used when a client
// refreshes its hold before checkout.
func (r *CartRepo) ExtendHoldTx(ctx context.Context, tx *sql.Tx, itemID uint64, expiresAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE cart_items SET expires_at = ? WHERE id = ?`,
		expiresAt.UTC().Format("2006-01-02 15:04:05"), itemID)
	return err
}
