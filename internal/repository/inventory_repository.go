package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/travel-booking-platform/internal/booking"
	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// InventoryRepo provides data access to the inventory_units table and is
// the single write path for capacity counters.  Every mutation locks the
// unit row with SELECT ... FOR UPDATE for the duration of the
// read-check-write, applies the guarded transition from the booking
// package and persists the new counters inside the caller's transaction.
// Handlers, the sweeper and the admin CLI must never update the counters
// through raw SQL.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the provided database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span several repositories.
func (r *InventoryRepo) DB() *sql.DB { return r.db }

const unitColumns = `id, product_id, unit_date, variant, total_capacity, reserved_count, booked_count, created_at, updated_at`

func scanUnit(row interface{ Scan(...interface{}) error }) (model.InventoryUnit, error) {
	var u model.InventoryUnit
	err := row.Scan(&u.ID, &u.ProductID, &u.UnitDate, &u.Variant,
		&u.TotalCapacity, &u.ReservedCount, &u.BookedCount, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID returns a single unit without locking it, for read-only lookups
// such as event payloads.
func (r *InventoryRepo) GetByID(ctx context.Context, unitID uint64) (model.InventoryUnit, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+unitColumns+` FROM inventory_units WHERE id = ? LIMIT 1`, unitID)
	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return u, ErrUnitNotFound
	}
	return u, err
}

// GetByProductDateVariant resolves the unit a booking request targets.  It
// returns ErrUnitNotFound when the product has no slot for that date and
// variant.
func (r *InventoryRepo) GetByProductDateVariant(ctx context.Context, productID uint64, date time.Time, variant string) (model.InventoryUnit, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+unitColumns+` FROM inventory_units
		 WHERE product_id = ? AND unit_date = ? AND variant = ? LIMIT 1`,
		productID, date.UTC().Format("2006-01-02"), variant)
	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return u, ErrUnitNotFound
	}
	return u, err
}

// ListByProduct returns the units of a product within [from, to] ordered by
// date then variant, for the public availability endpoint.
func (r *InventoryRepo) ListByProduct(ctx context.Context, productID uint64, from, to time.Time) ([]model.InventoryUnit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+unitColumns+` FROM inventory_units
		 WHERE product_id = ? AND unit_date BETWEEN ? AND ?
		 ORDER BY unit_date, variant`,
		productID, from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.InventoryUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create inserts an inventory unit and populates its generated ID.  Used by
// the admin CLI when defining schedules.
func (r *InventoryRepo) Create(ctx context.Context, u *model.InventoryUnit) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory_units (product_id, unit_date, variant, total_capacity, reserved_count, booked_count)
		 VALUES (?,?,?,?,0,0)`,
		u.ProductID, u.UnitDate.UTC().Format("2006-01-02"), u.Variant, u.TotalCapacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// lockUnitTx loads a unit row under an exclusive row lock.  The lock is
// held until the surrounding transaction commits or rolls back, which
// serializes concurrent reservations against the same unit.
func (r *InventoryRepo) lockUnitTx(ctx context.Context, tx *sql.Tx, unitID uint64) (model.InventoryUnit, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+unitColumns+` FROM inventory_units WHERE id = ? FOR UPDATE`, unitID)
	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return u, ErrUnitNotFound
	}
	return u, err
}

func (r *InventoryRepo) saveCountsTx(ctx context.Context, tx *sql.Tx, u *model.InventoryUnit) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE inventory_units SET reserved_count = ?, booked_count = ? WHERE id = ?`,
		u.ReservedCount, u.BookedCount, u.ID)
	return err
}

// ReserveTx moves qty from available to reserved on the unit.  It returns
// booking.ErrInsufficientCapacity without any mutation when the unit cannot
// accommodate the quantity.
func (r *InventoryRepo) ReserveTx(ctx context.Context, tx *sql.Tx, unitID uint64, qty uint32) error {
	u, err := r.lockUnitTx(ctx, tx, unitID)
	if err != nil {
		return err
	}
	if err := booking.Reserve(&u, qty); err != nil {
		return err
	}
	return r.saveCountsTx(ctx, tx, &u)
}

// ConfirmTx moves qty from reserved to booked on the unit.
func (r *InventoryRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, unitID uint64, qty uint32) error {
	u, err := r.lockUnitTx(ctx, tx, unitID)
	if err != nil {
		return err
	}
	if err := booking.Confirm(&u, qty); err != nil {
		return err
	}
	return r.saveCountsTx(ctx, tx, &u)
}

// ReleaseReservedTx returns reserved quantity to the available pool,
// clamped at zero.  It reports the quantity actually released.
func (r *InventoryRepo) ReleaseReservedTx(ctx context.Context, tx *sql.Tx, unitID uint64, qty uint32) (uint32, error) {
	u, err := r.lockUnitTx(ctx, tx, unitID)
	if err != nil {
		return 0, err
	}
	released := booking.ReleaseReserved(&u, qty)
	if released == 0 {
		return 0, nil
	}
	return released, r.saveCountsTx(ctx, tx, &u)
}

// ReleaseBookedTx returns booked quantity to the available pool, clamped at
// zero.  It reports the quantity actually released.
func (r *InventoryRepo) ReleaseBookedTx(ctx context.Context, tx *sql.Tx, unitID uint64, qty uint32) (uint32, error) {
	u, err := r.lockUnitTx(ctx, tx, unitID)
	if err != nil {
		return 0, err
	}
	released := booking.ReleaseBooked(&u, qty)
	if released == 0 {
		return 0, nil
	}
	return released, r.saveCountsTx(ctx, tx, &u)
}
