package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// ProductRepo encapsulates database operations for products and their
// options.  Prices are stored as DECIMAL(10,2) and scanned through strings
// into decimal.Decimal values.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo given a DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `id, type, name, description, base_price, child_factor, infant_factor,
	early_surcharge, night_surcharge, round_trip_factor, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (model.Product, error) {
	var (
		p                                                 model.Product
		desc                                              sql.NullString
		base, child, infant, early, night, roundTripRatio string
	)
	err := row.Scan(&p.ID, &p.Type, &p.Name, &desc, &base, &child, &infant,
		&early, &night, &roundTripRatio, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	if p.BasePrice, err = decimal.NewFromString(base); err != nil {
		return p, err
	}
	if p.ChildFactor, err = decimal.NewFromString(child); err != nil {
		return p, err
	}
	if p.InfantFactor, err = decimal.NewFromString(infant); err != nil {
		return p, err
	}
	if p.EarlySurcharge, err = decimal.NewFromString(early); err != nil {
		return p, err
	}
	if p.NightSurcharge, err = decimal.NewFromString(night); err != nil {
		return p, err
	}
	if p.RoundTripFactor, err = decimal.NewFromString(roundTripRatio); err != nil {
		return p, err
	}
	return p, nil
}

// GetByID returns a single product regardless of its active flag.  It
// returns ErrProductNotFound when no row matches.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ? LIMIT 1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return p, ErrProductNotFound
	}
	return p, err
}

// ListByType returns all active products of one vertical ordered by name.
func (r *ProductRepo) ListByType(ctx context.Context, productType string) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE type = ? AND is_active = 1 ORDER BY name`,
		productType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a product and populates its generated ID.  Used by the
// admin CLI when seeding demo data.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (type, name, description, base_price, child_factor, infant_factor,
			early_surcharge, night_surcharge, round_trip_factor, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.Type, p.Name, p.Description, p.BasePrice.String(), p.ChildFactor.String(),
		p.InfantFactor.String(), p.EarlySurcharge.String(), p.NightSurcharge.String(),
		p.RoundTripFactor.String(), p.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Options returns the active options of a product ordered by name.
func (r *ProductRepo) Options(ctx context.Context, productID uint64) ([]model.ProductOption, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, name, price, is_active FROM product_options
		 WHERE product_id = ? AND is_active = 1 ORDER BY name`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOptions(rows)
}

// OptionsByIDs returns the active options matching the given ids for one
// product.  Unknown or inactive ids are simply absent from the result; the
// caller decides whether that is an error.
func (r *ProductRepo) OptionsByIDs(ctx context.Context, productID uint64, ids []uint64) ([]model.ProductOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, productID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, name, price, is_active FROM product_options
		 WHERE product_id = ? AND is_active = 1 AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOptions(rows)
}

// CreateOption inserts a product option and populates its generated ID.
func (r *ProductRepo) CreateOption(ctx context.Context, o *model.ProductOption) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO product_options (product_id, name, price, is_active) VALUES (?,?,?,?)`,
		o.ProductID, o.Name, o.Price.String(), o.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

func scanOptions(rows *sql.Rows) ([]model.ProductOption, error) {
	var out []model.ProductOption
	for rows.Next() {
		var (
			o     model.ProductOption
			price string
		)
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Name, &price, &o.IsActive); err != nil {
			return nil, err
		}
		var err error
		if o.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
