package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pantryapi/internal/database"
	"pantryapi/internal/model"
	"pantryapi/internal/repository"
)

// barcodeConstraint names the unique constraint created by the migration.
const barcodeConstraint = "pantry_items_barcode_key"

const pantryItemColumns = `id, name, quantity, unit, added_date, barcode`

// PantryItemPostgres is a PostgreSQL implementation of repository.PantryItemRepository.
// Queries run on the request session attached to ctx when there is one, otherwise on the pool.
type PantryItemPostgres struct {
	db *sql.DB
}

// NewPantryItemPostgres creates a new PantryItemPostgres repository.
func NewPantryItemPostgres(db *sql.DB) *PantryItemPostgres {
	return &PantryItemPostgres{db: db}
}

var _ repository.PantryItemRepository = (*PantryItemPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPantryItem(row rowScanner) (*model.PantryItem, error) {
	var (
		item    model.PantryItem
		barcode sql.NullString
	)
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Quantity,
		&item.Unit,
		&item.AddedDate,
		&barcode,
	); err != nil {
		return nil, err
	}
	if barcode.Valid {
		item.Barcode = &barcode.String
	}
	item.AddedDate = item.AddedDate.UTC()
	return &item, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func translateWriteError(err error) error {
	if database.IsUniqueViolation(err, barcodeConstraint) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicateBarcode, err)
	}
	return err
}

// Create inserts a new row and returns the stored record with its generated id.
func (r *PantryItemPostgres) Create(ctx context.Context, item *model.PantryItem) (*model.PantryItem, error) {
	const q = `
		INSERT INTO pantry_items (name, quantity, unit, added_date, barcode)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + pantryItemColumns

	row := database.QuerierFromContext(ctx, r.db).QueryRowContext(ctx, q,
		item.Name,
		item.Quantity,
		item.Unit,
		item.AddedDate,
		nullableString(item.Barcode),
	)
	out, err := scanPantryItem(row)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return out, nil
}

// FindByID fetches a single item by its ID.
func (r *PantryItemPostgres) FindByID(ctx context.Context, id int64) (*model.PantryItem, error) {
	const q = `
		SELECT ` + pantryItemColumns + `
		FROM pantry_items
		WHERE id = $1
	`
	return scanPantryItem(database.QuerierFromContext(ctx, r.db).QueryRowContext(ctx, q, id))
}

// List returns items ordered by id, which follows insertion order.
func (r *PantryItemPostgres) List(ctx context.Context, pq repository.PageQuery) ([]model.PantryItem, error) {
	const q = `
		SELECT ` + pantryItemColumns + `
		FROM pantry_items
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := database.QuerierFromContext(ctx, r.db).QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PantryItem, 0)
	for rows.Next() {
		item, err := scanPantryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update overwrites every column of an existing row.
// It returns sql.ErrNoRows when the id does not exist.
func (r *PantryItemPostgres) Update(ctx context.Context, item *model.PantryItem) (*model.PantryItem, error) {
	const q = `
		UPDATE pantry_items
		SET name = $2, quantity = $3, unit = $4, added_date = $5, barcode = $6
		WHERE id = $1
		RETURNING ` + pantryItemColumns

	row := database.QuerierFromContext(ctx, r.db).QueryRowContext(ctx, q,
		item.ID,
		item.Name,
		item.Quantity,
		item.Unit,
		item.AddedDate,
		nullableString(item.Barcode),
	)
	out, err := scanPantryItem(row)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return out, nil
}

// Delete removes a row by ID. It returns sql.ErrNoRows when nothing was deleted.
func (r *PantryItemPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM pantry_items WHERE id = $1`
	res, err := database.QuerierFromContext(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
