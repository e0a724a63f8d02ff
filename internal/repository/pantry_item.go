package repository

import (
	"context"
	"errors"

	"pantryapi/internal/model"
)

// ErrDuplicateBarcode is returned when a write would give two live items the same barcode.
var ErrDuplicateBarcode = errors.New("barcode already exists")

// PantryItemRepository defines data access for pantry items using SQL queries only.
// Lookups that match no row return sql.ErrNoRows.
type PantryItemRepository interface {
	// Create inserts a new row. The ID of item is ignored; the stored record is returned with its assigned ID.
	Create(ctx context.Context, item *model.PantryItem) (*model.PantryItem, error)

	// FindByID returns a single item by its ID.
	FindByID(ctx context.Context, id int64) (*model.PantryItem, error)

	// List returns items in storage order using offset/limit.
	List(ctx context.Context, pq PageQuery) ([]model.PantryItem, error)

	// Update overwrites every column of the row identified by item.ID.
	Update(ctx context.Context, item *model.PantryItem) (*model.PantryItem, error)

	// Delete removes a row by ID.
	Delete(ctx context.Context, id int64) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}
