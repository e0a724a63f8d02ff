package model

import "time"

// Defaults applied when a caller leaves the field out.
const (
	DefaultQuantity = 0
	DefaultUnit     = "units"
)

// PantryItem is the stored representation of a household good.
// It carries no persistence or transport tags; see PantryItemInput and
// PantryItemOutput for the shapes exchanged with callers.
type PantryItem struct {
	ID        int64
	Name      string
	Quantity  int
	Unit      string
	AddedDate time.Time
	// Barcode is nil when the item has none. Non-nil values are unique across live items.
	Barcode *string
}
