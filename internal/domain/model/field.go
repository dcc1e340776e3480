package model

import "fmt"

// EditField names one editable cell of the items table.
type EditField string

const (
	FieldQuantity EditField = "quantity"
	FieldUOM      EditField = "uom"
	FieldDiscount EditField = "discount_percentage"
	FieldRate     EditField = "standard_rate"
)

// Numeric reports whether commits into the field must parse as a number.
// The unit of measure is the only free-text field.
func (f EditField) Numeric() bool {
	return f != FieldUOM
}

// ParseEditField validates a field name coming from configuration or the wire.
func ParseEditField(s string) (EditField, error) {
	switch EditField(s) {
	case FieldQuantity, FieldUOM, FieldDiscount, FieldRate:
		return EditField(s), nil
	}
	return "", fmt.Errorf("unknown edit field %q", s)
}

// DefaultFieldOrder is the traversal used by the main items table. Other
// table variants inject their own order (some jump quantity straight to rate).
func DefaultFieldOrder() []EditField {
	return []EditField{FieldQuantity, FieldUOM, FieldDiscount}
}
