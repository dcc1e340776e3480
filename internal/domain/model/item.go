package model

// WarehouseAllocation assigns part of a line quantity to a named warehouse.
type WarehouseAllocation struct {
	Warehouse string  `json:"warehouse"`
	Qty       float64 `json:"qty"`
}

// LineItem is a single product line inside a tab. ItemCode is unique within
// the owning tab's item list.
type LineItem struct {
	ItemCode        string                `json:"item_code"`
	ItemName        string                `json:"item_name"`
	UOM             string                `json:"uom"`
	Quantity        float64               `json:"quantity"`
	DiscountPercent float64               `json:"discount_percentage"`
	Rate            float64               `json:"standard_rate"`
	Allocations     []WarehouseAllocation `json:"warehouse_allocations,omitempty"`
}

// ItemUpdate carries a partial field merge for a LineItem. Nil fields are
// left untouched.
type ItemUpdate struct {
	Quantity        *float64
	UOM             *string
	DiscountPercent *float64
	Rate            *float64
	Allocations     []WarehouseAllocation
}

// Apply merges non-nil fields into the item.
func (u ItemUpdate) Apply(item *LineItem) {
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	if u.UOM != nil {
		item.UOM = *u.UOM
	}
	if u.DiscountPercent != nil {
		item.DiscountPercent = *u.DiscountPercent
	}
	if u.Rate != nil {
		item.Rate = *u.Rate
	}
	if u.Allocations != nil {
		item.Allocations = u.Allocations
	}
}
