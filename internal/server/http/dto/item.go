package dto

import "github.com/retailpoint/counterd/internal/domain/model"

// AddItemRequest describes the line item to append to a tab.
type AddItemRequest struct {
	ItemCode        string  `json:"item_code" binding:"required"`
	ItemName        string  `json:"item_name"`
	UOM             string  `json:"uom"`
	Quantity        float64 `json:"quantity"`
	DiscountPercent float64 `json:"discount_percentage"`
	Rate            float64 `json:"standard_rate"`
}

// ToModel converts the request to a domain line item.
func (r AddItemRequest) ToModel() model.LineItem {
	return model.LineItem{
		ItemCode:        r.ItemCode,
		ItemName:        r.ItemName,
		UOM:             r.UOM,
		Quantity:        r.Quantity,
		DiscountPercent: r.DiscountPercent,
		Rate:            r.Rate,
	}
}

// UpdateItemRequest carries a partial line item merge. Absent fields stay
// untouched.
type UpdateItemRequest struct {
	Quantity        *float64                    `json:"quantity"`
	UOM             *string                     `json:"uom"`
	DiscountPercent *float64                    `json:"discount_percentage"`
	Rate            *float64                    `json:"standard_rate"`
	Allocations     []model.WarehouseAllocation `json:"warehouse_allocations"`
}

// ToModel converts the request to a domain update.
func (r UpdateItemRequest) ToModel() model.ItemUpdate {
	return model.ItemUpdate{
		Quantity:        r.Quantity,
		UOM:             r.UOM,
		DiscountPercent: r.DiscountPercent,
		Rate:            r.Rate,
		Allocations:     r.Allocations,
	}
}
