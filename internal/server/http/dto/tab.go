package dto

import (
	"encoding/json"

	"github.com/retailpoint/counterd/internal/domain/model"
)

// OpenTabRequest carries an already-fetched order to open a tab over.
type OpenTabRequest struct {
	OrderID   string          `json:"order_id" binding:"required"`
	OrderData json.RawMessage `json:"order_data"`
}

// TabListResponse lists all tabs plus the active pointer.
type TabListResponse struct {
	Tabs        []model.Tab `json:"tabs"`
	ActiveTabID string      `json:"active_tab_id"`
}

// CurrentTabResponse is the active tab with computed totals. Tab is null when
// nothing is active.
type CurrentTabResponse struct {
	Tab    *model.Tab   `json:"tab"`
	Totals model.Totals `json:"totals"`
}

// CustomerRequest replaces a tab's customer.
type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	TaxID string `json:"gst"`
}

// TaxRequest stores an externally computed tax amount.
type TaxRequest struct {
	Amount float64 `json:"amount"`
}

// InvoiceRequest attaches an invoice payload to a tab.
type InvoiceRequest struct {
	Invoice json.RawMessage `json:"invoice" binding:"required"`
}

// SavedRequest records the external order id after a submit.
type SavedRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// EditedRequest overrides a tab's unsaved-changes flag.
type EditedRequest struct {
	Dirty bool `json:"is_dirty"`
}
