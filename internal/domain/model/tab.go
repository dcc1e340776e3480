package model

import "encoding/json"

// TabKind distinguishes fresh drafts from tabs opened over an existing order.
type TabKind string

const (
	TabKindNew      TabKind = "new"
	TabKindExisting TabKind = "existing"
)

// Tab is one open order draft: its own item list, customer and save state.
type Tab struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id,omitempty"`
	Kind         TabKind         `json:"kind"`
	DisplayLabel string          `json:"display_label"`
	Customer     Customer        `json:"customer"`
	Items        []LineItem      `json:"items"`
	Dirty        bool            `json:"is_dirty"`
	TaxAmount    float64         `json:"tax_amount"`
	Invoice      json.RawMessage `json:"invoice,omitempty"`
	OrderData    json.RawMessage `json:"order_data,omitempty"`
}

// Item returns a pointer to the line with the given code, or nil.
func (t *Tab) Item(itemCode string) *LineItem {
	for i := range t.Items {
		if t.Items[i].ItemCode == itemCode {
			return &t.Items[i]
		}
	}
	return nil
}

// HasItem reports whether the tab already holds the item code.
func (t *Tab) HasItem(itemCode string) bool {
	return t.Item(itemCode) != nil
}
