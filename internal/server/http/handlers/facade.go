package handlers

import (
	"context"
	"encoding/json"

	"github.com/retailpoint/counterd/internal/app"
	"github.com/retailpoint/counterd/internal/domain/model"
	"github.com/retailpoint/counterd/internal/editor"
)

// TabFacade covers tab lifecycle operations exposed via HTTP.
type TabFacade interface {
	CreateTab() model.Tab
	OpenTab(orderID string, orderData json.RawMessage) model.Tab
	Tabs() ([]model.Tab, string)
	CloseTab(tabID string) error
	ActivateTab(tabID string)
	CurrentTab() (model.Tab, model.Totals, bool)
	UpdateCustomer(tabID string, customer model.Customer) error
	SetTaxAmount(tabID string, amount float64) error
	SetInvoice(tabID string, invoice json.RawMessage) error
	MarkSaved(tabID, orderID string) error
	SetDirty(tabID string, dirty bool) error
}

// ItemFacade covers line item operations.
type ItemFacade interface {
	ItemExists(tabID, itemCode string) bool
	AddItem(tabID string, item model.LineItem) error
	RemoveItem(tabID, itemCode string) error
	UpdateItem(tabID, itemCode string, update model.ItemUpdate) error
	ClearItems(tabID string) error
}

// EditorFacade covers the cell-edit state machine.
type EditorFacade interface {
	EditorCursor() editor.Cursor
	SelectItem(itemCode string) error
	NavigateItem(down bool)
	BeginEdit(field model.EditField) error
	EditInput(value string) error
	CommitEdit(ctx context.Context) (editor.CommitResult, error)
	CancelEdit()
	ResolveAllocation(allocations []model.WarehouseAllocation) (editor.CommitResult, error)
	CancelAllocation()
	DeselectItem()
}

// CheckoutFacade builds order-submission payloads.
type CheckoutFacade interface {
	Checkout() (app.CheckoutPayload, bool)
}

// PosFacade aggregates the full set of operations used across handlers.
type PosFacade interface {
	TabFacade
	ItemFacade
	EditorFacade
	CheckoutFacade
}
