package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/retailpoint/counterd/internal/domain/model"
	"github.com/retailpoint/counterd/internal/editor"
	"github.com/retailpoint/counterd/internal/pricing"
	"github.com/retailpoint/counterd/internal/register"
)

// CheckoutPayload is the order-submission shape handed to the caller. The
// actual ERP submit stays outside this process.
type CheckoutPayload struct {
	TabID    string           `json:"tab_id"`
	OrderID  string           `json:"order_id,omitempty"`
	Kind     model.TabKind    `json:"kind"`
	Customer model.Customer   `json:"customer"`
	Items    []model.LineItem `json:"items"`
	Totals   model.Totals     `json:"totals"`
}

// RegisterFacade couples the tab container, the edit state machine and the
// pricing calculator behind one surface. Tab switches and item removals reset
// the editor so a cursor never outlives the row it points at.
type RegisterFacade struct {
	register *register.Register
	editor   *editor.Editor
	taxRate  float64
	logger   *slog.Logger
}

// NewRegisterFacade constructs the facade.
func NewRegisterFacade(reg *register.Register, ed *editor.Editor, taxRate float64, logger *slog.Logger) *RegisterFacade {
	return &RegisterFacade{register: reg, editor: ed, taxRate: taxRate, logger: logger}
}

// --- tab operations ---

// CreateTab opens a fresh draft tab and makes it active.
func (f *RegisterFacade) CreateTab() model.Tab {
	tab := f.register.CreateTab()
	f.editor.Deselect()
	return tab
}

// OpenTab opens a tab over an already-fetched order and makes it active.
func (f *RegisterFacade) OpenTab(orderID string, orderData json.RawMessage) model.Tab {
	tab := f.register.OpenTab(orderID, orderData)
	f.editor.Deselect()
	return tab
}

// Tabs lists all tabs and the active tab id.
func (f *RegisterFacade) Tabs() ([]model.Tab, string) {
	return f.register.Tabs(), f.register.ActiveTabID()
}

// CloseTab removes the tab; the first remaining tab takes over as active.
func (f *RegisterFacade) CloseTab(tabID string) error {
	if err := f.register.CloseTab(tabID); err != nil {
		return err
	}
	f.editor.Deselect()
	return nil
}

// ActivateTab switches the active pointer. Unknown ids are ignored.
func (f *RegisterFacade) ActivateTab(tabID string) {
	f.register.SetActiveTab(tabID)
	f.editor.Deselect()
}

// CurrentTab returns the active tab with computed totals. The second result
// is false when no tab is active.
func (f *RegisterFacade) CurrentTab() (model.Tab, model.Totals, bool) {
	tab, ok := f.register.ActiveTab()
	if !ok {
		return model.Tab{}, model.Totals{}, false
	}
	return tab, pricing.Calculate(tab.Items, f.taxRate), true
}

// --- item operations ---

// ItemExists reports whether the tab already carries the item code.
func (f *RegisterFacade) ItemExists(tabID, itemCode string) bool {
	return f.register.ItemExists(tabID, itemCode)
}

// AddItem appends the line item to the tab. Duplicate checking is the
// caller's concern.
func (f *RegisterFacade) AddItem(tabID string, item model.LineItem) error {
	return f.register.AddItem(tabID, item)
}

// RemoveItem deletes the line item and resets the editor.
func (f *RegisterFacade) RemoveItem(tabID, itemCode string) error {
	if err := f.register.RemoveItem(tabID, itemCode); err != nil {
		return err
	}
	f.editor.Deselect()
	return nil
}

// UpdateItem merges the partial update into the line item.
func (f *RegisterFacade) UpdateItem(tabID, itemCode string, update model.ItemUpdate) error {
	return f.register.UpdateItem(tabID, itemCode, update)
}

// ClearItems empties the tab's item list and resets the editor.
func (f *RegisterFacade) ClearItems(tabID string) error {
	if err := f.register.ClearItems(tabID); err != nil {
		return err
	}
	f.editor.Deselect()
	return nil
}

// --- tab metadata operations ---

// UpdateCustomer replaces the tab's customer.
func (f *RegisterFacade) UpdateCustomer(tabID string, customer model.Customer) error {
	return f.register.UpdateCustomer(tabID, customer)
}

// SetTaxAmount stores the externally computed tax amount on the tab.
func (f *RegisterFacade) SetTaxAmount(tabID string, amount float64) error {
	return f.register.SetTaxAmount(tabID, amount)
}

// SetInvoice attaches the invoice payload to the tab.
func (f *RegisterFacade) SetInvoice(tabID string, invoice json.RawMessage) error {
	return f.register.SetInvoice(tabID, invoice)
}

// MarkSaved records the external order id after a successful submit.
func (f *RegisterFacade) MarkSaved(tabID, orderID string) error {
	return f.register.MarkSaved(tabID, orderID)
}

// SetDirty overrides the tab's unsaved-changes flag.
func (f *RegisterFacade) SetDirty(tabID string, dirty bool) error {
	return f.register.SetDirty(tabID, dirty)
}

// Checkout builds the order-submission payload for the active tab.
func (f *RegisterFacade) Checkout() (CheckoutPayload, bool) {
	tab, ok := f.register.ActiveTab()
	if !ok {
		return CheckoutPayload{}, false
	}
	return CheckoutPayload{
		TabID:    tab.ID,
		OrderID:  tab.OrderID,
		Kind:     tab.Kind,
		Customer: tab.Customer,
		Items:    tab.Items,
		Totals:   pricing.Calculate(tab.Items, f.taxRate),
	}, true
}

// --- editor operations ---

// EditorCursor returns the current edit state.
func (f *RegisterFacade) EditorCursor() editor.Cursor {
	return f.editor.Cursor()
}

// SelectItem highlights an item row.
func (f *RegisterFacade) SelectItem(itemCode string) error {
	return f.editor.Select(itemCode)
}

// NavigateItem moves the row selection.
func (f *RegisterFacade) NavigateItem(down bool) {
	f.editor.Navigate(down)
}

// BeginEdit starts editing the given field of the selected row.
func (f *RegisterFacade) BeginEdit(field model.EditField) error {
	return f.editor.BeginEdit(field)
}

// EditInput replaces the edit buffer.
func (f *RegisterFacade) EditInput(value string) error {
	return f.editor.Input(value)
}

// CommitEdit validates and stores the buffer.
func (f *RegisterFacade) CommitEdit(ctx context.Context) (editor.CommitResult, error) {
	return f.editor.CommitEdit(ctx)
}

// CancelEdit abandons the in-flight edit.
func (f *RegisterFacade) CancelEdit() {
	f.editor.CancelEdit()
}

// ResolveAllocation completes a held quantity commit with a warehouse split.
func (f *RegisterFacade) ResolveAllocation(allocations []model.WarehouseAllocation) (editor.CommitResult, error) {
	return f.editor.ResolveAllocation(allocations)
}

// CancelAllocation abandons a held quantity commit.
func (f *RegisterFacade) CancelAllocation() {
	f.editor.CancelAllocation()
}

// DeselectItem resets the editor to idle.
func (f *RegisterFacade) DeselectItem() {
	f.editor.Deselect()
}
