// Package editor drives keyboard-first, single-cell editing over the active
// tab's item list. It is the validation gate the register deliberately
// skips: invalid numeric input never reaches the store.
package editor

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	domainErrors "github.com/retailpoint/counterd/internal/domain/errors"
	"github.com/retailpoint/counterd/internal/domain/model"
)

// State names the three cursor states.
type State string

const (
	StateIdle     State = "idle"
	StateSelected State = "selected"
	StateEditing  State = "editing"
)

// Outcome classifies what a commit did.
type Outcome string

const (
	// OutcomeCommitted means the value was stored and the traversal finished.
	OutcomeCommitted Outcome = "committed"
	// OutcomeAdvanced means the value was stored and editing moved to the
	// next field in the configured order.
	OutcomeAdvanced Outcome = "advanced"
	// OutcomeAbandoned means the buffer failed validation; nothing was stored
	// and the cursor fell back to the selected row.
	OutcomeAbandoned Outcome = "abandoned"
	// OutcomeAllocationRequired means the committed quantity exceeds on-hand
	// stock; the commit is held until the shortage is distributed across
	// warehouses.
	OutcomeAllocationRequired Outcome = "allocation_required"
)

// CommitResult reports the outcome of CommitEdit or ResolveAllocation.
type CommitResult struct {
	Outcome    Outcome
	NextField  model.EditField
	Allocation *AllocationRequest
}

// AllocationRequest describes a pending quantity commit waiting on a
// warehouse split.
type AllocationRequest struct {
	ItemCode    string             `json:"item_code"`
	ItemName    string             `json:"item_name"`
	RequiredQty float64            `json:"required_qty"`
	Available   float64            `json:"available"`
	Shortage    float64            `json:"shortage"`
	Warehouses  []model.StockLevel `json:"warehouses"`
}

// Cursor is a read-only snapshot of the edit state.
type Cursor struct {
	State            State           `json:"state"`
	SelectedItemCode string          `json:"selected_item_code,omitempty"`
	ActiveField      model.EditField `json:"active_field,omitempty"`
	Buffer           string          `json:"buffer,omitempty"`
	Editing          bool            `json:"is_editing"`
}

// TabAccess is the slice of the register the editor needs.
type TabAccess interface {
	ActiveTabID() string
	ActiveItem(itemCode string) (model.LineItem, bool)
	ActiveItems() []model.LineItem
	UpdateItem(tabID, itemCode string, update model.ItemUpdate) error
}

// StockProvider reports per-warehouse availability for the quantity gate.
// A nil provider disables the gate entirely.
type StockProvider interface {
	Levels(ctx context.Context, itemCode string) ([]model.StockLevel, error)
}

// Editor is the cell-edit state machine. The editable field traversal is
// injected per instance because table variants differ (the main items table
// cycles quantity, uom and discount; others jump quantity straight to rate).
type Editor struct {
	mu               sync.Mutex
	tabs             TabAccess
	stock            StockProvider
	logger           *slog.Logger
	fields           []model.EditField
	defaultWarehouse string

	state       State
	tabID       string
	selected    string
	activeField model.EditField
	buffer      string
	pending     *pendingAllocation
}

type pendingAllocation struct {
	itemCode string
	quantity float64
	shortage float64
	levels   map[string]float64
	request  AllocationRequest
}

// New constructs an editor over the given tab container.
func New(tabs TabAccess, stock StockProvider, fields []model.EditField, defaultWarehouse string, logger *slog.Logger) *Editor {
	if len(fields) == 0 {
		fields = model.DefaultFieldOrder()
	}
	return &Editor{
		tabs:             tabs,
		stock:            stock,
		logger:           logger,
		fields:           fields,
		defaultWarehouse: defaultWarehouse,
		state:            StateIdle,
	}
}

// Cursor returns the current edit state.
func (e *Editor) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revalidate()
	return e.cursorLocked()
}

// Select highlights an item row and resets the field cursor to the first
// field of the traversal.
func (e *Editor) Select(itemCode string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.tabs.ActiveItem(itemCode); !ok {
		return domainErrors.ErrNotFound
	}

	e.state = StateSelected
	e.tabID = e.tabs.ActiveTabID()
	e.selected = itemCode
	e.activeField = e.fields[0]
	e.buffer = ""
	e.pending = nil
	return nil
}

// Navigate moves the selection one row up or down, clamping at the list
// edges. With no prior selection, down selects the first row and up the last.
func (e *Editor) Navigate(down bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revalidate()

	items := e.tabs.ActiveItems()
	if len(items) == 0 {
		return
	}

	current := -1
	for i, item := range items {
		if item.ItemCode == e.selected {
			current = i
			break
		}
	}

	var next int
	if down {
		if current == -1 {
			next = 0
		} else {
			next = min(current+1, len(items)-1)
		}
	} else {
		if current == -1 {
			next = len(items) - 1
		} else {
			next = max(current-1, 0)
		}
	}

	e.state = StateSelected
	e.tabID = e.tabs.ActiveTabID()
	e.selected = items[next].ItemCode
	e.activeField = e.fields[0]
	e.buffer = ""
	e.pending = nil
}

// BeginEdit enters edit mode on one field of the selected row, seeding the
// buffer from the field's current value.
func (e *Editor) BeginEdit(field model.EditField) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revalidate()

	if e.state == StateIdle {
		return domainErrors.ErrNoSelection
	}
	if !e.editable(field) {
		return domainErrors.ErrNotFound
	}

	item, ok := e.tabs.ActiveItem(e.selected)
	if !ok {
		e.resetLocked()
		return domainErrors.ErrNoSelection
	}

	e.state = StateEditing
	e.activeField = field
	e.buffer = fieldValue(item, field)
	e.pending = nil
	return nil
}

// Input replaces the edit buffer with what the user typed so far.
func (e *Editor) Input(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revalidate()

	if e.state != StateEditing {
		return domainErrors.ErrNoEditInProgress
	}
	e.buffer = value
	return nil
}

// CommitEdit validates the buffer and writes the single changed field to the
// register, then advances to the next field in the traversal. Non-numeric or
// negative input into a numeric field abandons the edit with no mutation.
// A quantity exceeding on-hand stock in the default warehouse is held back
// as an allocation request instead of being stored.
func (e *Editor) CommitEdit(ctx context.Context) (CommitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revalidate()

	if e.state != StateEditing || e.pending != nil {
		return CommitResult{}, domainErrors.ErrNoEditInProgress
	}

	item, ok := e.tabs.ActiveItem(e.selected)
	if !ok {
		e.resetLocked()
		return CommitResult{}, domainErrors.ErrNoSelection
	}

	field := e.activeField

	if !field.Numeric() {
		uom := e.buffer
		return e.storeLocked(field, model.ItemUpdate{UOM: &uom})
	}

	value, err := strconv.ParseFloat(e.buffer, 64)
	if err != nil || value < 0 {
		e.state = StateSelected
		e.buffer = ""
		return CommitResult{Outcome: OutcomeAbandoned}, nil
	}

	if field == model.FieldQuantity {
		if request, ok := e.checkStock(ctx, item, value); ok {
			e.pending = request
			return CommitResult{Outcome: OutcomeAllocationRequired, Allocation: &e.pending.request}, nil
		}
	}

	return e.storeLocked(field, numericUpdate(field, value))
}

// CancelEdit discards the buffer and returns to the selected row. Calling it
// outside edit mode is a no-op.
func (e *Editor) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revalidate()

	if e.state != StateEditing {
		return
	}
	e.state = StateSelected
	e.buffer = ""
	e.pending = nil
}

// ResolveAllocation completes a held quantity commit with a warehouse split.
// Every row must respect that warehouse's availability and the total must
// cover the shortage.
func (e *Editor) ResolveAllocation(allocations []model.WarehouseAllocation) (CommitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revalidate()

	if e.pending == nil {
		return CommitResult{}, domainErrors.ErrNoEditInProgress
	}

	var total float64
	for _, alloc := range allocations {
		available, ok := e.pending.levels[alloc.Warehouse]
		if !ok || alloc.Qty > available {
			return CommitResult{}, domainErrors.ErrOverAllocation
		}
		total += alloc.Qty
	}
	if total < e.pending.shortage {
		return CommitResult{}, domainErrors.ErrShortAllocation
	}

	quantity := e.pending.quantity
	update := model.ItemUpdate{Quantity: &quantity, Allocations: allocations}
	e.pending = nil
	return e.storeLocked(model.FieldQuantity, update)
}

// CancelAllocation abandons a held quantity commit; the row stays selected
// and the item keeps its previous quantity.
func (e *Editor) CancelAllocation() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return
	}
	e.pending = nil
	e.state = StateSelected
	e.buffer = ""
}

// Deselect drops the cursor back to idle. The facade calls this on tab
// switches and item removals.
func (e *Editor) Deselect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

// storeLocked writes the update and advances the traversal.
func (e *Editor) storeLocked(field model.EditField, update model.ItemUpdate) (CommitResult, error) {
	if err := e.tabs.UpdateItem(e.tabID, e.selected, update); err != nil {
		e.resetLocked()
		return CommitResult{}, err
	}

	next, ok := e.nextField(field)
	if !ok {
		e.state = StateSelected
		e.buffer = ""
		return CommitResult{Outcome: OutcomeCommitted}, nil
	}

	e.activeField = next
	item, found := e.tabs.ActiveItem(e.selected)
	if !found {
		e.resetLocked()
		return CommitResult{Outcome: OutcomeCommitted}, nil
	}
	e.buffer = fieldValue(item, next)
	return CommitResult{Outcome: OutcomeAdvanced, NextField: next}, nil
}

// checkStock reports whether the requested quantity needs a warehouse split.
// Stock lookups are best effort: if the provider is absent or fails, the
// commit proceeds unconditionally so the till keeps working through ERP
// outages.
func (e *Editor) checkStock(ctx context.Context, item model.LineItem, quantity float64) (*pendingAllocation, bool) {
	if e.stock == nil {
		return nil, false
	}

	levels, err := e.stock.Levels(ctx, item.ItemCode)
	if err != nil {
		e.logger.Warn("stock lookup failed, committing without allocation",
			slog.String("item", item.ItemCode), slog.String("error", err.Error()))
		return nil, false
	}

	var available float64
	byWarehouse := make(map[string]float64, len(levels))
	others := make([]model.StockLevel, 0, len(levels))
	for _, level := range levels {
		if level.Warehouse == e.defaultWarehouse {
			available = level.Available
			continue
		}
		byWarehouse[level.Warehouse] = level.Available
		others = append(others, level)
	}

	if quantity <= available {
		return nil, false
	}

	return &pendingAllocation{
		itemCode: item.ItemCode,
		quantity: quantity,
		shortage: quantity - available,
		levels:   byWarehouse,
		request: AllocationRequest{
			ItemCode:    item.ItemCode,
			ItemName:    item.ItemName,
			RequiredQty: quantity,
			Available:   available,
			Shortage:    quantity - available,
			Warehouses:  others,
		},
	}, true
}

// revalidate clears the cursor when the active tab changed or the selected
// item disappeared, so no operation can touch a stale row. Must be called
// with the lock held.
func (e *Editor) revalidate() {
	if e.state == StateIdle {
		return
	}
	if e.tabs.ActiveTabID() != e.tabID {
		e.resetLocked()
		return
	}
	if _, ok := e.tabs.ActiveItem(e.selected); !ok {
		e.resetLocked()
	}
}

func (e *Editor) resetLocked() {
	e.state = StateIdle
	e.tabID = ""
	e.selected = ""
	e.activeField = ""
	e.buffer = ""
	e.pending = nil
}

func (e *Editor) cursorLocked() Cursor {
	return Cursor{
		State:            e.state,
		SelectedItemCode: e.selected,
		ActiveField:      e.activeField,
		Buffer:           e.buffer,
		Editing:          e.state == StateEditing,
	}
}

func (e *Editor) editable(field model.EditField) bool {
	for _, f := range e.fields {
		if f == field {
			return true
		}
	}
	return false
}

func (e *Editor) nextField(field model.EditField) (model.EditField, bool) {
	for i, f := range e.fields {
		if f == field && i+1 < len(e.fields) {
			return e.fields[i+1], true
		}
	}
	return "", false
}

func fieldValue(item model.LineItem, field model.EditField) string {
	switch field {
	case model.FieldQuantity:
		return formatNumber(item.Quantity)
	case model.FieldUOM:
		return item.UOM
	case model.FieldDiscount:
		return formatNumber(item.DiscountPercent)
	case model.FieldRate:
		return formatNumber(item.Rate)
	}
	return ""
}

func numericUpdate(field model.EditField, value float64) model.ItemUpdate {
	switch field {
	case model.FieldQuantity:
		return model.ItemUpdate{Quantity: &value}
	case model.FieldDiscount:
		return model.ItemUpdate{DiscountPercent: &value}
	case model.FieldRate:
		return model.ItemUpdate{Rate: &value}
	}
	return model.ItemUpdate{}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
