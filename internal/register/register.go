// Package register is the single source of truth for open order drafts. It
// owns every Tab and LineItem record; nothing else mutates them.
package register

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/retailpoint/counterd/internal/domain/errors"
	"github.com/retailpoint/counterd/internal/domain/model"
)

// Register holds all open tabs and the active pointer. Methods are safe for
// concurrent use; mutations bump an internal version consumed by the
// snapshot persister.
type Register struct {
	mu          sync.Mutex
	logger      *slog.Logger
	tabs        []*model.Tab
	activeTabID string
	version     uint64
}

// New constructs an empty register.
func New(logger *slog.Logger) *Register {
	return &Register{logger: logger}
}

// Restore replaces the register content with a persisted snapshot. An active
// id that no longer matches any tab falls back to the first tab.
func (r *Register) Restore(snapshot *model.RegisterSnapshot) {
	if snapshot == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tabs = r.tabs[:0]
	for i := range snapshot.Tabs {
		tab := snapshot.Tabs[i]
		r.tabs = append(r.tabs, &tab)
	}

	r.activeTabID = ""
	for _, tab := range r.tabs {
		if tab.ID == snapshot.ActiveTabID {
			r.activeTabID = snapshot.ActiveTabID
			break
		}
	}
	if r.activeTabID == "" && len(r.tabs) > 0 {
		r.activeTabID = r.tabs[0].ID
	}

	r.logger.Info("register restored", slog.Int("tabs", len(r.tabs)))
}

// Snapshot returns a deep copy of the durable state plus the version it
// reflects. The edit cursor lives outside the register and is never included.
func (r *Register) Snapshot() (*model.RegisterSnapshot, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := &model.RegisterSnapshot{
		Tabs:        make([]model.Tab, 0, len(r.tabs)),
		ActiveTabID: r.activeTabID,
	}
	for _, tab := range r.tabs {
		snapshot.Tabs = append(snapshot.Tabs, copyTab(tab))
	}
	return snapshot, r.version
}

// Version reports the current mutation counter.
func (r *Register) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// CreateTab opens a fresh draft with the walking customer and makes it
// active. Never fails.
func (r *Register) CreateTab() model.Tab {
	r.mu.Lock()
	defer r.mu.Unlock()

	unsaved := 0
	for _, tab := range r.tabs {
		if tab.Kind == model.TabKindNew && tab.OrderID == "" {
			unsaved++
		}
	}

	tab := &model.Tab{
		ID:           uuid.NewString(),
		Kind:         model.TabKindNew,
		DisplayLabel: newTabLabel(unsaved + 1),
		Customer:     model.WalkingCustomer(),
		Items:        []model.LineItem{},
	}
	r.tabs = append(r.tabs, tab)
	r.activeTabID = tab.ID
	r.touch()
	return copyTab(tab)
}

// OpenTab opens a tab over an already-fetched existing order and makes it
// active. No network access happens here; the caller supplies the payload.
func (r *Register) OpenTab(orderID string, orderData json.RawMessage) model.Tab {
	r.mu.Lock()
	defer r.mu.Unlock()

	tab := &model.Tab{
		ID:           uuid.NewString(),
		OrderID:      orderID,
		Kind:         model.TabKindExisting,
		DisplayLabel: "#" + orderID,
		Customer:     model.WalkingCustomer(),
		Items:        []model.LineItem{},
		OrderData:    orderData,
	}
	r.tabs = append(r.tabs, tab)
	r.activeTabID = tab.ID
	r.touch()
	return copyTab(tab)
}

// CloseTab removes the tab. When the active tab is closed the first remaining
// tab becomes active; closing the last tab leaves no active tab.
func (r *Register) CloseTab(tabID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}

	r.tabs = append(r.tabs[:idx], r.tabs[idx+1:]...)
	if r.activeTabID == tabID {
		r.activeTabID = ""
		if len(r.tabs) > 0 {
			r.activeTabID = r.tabs[0].ID
		}
	}
	r.touch()
	return nil
}

// SetActiveTab switches the active pointer. An unknown id is silently
// ignored so a stale caller cannot corrupt the pointer.
func (r *Register) SetActiveTab(tabID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index(tabID) < 0 {
		r.logger.Warn("ignoring activation of unknown tab", slog.String("tab", tabID))
		return
	}
	r.activeTabID = tabID
	r.touch()
}

// ActiveTabID returns the id of the active tab, or empty when no tabs exist.
func (r *Register) ActiveTabID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeTabID
}

// Tabs lists all open tabs in creation order.
func (r *Register) Tabs() []model.Tab {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Tab, 0, len(r.tabs))
	for _, tab := range r.tabs {
		out = append(out, copyTab(tab))
	}
	return out
}

// Tab returns a copy of one tab.
func (r *Register) Tab(tabID string) (model.Tab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return model.Tab{}, domainErrors.ErrTabNotFound
	}
	return copyTab(r.tabs[idx]), nil
}

// ActiveTab returns a copy of the active tab, or false when none exists.
func (r *Register) ActiveTab() (model.Tab, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(r.activeTabID)
	if idx < 0 {
		return model.Tab{}, false
	}
	return copyTab(r.tabs[idx]), true
}

// ActiveItems returns the active tab's items, or an empty list when no tab is
// active. Callers never see nil.
func (r *Register) ActiveItems() []model.LineItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(r.activeTabID)
	if idx < 0 {
		return []model.LineItem{}
	}
	return copyItems(r.tabs[idx].Items)
}

// ActiveCustomer returns the active tab's customer, defaulting to the
// walking customer when no tab is active.
func (r *Register) ActiveCustomer() model.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(r.activeTabID)
	if idx < 0 {
		return model.WalkingCustomer()
	}
	return r.tabs[idx].Customer
}

// ItemExists reports whether the tab already holds the item code. The add
// path trusts callers to run this check first; AddItem itself appends
// whatever it is given.
func (r *Register) ItemExists(tabID, itemCode string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return false
	}
	return r.tabs[idx].HasItem(itemCode)
}

// ActiveItem looks up one line of the active tab.
func (r *Register) ActiveItem(itemCode string) (model.LineItem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(r.activeTabID)
	if idx < 0 {
		return model.LineItem{}, false
	}
	item := r.tabs[idx].Item(itemCode)
	if item == nil {
		return model.LineItem{}, false
	}
	return *item, true
}

// AddItem appends a line and marks the tab dirty. Duplicate codes are not
// rejected here; uniqueness is the caller's pre-check via ItemExists.
func (r *Register) AddItem(tabID string, item model.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}
	r.tabs[idx].Items = append(r.tabs[idx].Items, item)
	r.tabs[idx].Dirty = true
	r.touch()
	return nil
}

// RemoveItem drops the matching line and marks the tab dirty. Removing an
// absent item is a no-op.
func (r *Register) RemoveItem(tabID, itemCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}

	tab := r.tabs[idx]
	items := tab.Items[:0]
	for _, item := range tab.Items {
		if item.ItemCode != itemCode {
			items = append(items, item)
		}
	}
	tab.Items = items
	tab.Dirty = true
	r.touch()
	return nil
}

// UpdateItem merges fields into the matching line and marks the tab dirty.
// An absent item is a no-op.
func (r *Register) UpdateItem(tabID, itemCode string, update model.ItemUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}

	tab := r.tabs[idx]
	if item := tab.Item(itemCode); item != nil {
		update.Apply(item)
		tab.Dirty = true
		r.touch()
	}
	return nil
}

// ClearItems empties the tab's item list.
func (r *Register) ClearItems(tabID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}
	r.tabs[idx].Items = []model.LineItem{}
	r.tabs[idx].Dirty = true
	r.touch()
	return nil
}

// UpdateCustomer attaches a customer to the tab and marks it dirty.
func (r *Register) UpdateCustomer(tabID string, customer model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}
	r.tabs[idx].Customer = customer
	r.tabs[idx].Dirty = true
	r.touch()
	return nil
}

// SetTaxAmount caches the externally computed tax figure on the tab.
func (r *Register) SetTaxAmount(tabID string, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}
	r.tabs[idx].TaxAmount = amount
	r.touch()
	return nil
}

// SetDirty overrides the tab's dirty flag.
func (r *Register) SetDirty(tabID string, dirty bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}
	r.tabs[idx].Dirty = dirty
	r.touch()
	return nil
}

// SetInvoice stores the opaque invoice payload returned by the billing
// backend.
func (r *Register) SetInvoice(tabID string, invoice json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}
	r.tabs[idx].Invoice = invoice
	r.touch()
	return nil
}

// MarkSaved records the external order id after a successful save: the tab
// becomes an existing order, is relabelled after it and is no longer dirty.
func (r *Register) MarkSaved(tabID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(tabID)
	if idx < 0 {
		return domainErrors.ErrTabNotFound
	}

	tab := r.tabs[idx]
	tab.OrderID = orderID
	tab.Kind = model.TabKindExisting
	tab.DisplayLabel = "#" + orderID
	tab.Dirty = false
	r.touch()
	return nil
}

// index must be called with the lock held.
func (r *Register) index(tabID string) int {
	if tabID == "" {
		return -1
	}
	for i, tab := range r.tabs {
		if tab.ID == tabID {
			return i
		}
	}
	return -1
}

// touch must be called with the lock held.
func (r *Register) touch() {
	r.version++
}

func copyTab(tab *model.Tab) model.Tab {
	out := *tab
	out.Items = copyItems(tab.Items)
	return out
}

func copyItems(items []model.LineItem) []model.LineItem {
	out := make([]model.LineItem, len(items))
	copy(out, items)
	for i := range out {
		if len(items[i].Allocations) > 0 {
			out[i].Allocations = append([]model.WarehouseAllocation(nil), items[i].Allocations...)
		}
	}
	return out
}

func newTabLabel(n int) string {
	return "New " + strconv.Itoa(n)
}
