package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/retailpoint/counterd/internal/app"
	"github.com/retailpoint/counterd/internal/domain/model"
	"github.com/retailpoint/counterd/internal/editor"
	"github.com/retailpoint/counterd/internal/register"
	"github.com/retailpoint/counterd/internal/server/http/dto"
	testhelpers "github.com/retailpoint/counterd/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestFacade(stock editor.StockProvider) *app.RegisterFacade {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	reg := register.New(logger)
	ed := editor.New(reg, stock, model.DefaultFieldOrder(), "Main Warehouse", logger)
	return app.NewRegisterFacade(reg, ed, 0.10, logger)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, registeredPath string, body any) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, registeredPath, handler)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTabHandlerCreate(t *testing.T) {
	handler := NewTabHandler(newTestFacade(nil))
	resp := performRequest(t, http.MethodPost, "/tabs", handler.Create, "/tabs", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var tab model.Tab
	if err := json.Unmarshal(resp.Body.Bytes(), &tab); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if tab.ID == "" || tab.DisplayLabel != "New 1" {
		t.Fatalf("unexpected tab %+v", tab)
	}
	if tab.Customer.Name != "Walking Customer" {
		t.Fatalf("expected walking customer, got %+v", tab.Customer)
	}
}

func TestTabHandlerOpen(t *testing.T) {
	handler := NewTabHandler(newTestFacade(nil))
	body := dto.OpenTabRequest{OrderID: "SO-001", OrderData: json.RawMessage(`{"grand_total":42}`)}
	resp := performRequest(t, http.MethodPost, "/tabs/open", handler.Open, "/tabs/open", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var tab model.Tab
	if err := json.Unmarshal(resp.Body.Bytes(), &tab); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if tab.DisplayLabel != "#SO-001" || tab.Kind != model.TabKindExisting {
		t.Fatalf("unexpected tab %+v", tab)
	}
}

func TestTabHandlerOpenRejectsMissingOrderID(t *testing.T) {
	handler := NewTabHandler(newTestFacade(nil))
	resp := performRequest(t, http.MethodPost, "/tabs/open", handler.Open, "/tabs/open", map[string]any{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestTabHandlerList(t *testing.T) {
	facade := newTestFacade(nil)
	first := facade.CreateTab()
	second := facade.CreateTab()

	handler := NewTabHandler(facade)
	resp := performRequest(t, http.MethodGet, "/tabs", handler.List, "/tabs", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var list dto.TabListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(list.Tabs))
	}
	if list.ActiveTabID != second.ID {
		t.Fatalf("expected active %q, got %q", second.ID, list.ActiveTabID)
	}
	if list.Tabs[0].ID != first.ID {
		t.Fatalf("expected insertion order preserved")
	}
}

func TestTabHandlerClose(t *testing.T) {
	facade := newTestFacade(nil)
	first := facade.CreateTab()
	second := facade.CreateTab()

	handler := NewTabHandler(facade)
	resp := performRequest(t, http.MethodDelete, "/tabs/"+second.ID, handler.Close, "/tabs/:id", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	_, activeID := facade.Tabs()
	if activeID != first.ID {
		t.Fatalf("expected first tab to take over, got %q", activeID)
	}
}

func TestTabHandlerCloseUnknown(t *testing.T) {
	handler := NewTabHandler(newTestFacade(nil))
	resp := performRequest(t, http.MethodDelete, "/tabs/nope", handler.Close, "/tabs/:id", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestTabHandlerActivateUnknownIsIgnored(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()

	handler := NewTabHandler(facade)
	resp := performRequest(t, http.MethodPut, "/tabs/nope/activate", handler.Activate, "/tabs/:id/activate", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	_, activeID := facade.Tabs()
	if activeID != tab.ID {
		t.Fatalf("active pointer moved to %q", activeID)
	}
}

func TestTabHandlerCurrentEmpty(t *testing.T) {
	handler := NewTabHandler(newTestFacade(nil))
	resp := performRequest(t, http.MethodGet, "/tabs/current", handler.Current, "/tabs/current", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var current dto.CurrentTabResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &current); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if current.Tab != nil {
		t.Fatalf("expected null tab, got %+v", current.Tab)
	}
	if current.Totals.FinalTotal != 0 {
		t.Fatalf("expected zero totals, got %+v", current.Totals)
	}
}

func TestTabHandlerCurrentWithTotals(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()
	item := model.LineItem{ItemCode: "SKU-1", Quantity: 2, Rate: 100, DiscountPercent: 10}
	if err := facade.AddItem(tab.ID, item); err != nil {
		t.Fatalf("add item: %v", err)
	}

	handler := NewTabHandler(facade)
	resp := performRequest(t, http.MethodGet, "/tabs/current", handler.Current, "/tabs/current", nil)

	var current dto.CurrentTabResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &current); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if current.Tab == nil || current.Tab.ID != tab.ID {
		t.Fatalf("unexpected tab %+v", current.Tab)
	}
	if current.Totals.FinalTotal != 198 {
		t.Fatalf("expected final total 198, got %v", current.Totals.FinalTotal)
	}
}

func TestTabHandlerCustomerAndMetadata(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()
	handler := NewTabHandler(facade)

	resp := performRequest(t, http.MethodPut, "/tabs/"+tab.ID+"/customer", handler.UpdateCustomer, "/tabs/:id/customer",
		dto.CustomerRequest{Name: "ACME Ltd", TaxID: "GST-42"})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("customer: expected 204, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPut, "/tabs/"+tab.ID+"/tax", handler.SetTax, "/tabs/:id/tax",
		dto.TaxRequest{Amount: 12.5})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("tax: expected 204, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/tabs/"+tab.ID+"/saved", handler.MarkSaved, "/tabs/:id/saved",
		dto.SavedRequest{OrderID: "SO-007"})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("saved: expected 204, got %d", resp.Code)
	}

	current, _, ok := facade.CurrentTab()
	if !ok {
		t.Fatal("expected active tab")
	}
	if current.Customer.Name != "ACME Ltd" || current.TaxAmount != 12.5 {
		t.Fatalf("unexpected tab state %+v", current)
	}
	if current.OrderID != "SO-007" || current.DisplayLabel != "#SO-007" || current.Dirty {
		t.Fatalf("expected saved tab, got %+v", current)
	}

	resp = performRequest(t, http.MethodPut, "/tabs/"+tab.ID+"/edited", handler.SetEdited, "/tabs/:id/edited",
		dto.EditedRequest{Dirty: true})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("edited: expected 204, got %d", resp.Code)
	}
	current, _, _ = facade.CurrentTab()
	if !current.Dirty {
		t.Fatal("expected dirty flag set")
	}
}

func TestTabHandlerMetadataUnknownTab(t *testing.T) {
	handler := NewTabHandler(newTestFacade(nil))
	resp := performRequest(t, http.MethodPut, "/tabs/nope/tax", handler.SetTax, "/tabs/:id/tax", dto.TaxRequest{Amount: 1})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestItemHandlerAddAndDuplicate(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()
	handler := NewItemHandler(facade)

	body := dto.AddItemRequest{ItemCode: "SKU-1", ItemName: "Widget", UOM: "Nos", Quantity: 1, Rate: 50}
	resp := performRequest(t, http.MethodPost, "/tabs/"+tab.ID+"/items", handler.Add, "/tabs/:id/items", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/tabs/"+tab.ID+"/items", handler.Add, "/tabs/:id/items", body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", resp.Code)
	}
}

func TestItemHandlerAddUnknownTab(t *testing.T) {
	handler := NewItemHandler(newTestFacade(nil))
	body := dto.AddItemRequest{ItemCode: "SKU-1"}
	resp := performRequest(t, http.MethodPost, "/tabs/nope/items", handler.Add, "/tabs/:id/items", body)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestItemHandlerUpdateRemoveClear(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-1", Quantity: 1, Rate: 10})
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-2", Quantity: 1, Rate: 20})
	handler := NewItemHandler(facade)

	qty := 3.0
	resp := performRequest(t, http.MethodPatch, "/tabs/"+tab.ID+"/items/SKU-1", handler.Update, "/tabs/:id/items/:code",
		dto.UpdateItemRequest{Quantity: &qty})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("update: expected 204, got %d", resp.Code)
	}
	current, _, _ := facade.CurrentTab()
	if current.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %v", current.Items[0].Quantity)
	}

	resp = performRequest(t, http.MethodDelete, "/tabs/"+tab.ID+"/items/SKU-1", handler.Remove, "/tabs/:id/items/:code", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("remove: expected 204, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/tabs/"+tab.ID+"/items/clear", handler.Clear, "/tabs/:id/items/clear", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("clear: expected 204, got %d", resp.Code)
	}
	current, _, _ = facade.CurrentTab()
	if len(current.Items) != 0 {
		t.Fatalf("expected empty items, got %+v", current.Items)
	}
}

func TestCheckoutHandlerNoActiveTab(t *testing.T) {
	handler := NewCheckoutHandler(newTestFacade(nil))
	resp := performRequest(t, http.MethodGet, "/tabs/current/checkout", handler.Checkout, "/tabs/current/checkout", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCheckoutHandlerPayload(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-1", Quantity: 2, Rate: 100, DiscountPercent: 10})

	handler := NewCheckoutHandler(facade)
	resp := performRequest(t, http.MethodGet, "/tabs/current/checkout", handler.Checkout, "/tabs/current/checkout", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload app.CheckoutPayload
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.TabID != tab.ID || len(payload.Items) != 1 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Totals.FinalTotal != 198 {
		t.Fatalf("expected final total 198, got %v", payload.Totals.FinalTotal)
	}
	if payload.Customer.Name != "Walking Customer" {
		t.Fatalf("expected walking customer, got %+v", payload.Customer)
	}
}

func TestEditorHandlerFlow(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-1", Quantity: 1, Rate: 10})
	handler := NewEditorHandler(facade)

	resp := performRequest(t, http.MethodPost, "/editor/select", handler.Select, "/editor/select",
		dto.SelectRequest{ItemCode: "SKU-1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/editor/edit", handler.Edit, "/editor/edit",
		dto.EditRequest{Field: "quantity"})
	if resp.Code != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/editor/input", handler.Input, "/editor/input",
		dto.InputRequest{Value: "4"})
	if resp.Code != http.StatusOK {
		t.Fatalf("input: expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/editor/commit", handler.Commit, "/editor/commit", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("commit: expected 200, got %d", resp.Code)
	}

	var commit dto.CommitResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &commit); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if commit.Outcome != editor.OutcomeAdvanced || commit.NextField != model.FieldUOM {
		t.Fatalf("unexpected commit %+v", commit)
	}

	current, _, _ := facade.CurrentTab()
	if current.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %v", current.Items[0].Quantity)
	}
}

func TestEditorHandlerSelectUnknownItem(t *testing.T) {
	facade := newTestFacade(nil)
	facade.CreateTab()
	handler := NewEditorHandler(facade)

	resp := performRequest(t, http.MethodPost, "/editor/select", handler.Select, "/editor/select",
		dto.SelectRequest{ItemCode: "nope"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestEditorHandlerNavigate(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-1"})
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-2"})
	handler := NewEditorHandler(facade)

	resp := performRequest(t, http.MethodPost, "/editor/navigate", handler.Navigate, "/editor/navigate",
		dto.NavigateRequest{Direction: "down"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var cursor editor.Cursor
	if err := json.Unmarshal(resp.Body.Bytes(), &cursor); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if cursor.SelectedItemCode != "SKU-1" || cursor.State != editor.StateSelected {
		t.Fatalf("unexpected cursor %+v", cursor)
	}

	resp = performRequest(t, http.MethodPost, "/editor/navigate", handler.Navigate, "/editor/navigate",
		dto.NavigateRequest{Direction: "sideways"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad direction, got %d", resp.Code)
	}
}

func TestEditorHandlerCommitWithoutEdit(t *testing.T) {
	handler := NewEditorHandler(newTestFacade(nil))
	resp := performRequest(t, http.MethodPost, "/editor/commit", handler.Commit, "/editor/commit", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestEditorHandlerAllocationFlow(t *testing.T) {
	stock := &testhelpers.StockClientStub{Stock: []model.StockLevel{
		{Warehouse: "Main Warehouse", Available: 3},
		{Warehouse: "Backroom", Available: 10},
	}}
	facade := newTestFacade(stock)
	tab := facade.CreateTab()
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-1", Quantity: 1, Rate: 10})
	handler := NewEditorHandler(facade)

	if err := facade.SelectItem("SKU-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := facade.BeginEdit(model.FieldQuantity); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := facade.EditInput("8"); err != nil {
		t.Fatalf("input: %v", err)
	}

	resp := performRequest(t, http.MethodPost, "/editor/commit", handler.Commit, "/editor/commit", nil)
	var commit dto.CommitResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &commit); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if commit.Outcome != editor.OutcomeAllocationRequired || commit.Allocation == nil {
		t.Fatalf("expected allocation required, got %+v", commit)
	}
	if commit.Allocation.Shortage != 5 {
		t.Fatalf("expected shortage 5, got %v", commit.Allocation.Shortage)
	}

	resp = performRequest(t, http.MethodPost, "/editor/allocate", handler.Allocate, "/editor/allocate",
		dto.AllocateRequest{Allocations: []model.WarehouseAllocation{{Warehouse: "Backroom", Qty: 5}}})
	if resp.Code != http.StatusOK {
		t.Fatalf("allocate: expected 200, got %d", resp.Code)
	}

	current, _, _ := facade.CurrentTab()
	if current.Items[0].Quantity != 8 {
		t.Fatalf("expected quantity 8, got %v", current.Items[0].Quantity)
	}
	if len(current.Items[0].Allocations) != 1 || current.Items[0].Allocations[0].Warehouse != "Backroom" {
		t.Fatalf("unexpected allocations %+v", current.Items[0].Allocations)
	}
}

func TestEditorHandlerAllocateRejectsShortSplit(t *testing.T) {
	stock := &testhelpers.StockClientStub{Stock: []model.StockLevel{
		{Warehouse: "Main Warehouse", Available: 3},
		{Warehouse: "Backroom", Available: 10},
	}}
	facade := newTestFacade(stock)
	tab := facade.CreateTab()
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-1", Quantity: 1, Rate: 10})
	handler := NewEditorHandler(facade)

	_ = facade.SelectItem("SKU-1")
	_ = facade.BeginEdit(model.FieldQuantity)
	_ = facade.EditInput("8")
	if _, err := facade.CommitEdit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	resp := performRequest(t, http.MethodPost, "/editor/allocate", handler.Allocate, "/editor/allocate",
		dto.AllocateRequest{Allocations: []model.WarehouseAllocation{{Warehouse: "Backroom", Qty: 2}}})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestEditorHandlerCancelAndDeselect(t *testing.T) {
	facade := newTestFacade(nil)
	tab := facade.CreateTab()
	_ = facade.AddItem(tab.ID, model.LineItem{ItemCode: "SKU-1"})
	handler := NewEditorHandler(facade)

	_ = facade.SelectItem("SKU-1")
	_ = facade.BeginEdit(model.FieldQuantity)

	resp := performRequest(t, http.MethodPost, "/editor/cancel", handler.Cancel, "/editor/cancel", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d", resp.Code)
	}
	var cursor editor.Cursor
	if err := json.Unmarshal(resp.Body.Bytes(), &cursor); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if cursor.State != editor.StateSelected {
		t.Fatalf("expected selected state, got %q", cursor.State)
	}

	resp = performRequest(t, http.MethodPost, "/editor/deselect", handler.Deselect, "/editor/deselect", nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &cursor); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if cursor.State != editor.StateIdle {
		t.Fatalf("expected idle state, got %q", cursor.State)
	}
}

func TestEditorHandlerCursor(t *testing.T) {
	handler := NewEditorHandler(newTestFacade(nil))
	resp := performRequest(t, http.MethodGet, "/editor", handler.Cursor, "/editor", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var cursor editor.Cursor
	if err := json.Unmarshal(resp.Body.Bytes(), &cursor); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if cursor.State != editor.StateIdle {
		t.Fatalf("expected idle cursor, got %+v", cursor)
	}
}
