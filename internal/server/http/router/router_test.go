package router

import (
	"bytes"
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
	"github.com/retailpoint/counterd/internal/server/http/handlers"
)

func newEngine(t *testing.T) (*gin.Engine, *app.RegisterFacade) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	reg := register.New(logger)
	ed := editor.New(reg, nil, model.DefaultFieldOrder(), "Main Warehouse", logger)
	facade := app.NewRegisterFacade(reg, ed, 0.10, logger)
	return Setup(facade, logger), facade
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
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
	req.Header.Set("Accept-Encoding", "identity")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	engine, facade := newEngine(t)

	resp := doJSON(t, engine, http.MethodPost, "/api/tabs", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for tab create, got %d", resp.Code)
	}
	var tab model.Tab
	if err := json.Unmarshal(resp.Body.Bytes(), &tab); err != nil {
		t.Fatalf("decode tab: %v", err)
	}

	resp = doJSON(t, engine, http.MethodPost, "/api/tabs/"+tab.ID+"/items",
		dto.AddItemRequest{ItemCode: "SKU-1", Quantity: 2, Rate: 100, DiscountPercent: 10})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for item add, got %d", resp.Code)
	}

	resp = doJSON(t, engine, http.MethodGet, "/api/tabs/current", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for current tab, got %d", resp.Code)
	}
	var current dto.CurrentTabResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &current); err != nil {
		t.Fatalf("decode current: %v", err)
	}
	if current.Totals.FinalTotal != 198 {
		t.Fatalf("expected final total 198, got %v", current.Totals.FinalTotal)
	}

	resp = doJSON(t, engine, http.MethodGet, "/api/tabs/current/checkout", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for checkout, got %d", resp.Code)
	}

	resp = doJSON(t, engine, http.MethodPost, "/api/editor/select", dto.SelectRequest{ItemCode: "SKU-1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for editor select, got %d", resp.Code)
	}

	resp = doJSON(t, engine, http.MethodGet, "/api/editor", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for editor cursor, got %d", resp.Code)
	}

	resp = doJSON(t, engine, http.MethodDelete, "/api/tabs/"+tab.ID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for tab close, got %d", resp.Code)
	}

	if tabs, _ := facade.Tabs(); len(tabs) != 0 {
		t.Fatalf("expected no tabs left, got %d", len(tabs))
	}
}

func TestSetupGzipResponses(t *testing.T) {
	engine, _ := newEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tabs", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoded response, got %q", resp.Header().Get("Content-Encoding"))
	}
}

var _ handlers.PosFacade = (*app.RegisterFacade)(nil)
