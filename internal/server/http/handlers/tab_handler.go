package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailpoint/counterd/internal/domain/model"
	"github.com/retailpoint/counterd/internal/server/http/dto"
)

// TabHandler manages tab lifecycle endpoints.
type TabHandler struct {
	facade TabFacade
}

// NewTabHandler constructs TabHandler.
func NewTabHandler(facade TabFacade) *TabHandler {
	return &TabHandler{facade: facade}
}

// Create handles POST /api/tabs.
func (h *TabHandler) Create(c *gin.Context) {
	tab := h.facade.CreateTab()
	c.JSON(http.StatusCreated, tab)
}

// Open handles POST /api/tabs/open.
func (h *TabHandler) Open(c *gin.Context) {
	var req dto.OpenTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	tab := h.facade.OpenTab(req.OrderID, req.OrderData)
	c.JSON(http.StatusCreated, tab)
}

// List handles GET /api/tabs.
func (h *TabHandler) List(c *gin.Context) {
	tabs, activeID := h.facade.Tabs()
	c.JSON(http.StatusOK, dto.TabListResponse{Tabs: tabs, ActiveTabID: activeID})
}

// Close handles DELETE /api/tabs/:id.
func (h *TabHandler) Close(c *gin.Context) {
	if err := h.facade.CloseTab(c.Param("id")); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// Activate handles PUT /api/tabs/:id/activate. Unknown ids are ignored so a
// stale renderer cannot corrupt the active pointer.
func (h *TabHandler) Activate(c *gin.Context) {
	h.facade.ActivateTab(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Current handles GET /api/tabs/current. With no active tab it answers empty
// defaults, never an error.
func (h *TabHandler) Current(c *gin.Context) {
	tab, totals, ok := h.facade.CurrentTab()
	if !ok {
		c.JSON(http.StatusOK, dto.CurrentTabResponse{})
		return
	}
	c.JSON(http.StatusOK, dto.CurrentTabResponse{Tab: &tab, Totals: totals})
}

// UpdateCustomer handles PUT /api/tabs/:id/customer.
func (h *TabHandler) UpdateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	customer := model.Customer{Name: req.Name, TaxID: req.TaxID}
	if err := h.facade.UpdateCustomer(c.Param("id"), customer); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// SetTax handles PUT /api/tabs/:id/tax.
func (h *TabHandler) SetTax(c *gin.Context) {
	var req dto.TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.facade.SetTaxAmount(c.Param("id"), req.Amount); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// SetInvoice handles PUT /api/tabs/:id/invoice.
func (h *TabHandler) SetInvoice(c *gin.Context) {
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.facade.SetInvoice(c.Param("id"), req.Invoice); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkSaved handles POST /api/tabs/:id/saved.
func (h *TabHandler) MarkSaved(c *gin.Context) {
	var req dto.SavedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.facade.MarkSaved(c.Param("id"), req.OrderID); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// SetEdited handles PUT /api/tabs/:id/edited.
func (h *TabHandler) SetEdited(c *gin.Context) {
	var req dto.EditedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.facade.SetDirty(c.Param("id"), req.Dirty); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
