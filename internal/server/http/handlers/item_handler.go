package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailpoint/counterd/internal/server/http/dto"
)

// ItemHandler manages line item endpoints.
type ItemHandler struct {
	facade ItemFacade
}

// NewItemHandler constructs ItemHandler.
func NewItemHandler(facade ItemFacade) *ItemHandler {
	return &ItemHandler{facade: facade}
}

// Add handles POST /api/tabs/:id/items. Duplicates are rejected before the
// container is touched; the container itself appends blindly.
func (h *ItemHandler) Add(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tabID := c.Param("id")
	if h.facade.ItemExists(tabID, req.ItemCode) {
		c.Status(http.StatusConflict)
		return
	}
	if err := h.facade.AddItem(tabID, req.ToModel()); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusCreated)
}

// Remove handles DELETE /api/tabs/:id/items/:code.
func (h *ItemHandler) Remove(c *gin.Context) {
	if err := h.facade.RemoveItem(c.Param("id"), c.Param("code")); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// Update handles PATCH /api/tabs/:id/items/:code.
func (h *ItemHandler) Update(c *gin.Context) {
	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.facade.UpdateItem(c.Param("id"), c.Param("code"), req.ToModel()); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear handles POST /api/tabs/:id/items/clear.
func (h *ItemHandler) Clear(c *gin.Context) {
	if err := h.facade.ClearItems(c.Param("id")); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
