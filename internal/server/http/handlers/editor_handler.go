package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailpoint/counterd/internal/domain/model"
	"github.com/retailpoint/counterd/internal/editor"
	"github.com/retailpoint/counterd/internal/server/http/dto"
)

// EditorHandler exposes the cell-edit state machine.
type EditorHandler struct {
	facade EditorFacade
}

// NewEditorHandler constructs EditorHandler.
func NewEditorHandler(facade EditorFacade) *EditorHandler {
	return &EditorHandler{facade: facade}
}

// Cursor handles GET /api/editor.
func (h *EditorHandler) Cursor(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.EditorCursor())
}

// Select handles POST /api/editor/select.
func (h *EditorHandler) Select(c *gin.Context) {
	var req dto.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.facade.SelectItem(req.ItemCode); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, h.facade.EditorCursor())
}

// Navigate handles POST /api/editor/navigate.
func (h *EditorHandler) Navigate(c *gin.Context) {
	var req dto.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	switch req.Direction {
	case "up":
		h.facade.NavigateItem(false)
	case "down":
		h.facade.NavigateItem(true)
	default:
		c.Status(http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, h.facade.EditorCursor())
}

// Edit handles POST /api/editor/edit.
func (h *EditorHandler) Edit(c *gin.Context) {
	var req dto.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	field, err := model.ParseEditField(req.Field)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.facade.BeginEdit(field); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, h.facade.EditorCursor())
}

// Input handles POST /api/editor/input.
func (h *EditorHandler) Input(c *gin.Context) {
	var req dto.InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.facade.EditInput(req.Value); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, h.facade.EditorCursor())
}

// Commit handles POST /api/editor/commit.
func (h *EditorHandler) Commit(c *gin.Context) {
	result, err := h.facade.CommitEdit(c.Request.Context())
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toCommitResponse(result, h.facade.EditorCursor()))
}

// Cancel handles POST /api/editor/cancel.
func (h *EditorHandler) Cancel(c *gin.Context) {
	h.facade.CancelEdit()
	c.JSON(http.StatusOK, h.facade.EditorCursor())
}

// Allocate handles POST /api/editor/allocate.
func (h *EditorHandler) Allocate(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	result, err := h.facade.ResolveAllocation(req.Allocations)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toCommitResponse(result, h.facade.EditorCursor()))
}

// CancelAllocation handles POST /api/editor/allocate/cancel.
func (h *EditorHandler) CancelAllocation(c *gin.Context) {
	h.facade.CancelAllocation()
	c.JSON(http.StatusOK, h.facade.EditorCursor())
}

// Deselect handles POST /api/editor/deselect.
func (h *EditorHandler) Deselect(c *gin.Context) {
	h.facade.DeselectItem()
	c.JSON(http.StatusOK, h.facade.EditorCursor())
}

func toCommitResponse(result editor.CommitResult, cursor editor.Cursor) dto.CommitResponse {
	return dto.CommitResponse{
		Outcome:    result.Outcome,
		NextField:  result.NextField,
		Allocation: result.Allocation,
		Cursor:     cursor,
	}
}
