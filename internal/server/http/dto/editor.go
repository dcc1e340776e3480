package dto

import (
	"github.com/retailpoint/counterd/internal/domain/model"
	"github.com/retailpoint/counterd/internal/editor"
)

// SelectRequest highlights an item row.
type SelectRequest struct {
	ItemCode string `json:"item_code" binding:"required"`
}

// NavigateRequest moves the row selection.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// EditRequest starts editing a field of the selected row.
type EditRequest struct {
	Field string `json:"field" binding:"required"`
}

// InputRequest replaces the edit buffer.
type InputRequest struct {
	Value string `json:"value"`
}

// AllocateRequest resolves a held quantity commit with a warehouse split.
type AllocateRequest struct {
	Allocations []model.WarehouseAllocation `json:"allocations" binding:"required"`
}

// CommitResponse reports a commit outcome plus the cursor that resulted.
type CommitResponse struct {
	Outcome    editor.Outcome            `json:"outcome"`
	NextField  model.EditField           `json:"next_field,omitempty"`
	Allocation *editor.AllocationRequest `json:"allocation,omitempty"`
	Cursor     editor.Cursor             `json:"cursor"`
}
