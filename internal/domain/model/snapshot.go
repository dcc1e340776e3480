package model

// RegisterSnapshot is the durable state of the register: open tabs and the
// active pointer. The edit cursor is deliberately excluded; it always resets
// to defaults after a restart.
type RegisterSnapshot struct {
	Tabs        []Tab  `json:"tabs"`
	ActiveTabID string `json:"active_tab_id,omitempty"`
}
