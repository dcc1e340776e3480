package editor

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/retailpoint/counterd/internal/adapter/stock"
	"github.com/retailpoint/counterd/internal/config"
	"github.com/retailpoint/counterd/internal/register"
)

// Module wires the items-table editor with the configured field traversal.
var Module = fx.Provide(newEditor)

type editorParams struct {
	fx.In

	Register *register.Register
	Stock    stock.Client
	Config   *config.Config
	Logger   *slog.Logger
}

func newEditor(p editorParams) *Editor {
	return New(p.Register, p.Stock, p.Config.EditFieldOrder, p.Config.DefaultWarehouse, p.Logger)
}
