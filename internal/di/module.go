package di

import (
	"go.uber.org/fx"

	"github.com/retailpoint/counterd/internal/adapter/stock"
	"github.com/retailpoint/counterd/internal/app"
	"github.com/retailpoint/counterd/internal/config"
	"github.com/retailpoint/counterd/internal/editor"
	"github.com/retailpoint/counterd/internal/logger"
	"github.com/retailpoint/counterd/internal/register"
	"github.com/retailpoint/counterd/internal/server/http/handlers"
	"github.com/retailpoint/counterd/internal/server/http/router"
	"github.com/retailpoint/counterd/internal/storage"
)

// Module assembles the full application graph. Options passed in override
// individual providers, which tests use to substitute stubs.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		storage.Module,
		stock.Module,
		register.Module,
		editor.Module,
		app.Module,
		fx.Provide(func(f *app.RegisterFacade) handlers.PosFacade { return f }),
		router.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
