package stock

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/retailpoint/counterd/internal/config"
)

// Module exposes the stock client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.ERPAddress, p.Logger)
}
