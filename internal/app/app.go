package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/retailpoint/counterd/internal/config"
	"github.com/retailpoint/counterd/internal/domain/repository"
	"github.com/retailpoint/counterd/internal/editor"
	"github.com/retailpoint/counterd/internal/register"
	"github.com/retailpoint/counterd/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newRegisterFacade,
		newHTTPServer,
		newPersister,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Register *register.Register
	Editor   *editor.Editor
	Config   *config.Config
	Logger   *slog.Logger
}

func newRegisterFacade(p facadeParams) *RegisterFacade {
	return NewRegisterFacade(p.Register, p.Editor, p.Config.TaxRate, p.Logger)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type persisterParams struct {
	fx.In

	Register *register.Register
	Repo     repository.SnapshotRepository
	Config   *config.Config
	Logger   *slog.Logger
}

func newPersister(p persisterParams) *worker.Persister {
	return worker.NewPersister(
		p.Register,
		p.Repo,
		p.Config.SnapshotKey,
		p.Config.PersistInterval,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Register   *register.Register
	Repo       repository.SnapshotRepository
	Persister  *worker.Persister
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			snapshot, err := p.Repo.Load(ctx, p.Config.SnapshotKey)
			if err != nil {
				p.Logger.Error("snapshot restore failed, starting empty", slog.String("error", err.Error()))
			} else if snapshot != nil {
				p.Register.Restore(snapshot)
			}

			p.Logger.Info("starting counterd", slog.String("addr", p.Server.Addr))
			p.Persister.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Persister.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("counterd stopped")
			return nil
		},
	})
}
