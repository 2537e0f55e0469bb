package crm

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// Settings is what the relay needs from configuration and environment.
type Settings struct {
	Odoo        OdooConfig
	OdooTimeout time.Duration
	Brand       string
	Addr        string
}

// Module provides the relay components: Odoo client, syncer, controller
// and router.
var Module = fx.Provide(
	provideOdoo,
	provideSyncer,
	NewLeadController,
	NewRouter,
)

func provideOdoo(s Settings) Odoo {
	return NewOdooClient(s.Odoo, s.OdooTimeout)
}

func provideSyncer(odoo Odoo, s Settings, logger *slog.Logger) Syncer {
	return NewOdooSync(odoo, s.Brand, logger)
}

// StartServer binds the relay to the lifecycle. The listener is opened in
// OnStart so a bad address fails startup; a serve error after that shuts
// the application down.
func StartServer(lc fx.Lifecycle, s Settings, engine *gin.Engine, shutdowner fx.Shutdowner, logger *slog.Logger) {
	srv := &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", s.Addr)
			if err != nil {
				return err
			}
			logger.Info("relay listening", slog.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("relay stopped", slog.String("error", err.Error()))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("relay shutting down")
			return srv.Shutdown(ctx)
		},
	})
}

// NewApp assembles the relay application.
func NewApp(s Settings, logger *slog.Logger, opts ...fx.Option) *fx.App {
	return fx.New(
		fx.Supply(s, logger),
		Module,
		fx.Invoke(StartServer),
		fx.NopLogger,
		fx.Options(opts...),
	)
}
