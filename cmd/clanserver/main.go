// Command clanserver is the game-facing HTTP service: the §6 routes
// plus the /admin side-channel, one process, one listener. Mirrors
// the teacher's cmd/loginserver/main.go boot sequence (slog setup,
// dependency construction, signal-based graceful shutdown).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/clanserver/internal/api"
	"github.com/udisondev/clanserver/internal/clanconf"
	"github.com/udisondev/clanserver/internal/clanops"
	"github.com/udisondev/clanserver/internal/clanstore"
	"github.com/udisondev/clanserver/internal/config"
	"github.com/udisondev/clanserver/internal/metrics"
	"github.com/udisondev/clanserver/internal/ticket"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("clanserver exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	store := clanstore.NewMongoStore(client.Database("clans"))
	keys := ticket.NewKeyStore(cfg.KeysDir)

	// Index creation and key-file loading are independent startup
	// costs; run them concurrently, mirroring the teacher's
	// login.NewServer one-time RSA key-pair generation pattern
	// generalized to two independent bootstrap tasks.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return store.EnsureIndexes(gctx) })
	g.Go(func() error {
		if _, err := keys.Key(ticket.SignerEmulator); err != nil {
			logger.Warn("emulator key not preloaded at startup", "error", err)
		}
		if _, err := keys.Key(ticket.SignerConsole); err != nil {
			logger.Warn("console key not preloaded at startup", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	limits, err := clanconf.Load(cfg.LimitsFile)
	if err != nil {
		return err
	}

	svc := &clanops.Service{Store: store, Limits: limits}
	reg := prometheus.NewRegistry()

	srv := &api.Server{
		Service:      svc,
		Keys:         keys,
		VerifyPolicy: ticket.VerifyPolicy{VerifyConsole: cfg.VerifyConsole},
		AdminToken:   cfg.AdminToken,
		Metrics:      metrics.New(reg),
		Log:          logger,
	}

	httpServer := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
