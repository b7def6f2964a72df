package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	cronrunner "stocktracker/internal/cron"
	"stocktracker/internal/handler"
)

// runCmd starts the scheduler and the ops HTTP server and blocks until a
// shutdown signal arrives.
type runCmd struct {
	flags appFlags
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run the scheduler and ops server" }
func (*runCmd) Usage() string {
	return `tracker run [-config path] [-env-only]

  Starts the cron scheduler with all sync jobs and, when enabled, the
  ops HTTP server. Blocks until SIGINT or SIGTERM.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f)
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	a, err := newApp(c.flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := cronrunner.New(a.logger, ctx)
	if err := a.registerJobs(runner); err != nil {
		a.logger.Error("job registration failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	runner.Start()
	defer runner.Stop()

	errCh := make(chan error, 1)
	var srv *http.Server
	if a.cfg.Server.Enabled {
		if strings.EqualFold(a.cfg.App.Env, "dev") {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		engine := gin.New()
		engine.Use(gin.Recovery())

		healthHandler := &handler.HealthHandler{DB: a.db.Gorm}
		healthHandler.Register(engine)
		opsHandler := &handler.OpsHandler{Repo: a.store, Runner: runner, Session: a.sess}
		opsHandler.Register(engine)

		srv = &http.Server{
			Addr:    a.cfg.Server.HTTPAddr,
			Handler: engine,
		}
		go func() {
			a.logger.Info("http server starting", zap.String("addr", a.cfg.Server.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown requested")
	case err := <-errCh:
		a.logger.Error("server error", zap.Error(err))
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return subcommands.ExitSuccess
}
