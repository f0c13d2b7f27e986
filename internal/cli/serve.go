package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"clinscore/internal/config"
	"clinscore/internal/database"
	logger "clinscore/internal/logging"
	"clinscore/internal/repository"
	"clinscore/internal/router"
	"clinscore/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCommand creates the 'clinscore serve' command.
func NewServeCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root)
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Project root containing config/config.yaml")

	return cmd
}

func runServe(ctx context.Context, root string) error {
	v, err := config.Load(root)
	if err != nil {
		return err
	}
	conf := config.Get()

	log, err := logger.Init(conf.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	gin.SetMode(gin.ReleaseMode)

	deps := router.Deps{Store: services.NewSessionStore(log)}
	if conf.Database.Enabled {
		db, err := database.Open(conf.Database, log)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		deps.Results = repository.NewResultRepository(db)
	} else {
		log.Info("Database disabled; results will not be persisted")
	}

	janitor, err := services.NewJanitor(log, deps.Store, conf.Sessions.SweepInterval, conf.Sessions.IdleTimeout)
	if err != nil {
		return err
	}
	janitor.Start(ctx)
	config.Watch(v, log, func(c *config.Config) {
		janitor.SetMaxIdle(c.Sessions.IdleTimeout)
	})

	srv := &http.Server{
		Addr:              ":" + conf.Server.Port,
		Handler:           router.Setup(log, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening on http://localhost:" + conf.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to run server", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
