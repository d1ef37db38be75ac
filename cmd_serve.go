package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"friendgraph/config"
	"friendgraph/database"
	"friendgraph/friendship"
	"friendgraph/handlers"
	"friendgraph/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := database.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.CreateTables(database.DB, database.Current); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := friendship.NewService(
		friendship.NewRepository(database.DB, database.Current),
		config.Cfg.MutualBatchConcurrency,
	)

	hub := websocket.NewHub(svc, config.Cfg.QueryTimeout)
	go hub.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.SetupRouter(
		handlers.NewFriendHandler(svc, hub, config.Cfg.QueryTimeout),
		database.DB,
		hub.HandleWebSocket,
	)

	srv := &http.Server{
		Addr:              config.Cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", config.Cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
