package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"clarity_engine/internal/infrastructure/restapi"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if !cfg.Logging.Development {
			gin.SetMode(gin.ReleaseMode)
		}

		router := restapi.SetupRouter(
			restapi.NewSimulateHandler(app.simulation, app.logger),
			restapi.NewRiskScanHandler(app.riskScan, app.logger),
			zapLogger.Named("http"),
			restapi.RouterOptions{
				Metrics:         app.metrics,
				Gatherer:        app.registry,
				SwaggerEnabled:  cfg.Swagger.Enabled,
				SwaggerSpecPath: cfg.Swagger.SpecPath,
			},
		)
		if cfg.Swagger.Enabled {
			zapLogger.Info("Swagger UI enabled", zap.String("path", "/swagger/index.html"))
		}

		srv := &http.Server{
			Addr:         listenAddr(cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zapLogger.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			zapLogger.Error("Server stopped with error", zap.Error(err))
			return err
		}
		zapLogger.Info("Server exiting")
		return nil
	},
}

func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
