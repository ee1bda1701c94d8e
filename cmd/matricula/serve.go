package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/noah-isme/matricula-admin/api/swagger"
	"github.com/noah-isme/matricula-admin/internal/handler"
	"github.com/noah-isme/matricula-admin/internal/service"
	"github.com/noah-isme/matricula-admin/internal/web"
	"github.com/noah-isme/matricula-admin/pkg/config"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, portOverride int) error {
	cfg, logr, be, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck
	defer be.close()

	if portOverride > 0 {
		cfg.Port = portOverride
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}
	templates := web.MustTemplates()
	store := newRecordStore(be, logr, metrics)

	registrations := service.NewRegistrationService(store, validator.New(), service.RegistrationConfig{
		Collection:    cfg.Store.Collection,
		RedirectDelay: cfg.Registration.RedirectDelay,
	}, metrics, logr)
	exports := service.NewExportService(templates, cfg.Print.SettleDelay, metrics, logr, nil, nil)
	listings := service.NewListingService(store, exports, service.ListingConfig{
		Collection:      cfg.Store.Collection,
		DefaultPageSize: cfg.Listing.DefaultPageSize,
		PageSizes:       cfg.Listing.PageSizes,
		SessionTTL:      cfg.Listing.SessionTTL,
	}, metrics, logr)

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:     cfg.APIPrefix,
		EnableDocs:    cfg.Env != config.EnvProduction,
		EnableMetrics: cfg.Metrics.Enabled,
		Templates:     templates,
		Static:        web.Static(),
		Logger:        logr,
		Metrics:       metrics,
		Registrations: registrations,
		Listings:      listings,
		Readiness:     be.checks,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logr.Error("server failed", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
