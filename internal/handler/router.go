package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/matricula-admin/internal/middleware"
	"github.com/noah-isme/matricula-admin/internal/service"
	"github.com/noah-isme/matricula-admin/pkg/logger"
	reqidmiddleware "github.com/noah-isme/matricula-admin/pkg/middleware/requestid"
)

// RouterConfig carries everything the http surface needs.
type RouterConfig struct {
	APIPrefix     string
	EnableDocs    bool
	EnableMetrics bool
	Templates     *template.Template
	Static        http.FileSystem
	Logger        *zap.Logger
	Metrics       *service.MetricsService
	Registrations *service.RegistrationService
	Listings      *service.ListingService
	Readiness     map[string]ReadinessCheck
}

// NewRouter builds the gin engine with the html pages, the JSON API and the
// operational endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics, "/static/", "/metrics"))

	if cfg.Templates != nil {
		r.SetHTMLTemplate(cfg.Templates)
	}
	if cfg.Static != nil {
		r.StaticFS("/static", cfg.Static)
	}

	ops := NewMetricsHandler(cfg.Metrics, cfg.Readiness)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if cfg.EnableMetrics {
		r.GET("/metrics", ops.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	pages := NewPageHandler(cfg.Registrations, cfg.Listings, cfg.APIPrefix)
	r.GET("/", pages.Landing)
	r.GET("/registro", pages.RegistrationForm)
	r.POST("/registro", pages.Register)
	r.GET("/listado", pages.Listing)
	r.GET("/listado/exportar", pages.ExportCSV)
	r.GET("/listado/exportar/pdf", pages.ExportPDF)
	r.GET("/listado/imprimir", pages.Print)
	r.GET("/listado/:id", pages.Details)
	r.POST("/listado/:id/eliminar", pages.Delete)
	r.POST("/listado/:id/editar", pages.Edit)

	enrollments := NewEnrollmentHandler(cfg.Registrations, cfg.Listings)
	listing := NewListingHandler(cfg.Listings)

	api := r.Group(cfg.APIPrefix)
	api.POST("/enrollments", enrollments.Create)
	api.GET("/enrollments/:id", enrollments.Get)
	api.PUT("/enrollments/:id", enrollments.Update)
	api.DELETE("/enrollments/:id", enrollments.Delete)
	api.POST("/registrations/summary", enrollments.Summary)

	api.GET("/listing", listing.Get)
	api.GET("/listing/stats", listing.Stats)
	api.GET("/listing/export", listing.Export)
	api.GET("/listing/print", listing.Print)
	api.POST("/listing/filter", listing.Filter)
	api.POST("/listing/clear", listing.Clear)
	api.POST("/listing/page", listing.Page)
	api.POST("/listing/page-size", listing.PageSize)
	api.POST("/listing/reload", listing.Reload)

	return r
}
