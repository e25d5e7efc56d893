package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"clarity_engine/internal/pkg/metrics"
)

// RouterOptions carries the optional surfaces mounted next to the API.
type RouterOptions struct {
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	SwaggerEnabled  bool
	SwaggerSpecPath string
}

// SetupRouter builds the gin engine with the API routes, metrics and docs.
func SetupRouter(
	simulateHandler *SimulateHandler,
	riskScanHandler *RiskScanHandler,
	zapLogger *zap.Logger,
	opts RouterOptions,
) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(RequestIDMiddleware())
	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(MetricsMiddleware(opts.Metrics))
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/simulate", simulateHandler.SimulateTransactionHandler)
		api.GET("/simulate", simulateHandler.SimulateStatusHandler)
		api.GET("/risk-scan", riskScanHandler.GetRiskScanHandler)
	}

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	if opts.SwaggerEnabled && opts.SwaggerSpecPath != "" {
		router.StaticFile("/docs/swagger.yaml", opts.SwaggerSpecPath)
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.yaml")))
	}

	return router
}
