package traceapi

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// ServiceName is reported by the tracing middleware.
const ServiceName = "algotrace"

// NewRouter builds the gin engine with middleware, routes and the 404
// envelope.
func NewRouter(svc *Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(ServiceName))
	router.Use(RequestLogger())
	SetupRoutes(router, svc)
	router.NoRoute(NotFound)
	return router
}

// SetupRoutes registers every route on router.
func SetupRoutes(router *gin.Engine, svc *Service) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(svc.gatherer, promhttp.HandlerOpts{})))
	router.GET("/runs", HandleRuns(svc))
	router.POST("/maze", HandleMaze(svc))

	sort := router.Group("/sort")
	{
		sort.GET("/algorithms", HandleSortAlgorithms())
		sort.POST("/:algorithm", HandleSort(svc))
	}

	router.POST("/search/:algorithm", HandleSearch(svc))
	router.GET("/stream/sort/:algorithm", HandleSortStream(svc))
}

// RequestLogger logs one line per request through slog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
