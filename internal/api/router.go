package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	healthHttp "github.com/nekogravitycat/hourglass-gateway/internal/health/http"
	"github.com/nekogravitycat/hourglass-gateway/internal/metrics"
	"github.com/nekogravitycat/hourglass-gateway/internal/resource"
	resourceHttp "github.com/nekogravitycat/hourglass-gateway/internal/resource/http"
	"github.com/nekogravitycat/hourglass-gateway/internal/schedule"
	scheduleHttp "github.com/nekogravitycat/hourglass-gateway/internal/schedule/http"
	"github.com/nekogravitycat/hourglass-gateway/internal/upstream"
)

// Config holds the dependencies and settings required to build the router.
type Config struct {
	AllowedOrigins  string // extra origins, comma-separated
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	Upstream        *upstream.Client
	ResourceService resource.Service
	ScheduleService schedule.Service
}

// devOrigins are the front-end dev servers the gateway always accepts.
var devOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, logging, metrics,
// recovery) and registering the proxy routes. The CORS middleware runs
// first so cross-origin headers are present on every response, error
// responses included.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Recovery: captures panics and returns a 500 instead of crashing.
	// - RequestID/RequestLogger/Measure: diagnostics on every request.
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(Measure(cfg.Metrics))
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.AllowedOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Initialize HTTP handlers (injecting service dependencies).
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService)
	healthHandler := healthHttp.NewHandler(cfg.Upstream)

	// Register proxy routes under /api
	apiGroup := r.Group("/api")
	{
		resourceHttp.RegisterRoutes(apiGroup, resourceHandler)
		scheduleHttp.RegisterRoutes(apiGroup, scheduleHandler)
		healthHttp.RegisterRoutes(apiGroup, healthHandler)
	}

	// CORS smoke-test endpoint for the front end, no upstream call.
	r.GET("/test-cors", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "CORS is working properly!"})
	})

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	return r
}

// allowedOrigins merges the built-in dev origins with the configured extras.
func allowedOrigins(extra string) []string {
	origins := append([]string{}, devOrigins...)
	for _, o := range strings.Split(extra, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
