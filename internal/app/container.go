package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/hourglass-gateway/internal/api"
	"github.com/nekogravitycat/hourglass-gateway/internal/metrics"
	"github.com/nekogravitycat/hourglass-gateway/internal/resource"
	"github.com/nekogravitycat/hourglass-gateway/internal/schedule"
	"github.com/nekogravitycat/hourglass-gateway/internal/upstream"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	AllowedOrigins  string
	UpstreamBaseURL string
	APIKey          string
	UpstreamTimeout time.Duration
	Logger          *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router   *gin.Engine
	Upstream *upstream.Client
	Metrics  *metrics.Metrics
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	m := metrics.New()

	// Shared outbound client, one per process
	client := upstream.NewClient(upstream.Config{
		BaseURL: cfg.UpstreamBaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.UpstreamTimeout,
	}, cfg.Logger, m)

	// Proxy modules
	resourceService := resource.NewService(client)
	scheduleService := schedule.NewService(client)

	// Router
	router := api.NewRouter(api.Config{
		AllowedOrigins:  cfg.AllowedOrigins,
		Logger:          cfg.Logger,
		Metrics:         m,
		Upstream:        client,
		ResourceService: resourceService,
		ScheduleService: scheduleService,
	})

	return &Container{
		Router:   router,
		Upstream: client,
		Metrics:  m,
	}
}
