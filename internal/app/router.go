package app

import (
	"context"
	"net/http"
	"time"

	"ymph-crud/internal/config"
	"ymph-crud/internal/events"
	"ymph-crud/internal/middleware"
	"ymph-crud/internal/shared/apperror"
	"ymph-crud/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const readinessTimeout = 2 * time.Second

func NewRouter(
	cfg config.Config,
	logger *zap.Logger,
	gormDB *gorm.DB,
	rdb *redis.Client,
	publisher events.Publisher,
) *gin.Engine {
	metrics := middleware.NewHTTPMetrics(ServiceName)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.ContextLogger(logger),
		middleware.RequestLogger(logger),
		metrics.Middleware(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})
	r.GET("/readyz", readiness(gormDB, rdb))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "Route not found.", nil)
	})

	registerModules(r.Group("/api/v1"), moduleDeps{
		db:        gormDB,
		rdb:       rdb,
		publisher: publisher,
		cacheTTL:  cfg.Redis.CacheTTL,
		limits:    middleware.RateLimits{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst},
		logger:    logger,
	})

	return r
}

// readiness reports 503 when the database, or redis if configured, does not
// answer a ping.
func readiness(gormDB *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		checks := gin.H{"database": "ok"}
		healthy := true

		sqlDB, err := gormDB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["database"] = "unavailable"
			healthy = false
		}

		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = "unavailable"
				healthy = false
			}
		}

		if !healthy {
			response.Error(c, http.StatusServiceUnavailable,
				apperror.ErrServiceUnavailable.Code, apperror.ErrServiceUnavailable.Message, checks)
			return
		}
		response.Success(c, http.StatusOK, checks, nil)
	}
}
