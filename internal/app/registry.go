package app

import (
	"time"

	"ymph-crud/internal/employee"
	"ymph-crud/internal/events"
	"ymph-crud/internal/middleware"
	"ymph-crud/internal/product"
	"ymph-crud/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idempotencyTTL = 24 * time.Hour

type moduleDeps struct {
	db        *gorm.DB
	rdb       *redis.Client
	publisher events.Publisher
	cacheTTL  time.Duration
	limits    middleware.RateLimits
	logger    *zap.Logger
}

func registerModules(api *gin.RouterGroup, deps moduleDeps) {
	// --- Repositories ---
	counterRepo := counter.NewRepository(deps.db)
	employeeRepo := employee.NewRepository(deps.db)
	productRepo := product.NewRepository(deps.db)

	// --- Services ---
	employeeService := employee.NewServiceWithCache(employeeRepo, counterRepo, deps.publisher, deps.rdb, deps.cacheTTL, deps.logger)
	productService := product.NewServiceWithCache(productRepo, counterRepo, deps.publisher, deps.rdb, deps.cacheTTL, deps.logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, deps.logger)
	productHandler := product.NewHandler(productService, deps.logger)

	// --- Routes Registration ---
	idempotent := middleware.Idempotency(deps.rdb, idempotencyTTL)
	employee.RegisterRoutes(api, employeeHandler, deps.limits, idempotent)
	product.RegisterRoutes(api, productHandler, deps.limits, idempotent)
}
