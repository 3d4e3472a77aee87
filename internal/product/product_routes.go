package product

import (
	"ymph-crud/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	limits middleware.RateLimits,
	guards ...gin.HandlerFunc,
) {
	read := middleware.RateLimitByIP(limits.Scaled(4))
	write := middleware.RateLimitByIP(limits)

	create := append([]gin.HandlerFunc{write}, guards...)
	create = append(create, handler.Create)

	products := r.Group("/products")
	{
		products.GET("", read, handler.GetAll)
		products.GET("/:id", read, handler.GetById)

		products.POST("", create...)
		products.PUT("/:id", write, handler.Update)
		products.DELETE("/:id", write, handler.Delete)
	}
}
