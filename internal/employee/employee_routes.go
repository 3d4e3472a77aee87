package employee

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

	employees := r.Group("/employees")
	{
		employees.GET("", read, handler.GetAll)
		employees.GET("/options", read, handler.GetOptions)
		employees.GET("/:id", read, handler.GetById)

		employees.POST("", create...)
		employees.PUT("/:id", write, handler.Update)
		employees.DELETE("/:id", write, handler.Delete)
	}
}
