package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceName identifies this backend in health responses.
const ServiceName = "spark-core"

func RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	})
}
