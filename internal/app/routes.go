package app

import (
	"github.com/gin-gonic/gin"
	"github.com/spark-journal/core/internal/modules/entry"
	"github.com/spark-journal/core/internal/modules/health"
	"github.com/spark-journal/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    health.ServiceName,
		"version": "1.0.0",
	}
	r.GET("/", func(c *gin.Context) {
		response.OK(c, appInfo)
	})

	health.RegisterRoutes(r.Group(""))

	api := r.Group("/api")
	entrySvc := entry.NewService(a.cfg.DataFile, a.logger)
	entry.NewHandler(entrySvc).RegisterRoutes(api)
}
