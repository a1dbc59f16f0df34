package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(yieldHandler *handlers.YieldHandler, advisoryHandler *handlers.AdvisoryHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if yieldHandler != nil {
		y := r.Group("/yield")
		y.POST("/estimate", yieldHandler.Estimate)
		y.GET("/reports/:id", yieldHandler.GetReport)
		y.GET("/reports/:id/html", yieldHandler.GetReportHTML)
		y.GET("/reference", yieldHandler.Reference)
		y.GET("/reference/:crop", yieldHandler.LookupCrop)
		y.GET("/crops", yieldHandler.KnownCrops)
	}

	if advisoryHandler != nil {
		a := r.Group("/advisory")
		a.POST("/recommendations", advisoryHandler.Recommend)
		a.GET("/recommendations/:session", advisoryHandler.Get)
		a.DELETE("/recommendations/:session", advisoryHandler.Delete)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= 500 {
			logger.Warn("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
