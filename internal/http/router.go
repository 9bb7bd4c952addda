package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scent-llm/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas de la API.
func NewRouter(
	logger *zap.Logger,
	analyzeH *AnalyzeHandler,
	musicH *MusicHandler,
	searchH *SearchHandler,
	limiter service.RateLimiter,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging + métricas, recovery y JSON content-type.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/analyze-preferences", rateLimitMiddleware(limiter, logger), analyzeH.AnalyzePreferences)
	api.POST("/extract-music", musicH.ExtractMusic)
	api.POST("/search-content", searchH.SearchContentPOST)
	api.GET("/search-content", searchH.SearchContentGET)

	return r
}
