package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scent-llm/internal/search"
	"scent-llm/internal/service"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// SearchHandler expone las búsquedas sueltas de contenido.
type SearchHandler struct {
	logger  *zap.Logger
	content *service.ContentSearchService
}

func NewSearchHandler(logger *zap.Logger, content *service.ContentSearchService) *SearchHandler {
	return &SearchHandler{logger: logger, content: content}
}

// SearchContentPOST maneja POST /api/search-content.
func (h *SearchHandler) SearchContentPOST(c *gin.Context) {
	var req service.SearchContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "지원하지 않는 검색 타입입니다."})
		return
	}
	h.search(c, req)
}

// SearchContentGET maneja GET /api/search-content con los mismos campos en la query string.
func (h *SearchHandler) SearchContentGET(c *gin.Context) {
	var req service.SearchContentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "지원하지 않는 검색 타입입니다."})
		return
	}
	if req.Type == "" {
		req.Type = service.SearchTypeAll
	}
	h.search(c, req)
}

func (h *SearchHandler) search(c *gin.Context, req service.SearchContentRequest) {
	h.logger.Info("search content", zap.String("type", req.Type), zap.String("query", req.Query))

	out, err := h.content.Search(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingQuery):
			msg := "음악 제목이 필요합니다."
			if req.Type == service.SearchTypeMovie || req.Type == service.SearchTypeSimilarMovies {
				msg = "영화 제목이 필요합니다."
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		case errors.Is(err, service.ErrMissingYoutubeURL):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "YouTube URL이 필요합니다."})
		case errors.Is(err, service.ErrUnsupportedSearch):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "지원하지 않는 검색 타입입니다."})
		case errors.Is(err, search.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "검색 API 키가 설정되지 않았습니다."})
		default:
			h.logger.Error("search content failed", zap.Error(err), zap.String("type", req.Type))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "검색 중 오류가 발생했습니다.",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       out,
		"searchType": req.Type,
		"timestamp":  time.Now().UTC().Format(isoMillis),
	})
}
