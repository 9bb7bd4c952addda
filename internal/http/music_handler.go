package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scent-llm/internal/youtube"
)

// MusicHandler resuelve título y artista a partir de un link de YouTube.
type MusicHandler struct {
	logger *zap.Logger
	videos *youtube.Client
}

func NewMusicHandler(logger *zap.Logger, videos *youtube.Client) *MusicHandler {
	return &MusicHandler{logger: logger, videos: videos}
}

// ExtractMusic maneja POST /api/extract-music.
func (h *MusicHandler) ExtractMusic(c *gin.Context) {
	var req struct {
		YoutubeURL string `json:"youtubeUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.YoutubeURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "YouTube URL이 필요합니다."})
		return
	}

	info, err := h.videos.VideoFromURL(c.Request.Context(), strings.TrimSpace(req.YoutubeURL))
	if err != nil {
		var apiErr *youtube.APIError
		switch {
		case errors.Is(err, youtube.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "유효하지 않은 YouTube URL입니다."})
		case errors.Is(err, youtube.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "YouTube API 키가 설정되지 않았습니다."})
		case errors.Is(err, youtube.ErrVideoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "해당 비디오를 찾을 수 없습니다."})
		case errors.As(err, &apiErr):
			h.logger.Warn("youtube api error", zap.Int("status", apiErr.StatusCode), zap.String("body", apiErr.Body))
			c.JSON(apiErr.StatusCode, gin.H{"success": false, "error": "YouTube API 요청에 실패했습니다."})
		default:
			h.logger.Error("extract music failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "음악 정보 추출 중 오류가 발생했습니다."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": info})
}
