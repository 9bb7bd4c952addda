package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"scent-llm/internal/domain"
	"scent-llm/internal/service"
)

const (
	msgInvalidInput       = "입력값이 올바르지 않습니다."
	msgInvalidPreferences = "입력값이 올바르지 않습니다. 영화 장르를 최소 1개 이상 선택해주세요."
	msgOverlappingFamily  = "같은 향 계열을 선호와 비선호에 동시에 선택할 수 없습니다."
	msgLLMNotConfigured   = "Gemini API 키가 설정되지 않았습니다."
	msgUnparseable        = "AI 응답 형식 오류가 발생했습니다. 다시 시도해주세요."
	msgAnalysisFailed     = "취향 분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// AnalyzeHandler expone el análisis de preferencias.
type AnalyzeHandler struct {
	logger   *zap.Logger
	analysis *service.AnalysisService
}

func NewAnalyzeHandler(logger *zap.Logger, analysis *service.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{logger: logger, analysis: analysis}
}

// AnalyzePreferences maneja POST /api/analyze-preferences.
func (h *AnalyzeHandler) AnalyzePreferences(c *gin.Context) {
	var req domain.PreferenceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": bindErrorMessage(err)})
		return
	}

	out, err := h.analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{
		"success":    true,
		"analysis":   out.Analysis,
		"analysisId": out.ID,
	}
	if len(out.Degraded) > 0 {
		resp["degraded"] = out.Degraded
	}
	c.JSON(http.StatusOK, resp)
}

// bindErrorMessage solo nombra los géneros cuando falta la lista; el resto es un error genérico.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidInput
	}
	for _, fe := range verrs {
		if fe.StructField() == "MovieGenres" && (fe.Tag() == "required" || fe.Tag() == "min") {
			return msgInvalidPreferences
		}
	}
	return msgInvalidInput
}

func (h *AnalyzeHandler) writeError(c *gin.Context, err error) {
	var rerr *service.ResponseError
	switch {
	case errors.Is(err, service.ErrInvalidPreferences):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msgOverlappingFamily})
	case errors.Is(err, service.ErrLLMNotConfigured):
		h.logger.Error("analyze without llm api key")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msgLLMNotConfigured})
	case errors.As(err, &rerr):
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msgUnparseable, "debug": rerr.Debug})
	default:
		h.logger.Error("analyze preferences failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msgAnalysisFailed})
	}
}
