package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questionnaire-reader/internal/domain"
	"questionnaire-reader/internal/service"
)

// ScoreHandler expone el scoring de un solo cuestionario.
type ScoreHandler struct {
	logger  *zap.Logger
	scoring *service.ScoringService
}

func NewScoreHandler(logger *zap.Logger, scoring *service.ScoringService) *ScoreHandler {
	return &ScoreHandler{logger: logger, scoring: scoring}
}

type listRequest struct {
	Responses []string `json:"responses" binding:"required"`
}

// ScoreBFI maneja POST /v1/score/bfi.
func (h *ScoreHandler) ScoreBFI(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid bfi request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	res, err := h.scoring.ScoreBFI(req.Responses)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ScorePSQI maneja POST /v1/score/psqi con respuestas por label o por posicion.
func (h *ScoreHandler) ScorePSQI(c *gin.Context) {
	var req struct {
		Responses map[string]string `json:"responses"`
		Items     []string          `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid psqi request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var (
		res domain.PSQIResult
		err error
	)
	if req.Items != nil {
		res, err = h.scoring.ScorePSQIItems(req.Items)
	} else {
		res, err = h.scoring.ScorePSQI(req.Responses)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ScoreSHS maneja POST /v1/score/shs.
func (h *ScoreHandler) ScoreSHS(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid shs request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	res, err := h.scoring.ScoreSHS(req.Responses)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ScoreHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrScoringInvalidInput) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("scoring failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not score responses"})
}
