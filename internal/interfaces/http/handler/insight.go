package handler

import (
	"github.com/gin-gonic/gin"
	insightapp "github.com/verone/backoffice/internal/application/insight"
)

// InsightHandler serves the business summary and predictions
type InsightHandler struct {
	BaseHandler
	predictionService *insightapp.PredictionService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(predictionService *insightapp.PredictionService) *InsightHandler {
	return &InsightHandler{predictionService: predictionService}
}

// Summary godoc
// @ID           getInsightSummary
// @Summary      Business summary of the last 30 days
// @Tags         insights
// @Produce      json
// @Success      200 {object} APIResponse[insightapp.SummaryResponse]
// @Security     BearerAuth
// @Router       /insights/summary [get]
func (h *InsightHandler) Summary(c *gin.Context) {
	summary, err := h.predictionService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Predictions godoc
// @ID           listInsightPredictions
// @Summary      Current predictions, by confidence times impact
// @Tags         insights
// @Produce      json
// @Param        type   query string false "Prediction type"
// @Param        impact query string false "Impact" Enums(low, medium, high, critical)
// @Param        limit  query int    false "Maximum count"
// @Success      200 {object} APIResponse[insightapp.PredictionsResponse]
// @Security     BearerAuth
// @Router       /insights/predictions [get]
func (h *InsightHandler) Predictions(c *gin.Context) {
	var filter insightapp.PredictionFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	predictions, err := h.predictionService.Predictions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, predictions)
}

// Run godoc
// @ID           runInsightPredictions
// @Summary      Recompute predictions now
// @Tags         insights
// @Produce      json
// @Success      200 {object} APIResponse[insightapp.RunResponse]
// @Security     BearerAuth
// @Router       /insights/run [post]
func (h *InsightHandler) Run(c *gin.Context) {
	result, err := h.predictionService.TriggerRun(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
