package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

type TrackingHandler struct {
	goals domain.GoalTracker
	now   func() time.Time
}

func NewTrackingHandler(goals domain.GoalTracker) *TrackingHandler {
	return &TrackingHandler{
		goals: goals,
		now:   time.Now,
	}
}

type intakeRequest struct {
	Amount int `json:"amount"`
}

// HandleAddIntake records an intake amount against today's counter for
// the metric and returns the new running total.
func (h *TrackingHandler) HandleAddIntake(c *gin.Context) {
	ctx := c.Request.Context()

	metric, ok := parseMetric(c.Param("metric"))
	if !ok {
		respondError(c, http.StatusNotFound, "unknown_metric", "unknown metric: "+c.Param("metric"))
		return
	}

	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.Amount == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "amount must be non-zero")
		return
	}

	total, err := h.goals.AddIntake(ctx, metric, h.now(), req.Amount)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	slog.InfoContext(ctx, "intake recorded",
		slog.String("metric", string(metric)),
		slog.Int("amount", req.Amount),
		slog.Int("total", total),
	)
	c.JSON(http.StatusOK, gin.H{"metric": metric, "total": total})
}

type goalRequest struct {
	Target int `json:"target"`
}

// HandleSetGoal sets the daily goal for a metric. A target of zero
// removes the goal, which makes goal-gated reminders fire
// unconditionally.
func (h *TrackingHandler) HandleSetGoal(c *gin.Context) {
	ctx := c.Request.Context()

	metric, ok := parseMetric(c.Param("metric"))
	if !ok {
		respondError(c, http.StatusNotFound, "unknown_metric", "unknown metric: "+c.Param("metric"))
		return
	}

	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.Target < 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "target must be zero or positive")
		return
	}

	if err := h.goals.SetGoal(ctx, metric, req.Target); err != nil {
		respondInternalError(c, err)
		return
	}

	slog.InfoContext(ctx, "goal updated",
		slog.String("metric", string(metric)),
		slog.Int("target", req.Target),
	)
	c.JSON(http.StatusOK, gin.H{"metric": metric, "target": req.Target})
}

func parseMetric(s string) (domain.Metric, bool) {
	switch domain.Metric(s) {
	case domain.MetricWater:
		return domain.MetricWater, true
	case domain.MetricProtein:
		return domain.MetricProtein, true
	}
	return "", false
}
