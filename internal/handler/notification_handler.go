package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kveer007/tracker-reminders/internal/domain"
	"github.com/kveer007/tracker-reminders/internal/infra/notify"
	"github.com/kveer007/tracker-reminders/internal/service/dispatch"
)

// defaultLogLimit caps a log listing when the client does not ask for
// a specific count.
const defaultLogLimit = 50

// Dispatcher delivers one notification through the dual-delivery
// policy. Implemented by dispatch.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, title, body string, opts dispatch.Options) dispatch.Result
}

type NotificationHandler struct {
	repo       domain.ReminderRepository
	dispatcher Dispatcher
	notifier   notify.Notifier
}

func NewNotificationHandler(repo domain.ReminderRepository, dispatcher Dispatcher, notifier notify.Notifier) *NotificationHandler {
	return &NotificationHandler{
		repo:       repo,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

type testNotificationRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ForceLocal bool   `json:"force_local"`
}

// HandleTestNotification fires one notification through the normal
// dispatch path so the user can verify delivery end to end.
func (h *NotificationHandler) HandleTestNotification(c *gin.Context) {
	ctx := c.Request.Context()

	var req testNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.Title == "" {
		req.Title = "Test Notification"
	}
	if req.Body == "" {
		req.Body = "If you can read this, notifications are working."
	}

	result := h.dispatcher.Dispatch(ctx, req.Title, req.Body, dispatch.Options{
		Tag:        "test-notification",
		ForceLocal: req.ForceLocal,
	})

	slog.InfoContext(ctx, "test notification dispatched",
		slog.Bool("server", result.Server),
		slog.Bool("local", result.Local),
		slog.Bool("fallback_used", result.FallbackUsed),
	)
	c.JSON(http.StatusOK, result)
}

// HandleLogs lists the most recent notification log entries, newest
// first.
func (h *NotificationHandler) HandleLogs(c *gin.Context) {
	ctx := c.Request.Context()

	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.repo.Logs(ctx, limit)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// HandlePermissionRequest asks the local notification surface for
// permission and reports the resulting state.
func (h *NotificationHandler) HandlePermissionRequest(c *gin.Context) {
	ctx := c.Request.Context()

	if h.notifier == nil {
		respondError(c, http.StatusServiceUnavailable, "unavailable", "no local notification surface configured")
		return
	}

	permission, err := h.notifier.RequestPermission(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	slog.InfoContext(ctx, "notification permission requested",
		slog.String("permission", string(permission)),
	)
	c.JSON(http.StatusOK, gin.H{"permission": permission})
}
