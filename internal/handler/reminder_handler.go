// Package handler exposes the reminder engine to the tracker front end
// as a JSON API over gin.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

// Rescheduler rebuilds the live timers from the persisted
// configuration. Implemented by schedule.Scheduler.
type Rescheduler interface {
	ScheduleAll(ctx context.Context) error
}

type ReminderHandler struct {
	repo      domain.ReminderRepository
	scheduler Rescheduler
}

func NewReminderHandler(repo domain.ReminderRepository, scheduler Rescheduler) *ReminderHandler {
	return &ReminderHandler{
		repo:      repo,
		scheduler: scheduler,
	}
}

// configResponse wraps the configuration document with an optional
// one-time notice produced by a mutation, such as the weekday
// auto-selection applied when a notification is enabled with no days.
type configResponse struct {
	Config *domain.ReminderConfig `json:"config"`
	Notice string                 `json:"notice,omitempty"`
}

func (h *ReminderHandler) HandleGetConfig(c *gin.Context) {
	ctx := c.Request.Context()

	cfg, err := h.repo.LoadConfig(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, &configResponse{Config: cfg})
}

type globalToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// HandleGlobalToggle flips the master switch. Disabling clears every
// timer; re-enabling reinstalls them from the unchanged configuration.
func (h *ReminderHandler) HandleGlobalToggle(c *gin.Context) {
	ctx := c.Request.Context()

	var req globalToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	cfg, err := h.repo.LoadConfig(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	cfg.GlobalEnabled = req.Enabled
	if err := h.saveAndReschedule(ctx, cfg); err != nil {
		h.respondSaveError(c, err)
		return
	}

	slog.InfoContext(ctx, "global reminder toggle updated",
		slog.Bool("enabled", req.Enabled),
	)
	c.JSON(http.StatusOK, &configResponse{Config: cfg})
}

type systemUpdateRequest struct {
	Enabled *bool           `json:"enabled,omitempty"`
	Days    *[]time.Weekday `json:"days,omitempty"`
	Message *string         `json:"message,omitempty"`

	Time             *string `json:"time,omitempty"`
	OnlyIfGoalNotMet *bool   `json:"only_if_goal_not_met,omitempty"`

	IntervalMinutes *int                 `json:"interval_minutes,omitempty"`
	ActiveWindow    *domain.ActiveWindow `json:"active_window,omitempty"`
	OnlyIfBelowGoal *bool                `json:"only_if_below_goal,omitempty"`
}

// HandleSystemUpdate patches one system notification. Enabling a
// notification whose day set is empty auto-selects Monday through
// Friday and reports the substitution in the response notice.
func (h *ReminderHandler) HandleSystemUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	kind := domain.NotificationKind(c.Param("kind"))
	if !kind.Valid() {
		respondError(c, http.StatusNotFound, "unknown_kind", "unknown system notification kind: "+kind.String())
		return
	}

	var req systemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if err := validateSystemUpdate(kind, &req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	cfg, err := h.repo.LoadConfig(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	n := cfg.System[kind]
	applySystemUpdate(n, &req)

	var notice string
	if n.Enabled && len(n.Days) == 0 {
		n.Days = domain.DefaultWeekdays()
		notice = "no days were selected, so weekdays (Mon-Fri) were enabled"
	}

	if err := h.saveAndReschedule(ctx, cfg); err != nil {
		h.respondSaveError(c, err)
		return
	}

	slog.InfoContext(ctx, "system notification updated",
		slog.String("kind", kind.String()),
		slog.Bool("enabled", n.Enabled),
	)
	c.JSON(http.StatusOK, &configResponse{Config: cfg, Notice: notice})
}

func validateSystemUpdate(kind domain.NotificationKind, req *systemUpdateRequest) error {
	if req.Time != nil && !domain.ValidClock(*req.Time) {
		return errors.New("invalid time, expected HH:MM")
	}
	if req.IntervalMinutes != nil && *req.IntervalMinutes <= 0 {
		return errors.New("interval_minutes must be positive")
	}
	if req.ActiveWindow != nil {
		if !domain.ValidClock(req.ActiveWindow.Start) || !domain.ValidClock(req.ActiveWindow.End) {
			return errors.New("invalid active window bounds, expected HH:MM")
		}
	}
	if req.Days != nil {
		for _, d := range *req.Days {
			if d < time.Sunday || d > time.Saturday {
				return errors.New("invalid weekday in days")
			}
		}
	}
	if kind.IsInterval() {
		if req.Time != nil || req.OnlyIfGoalNotMet != nil {
			return errors.New("time settings do not apply to interval notifications")
		}
	} else {
		if req.IntervalMinutes != nil || req.ActiveWindow != nil || req.OnlyIfBelowGoal != nil {
			return errors.New("interval settings do not apply to fixed-time notifications")
		}
	}
	return nil
}

func applySystemUpdate(n *domain.SystemNotification, req *systemUpdateRequest) {
	if req.Enabled != nil {
		n.Enabled = *req.Enabled
	}
	if req.Days != nil {
		n.Days = *req.Days
	}
	if req.Message != nil {
		n.Message = *req.Message
	}
	if req.Time != nil {
		n.Time = *req.Time
	}
	if req.OnlyIfGoalNotMet != nil {
		n.OnlyIfGoalNotMet = *req.OnlyIfGoalNotMet
	}
	if req.IntervalMinutes != nil {
		n.IntervalMinutes = *req.IntervalMinutes
	}
	if req.ActiveWindow != nil {
		n.ActiveWindow = req.ActiveWindow
	}
	if req.OnlyIfBelowGoal != nil {
		n.OnlyIfBelowGoal = *req.OnlyIfBelowGoal
	}
}

// HandleCustomCreate validates and stores a new custom reminder. An
// invalid definition is rejected here and never reaches the store or
// the scheduler.
func (h *ReminderHandler) HandleCustomCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var reminder domain.CustomReminder
	if err := c.ShouldBindJSON(&reminder); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	reminder.Sanitize()
	if err := reminder.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}

	cfg, err := h.repo.LoadConfig(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}
	if cfg.FindCustom(reminder.ID) != nil {
		respondError(c, http.StatusConflict, "duplicate_id", "a reminder with this id already exists")
		return
	}

	cfg.Custom = append(cfg.Custom, &reminder)
	if err := h.saveAndReschedule(ctx, cfg); err != nil {
		h.respondSaveError(c, err)
		return
	}

	slog.InfoContext(ctx, "custom reminder created",
		slog.String("reminder_id", reminder.ID),
		slog.String("title", reminder.Title),
		slog.Int("times", len(reminder.Times)),
	)
	c.JSON(http.StatusCreated, &reminder)
}

func (h *ReminderHandler) HandleCustomUpdate(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var reminder domain.CustomReminder
	if err := c.ShouldBindJSON(&reminder); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	reminder.ID = id

	reminder.Sanitize()
	if err := reminder.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	cfg, err := h.repo.LoadConfig(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	existing := cfg.FindCustom(id)
	if existing == nil {
		respondError(c, http.StatusNotFound, "not_found", "no reminder with id "+id)
		return
	}
	*existing = reminder

	if err := h.saveAndReschedule(ctx, cfg); err != nil {
		h.respondSaveError(c, err)
		return
	}

	slog.InfoContext(ctx, "custom reminder updated",
		slog.String("reminder_id", id),
	)
	c.JSON(http.StatusOK, &reminder)
}

func (h *ReminderHandler) HandleCustomDelete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	cfg, err := h.repo.LoadConfig(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	if !cfg.RemoveCustom(id) {
		respondError(c, http.StatusNotFound, "not_found", "no reminder with id "+id)
		return
	}

	if err := h.saveAndReschedule(ctx, cfg); err != nil {
		h.respondSaveError(c, err)
		return
	}

	slog.InfoContext(ctx, "custom reminder deleted",
		slog.String("reminder_id", id),
	)
	c.Status(http.StatusNoContent)
}

// saveAndReschedule persists the mutated document and rebuilds the
// timers from it. The rebuild rereads the stored config, so the timers
// always reflect what was actually persisted.
func (h *ReminderHandler) saveAndReschedule(ctx context.Context, cfg *domain.ReminderConfig) error {
	if err := h.repo.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	if h.scheduler != nil {
		if err := h.scheduler.ScheduleAll(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to reschedule after config change",
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

func (h *ReminderHandler) respondSaveError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrStorageExhausted) {
		respondError(c, http.StatusInsufficientStorage, "storage_exhausted", err.Error())
		return
	}
	respondInternalError(c, err)
}
