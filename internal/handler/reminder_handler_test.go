package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

type countingRescheduler struct {
	calls int
}

func (c *countingRescheduler) ScheduleAll(context.Context) error {
	c.calls++
	return nil
}

func newRouter(h *ReminderHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/reminders/config", h.HandleGetConfig)
	r.PUT("/reminders/enabled", h.HandleGlobalToggle)
	r.PUT("/reminders/system/:kind", h.HandleSystemUpdate)
	r.POST("/reminders/custom", h.HandleCustomCreate)
	r.PUT("/reminders/custom/:id", h.HandleCustomUpdate)
	r.DELETE("/reminders/custom/:id", h.HandleCustomDelete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleGetConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	repo.EXPECT().LoadConfig(gomock.Any()).Return(domain.DefaultConfig(), nil)

	r := newRouter(NewReminderHandler(repo, &countingRescheduler{}))
	w := doJSON(t, r, http.MethodGet, "/reminders/config", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp configResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Config.GlobalEnabled)
	assert.Len(t, resp.Config.System, len(domain.AllKinds()))
	assert.Empty(t, resp.Notice)
}

func TestHandleGlobalToggleReschedules(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	cfg := domain.DefaultConfig()
	repo.EXPECT().LoadConfig(gomock.Any()).Return(cfg, nil)
	repo.EXPECT().SaveConfig(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, saved *domain.ReminderConfig) error {
			assert.True(t, saved.GlobalEnabled)
			return nil
		})

	sched := &countingRescheduler{}
	r := newRouter(NewReminderHandler(repo, sched))
	w := doJSON(t, r, http.MethodPut, "/reminders/enabled", gin.H{"enabled": true})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sched.calls)
}

func TestHandleSystemUpdateAutoSelectsWeekdays(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	cfg := domain.DefaultConfig()
	cfg.System[domain.KindWaterInterval].Days = []time.Weekday{}
	repo.EXPECT().LoadConfig(gomock.Any()).Return(cfg, nil)
	repo.EXPECT().SaveConfig(gomock.Any(), gomock.Any()).Return(nil)

	r := newRouter(NewReminderHandler(repo, &countingRescheduler{}))
	w := doJSON(t, r, http.MethodPut, "/reminders/system/water_interval", gin.H{"enabled": true})

	require.Equal(t, http.StatusOK, w.Code)

	var resp configResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Notice)
	assert.Equal(t, domain.DefaultWeekdays(), resp.Config.System[domain.KindWaterInterval].Days)
}

func TestHandleSystemUpdateUnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)

	r := newRouter(NewReminderHandler(repo, &countingRescheduler{}))
	w := doJSON(t, r, http.MethodPut, "/reminders/system/coffee_alert", gin.H{"enabled": true})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSystemUpdateRejectsMismatchedSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)

	r := newRouter(NewReminderHandler(repo, &countingRescheduler{}))

	// Interval settings on a fixed-time kind.
	w := doJSON(t, r, http.MethodPut, "/reminders/system/water_alert", gin.H{"interval_minutes": 60})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Fixed-time settings on an interval kind.
	w = doJSON(t, r, http.MethodPut, "/reminders/system/water_interval", gin.H{"time": "18:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCustomCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	cfg := domain.DefaultConfig()
	repo.EXPECT().LoadConfig(gomock.Any()).Return(cfg, nil)
	repo.EXPECT().SaveConfig(gomock.Any(), gomock.Any()).Return(nil)

	sched := &countingRescheduler{}
	r := newRouter(NewReminderHandler(repo, sched))
	w := doJSON(t, r, http.MethodPost, "/reminders/custom", gin.H{
		"title":   "Stretch",
		"times":   []string{"07:00", "07:00", "20:00"},
		"repeat":  "daily",
		"enabled": true,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.CustomReminder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"07:00", "20:00"}, created.Times, "times deduplicated and sorted")
	assert.Equal(t, []int{0}, created.AlertOffsets, "default at-time alert filled in")
	assert.Equal(t, 1, sched.calls)
	require.NotNil(t, cfg.FindCustom(created.ID))
}

func TestHandleCustomCreateRejectsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	// No LoadConfig/SaveConfig expectations: an invalid definition is
	// rejected before any store access.

	sched := &countingRescheduler{}
	r := newRouter(NewReminderHandler(repo, sched))
	w := doJSON(t, r, http.MethodPost, "/reminders/custom", gin.H{
		"title":  "Stretch",
		"times":  []string{"25:99"},
		"repeat": "daily",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, sched.calls)
}

func TestHandleCustomUpdateMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	repo.EXPECT().LoadConfig(gomock.Any()).Return(domain.DefaultConfig(), nil)

	r := newRouter(NewReminderHandler(repo, &countingRescheduler{}))
	w := doJSON(t, r, http.MethodPut, "/reminders/custom/ghost", gin.H{
		"title":  "Stretch",
		"times":  []string{"07:00"},
		"repeat": "daily",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCustomDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	cfg := domain.DefaultConfig()
	cfg.Custom = append(cfg.Custom, &domain.CustomReminder{ID: "r1", Title: "Stretch"})
	repo.EXPECT().LoadConfig(gomock.Any()).Return(cfg, nil)
	repo.EXPECT().SaveConfig(gomock.Any(), gomock.Any()).Return(nil)

	sched := &countingRescheduler{}
	r := newRouter(NewReminderHandler(repo, sched))
	w := doJSON(t, r, http.MethodDelete, "/reminders/custom/r1", nil)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, cfg.FindCustom("r1"))
	assert.Equal(t, 1, sched.calls)
}

func TestHandleStorageExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockReminderRepository(ctrl)
	repo.EXPECT().LoadConfig(gomock.Any()).Return(domain.DefaultConfig(), nil)
	repo.EXPECT().SaveConfig(gomock.Any(), gomock.Any()).Return(domain.ErrStorageExhausted)

	r := newRouter(NewReminderHandler(repo, &countingRescheduler{}))
	w := doJSON(t, r, http.MethodPut, "/reminders/enabled", gin.H{"enabled": true})

	assert.Equal(t, http.StatusInsufficientStorage, w.Code)
}
