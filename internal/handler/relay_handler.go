package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kveer007/tracker-reminders/internal/domain"
	"github.com/kveer007/tracker-reminders/internal/infra/relay"
	"github.com/kveer007/tracker-reminders/internal/service/probe"
)

type RelayHandler struct {
	relay  relay.Repository
	repo   domain.ReminderRepository
	prober *probe.Prober
}

func NewRelayHandler(relayRepo relay.Repository, repo domain.ReminderRepository, prober *probe.Prober) *RelayHandler {
	return &RelayHandler{
		relay:  relayRepo,
		repo:   repo,
		prober: prober,
	}
}

// HandleStatus reports the relay reachability as last probed, without
// issuing a new probe.
func (h *RelayHandler) HandleStatus(c *gin.Context) {
	available := h.prober != nil && h.prober.Available()
	c.JSON(http.StatusOK, gin.H{"available": available})
}

// HandleStats passes the relay's statistics document through verbatim.
func (h *RelayHandler) HandleStats(c *gin.Context) {
	ctx := c.Request.Context()

	if h.relay == nil {
		respondError(c, http.StatusServiceUnavailable, "relay_disabled", "no relay configured")
		return
	}

	stats, err := h.relay.Stats(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch relay stats",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, "relay_error", err.Error())
		return
	}

	c.Data(http.StatusOK, "application/json", stats)
}

// HandleSubscribe stores the caller's push subscription and registers
// it with the relay under the durable user id.
func (h *RelayHandler) HandleSubscribe(c *gin.Context) {
	ctx := c.Request.Context()

	if h.relay == nil {
		respondError(c, http.StatusServiceUnavailable, "relay_disabled", "no relay configured")
		return
	}

	var subscription json.RawMessage
	if err := c.ShouldBindJSON(&subscription); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if len(subscription) == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "subscription payload is required")
		return
	}

	userID, err := h.repo.UserID(ctx)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	if err := h.repo.SaveSubscription(ctx, subscription); err != nil {
		respondInternalError(c, err)
		return
	}
	if err := h.relay.Subscribe(ctx, subscription, userID); err != nil {
		slog.WarnContext(ctx, "relay subscription registration failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, "relay_error", err.Error())
		return
	}

	slog.InfoContext(ctx, "push subscription registered",
		slog.String("user_id", userID),
	)
	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}

// HandleVAPIDKey proxies the relay's VAPID public key so the front end
// can create a push subscription.
func (h *RelayHandler) HandleVAPIDKey(c *gin.Context) {
	ctx := c.Request.Context()

	if h.relay == nil {
		respondError(c, http.StatusServiceUnavailable, "relay_disabled", "no relay configured")
		return
	}

	key, err := h.relay.VAPIDPublicKey(ctx)
	if err != nil {
		respondError(c, http.StatusBadGateway, "relay_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_key": key})
}
