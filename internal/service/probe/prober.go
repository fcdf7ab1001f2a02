// Package probe tracks push relay reachability and the stored push
// subscription.
package probe

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kveer007/tracker-reminders/internal/domain"
	"github.com/kveer007/tracker-reminders/internal/infra/relay"
)

// DefaultInterval is how often the prober re-checks the relay
// independent of any user action.
const DefaultInterval = 5 * time.Minute

const checkTimeout = 8 * time.Second

type Prober struct {
	relay relay.Repository
	repo  domain.ReminderRepository

	mu        sync.Mutex
	checked   bool
	available bool
}

func NewProber(relayRepo relay.Repository, repo domain.ReminderRepository) *Prober {
	return &Prober{
		relay: relayRepo,
		repo:  repo,
	}
}

// Available reports the relay reachability as of the last check. It is
// false until the first check completes.
func (p *Prober) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checked && p.available
}

// Check issues one bounded health request and updates the availability
// flag. Transitions are logged once per state change, never on
// steady-state failure; recovering reachability re-registers the
// stored push subscription.
func (p *Prober) Check(ctx context.Context) bool {
	if p.relay == nil {
		return false
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	err := p.relay.Health(checkCtx)
	reachable := err == nil

	p.mu.Lock()
	wasChecked := p.checked
	wasAvailable := p.available
	p.checked = true
	p.available = reachable
	p.mu.Unlock()

	changed := !wasChecked || wasAvailable != reachable
	if !changed {
		return reachable
	}

	if reachable {
		slog.InfoContext(ctx, "notification relay reachable")
		p.logState(ctx, domain.LogSuccess, "notification server is reachable", "")
		p.resubscribe(ctx)
	} else {
		slog.WarnContext(ctx, "notification relay unreachable",
			slog.String("error", err.Error()),
		)
		p.logState(ctx, domain.LogWarning, "notification server is unreachable", err.Error())
	}

	return reachable
}

// resubscribe re-registers the stored subscription after the relay
// recovers. A missing subscription is not an error; there is simply
// nothing to register yet.
func (p *Prober) resubscribe(ctx context.Context) {
	sub, err := p.repo.Subscription(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSubscriptionMissing) {
			slog.WarnContext(ctx, "failed to load push subscription",
				slog.String("error", err.Error()),
			)
		}
		return
	}

	userID, err := p.repo.UserID(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve user id for subscription",
			slog.String("error", err.Error()),
		)
		return
	}

	if _, err := p.relay.VAPIDPublicKey(ctx); err != nil {
		slog.WarnContext(ctx, "failed to fetch VAPID public key",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := p.relay.Subscribe(ctx, sub, userID); err != nil {
		slog.WarnContext(ctx, "push subscription registration failed",
			slog.String("error", err.Error()),
		)
		p.logState(ctx, domain.LogWarning, "push subscription registration failed", err.Error())
		return
	}

	slog.InfoContext(ctx, "push subscription registered")
	p.logState(ctx, domain.LogSuccess, "push subscription registered", "")
}

func (p *Prober) logState(ctx context.Context, level domain.LogLevel, message, details string) {
	if p.repo == nil {
		return
	}
	entry := domain.NotificationLogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Details:   details,
	}
	if err := p.repo.AppendLog(ctx, entry); err != nil {
		slog.DebugContext(ctx, "failed to append notification log entry",
			slog.String("error", err.Error()),
		)
	}
}
