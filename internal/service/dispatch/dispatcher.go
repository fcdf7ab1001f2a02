// Package dispatch orchestrates dual delivery of notification fire
// events: a remote relay attempt with a local platform fallback.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kveer007/tracker-reminders/internal/domain"
	"github.com/kveer007/tracker-reminders/internal/infra/notify"
	"github.com/kveer007/tracker-reminders/internal/infra/relay"
	"github.com/kveer007/tracker-reminders/internal/observability/metrics"
)

// dismissAfter is how long a local notification stays up before the
// dispatcher closes it.
const dismissAfter = 7 * time.Second

// Availability reports the relay reachability as last probed.
type Availability interface {
	Available() bool
}

type Dispatcher struct {
	relay    relay.Repository
	avail    Availability
	local    notify.Notifier
	device   DeviceClass
	repo     domain.ReminderRepository
	recorder domain.DispatchRecorder
	metrics  *metrics.DispatchMetrics

	now func() time.Time

	userIDMu sync.Mutex
	userID   string
}

func NewDispatcher(
	relayRepo relay.Repository,
	avail Availability,
	local notify.Notifier,
	device DeviceClass,
	repo domain.ReminderRepository,
	recorder domain.DispatchRecorder,
	dispatchMetrics *metrics.DispatchMetrics,
) *Dispatcher {
	return &Dispatcher{
		relay:    relayRepo,
		avail:    avail,
		local:    local,
		device:   device,
		repo:     repo,
		recorder: recorder,
		metrics:  dispatchMetrics,
		now:      time.Now,
	}
}

// Dispatch delivers one fire event. The relay is attempted first when
// the prober reports it reachable; a local copy follows when the relay
// attempt failed, the device is mobile, or the caller forced it. No
// delivery failure escapes to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, title, body string, opts Options) Result {
	var result Result

	serverAttempted := false
	if d.relay != nil && d.avail != nil && d.avail.Available() {
		serverAttempted = true
		result.Server = d.sendServer(ctx, title, body, opts)
	}

	mobile := d.device != nil && d.device.IsMobile()
	sendLocal := !result.Server || mobile || opts.ForceLocal
	if sendLocal {
		result.Local = d.sendLocal(ctx, title, body, opts)
	}

	result.FallbackUsed = result.Local && serverAttempted && !result.Server && !mobile && !opts.ForceLocal
	if result.FallbackUsed {
		d.metrics.RecordFallback(ctx)
		d.log(ctx, domain.LogInfo, fmt.Sprintf("fell back to local delivery for %q", title), opts.Tag)
	}

	if d.recorder != nil {
		if err := d.recorder.RecordDispatch(ctx, domain.DispatchRecord{
			Time:         d.now(),
			Tag:          opts.Tag,
			Title:        title,
			Server:       result.Server,
			Local:        result.Local,
			FallbackUsed: result.FallbackUsed,
		}); err != nil {
			slog.WarnContext(ctx, "failed to record dispatch outcome",
				slog.String("error", err.Error()),
			)
		}
	}

	return result
}

func (d *Dispatcher) sendServer(ctx context.Context, title, body string, opts Options) bool {
	userID, err := d.user(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve user id for relay send",
			slog.String("error", err.Error()),
		)
		d.log(ctx, domain.LogWarning, "relay delivery skipped: no user id", err.Error())
		return false
	}

	start := d.now()
	res, err := d.relay.SendNotification(ctx, &relay.SendRequest{
		UserID: userID,
		Title:  title,
		Body:   body,
		Data:   opts.Data,
	})
	d.metrics.RecordRelaySendDuration(ctx, time.Since(start).Seconds())

	delivered := err == nil && res != nil && res.Success
	d.metrics.RecordDispatch(ctx, "server", delivered)

	if err != nil {
		slog.WarnContext(ctx, "relay delivery failed",
			slog.String("title", title),
			slog.String("tag", opts.Tag),
			slog.String("error", err.Error()),
		)
		d.log(ctx, domain.LogWarning, fmt.Sprintf("relay delivery failed for %q", title), err.Error())
		return false
	}

	// A 2xx with success=false means the relay reached no subscription.
	if !delivered {
		message := ""
		if res != nil {
			message = res.Message
		}
		slog.WarnContext(ctx, "relay accepted the send but delivered nothing",
			slog.String("title", title),
			slog.String("tag", opts.Tag),
			slog.String("message", message),
		)
		d.log(ctx, domain.LogWarning, fmt.Sprintf("relay delivered %q to no subscription", title), message)
		return false
	}

	d.log(ctx, domain.LogSuccess, fmt.Sprintf("relay delivered %q", title), opts.Tag)
	return true
}

func (d *Dispatcher) sendLocal(ctx context.Context, title, body string, opts Options) bool {
	if d.local == nil {
		return false
	}
	if d.local.Permission() != notify.PermissionGranted {
		// Missing permission is a silent no-op, never an error.
		d.log(ctx, domain.LogInfo, "local delivery skipped: permission not granted", opts.Tag)
		return false
	}

	handle, err := d.local.Show(ctx, notify.Notification{
		Title: title,
		Body:  body,
		Tag:   opts.Tag,
		Data:  opts.Data,
	})
	d.metrics.RecordDispatch(ctx, "local", err == nil)
	if err != nil {
		slog.WarnContext(ctx, "local delivery failed",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		d.log(ctx, domain.LogWarning, fmt.Sprintf("local delivery failed for %q", title), err.Error())
		return false
	}

	if handle != nil {
		time.AfterFunc(dismissAfter, func() {
			if err := handle.Close(); err != nil {
				slog.DebugContext(ctx, "failed to dismiss local notification",
					slog.String("error", err.Error()),
				)
			}
		})
	}

	d.log(ctx, domain.LogSuccess, fmt.Sprintf("local notification shown for %q", title), opts.Tag)
	return true
}

// log appends to the notification log ring. Logging failures are
// swallowed; a full store must never break delivery.
func (d *Dispatcher) log(ctx context.Context, level domain.LogLevel, message, details string) {
	if d.repo == nil {
		return
	}
	entry := domain.NotificationLogEntry{
		Timestamp: d.now(),
		Level:     level,
		Message:   message,
		Details:   details,
	}
	if err := d.repo.AppendLog(ctx, entry); err != nil {
		slog.DebugContext(ctx, "failed to append notification log entry",
			slog.String("error", err.Error()),
		)
	}
}

// user memoizes the durable identity after the first successful
// lookup. A failed lookup is not cached, so relay delivery recovers at
// the next fire once the store answers again.
func (d *Dispatcher) user(ctx context.Context) (string, error) {
	d.userIDMu.Lock()
	defer d.userIDMu.Unlock()

	if d.userID != "" {
		return d.userID, nil
	}

	id, err := d.repo.UserID(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no user id available")
	}
	d.userID = id
	return id, nil
}
