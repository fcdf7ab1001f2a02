package notify

import (
	"context"
	"log/slog"
)

// ConsoleNotifier renders local notifications as structured log lines.
// It is the delivery surface for headless deployments and always has
// permission.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Permission() Permission {
	return PermissionGranted
}

func (c *ConsoleNotifier) RequestPermission(_ context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (c *ConsoleNotifier) Show(ctx context.Context, n Notification) (Handle, error) {
	slog.InfoContext(ctx, "local notification",
		slog.String("title", n.Title),
		slog.String("body", n.Body),
		slog.String("tag", n.Tag),
	)
	return noopHandle{}, nil
}

type noopHandle struct{}

func (noopHandle) Close() error { return nil }
