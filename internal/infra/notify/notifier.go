// Package notify abstracts the local platform notification surface.
package notify

import "context"

//go:generate mockgen -source=notifier.go -destination=mock.go -package=notify

// Permission is the local notification authorization state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notification is one local notification to display.
type Notification struct {
	Title              string
	Body               string
	Tag                string
	Data               map[string]string
	RequireInteraction bool
}

// Handle refers to a shown notification so the dispatcher can dismiss
// it after its display window.
type Handle interface {
	Close() error
}

// Notifier is the local delivery port. Absence of permission is a
// silent no-op for callers, never an error.
type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Show(ctx context.Context, n Notification) (Handle, error)
}
