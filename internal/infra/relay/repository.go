package relay

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=repository.go -destination=mock.go -package=relay

// Repository is the push relay boundary: a dumb notification relay
// reached over plain HTTP.
type Repository interface {
	// Health returns nil when the relay answered 200 within the
	// client timeout. Any other status or network error means
	// unreachable.
	Health(ctx context.Context) error
	VAPIDPublicKey(ctx context.Context) (string, error)
	Subscribe(ctx context.Context, subscription json.RawMessage, userID string) error
	SendNotification(ctx context.Context, req *SendRequest) (*SendResult, error)
	// Stats returns the relay's statistics document verbatim; the
	// engine does not interpret it.
	Stats(ctx context.Context) (json.RawMessage, error)
}

// SendRequest is the relay send payload.
type SendRequest struct {
	UserID string            `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// SendResult is the relay's JSON result for a successful send.
type SendResult struct {
	Success bool   `json:"success"`
	Sent    int    `json:"sent,omitempty"`
	Failed  int    `json:"failed,omitempty"`
	Message string `json:"message,omitempty"`
}
