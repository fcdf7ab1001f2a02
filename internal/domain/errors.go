package domain

import "errors"

var (
	ErrInvalidReminder     = errors.New("invalid reminder definition")
	ErrUnknownKind         = errors.New("unknown notification kind")
	ErrReminderNotFound    = errors.New("reminder not found")
	ErrSubscriptionMissing = errors.New("push subscription not stored")
	ErrStorageExhausted    = errors.New("persistence write failed after pruning")
)
