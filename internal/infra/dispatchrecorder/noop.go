package dispatchrecorder

import (
	"context"

	"github.com/kveer007/tracker-reminders/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.DispatchRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordDispatch(_ context.Context, _ domain.DispatchRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
