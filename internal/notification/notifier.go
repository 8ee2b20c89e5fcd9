// Package notification consumes workflow events and fans them out to staff.
// Delivery is currently a structured log line per event; the subscriber is the
// single place a mail or push integration would plug into.
package notification

import (
	"context"
	"log/slog"

	"github.com/itcentralng/dhf-hrapp-backend/internal/core/events"
)

type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Register subscribes the notifier to every event the HR services publish.
func (n *Notifier) Register(bus *events.EventBus) {
	for _, eventType := range []string{
		events.MessageCreated,
		events.MessageCommented,
		events.LeaveResponded,
		events.LeaveShared,
		events.EarlyClosureSubmitted,
		events.EarlyClosureResponded,
		events.StudyLeaveSubmitted,
		events.StudyLeaveResponded,
		events.EvaluationSubmitted,
	} {
		bus.Subscribe(eventType, n.handle)
	}
}

func (n *Notifier) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("notification dispatched",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"payload", event.Payload())
	return nil
}
