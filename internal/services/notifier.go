package services

import (
	"go.uber.org/zap"

	"ccis-go/internal/session"
)

// DeliveryFunc hands one event to an external channel (message bus, email,
// webhook). The default delivery only logs; real channels plug in here.
type DeliveryFunc func(session.Event)

// Notifier receives the events drained from session outboxes after each
// operation and forwards them.
type Notifier struct {
	log     *zap.Logger
	deliver DeliveryFunc
}

func NewNotifier(log *zap.Logger, deliver DeliveryFunc) *Notifier {
	return &Notifier{log: log, deliver: deliver}
}

// Publish forwards the drained events in order.
func (n *Notifier) Publish(events []session.Event) {
	for _, e := range events {
		n.log.Info("Session event",
			zap.String("type", string(e.Type)),
			zap.String("sessionID", e.SessionID.String()),
			zap.String("personID", string(e.Person)),
			zap.String("detail", e.Detail),
		)
		if n.deliver != nil {
			n.deliver(e)
		}
	}
}
