// Package fanout derives notification records from follow and like edge
// creations. It runs synchronously inside the triggering request, after the
// edge write has committed.
package fanout

import (
	"github.com/chirper-app/backend/internal/metrics"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
	"go.uber.org/zap"
)

// Notifier writes notification rows for edge creations. Failures are logged
// and swallowed: once the follow/like itself has committed, a notification
// outage must not fail the request that triggered it.
type Notifier struct {
	notifications repositories.NotificationRepository
	logger        *zap.Logger
}

func NewNotifier(notifications repositories.NotificationRepository, logger *zap.Logger) *Notifier {
	return &Notifier{notifications: notifications, logger: logger}
}

// Notify records that actor performed verb on subject for recipient to see.
// Self-actions produce nothing: a user liking their own post is not news to
// them. Exactly one unread row is created per call otherwise.
func (n *Notifier) Notify(recipientID, actorID uint, verb string, subjectID *uint) {
	if recipientID == actorID {
		return
	}
	notification := &models.Notification{
		Type:        verb,
		ActorID:     actorID,
		RecipientID: recipientID,
		SubjectID:   subjectID,
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		metrics.FanoutFailures.Inc()
		n.logger.Error("notification fan-out failed",
			zap.Uint("recipient_id", recipientID),
			zap.Uint("actor_id", actorID),
			zap.String("verb", verb),
			zap.Error(err),
		)
		return
	}
	metrics.NotificationsFanned.Inc()
}
