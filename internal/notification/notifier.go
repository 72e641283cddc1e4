package notification

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type SubscriptionStore interface {
	ListForUsers(ctx context.Context, userIDs []uint) ([]models.PushSubscription, error)
	Delete(ctx context.Context, id uint) error
}

type Result struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"`
}

// Notifier fans a payload out to every subscription of a set of users.
type Notifier struct {
	sender Sender
	store  SubscriptionStore
	log    logrus.FieldLogger
}

func NewNotifier(sender Sender, store SubscriptionStore, log logrus.FieldLogger) *Notifier {
	return &Notifier{sender: sender, store: store, log: log}
}

// NotifyUsers never fails as a whole: gone subscriptions are deleted,
// other errors are logged and counted.
func (n *Notifier) NotifyUsers(ctx context.Context, userIDs []uint, p Payload) (Result, error) {
	var res Result

	subs, err := n.store.ListForUsers(ctx, userIDs)
	if err != nil {
		return res, err
	}

	for _, sub := range subs {
		entry := n.log.WithFields(logrus.Fields{
			"subscription_id": sub.ID,
			"user_id":         sub.UserID,
		})

		err := n.sender.Send(ctx, sub, p)
		switch {
		case err == nil:
			res.Sent++
		case IsGone(err):
			res.Removed++
			if derr := n.store.Delete(ctx, sub.ID); derr != nil {
				entry.WithError(derr).Warn("failed to remove expired push subscription")
				continue
			}
			entry.Info("removed expired push subscription")
		default:
			res.Failed++
			entry.WithError(err).Warn("push delivery failed")
		}
	}

	return res, nil
}
