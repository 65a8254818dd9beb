package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// SubscriptionRepository defines persistence operations for channel subscriptions.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string, page models.PageRequest) ([]models.SubscriberView, int64, error)
	ListChannels(ctx context.Context, subscriberID string, page models.PageRequest) ([]models.SubscribedChannel, int64, error)
}
