package services

import (
	"context"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// SubscriptionService manages channel subscriptions.
type SubscriptionService struct {
	Subscriptions repositories.SubscriptionRepository
	Users         repositories.UserRepository
}

// Toggle subscribes the actor to the channel or cancels an existing subscription.
// Users cannot subscribe to themselves.
func (s *SubscriptionService) Toggle(ctx context.Context, channelID, actorID string) (subscribed bool, err error) {
	ctx, span := logging.StartSpan(ctx, "subscriptions.toggle")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return false, err
	}
	if channelID, err = parseID(channelID, "channel"); err != nil {
		return false, err
	}
	if channelID == actorID {
		return false, apperrors.BadRequest("you cannot subscribe to your own channel")
	}
	if _, err = s.Users.FindByID(ctx, channelID); err != nil {
		return false, storeError(err, "channel not found", "get channel")
	}

	subscribed, err = s.Subscriptions.Toggle(ctx, actorID, channelID)
	if err != nil {
		return false, storeError(err, "user not found", "toggle subscription")
	}
	return subscribed, nil
}

// Subscribers lists the subscribers of a channel.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string, page models.PageRequest) (result models.Page[models.SubscriberView], err error) {
	ctx, span := logging.StartSpan(ctx, "subscriptions.subscribers")
	defer endSpan(span, &err)

	if channelID, err = parseID(channelID, "channel"); err != nil {
		return result, err
	}
	if _, err = s.Users.FindByID(ctx, channelID); err != nil {
		return result, storeError(err, "channel not found", "get channel")
	}

	req := page.Normalize()
	subscribers, total, err := s.Subscriptions.ListSubscribers(ctx, channelID, req)
	return paged(subscribers, total, err, req, "list subscribers")
}

// Channels lists the channels a user subscribes to.
func (s *SubscriptionService) Channels(ctx context.Context, subscriberID string, page models.PageRequest) (result models.Page[models.SubscribedChannel], err error) {
	ctx, span := logging.StartSpan(ctx, "subscriptions.channels")
	defer endSpan(span, &err)

	if subscriberID, err = parseID(subscriberID, "subscriber"); err != nil {
		return result, err
	}
	if _, err = s.Users.FindByID(ctx, subscriberID); err != nil {
		return result, storeError(err, "subscriber not found", "get subscriber")
	}

	req := page.Normalize()
	channels, total, err := s.Subscriptions.ListChannels(ctx, subscriberID, req)
	return paged(channels, total, err, req, "list subscribed channels")
}
