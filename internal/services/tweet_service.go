package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// TweetService implements the tweet operations.
type TweetService struct {
	Tweets  repositories.TweetRepository
	Likes   repositories.LikeRepository
	Users   repositories.UserRepository
	NowFunc func() time.Time
}

// Create posts a tweet on the actor's channel.
func (s *TweetService) Create(ctx context.Context, actorID, content string) (tweet models.Tweet, err error) {
	ctx, span := logging.StartSpan(ctx, "tweets.create")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return tweet, err
	}
	if content, err = required(content, "content"); err != nil {
		return tweet, err
	}

	now := nowUTC(s.NowFunc)
	tweet = models.Tweet{ID: uuid.NewString(), Content: content, OwnerID: actorID, CreatedAt: now, UpdatedAt: now}
	if err = s.Tweets.Create(ctx, tweet); err != nil {
		return models.Tweet{}, storeError(err, "user not found", "create tweet")
	}
	return tweet, nil
}

// Update rewrites an owned tweet.
func (s *TweetService) Update(ctx context.Context, tweetID, actorID, content string) (tweet models.Tweet, err error) {
	ctx, span := logging.StartSpan(ctx, "tweets.update")
	defer endSpan(span, &err)

	if content, err = required(content, "content"); err != nil {
		return tweet, err
	}
	if tweet, err = s.ownedTweet(ctx, tweetID, actorID); err != nil {
		return models.Tweet{}, err
	}

	tweet, err = s.Tweets.UpdateContent(ctx, tweet.ID, content, nowUTC(s.NowFunc))
	if err != nil {
		return models.Tweet{}, storeError(err, "tweet not found", "update tweet")
	}
	return tweet, nil
}

// Delete removes an owned tweet and then the likes targeting it.
func (s *TweetService) Delete(ctx context.Context, tweetID, actorID string) (err error) {
	ctx, span := logging.StartSpan(ctx, "tweets.delete")
	defer endSpan(span, &err)

	tweet, err := s.ownedTweet(ctx, tweetID, actorID)
	if err != nil {
		return err
	}

	if err = s.Tweets.Delete(ctx, tweet.ID); err != nil {
		return storeError(err, "tweet not found", "delete tweet")
	}
	if _, err = s.Likes.DeleteForTarget(ctx, models.LikeTarget{Kind: models.LikeTargetTweet, ID: tweet.ID}); err != nil {
		return storeError(err, "tweet not found", "delete tweet likes")
	}
	return nil
}

// ListForUser returns one page of a user's tweets with like state for the viewer.
func (s *TweetService) ListForUser(ctx context.Context, ownerID, viewerID string, page models.PageRequest) (result models.Page[models.TweetView], err error) {
	ctx, span := logging.StartSpan(ctx, "tweets.list")
	defer endSpan(span, &err)

	if ownerID, err = parseID(ownerID, "user"); err != nil {
		return result, err
	}
	if _, err = s.Users.FindByID(ctx, ownerID); err != nil {
		return result, storeError(err, "user not found", "get user")
	}

	req := page.Normalize()
	tweets, total, err := s.Tweets.ListForOwner(ctx, ownerID, viewerID, req)
	return paged(tweets, total, err, req, "list tweets")
}

func (s *TweetService) ownedTweet(ctx context.Context, tweetID, actorID string) (models.Tweet, error) {
	if err := requireActor(actorID); err != nil {
		return models.Tweet{}, err
	}
	id, err := parseID(tweetID, "tweet")
	if err != nil {
		return models.Tweet{}, err
	}

	tweet, err := s.Tweets.FindByID(ctx, id)
	if err != nil {
		return models.Tweet{}, storeError(err, "tweet not found", "get tweet")
	}
	if !actorOwns(tweet, actorID) {
		return models.Tweet{}, apperrors.Forbidden("you do not own this tweet")
	}
	return tweet, nil
}
