package service

import (
	"context"

	"github.com/google/uuid"

	"socialnet/events"
	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/publisher"
	"socialnet/repository"
)

// FollowService drives the follow edge state machine: a toggle flips the
// edge between existing and not existing for a fixed (follower, followee)
// pair.
type FollowService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	events  *publisher.EventPublisher
}

func NewFollowService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	events *publisher.EventPublisher,
) *FollowService {
	return &FollowService{users: users, follows: follows, events: events}
}

// Toggle follows the target if no edge exists and unfollows otherwise. The
// store's unique constraint makes concurrent double-toggles benign: an
// insert that hits an existing edge and a delete that finds no row are both
// treated as the other toggle having won, not as errors.
func (s *FollowService) Toggle(ctx context.Context, followerID, targetUserID uuid.UUID) (*models.FollowToggleResult, error) {
	if _, err := s.users.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	if followerID == targetUserID {
		return nil, apierror.InvalidOperation("you cannot follow yourself")
	}

	following, err := s.follows.HasEdge(ctx, followerID, targetUserID)
	if err != nil {
		return nil, err
	}

	if following {
		deleted, err := s.follows.DeleteEdge(ctx, followerID, targetUserID)
		if err != nil {
			return nil, err
		}
		if deleted {
			s.events.UserUnfollowed(events.FollowEvent{FollowerID: followerID, FolloweeID: targetUserID})
		}
		return &models.FollowToggleResult{Following: false}, nil
	}

	created, err := s.follows.CreateEdge(ctx, followerID, targetUserID)
	if err != nil {
		return nil, err
	}
	if created {
		s.events.UserFollowed(events.FollowEvent{FollowerID: followerID, FolloweeID: targetUserID})
	}
	return &models.FollowToggleResult{Following: true}, nil
}
