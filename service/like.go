package service

import (
	"context"

	"github.com/google/uuid"

	"socialnet/events"
	models "socialnet/model"
	"socialnet/publisher"
	"socialnet/repository"
)

// LikeService toggles like edges, the producer side of the like data the
// feed aggregation consumes.
type LikeService struct {
	posts  repository.PostRepository
	likes  repository.LikeRepository
	events *publisher.EventPublisher
}

func NewLikeService(
	posts repository.PostRepository,
	likes repository.LikeRepository,
	events *publisher.EventPublisher,
) *LikeService {
	return &LikeService{posts: posts, likes: likes, events: events}
}

// Toggle likes the post if the viewer has no like edge on it and unlikes it
// otherwise. The conditional insert doubles as the existence check, so two
// concurrent toggles cannot leave duplicate edges.
func (s *LikeService) Toggle(ctx context.Context, userID, postID uuid.UUID) (*models.LikeToggleResult, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	created, err := s.likes.CreateLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if created {
		s.events.PostLiked(events.PostLikeEvent{PostID: postID, LikedBy: userID})
		return &models.LikeToggleResult{Liked: true}, nil
	}

	deleted, err := s.likes.DeleteLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if deleted {
		s.events.PostUnliked(events.PostLikeEvent{PostID: postID, LikedBy: userID})
	}
	return &models.LikeToggleResult{Liked: false}, nil
}
