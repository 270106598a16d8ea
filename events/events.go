package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	PostCreated    = "post.created"
	PostDeleted    = "post.deleted"
	PostLiked      = "post.liked"
	PostUnliked    = "post.unliked"
	UserFollowed   = "user.followed"
	UserUnfollowed = "user.unfollowed"
)

// Event payloads

type PostCreatedEvent struct {
	PostID    uuid.UUID `json:"post_id"`
	Owner     uuid.UUID `json:"owner"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type PostDeletedEvent struct {
	PostID uuid.UUID `json:"post_id"`
	Owner  uuid.UUID `json:"owner"`
}

type PostLikeEvent struct {
	PostID  uuid.UUID `json:"post_id"`
	LikedBy uuid.UUID `json:"liked_by"`
}

type FollowEvent struct {
	FollowerID uuid.UUID `json:"follower_id"`
	FolloweeID uuid.UUID `json:"followee_id"`
}
