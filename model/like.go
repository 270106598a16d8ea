package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is an edge meaning LikedBy has liked PostID. Unique per pair.
type Like struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	LikedBy   uuid.UUID `json:"liked_by" db:"liked_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type LikeToggleResult struct {
	Liked bool `json:"liked"`
}
