package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: FollowerID follows FolloweeID. The pair is
// unique and self-edges are rejected before the store is touched.
type Follow struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id"`
	FolloweeID uuid.UUID `json:"followee_id" db:"followee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FollowToggleResult reports the state after a toggle.
type FollowToggleResult struct {
	Following bool `json:"following"`
}
