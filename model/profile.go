package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Owner     uuid.UUID `json:"owner" db:"owner"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Bio       string    `json:"bio" db:"bio"`
	DOB       time.Time `json:"dob" db:"dob"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EnrichedProfile is the read-time projection of a profile: account fields,
// live follow counts and the viewer's relationship to the owner. It is never
// persisted.
type EnrichedProfile struct {
	Profile
	Account        Account `json:"account"`
	FollowersCount int     `json:"followers_count"`
	FollowingCount int     `json:"following_count"`
	IsFollowing    bool    `json:"is_following"`
}

type UpdateProfileInput struct {
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	Bio       *string    `json:"bio,omitempty"`
	DOB       *time.Time `json:"dob,omitempty"`
	Location  *string    `json:"location,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (in *UpdateProfileInput) Empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Bio == nil &&
		in.DOB == nil && in.Location == nil
}
