package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	Avatar       string    `json:"avatar" db:"avatar"`
	CoverImage   *string   `json:"cover_image,omitempty" db:"cover_image"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RefreshToken *string   `json:"-" db:"refresh_token"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Account is the restricted public projection of a User that gets embedded
// into enriched profiles and posts.
type Account struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Email      string    `json:"email" db:"email"`
	Avatar     string    `json:"avatar" db:"avatar"`
	CoverImage *string   `json:"cover_image,omitempty" db:"cover_image"`
}

func (u *User) Account() Account {
	return Account{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
	}
}

type UpdateUserInput struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}
