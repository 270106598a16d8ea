package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxPostImages caps how many images a post may carry after any create or
// update.
const MaxPostImages = 5

type PostImage struct {
	URL     string    `json:"url" db:"url"`
	AssetID string    `json:"-" db:"asset_id"`
	PostID  uuid.UUID `json:"-" db:"post_id"`
	// Position preserves upload order within the post.
	Position int `json:"-" db:"position"`
}

type Post struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Owner       uuid.UUID   `json:"owner" db:"owner"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Tags        []string    `json:"tags"`
	Images      []PostImage `json:"images"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// PostOwner is the denormalized owner rendering embedded in an enriched
// post: the owner's profile merged with the restricted account view.
type PostOwner struct {
	Profile
	Account Account `json:"account"`
}

// EnrichedPost is a post shaped for a specific viewer. Derived at read time,
// never persisted.
type EnrichedPost struct {
	Post
	Likes   int       `json:"likes"`
	IsLiked bool      `json:"is_liked"`
	Author  PostOwner `json:"author"`
}

// SortDirection is "asc" or "desc".
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type PostSort struct {
	Field     string
	Direction SortDirection
}

// PostCriteria selects the base set of posts before enrichment and
// pagination. A nil OwnerID means all owners.
type PostCriteria struct {
	OwnerID       *uuid.UUID
	TitleContains string
}

// FeedPage is the paginated output of the feed aggregator.
type FeedPage struct {
	Items       []EnrichedPost `json:"items"`
	TotalItems  int            `json:"total_items"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

type UpdatePostInput struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (in *UpdatePostInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Tags == nil
}
