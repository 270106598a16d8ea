package service

import (
	"context"

	"github.com/google/uuid"

	models "socialnet/model"
	"socialnet/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// FeedQuery selects and shapes one page of posts. Exactly one selector is
// active: Username if set, otherwise OwnerID if set, otherwise all posts.
type FeedQuery struct {
	Username      string
	OwnerID       *uuid.UUID
	TitleContains string
	Sort          *models.PostSort
	Page          int
	PageSize      int
}

// FeedService builds viewer-aware, paginated post listings. It only reads:
// every store passed in is consumed through its query surface.
type FeedService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	profiles repository.ProfileRepository
	likes    repository.LikeRepository
}

func NewFeedService(
	posts repository.PostRepository,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	likes repository.LikeRepository,
) *FeedService {
	return &FeedService{posts: posts, users: users, profiles: profiles, likes: likes}
}

// GetFeed returns one enriched page of posts. viewerID may be nil for
// anonymous viewers, which fixes every is_liked flag to false. A username
// selector that matches no user fails with NotFound, never an empty page.
func (s *FeedService) GetFeed(ctx context.Context, viewerID *uuid.UUID, query FeedQuery) (*models.FeedPage, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	criteria := models.PostCriteria{TitleContains: query.TitleContains}
	if query.Username != "" {
		owner, err := s.users.GetByUsername(ctx, query.Username)
		if err != nil {
			return nil, err
		}
		criteria.OwnerID = &owner.ID
	} else if query.OwnerID != nil {
		criteria.OwnerID = query.OwnerID
	}

	posts, total, err := s.posts.Find(ctx, criteria, query.Sort, page, pageSize)
	if err != nil {
		return nil, err
	}

	items, err := s.enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}

	return &models.FeedPage{
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages(total, pageSize),
		CurrentPage: page,
	}, nil
}

// GetPost returns a single post enriched for the viewer.
func (s *FeedService) GetPost(ctx context.Context, viewerID *uuid.UUID, postID uuid.UUID) (*models.EnrichedPost, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	items, err := s.enrich(ctx, viewerID, []*models.Post{post})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// enrich resolves like counts, viewer-liked flags and owner renderings for a
// page of posts in a bounded number of store round trips: one like-count
// batch, one viewer-likes batch, one user batch and one profile batch —
// never a per-post lookup.
func (s *FeedService) enrich(ctx context.Context, viewerID *uuid.UUID, posts []*models.Post) ([]models.EnrichedPost, error) {
	items := make([]models.EnrichedPost, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	postIDs := make([]uuid.UUID, len(posts))
	ownerSet := make(map[uuid.UUID]struct{}, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		ownerSet[p.Owner] = struct{}{}
	}
	ownerIDs := make([]uuid.UUID, 0, len(ownerSet))
	for id := range ownerSet {
		ownerIDs = append(ownerIDs, id)
	}

	counts, err := s.likes.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	liked := map[uuid.UUID]bool{}
	if viewerID != nil {
		liked, err = s.likes.LikedByUser(ctx, postIDs, *viewerID)
		if err != nil {
			return nil, err
		}
	}

	owners, err := s.resolveOwners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		items = append(items, models.EnrichedPost{
			Post:    *p,
			Likes:   counts[p.ID],
			IsLiked: liked[p.ID],
			Author:  owners[p.Owner],
		})
	}
	return items, nil
}

func (s *FeedService) resolveOwners(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]models.PostOwner, error) {
	users, err := s.users.GetByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profiles.GetByOwners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	profileByOwner := make(map[uuid.UUID]*models.Profile, len(profiles))
	for _, p := range profiles {
		profileByOwner[p.Owner] = p
	}

	owners := make(map[uuid.UUID]models.PostOwner, len(users))
	for _, u := range users {
		owner := models.PostOwner{Account: u.Account()}
		if profile, ok := profileByOwner[u.ID]; ok {
			owner.Profile = *profile
		}
		owners[u.ID] = owner
	}
	return owners, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// totalPages is ceil(totalItems / pageSize); zero items means zero pages.
func totalPages(totalItems, pageSize int) int {
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
