package service_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialnet/media"
	models "socialnet/model"
	"socialnet/pkg/apierror"
)

// In-memory stores implementing the repository interfaces. They mirror the
// Postgres implementations' contracts: NotFound on misses, boolean results
// on conditional edge writes, batch lookups returning only matched rows.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return apierror.Conflict("username or email already in use")
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apierror.NotFound("user does not exist")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apierror.NotFound("user does not exist")
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apierror.NotFound("user does not exist")
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, userIDs []uuid.UUID) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateDetails(ctx context.Context, userID uuid.UUID, input *models.UpdateUserInput) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apierror.NotFound("user does not exist")
	}
	if input.FullName != nil {
		u.FullName = *input.FullName
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apierror.NotFound("user does not exist")
	}
	u.Avatar = avatarURL
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateCoverImage(ctx context.Context, userID uuid.UUID, coverURL string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apierror.NotFound("user does not exist")
	}
	u.CoverImage = &coverURL
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apierror.NotFound("user does not exist")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apierror.NotFound("user does not exist")
	}
	u.RefreshToken = token
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.Owner]; ok {
		return apierror.Conflict("profile already exists")
	}
	cp := *profile
	r.profiles[profile.Owner] = &cp
	return nil
}

func (r *fakeProfileRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[ownerID]
	if !ok {
		return nil, apierror.NotFound("profile does not exist")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Profile, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		if p, ok := r.profiles[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, ownerID uuid.UUID, input *models.UpdateProfileInput) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[ownerID]
	if !ok {
		return nil, apierror.NotFound("profile does not exist")
	}
	if input.FirstName != nil {
		p.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		p.LastName = *input.LastName
	}
	if input.Bio != nil {
		p.Bio = *input.Bio
	}
	if input.DOB != nil {
		p.DOB = *input.DOB
	}
	if input.Location != nil {
		p.Location = *input.Location
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

type followPair struct {
	follower uuid.UUID
	followee uuid.UUID
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[followPair]struct{}
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[followPair]struct{})}
}

func (r *fakeFollowRepo) CreateEdge(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	if followerID == followeeID {
		return false, apierror.InvalidOperation("cannot follow yourself")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := followPair{followerID, followeeID}
	if _, ok := r.edges[key]; ok {
		return false, nil
	}
	r.edges[key] = struct{}{}
	return true, nil
}

func (r *fakeFollowRepo) DeleteEdge(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := followPair{followerID, followeeID}
	if _, ok := r.edges[key]; !ok {
		return false, nil
	}
	delete(r.edges, key)
	return true, nil
}

func (r *fakeFollowRepo) HasEdge(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.edges[followPair{followerID, followeeID}]
	return ok, nil
}

func (r *fakeFollowRepo) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key := range r.edges {
		if key.followee == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeFollowRepo) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key := range r.edges {
		if key.follower == userID {
			n++
		}
	}
	return n, nil
}

type likePair struct {
	post uuid.UUID
	user uuid.UUID
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[likePair]struct{}
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likePair]struct{})}
}

func (r *fakeLikeRepo) CreateLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likePair{postID, userID}
	if _, ok := r.likes[key]; ok {
		return false, nil
	}
	r.likes[key] = struct{}{}
	return true, nil
}

func (r *fakeLikeRepo) DeleteLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likePair{postID, userID}
	if _, ok := r.likes[key]; !ok {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakeLikeRepo) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]int, len(postIDs))
	for _, id := range postIDs {
		out[id] = 0
	}
	for key := range r.likes {
		if _, ok := out[key.post]; ok {
			out[key.post]++
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) LikedByUser(ctx context.Context, postIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]bool, len(postIDs))
	for _, id := range postIDs {
		_, liked := r.likes[likePair{id, userID}]
		out[id] = liked
	}
	return out, nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post

	// createErr fails the next Create; used to exercise insert-failure paths.
	createErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]*models.Post)}
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	cp := *post
	cp.Images = append([]models.PostImage(nil), post.Images...)
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, apierror.NotFound("post does not exist")
	}
	cp := *p
	cp.Images = append([]models.PostImage(nil), p.Images...)
	return &cp, nil
}

func (r *fakePostRepo) Find(ctx context.Context, criteria models.PostCriteria, sortBy *models.PostSort, page, pageSize int) ([]*models.Post, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if criteria.OwnerID != nil && p.Owner != *criteria.OwnerID {
			continue
		}
		if criteria.TitleContains != "" &&
			!strings.Contains(strings.ToLower(p.Title), strings.ToLower(criteria.TitleContains)) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if sortBy != nil {
			less := false
			switch sortBy.Field {
			case "title":
				if a.Title != b.Title {
					less = a.Title < b.Title
					if sortBy.Direction == models.SortDesc {
						less = !less
					}
					return less
				}
			case "updated_at":
				if !a.UpdatedAt.Equal(b.UpdatedAt) {
					less = a.UpdatedAt.Before(b.UpdatedAt)
					if sortBy.Direction == models.SortDesc {
						less = !less
					}
					return less
				}
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() > b.ID.String()
	})

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]*models.Post, 0, end-start)
	for _, p := range matched[start:end] {
		cp := *p
		cp.Images = append([]models.PostImage(nil), p.Images...)
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *fakePostRepo) UpdateMeta(ctx context.Context, postID uuid.UUID, input *models.UpdatePostInput) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, apierror.NotFound("post does not exist")
	}
	if input.Title != nil {
		p.Title = *input.Title
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Tags != nil {
		p.Tags = append([]string(nil), input.Tags...)
	}
	p.UpdatedAt = time.Now()
	cp := *p
	cp.Images = append([]models.PostImage(nil), p.Images...)
	return &cp, nil
}

func (r *fakePostRepo) ReplaceImages(ctx context.Context, postID uuid.UUID, images []models.PostImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return apierror.NotFound("post does not exist")
	}
	p.Images = append([]models.PostImage(nil), images...)
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, postID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[postID]; !ok {
		return false, nil
	}
	delete(r.posts, postID)
	return true, nil
}

// fakeMediaStore records uploads and deletions. failAt, when positive, fails
// the Nth upload.
type fakeMediaStore struct {
	mu      sync.Mutex
	nextID  int
	stored  map[string]string // asset ID -> filename
	deleted []string
	failAt  int
	uploads int
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{stored: make(map[string]string)}
}

func (s *fakeMediaStore) Upload(ctx context.Context, filename string, contents io.Reader) (*media.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.failAt > 0 && s.uploads == s.failAt {
		return nil, fmt.Errorf("media store unavailable")
	}
	s.nextID++
	id := fmt.Sprintf("asset-%d", s.nextID)
	s.stored[id] = filename
	return &media.Asset{ID: id, URL: "http://localhost:8080/images/" + id}, nil
}

func (s *fakeMediaStore) Open(ctx context.Context, assetID string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stored[assetID]; !ok {
		return nil, fmt.Errorf("asset %s not found", assetID)
	}
	return io.NopCloser(strings.NewReader("image-bytes")), nil
}

func (s *fakeMediaStore) Delete(ctx context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stored, assetID)
	s.deleted = append(s.deleted, assetID)
	return nil
}
