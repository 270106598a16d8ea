package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/service"
)

type feedEnv struct {
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	posts    *fakePostRepo
	likes    *fakeLikeRepo
	feed     *service.FeedService
}

func newFeedEnv() *feedEnv {
	env := &feedEnv{
		users:    newFakeUserRepo(),
		profiles: newFakeProfileRepo(),
		posts:    newFakePostRepo(),
		likes:    newFakeLikeRepo(),
	}
	env.feed = service.NewFeedService(env.posts, env.users, env.profiles, env.likes)
	return env
}

func (e *feedEnv) addUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    gofakeit.Email(),
		FullName: gofakeit.Name(),
		Avatar:   gofakeit.URL(),
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	require.NoError(t, e.profiles.Create(context.Background(), &models.Profile{
		ID:        uuid.New(),
		Owner:     user.ID,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Bio:       gofakeit.Sentence(6),
		Location:  gofakeit.City(),
	}))
	return user
}

func (e *feedEnv) addPost(t *testing.T, owner uuid.UUID, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:          uuid.New(),
		Owner:       owner,
		Title:       title,
		Description: gofakeit.Sentence(10),
		Tags:        []string{gofakeit.Word()},
		Images:      []models.PostImage{{URL: gofakeit.URL(), AssetID: uuid.NewString()}},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, e.posts.Create(context.Background(), post))
	return post
}

func TestGetFeedPagination(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "paginator")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		env.addPost(t, author.ID, fmt.Sprintf("post %02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	seen := make(map[uuid.UUID]bool)
	wantLens := []int{10, 10, 5}
	for page := 1; page <= 3; page++ {
		result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{Page: page, PageSize: 10})
		require.NoError(t, err)
		require.Equal(t, 25, result.TotalItems)
		require.Equal(t, 3, result.TotalPages)
		require.Equal(t, page, result.CurrentPage)
		require.Len(t, result.Items, wantLens[page-1])

		for _, item := range result.Items {
			require.False(t, seen[item.ID], "post %s appeared on more than one page", item.ID)
			seen[item.ID] = true
		}
	}
	require.Len(t, seen, 25)
}

func TestGetFeedNewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "chronological")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		env.addPost(t, author.ID, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
	for i := 1; i < len(result.Items); i++ {
		require.False(t, result.Items[i].CreatedAt.After(result.Items[i-1].CreatedAt))
	}
}

func TestGetFeedPageBeyondEnd(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "sparse")
	env.addPost(t, author.ID, "only one", time.Now())

	result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{Page: 7, PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.Equal(t, 1, result.TotalItems)
	require.Equal(t, 1, result.TotalPages)
	require.Equal(t, 7, result.CurrentPage)
}

func TestGetFeedNormalizesPaging(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "normalizer")
	env.addPost(t, author.ID, "a post", time.Now())

	result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{Page: 0, PageSize: -3})
	require.NoError(t, err)
	require.Equal(t, 1, result.CurrentPage)
	require.Equal(t, 1, result.TotalPages)

	result, err = env.feed.GetFeed(ctx, nil, service.FeedQuery{Page: 1, PageSize: 100000})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
}

func TestGetFeedByUsername(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	alice := env.addUser(t, "Alice")
	bob := env.addUser(t, "bob")
	env.addPost(t, alice.ID, "alice writes", time.Now())
	env.addPost(t, bob.ID, "bob writes", time.Now())

	// Username match is case-insensitive.
	result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{Username: "alice"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, alice.ID, result.Items[0].Owner)
	require.Equal(t, "Alice", result.Items[0].Author.Account.Username)
}

func TestGetFeedUnknownUsername(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	env.addUser(t, "existing")

	_, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{Username: "ghost"})
	require.Error(t, err)
	require.True(t, apierror.IsNotFound(err))
}

func TestGetFeedEnrichment(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "author")
	fan := env.addUser(t, "fan")
	other := env.addUser(t, "other")

	liked := env.addPost(t, author.ID, "liked post", time.Now().Add(-time.Minute))
	plain := env.addPost(t, author.ID, "plain post", time.Now())

	_, err := env.likes.CreateLike(ctx, liked.ID, fan.ID)
	require.NoError(t, err)
	_, err = env.likes.CreateLike(ctx, liked.ID, other.ID)
	require.NoError(t, err)

	result, err := env.feed.GetFeed(ctx, &fan.ID, service.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	byID := make(map[uuid.UUID]models.EnrichedPost)
	for _, item := range result.Items {
		byID[item.ID] = item
	}

	require.Equal(t, 2, byID[liked.ID].Likes)
	require.True(t, byID[liked.ID].IsLiked)
	require.Equal(t, 0, byID[plain.ID].Likes)
	require.False(t, byID[plain.ID].IsLiked)

	for _, item := range result.Items {
		require.Equal(t, author.ID, item.Author.Account.ID)
		require.Equal(t, "author", item.Author.Account.Username)
		require.NotEmpty(t, item.Author.Profile.FirstName)
	}
}

func TestGetFeedAnonymousViewer(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "writer")
	fan := env.addUser(t, "reader")
	post := env.addPost(t, author.ID, "popular", time.Now())

	_, err := env.likes.CreateLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)

	result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, 1, result.Items[0].Likes)
	require.False(t, result.Items[0].IsLiked)
}

func TestGetFeedTitleFilter(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "filterer")
	env.addPost(t, author.ID, "Sunset over the bay", time.Now())
	env.addPost(t, author.ID, "Morning run", time.Now())

	result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{TitleContains: "sunset"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "Sunset over the bay", result.Items[0].Title)
	require.Equal(t, 1, result.TotalItems)
}

func TestGetFeedSortByTitle(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "sorter")
	env.addPost(t, author.ID, "banana", time.Now().Add(-time.Minute))
	env.addPost(t, author.ID, "apple", time.Now())
	env.addPost(t, author.ID, "cherry", time.Now().Add(time.Minute))

	result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{
		Sort: &models.PostSort{Field: "title", Direction: models.SortAsc},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	require.Equal(t, "apple", result.Items[0].Title)
	require.Equal(t, "banana", result.Items[1].Title)
	require.Equal(t, "cherry", result.Items[2].Title)
}

func TestGetFeedEmptyResult(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	env.addUser(t, "quiet")

	result, err := env.feed.GetFeed(ctx, nil, service.FeedQuery{})
	require.NoError(t, err)
	require.NotNil(t, result.Items)
	require.Empty(t, result.Items)
	require.Equal(t, 0, result.TotalItems)
	require.Equal(t, 0, result.TotalPages)
}

func TestGetPost(t *testing.T) {
	ctx := context.Background()
	env := newFeedEnv()
	author := env.addUser(t, "single")
	fan := env.addUser(t, "singlefan")
	post := env.addPost(t, author.ID, "one post", time.Now())

	_, err := env.likes.CreateLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)

	enriched, err := env.feed.GetPost(ctx, &fan.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, post.ID, enriched.ID)
	require.Equal(t, 1, enriched.Likes)
	require.True(t, enriched.IsLiked)
	require.Equal(t, author.ID, enriched.Author.Account.ID)

	_, err = env.feed.GetPost(ctx, nil, uuid.New())
	require.True(t, apierror.IsNotFound(err))
}
