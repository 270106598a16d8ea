package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/service"
)

func newLikeEnv() (*fakePostRepo, *fakeLikeRepo, *service.LikeService) {
	posts := newFakePostRepo()
	likes := newFakeLikeRepo()
	return posts, likes, service.NewLikeService(posts, likes, nil)
}

func TestLikeToggle(t *testing.T) {
	ctx := context.Background()
	posts, likes, svc := newLikeEnv()

	owner := uuid.New()
	viewer := uuid.New()
	post := &models.Post{
		ID:          uuid.New(),
		Owner:       owner,
		Title:       "a post",
		Description: "something",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, posts.Create(ctx, post))

	result, err := svc.Toggle(ctx, viewer, post.ID)
	require.NoError(t, err)
	require.True(t, result.Liked)

	counts, err := likes.CountByPosts(ctx, []uuid.UUID{post.ID})
	require.NoError(t, err)
	require.Equal(t, 1, counts[post.ID])

	result, err = svc.Toggle(ctx, viewer, post.ID)
	require.NoError(t, err)
	require.False(t, result.Liked)

	counts, err = likes.CountByPosts(ctx, []uuid.UUID{post.ID})
	require.NoError(t, err)
	require.Equal(t, 0, counts[post.ID])
}

func TestLikeTogglePerViewer(t *testing.T) {
	ctx := context.Background()
	posts, likes, svc := newLikeEnv()

	post := &models.Post{ID: uuid.New(), Owner: uuid.New(), Title: "t", Description: "d"}
	require.NoError(t, posts.Create(ctx, post))

	a := uuid.New()
	b := uuid.New()

	_, err := svc.Toggle(ctx, a, post.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, b, post.ID)
	require.NoError(t, err)

	// One viewer unliking leaves the other's like intact.
	result, err := svc.Toggle(ctx, a, post.ID)
	require.NoError(t, err)
	require.False(t, result.Liked)

	counts, err := likes.CountByPosts(ctx, []uuid.UUID{post.ID})
	require.NoError(t, err)
	require.Equal(t, 1, counts[post.ID])

	likedByB, err := likes.LikedByUser(ctx, []uuid.UUID{post.ID}, b)
	require.NoError(t, err)
	require.True(t, likedByB[post.ID])
}

func TestLikeUnknownPost(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newLikeEnv()

	_, err := svc.Toggle(ctx, uuid.New(), uuid.New())
	require.True(t, apierror.IsNotFound(err))
}
