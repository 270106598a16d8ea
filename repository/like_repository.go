package repository

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// likeCountTTL bounds how stale a cached like count may go if an
// invalidation is lost.
const likeCountTTL = 5 * time.Minute

type LikeRepository interface {
	// CreateLike reports whether a new like was recorded; false means the
	// viewer had already liked the post.
	CreateLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	// DeleteLike reports whether a like was removed.
	DeleteLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	// CountByPosts returns the like count for every requested post in one
	// round trip. Posts with no likes map to 0.
	CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error)
	// LikedByUser reports, for every requested post, whether userID has a
	// like edge on it.
	LikedByUser(ctx context.Context, postIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error)
}

type likeRepository struct {
	db    *sqlx.DB
	redis *redis.Client
}

// NewLikeRepository builds the like store. redisClient may be nil, which
// disables the count cache.
func NewLikeRepository(db *sqlx.DB, redisClient *redis.Client) LikeRepository {
	return &likeRepository{db: db, redis: redisClient}
}

func (r *likeRepository) CreateLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO likes (id, post_id, liked_by, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (post_id, liked_by) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, uuid.New(), postID, userID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to create like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows > 0 {
		r.invalidateCount(ctx, postID)
	}
	return rows > 0, nil
}

func (r *likeRepository) DeleteLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM likes
		WHERE post_id = $1 AND liked_by = $2
	`

	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows > 0 {
		r.invalidateCount(ctx, postID)
	}
	return rows > 0, nil
}

func (r *likeRepository) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	for _, id := range postIDs {
		counts[id] = 0
	}

	missing := r.readCachedCounts(ctx, postIDs, counts)
	if len(missing) == 0 {
		return counts, nil
	}

	query := `
		SELECT post_id, COUNT(*) AS likes
		FROM likes
		WHERE post_id = ANY($1)
		GROUP BY post_id
	`

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(missing))
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	defer rows.Close()

	fetched := make(map[uuid.UUID]int, len(missing))
	for rows.Next() {
		var postID uuid.UUID
		var likes int
		if err := rows.Scan(&postID, &likes); err != nil {
			return nil, fmt.Errorf("failed to scan like count: %w", err)
		}
		counts[postID] = likes
		fetched[postID] = likes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating like counts: %w", err)
	}

	// Zero counts are cached too, otherwise unliked posts would miss on
	// every page load.
	for _, id := range missing {
		if _, ok := fetched[id]; !ok {
			fetched[id] = 0
		}
	}
	r.writeCachedCounts(ctx, fetched)

	return counts, nil
}

func (r *likeRepository) LikedByUser(ctx context.Context, postIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}
	for _, id := range postIDs {
		liked[id] = false
	}

	query := `
		SELECT post_id
		FROM likes
		WHERE liked_by = $1 AND post_id = ANY($2)
	`

	var likedIDs []uuid.UUID
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch like status: %w", err)
	}

	for _, id := range likedIDs {
		liked[id] = true
	}
	return liked, nil
}

// --- Redis count cache ---

func likeCountKey(postID uuid.UUID) string {
	return fmt.Sprintf("likes:count:%s", postID)
}

// readCachedCounts fills counts from the cache and returns the post IDs that
// still need a database read. Cache failures degrade to a full read.
func (r *likeRepository) readCachedCounts(ctx context.Context, postIDs []uuid.UUID, counts map[uuid.UUID]int) []uuid.UUID {
	if r.redis == nil {
		return postIDs
	}

	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = likeCountKey(id)
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		log.Printf("like count cache read failed: %v", err)
		return postIDs
	}

	var missing []uuid.UUID
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, postIDs[i])
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			missing = append(missing, postIDs[i])
			continue
		}
		counts[postIDs[i]] = n
	}
	return missing
}

func (r *likeRepository) writeCachedCounts(ctx context.Context, counts map[uuid.UUID]int) {
	if r.redis == nil || len(counts) == 0 {
		return
	}

	pipe := r.redis.Pipeline()
	for postID, n := range counts {
		pipe.Set(ctx, likeCountKey(postID), strconv.Itoa(n), likeCountTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("like count cache write failed: %v", err)
	}
}

func (r *likeRepository) invalidateCount(ctx context.Context, postID uuid.UUID) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(ctx, likeCountKey(postID)).Err(); err != nil {
		log.Printf("like count cache invalidation failed: %v", err)
	}
}
