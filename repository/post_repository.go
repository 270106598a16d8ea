package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	models "socialnet/model"
	"socialnet/pkg/apierror"
)

// postSortColumns whitelists caller-supplied sort fields against schema
// columns.
var postSortColumns = map[string]string{
	"title":      "title",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type PostRepository interface {
	// Create persists the post and its images atomically: either the post
	// row and every image row land, or nothing does.
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID uuid.UUID) (*models.Post, error)
	// Find returns one page of posts matching the criteria plus the total
	// match count. Order is created_at DESC (id as tiebreak) unless an
	// explicit sort is given.
	Find(ctx context.Context, criteria models.PostCriteria, sort *models.PostSort, page, pageSize int) ([]*models.Post, int, error)
	UpdateMeta(ctx context.Context, postID uuid.UUID, input *models.UpdatePostInput) (*models.Post, error)
	ReplaceImages(ctx context.Context, postID uuid.UUID, images []models.PostImage) error
	// Delete removes the post and, via cascade, its image and like rows. It
	// reports whether a row was deleted.
	Delete(ctx context.Context, postID uuid.UUID) (bool, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts (id, owner, title, description, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query,
		post.ID, post.Owner, post.Title, post.Description,
		pq.Array(post.Tags), post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	if err := insertImages(ctx, tx, post.ID, post.Images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	query := `
		SELECT id, owner, title, description, tags, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	row := r.db.QueryRowxContext(ctx, query, postID)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NotFound("post does not exist")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := r.attachImages(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Find(ctx context.Context, criteria models.PostCriteria, sort *models.PostSort, page, pageSize int) ([]*models.Post, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 0

	if criteria.OwnerID != nil {
		argCount++
		where += fmt.Sprintf(" AND owner = $%d", argCount)
		args = append(args, *criteria.OwnerID)
	}

	if criteria.TitleContains != "" {
		argCount++
		where += fmt.Sprintf(" AND title ILIKE $%d", argCount)
		args = append(args, "%"+criteria.TitleContains+"%")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM posts" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	orderBy := " ORDER BY created_at DESC, id DESC"
	if sort != nil {
		column, ok := postSortColumns[sort.Field]
		if !ok {
			return nil, 0, apierror.InvalidOperation(fmt.Sprintf("cannot sort by %q", sort.Field))
		}
		direction := "ASC"
		if sort.Direction == models.SortDesc {
			direction = "DESC"
		}
		orderBy = fmt.Sprintf(" ORDER BY %s %s, id DESC", column, direction)
	}

	query := "SELECT id, owner, title, description, tags, created_at, updated_at FROM posts" +
		where + orderBy +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating posts: %w", err)
	}

	if err := r.attachImages(ctx, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) UpdateMeta(ctx context.Context, postID uuid.UUID, input *models.UpdatePostInput) (*models.Post, error) {
	query := "UPDATE posts SET updated_at = NOW()"
	args := []interface{}{}
	argCount := 1

	if input.Title != nil {
		query += fmt.Sprintf(", title = $%d", argCount)
		args = append(args, *input.Title)
		argCount++
	}

	if input.Description != nil {
		query += fmt.Sprintf(", description = $%d", argCount)
		args = append(args, *input.Description)
		argCount++
	}

	if input.Tags != nil {
		query += fmt.Sprintf(", tags = $%d", argCount)
		args = append(args, pq.Array(input.Tags))
		argCount++
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING id, owner, title, description, tags, created_at, updated_at", argCount)
	args = append(args, postID)

	row := r.db.QueryRowxContext(ctx, query, args...)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NotFound("post does not exist")
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if err := r.attachImages(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ReplaceImages(ctx context.Context, postID uuid.UUID, images []models.PostImage) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_images WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear post images: %w", err)
	}

	if err := insertImages(ctx, tx, postID, images); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE posts SET updated_at = NOW() WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("failed to touch post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit image replacement: %w", err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, postID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var tags pq.StringArray

	err := row.Scan(
		&post.ID, &post.Owner, &post.Title, &post.Description,
		&tags, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.Tags = []string(tags)
	post.Images = []models.PostImage{}
	return &post, nil
}

func insertImages(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID, images []models.PostImage) error {
	query := `
		INSERT INTO post_images (post_id, position, url, asset_id)
		VALUES ($1, $2, $3, $4)
	`
	for i, img := range images {
		if _, err := tx.ExecContext(ctx, query, postID, i, img.URL, img.AssetID); err != nil {
			return fmt.Errorf("failed to insert post image: %w", err)
		}
	}
	return nil
}

// attachImages loads the image lists for a batch of posts in one query.
func (r *postRepository) attachImages(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	byID := make(map[uuid.UUID]*models.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	query := `
		SELECT post_id, position, url, asset_id
		FROM post_images
		WHERE post_id = ANY($1)
		ORDER BY post_id, position
	`

	var images []models.PostImage
	if err := r.db.SelectContext(ctx, &images, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load post images: %w", err)
	}

	for _, img := range images {
		if post, ok := byID[img.PostID]; ok {
			post.Images = append(post.Images, img)
		}
	}
	return nil
}
