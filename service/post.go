package service

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"socialnet/events"
	"socialnet/media"
	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/publisher"
	"socialnet/repository"
)

// Upload is a pending image: a name and its contents.
type Upload struct {
	Filename string
	Contents io.Reader
}

// PostService owns the post lifecycle. Writes follow upload-then-insert:
// image assets are stored first and the post row only lands once every
// upload succeeded, so no post ever references a failed upload. A crash
// between upload and insert can orphan an asset, which is acceptable; a
// partial post row is not.
type PostService struct {
	posts  repository.PostRepository
	media  media.Store
	events *publisher.EventPublisher
}

func NewPostService(
	posts repository.PostRepository,
	mediaStore media.Store,
	events *publisher.EventPublisher,
) *PostService {
	return &PostService{posts: posts, media: mediaStore, events: events}
}

// Create validates, uploads the images, and persists the post.
func (s *PostService) Create(ctx context.Context, ownerID uuid.UUID, title, description string, tags []string, uploads []Upload) (*models.Post, error) {
	if title == "" || description == "" {
		return nil, apierror.InvalidOperation("title and description are required")
	}
	if len(uploads) == 0 {
		return nil, apierror.InvalidOperation("at least one image is required")
	}
	if len(uploads) > models.MaxPostImages {
		return nil, apierror.InvalidOperation("cannot exceed 5 images")
	}
	if tags == nil {
		tags = []string{}
	}

	images, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &models.Post{
		ID:          uuid.New(),
		Owner:       ownerID,
		Title:       title,
		Description: description,
		Tags:        tags,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		// The insert failed, so the freshly stored assets are unreferenced.
		s.releaseImages(ctx, images)
		return nil, err
	}

	s.events.PostCreated(events.PostCreatedEvent{
		PostID:    post.ID,
		Owner:     ownerID,
		Title:     title,
		CreatedAt: now,
	})
	return post, nil
}

// UpdateMeta patches title/description/tags on the caller's post. At least
// one field must be present.
func (s *PostService) UpdateMeta(ctx context.Context, ownerID, postID uuid.UUID, input *models.UpdatePostInput) (*models.Post, error) {
	if input.Empty() {
		return nil, apierror.InvalidOperation("at least one of title, description or tags is required")
	}
	if input.Title != nil && *input.Title == "" {
		return nil, apierror.InvalidOperation("title cannot be empty")
	}
	if input.Description != nil && *input.Description == "" {
		return nil, apierror.InvalidOperation("description cannot be empty")
	}

	if _, err := s.ownedPost(ctx, ownerID, postID); err != nil {
		return nil, err
	}

	return s.posts.UpdateMeta(ctx, postID, input)
}

// ReplaceImages swaps the post's image set for the uploaded one (full
// replace, 1–5 images). The old assets are released only after the new set
// is committed; validation failures leave the existing images untouched.
func (s *PostService) ReplaceImages(ctx context.Context, ownerID, postID uuid.UUID, uploads []Upload) (*models.Post, error) {
	if len(uploads) == 0 {
		return nil, apierror.InvalidOperation("at least one image is required")
	}
	if len(uploads) > models.MaxPostImages {
		return nil, apierror.InvalidOperation("cannot exceed 5 images")
	}

	post, err := s.ownedPost(ctx, ownerID, postID)
	if err != nil {
		return nil, err
	}
	oldImages := post.Images

	images, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	if err := s.posts.ReplaceImages(ctx, postID, images); err != nil {
		s.releaseImages(ctx, images)
		return nil, err
	}

	s.releaseImages(ctx, oldImages)

	return s.posts.GetByID(ctx, postID)
}

// Delete removes the caller's post and releases its image assets.
func (s *PostService) Delete(ctx context.Context, ownerID, postID uuid.UUID) error {
	post, err := s.ownedPost(ctx, ownerID, postID)
	if err != nil {
		return err
	}

	deleted, err := s.posts.Delete(ctx, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return apierror.NotFound("post does not exist")
	}

	s.releaseImages(ctx, post.Images)
	s.events.PostDeleted(events.PostDeletedEvent{PostID: postID, Owner: ownerID})
	return nil
}

// ownedPost loads the post and hides it behind NotFound when the caller is
// not its owner.
func (s *PostService) ownedPost(ctx context.Context, ownerID, postID uuid.UUID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Owner != ownerID {
		return nil, apierror.NotFound("post does not exist")
	}
	return post, nil
}

// uploadAll stores every upload, rolling back the ones that already landed
// if a later one fails.
func (s *PostService) uploadAll(ctx context.Context, uploads []Upload) ([]models.PostImage, error) {
	images := make([]models.PostImage, 0, len(uploads))
	for _, u := range uploads {
		asset, err := s.media.Upload(ctx, u.Filename, u.Contents)
		if err != nil {
			s.releaseImages(ctx, images)
			return nil, apierror.UploadFailed("failed to upload image", err)
		}
		images = append(images, models.PostImage{URL: asset.URL, AssetID: asset.ID})
	}
	return images, nil
}

// releaseImages deletes assets best-effort; a leaked asset is preferable to
// failing the enclosing operation after the store already committed.
func (s *PostService) releaseImages(ctx context.Context, images []models.PostImage) {
	for _, img := range images {
		if img.AssetID == "" {
			continue
		}
		if err := s.media.Delete(ctx, img.AssetID); err != nil {
			log.Printf("failed to release media asset %s: %v", img.AssetID, err)
		}
	}
}
