package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore keeps image blobs in a MongoDB GridFS bucket and mints URLs of
// the form <baseURL>/images/<id>, served back by the media handler.
type GridFSStore struct {
	client  *mongo.Client
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFSStore connects to MongoDB and opens the default bucket.
func NewGridFSStore(ctx context.Context, uri, dbName, baseURL string) (*GridFSStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to media store: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping media store: %w", err)
	}

	bucket, err := gridfs.NewBucket(client.Database(dbName))
	if err != nil {
		return nil, fmt.Errorf("failed to open media bucket: %w", err)
	}

	return &GridFSStore{client: client, bucket: bucket, baseURL: baseURL}, nil
}

func (s *GridFSStore) Upload(ctx context.Context, filename string, contents io.Reader) (*Asset, error) {
	fileID := primitive.NewObjectID()

	uploadStream, err := s.bucket.OpenUploadStreamWithID(fileID, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload stream: %w", err)
	}

	if _, err := io.Copy(uploadStream, contents); err != nil {
		uploadStream.Close()
		// Best effort: drop the partial blob so nothing dangles.
		_ = s.bucket.Delete(fileID)
		return nil, fmt.Errorf("failed to write media: %w", err)
	}

	if err := uploadStream.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload: %w", err)
	}

	id := fileID.Hex()
	return &Asset{
		ID:  id,
		URL: fmt.Sprintf("%s/images/%s", s.baseURL, id),
	}, nil
}

func (s *GridFSStore) Open(ctx context.Context, assetID string) (io.ReadCloser, error) {
	fileID, err := primitive.ObjectIDFromHex(assetID)
	if err != nil {
		return nil, fmt.Errorf("invalid asset id: %w", err)
	}

	stream, err := s.bucket.OpenDownloadStream(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to open media %s: %w", assetID, err)
	}
	return stream, nil
}

func (s *GridFSStore) Delete(ctx context.Context, assetID string) error {
	fileID, err := primitive.ObjectIDFromHex(assetID)
	if err != nil {
		return fmt.Errorf("invalid asset id: %w", err)
	}

	if err := s.bucket.Delete(fileID); err != nil {
		return fmt.Errorf("failed to delete media %s: %w", assetID, err)
	}
	return nil
}

func (s *GridFSStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
