package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"adboard/pkg/logger"
)

// FileRef identifies an uploaded object: the public URL handed to clients
// and the bucket path needed to delete it later.
type FileRef struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	storageClient := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}

	if err := storageClient.setBucketCORS(ctx); err != nil {
		logger.Warn("Failed to set CORS configuration: %v", err)
	}

	return storageClient, nil
}

func (c *CloudStorageClient) setBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	corsConfig := storage.CORS{
		MaxAge:          3600,
		Methods:         []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		Origins:         []string{"*"},
		ResponseHeaders: []string{"Content-Type", "x-goog-resumable"},
	}

	bucketAttrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %v", err)
	}

	if len(bucketAttrs.CORS) == 0 {
		bucketUpdate := storage.BucketAttrsToUpdate{
			CORS: []storage.CORS{corsConfig},
		}

		if _, err := bucket.Update(ctx, bucketUpdate); err != nil {
			return fmt.Errorf("failed to update bucket CORS: %v", err)
		}
	}

	return nil
}

// UploadFile writes the file under the given folder prefix and returns its
// public URL plus the object path for later deletion.
func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (*FileRef, error) {
	objectPath := fmt.Sprintf("%s/%s-%s", folder, uuid.New().String(), time.Now().Format("20060102150405"))

	switch contentType {
	case "image/jpeg", "image/jpg":
		objectPath += ".jpg"
	case "image/png":
		objectPath += ".png"
	case "image/gif":
		objectPath += ".gif"
	default:
		objectPath += ".bin"
	}

	obj := c.client.Bucket(c.bucketName).Object(objectPath)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		return nil, fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return nil, fmt.Errorf("failed to set ACL: %v", err)
	}

	return &FileRef{
		URL:  fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectPath),
		Path: objectPath,
	}, nil
}

// DeleteFile removes an object by path. Deleting an already-absent object
// is treated as success so cleanup of half-deleted listings can be retried.
func (c *CloudStorageClient) DeleteFile(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}

	err := c.client.Bucket(c.bucketName).Object(objectPath).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %v", objectPath, err)
	}

	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
