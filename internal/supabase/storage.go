package supabase

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// StorageClient adapts Supabase storage to the object-store contract the
// scan pipeline needs: store bytes under a folder and get back a public URL
// plus an opaque id, delete by that id.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	// Ensure URL doesn't have trailing slash
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// Store uploads image bytes under folder and returns the public URL and the
// object path, which doubles as the public id for later deletion.
func (s *StorageClient) Store(data []byte, contentType, folder string) (string, string, error) {
	objectPath := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), extensionFor(contentType))

	upsert := false
	_, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.PublicURL(objectPath), objectPath, nil
}

func (s *StorageClient) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}

// Delete removes a stored object. Best-effort from the caller's point of
// view; failures are returned for logging, not surfaced to clients.
func (s *StorageClient) Delete(publicID string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
