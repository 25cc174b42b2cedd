package supabase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// StorageClient stores lead photos and mockups in a Supabase bucket.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// LeadPath is where a lead's file lives: leads/{lead_id}/{filename}.
func LeadPath(leadID uuid.UUID, filename string) string {
	return fmt.Sprintf("leads/%s/%s", leadID.String(), filename)
}

func (s *StorageClient) UploadFile(leadID uuid.UUID, filename, contentType string, data []byte) (string, string, error) {
	storagePath := LeadPath(leadID, filename)

	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

// ListLeadFiles returns the storage paths of every file attached to a lead.
func (s *StorageClient) ListLeadFiles(leadID uuid.UUID) ([]string, error) {
	prefix := fmt.Sprintf("leads/%s/", leadID.String())
	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		paths = append(paths, prefix+file.Name)
	}
	return paths, nil
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}
