package repository

import (
	"fmt"
	"io"

	storage_go "github.com/supabase-community/storage-go"
)

// FileStore keeps avatars and health record attachments in Supabase Storage.
type FileStore struct {
	client *storage_go.Client
}

func NewFileStore(client *storage_go.Client) *FileStore {
	return &FileStore{client: client}
}

func (s *FileStore) Upload(bucket, path string, data io.Reader, contentType string) error {
	upsert := true
	_, err := s.client.UploadFile(bucket, path, data, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (s *FileStore) SignedURL(bucket, path string, expiresInSeconds int) (string, error) {
	resp, err := s.client.CreateSignedUrl(bucket, path, expiresInSeconds)
	if err != nil {
		return "", fmt.Errorf("sign %s/%s: %w", bucket, path, err)
	}
	return resp.SignedURL, nil
}

func (s *FileStore) PublicURL(bucket, path string) string {
	return s.client.GetPublicUrl(bucket, path).SignedURL
}

func (s *FileStore) Remove(bucket, path string) error {
	if _, err := s.client.RemoveFile(bucket, []string{path}); err != nil {
		return fmt.Errorf("remove %s/%s: %w", bucket, path, err)
	}
	return nil
}
