package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const keyPrefix = "invoices/"

// FileStore keeps uploaded documents on the local filesystem and serves them
// through the /uploads/ path of the public base URL. The contract is
// storage-location-agnostic: a remote object store is an equally valid
// implementation, callers only depend on the returned URL.
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) *FileStore {
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload writes the content fully under a generated key before returning the
// retrieval URL. Intermediate directories are created as needed.
func (s *FileStore) Upload(ctx context.Context, content io.Reader, originalName string) (string, error) {
	key := generateKey(originalName)

	fullPath := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(file, content); err != nil {
		file.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("close file: %w", err)
	}

	return s.baseURL + "/uploads/" + key, nil
}

// Delete removes the blob under key. A missing key is reported as
// (false, nil), not an error.
func (s *FileStore) Delete(ctx context.Context, key string) (bool, error) {
	fullPath := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("remove file: %w", err)
	}

	return true, nil
}

// generateKey builds a collision-resistant key under the invoices/ namespace,
// keeping the original file extension.
func generateKey(originalName string) string {
	return keyPrefix + uuid.NewString() + path.Ext(originalName)
}
