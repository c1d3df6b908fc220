package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps uploaded artifacts on disk: product and cloth images at the
// root, payment receipts under receipts/.
type FileStore struct {
	Root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "receipts"), 0o755); err != nil {
		return nil, fmt.Errorf("creating images directory: %w", err)
	}
	return &FileStore{Root: root}, nil
}

// SaveImage stores an uploaded image and returns the name it is served under.
func (fs *FileStore) SaveImage(name string, r io.Reader) (string, error) {
	stored := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitize(name))
	if err := fs.write(filepath.Join(fs.Root, stored), r); err != nil {
		return "", err
	}
	return stored, nil
}

// SaveReceipt stores a payment receipt. The name embeds the upload time and
// owner so checkout artifacts never collide.
func (fs *FileStore) SaveReceipt(userID uint, name string, r io.Reader) (string, error) {
	stored := fmt.Sprintf("%d_%d_%s", time.Now().UnixMilli(), userID, sanitize(name))
	if err := fs.write(filepath.Join(fs.Root, "receipts", stored), r); err != nil {
		return "", err
	}
	return stored, nil
}

func (fs *FileStore) write(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	// receipt must be durable before any order row references it
	return f.Sync()
}

func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, " ", "_")
}
