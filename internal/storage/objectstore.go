package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrObjectExists = errors.New("object already exists")
	ErrInvalidKey   = errors.New("invalid object key")
)

// ObjectStore is a bucket/key file store on local disk. Buckets are top
// level directories under the root; keys may contain slashes ("back/",
// "front/" prefixes for pint photos). Uploaded objects are served under
// baseURL, so PublicURL(bucket, key) = <baseURL>/<bucket>/<key>.
type ObjectStore struct {
	root    string
	baseURL string
}

func NewObjectStore(rootDir, baseURL string) (*ObjectStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &ObjectStore{
		root:    rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes an object. Without upsert an existing object is an error so
// a share can never silently overwrite another upload under the same key.
func (s *ObjectStore) Upload(bucket, key string, data []byte, upsert bool) error {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}

	if !upsert {
		if _, err := os.Stat(path); err == nil {
			return ErrObjectExists
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object dir: %w", err)
	}

	// Write through a temp file and rename, so readers never observe a
	// partially written object.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// PublicURL resolves the public URL for an object key.
func (s *ObjectStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, key)
}

// Root returns the directory objects are stored under, for static serving.
func (s *ObjectStore) Root() string {
	return s.root
}

func (s *ObjectStore) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", ErrInvalidKey
	}
	clean := filepath.Clean(filepath.Join(bucket, key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, clean), nil
}
