// Package attachment stores voice note audio as opaque binary objects.
// Objects are keyed by a name derived from the owner id and a timestamp;
// the note record carries the name so deletion can find the object again.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tableflip.dev/planner/pkg/store"
)

// Object describes a stored attachment.
type Object struct {
	FileName string
	URL      string
}

// Store is the binary object storage behind voice notes. Delete is
// idempotent: removing a name that is already gone is not an error.
type Store interface {
	Put(ctx context.Context, owner string, src io.Reader) (Object, error)
	Open(ctx context.Context, fileName string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileName string) error
}

const attachmentsDir = "attachments"

// NewFileStore stores objects on the local filesystem under the planner
// data dir.
func NewFileStore(cfg store.Config) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = store.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &fileStore{base: filepath.Join(cfg.BasePath(), attachmentsDir)}, nil
}

type fileStore struct {
	base string
}

func (s *fileStore) Put(ctx context.Context, owner string, src io.Reader) (Object, error) {
	if owner == "" {
		return Object{}, store.ErrNoSession
	}
	name := fmt.Sprintf("%s/%d", owner, time.Now().UnixNano())
	path, err := s.path(name)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Object{}, err
	}

	f, err := os.Create(path)
	if err != nil {
		return Object{}, err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return Object{}, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return Object{}, err
	}
	return Object{FileName: name, URL: "file://" + path}, nil
}

func (s *fileStore) Open(ctx context.Context, fileName string) (io.ReadCloser, error) {
	path, err := s.path(fileName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *fileStore) Delete(ctx context.Context, fileName string) error {
	path, err := s.path(fileName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// path resolves an object name below the store root, rejecting names that
// would escape it.
func (s *fileStore) path(name string) (string, error) {
	if name == "" {
		return "", errors.New("attachment: empty object name")
	}
	path := filepath.Join(s.base, filepath.FromSlash(name))
	if !strings.HasPrefix(path, s.base+string(os.PathSeparator)) {
		return "", fmt.Errorf("attachment: invalid object name %q", name)
	}
	return path, nil
}
