package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// FSStore reads artifacts from an fs.FS.
type FSStore struct {
	fsys fs.FS
}

// FS returns a store backed by fsys.
func FS(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// Dir returns a store backed by a local directory.
func Dir(dir string) *FSStore {
	return FS(os.DirFS(dir))
}

// Fetch implements Store.
func (s *FSStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return firstAvailable(ctx, "", ref, func(_ context.Context, key string) ([]byte, error) {
		if !fs.ValidPath(key) {
			return nil, ErrNotFound
		}
		data, err := fs.ReadFile(s.fsys, key)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) && isDirRead(s.fsys, key) {
			return nil, ErrNotFound
		}
		return data, err
	})
}

func isDirRead(fsys fs.FS, key string) bool {
	info, err := fs.Stat(fsys, key)
	return err == nil && info.IsDir()
}
