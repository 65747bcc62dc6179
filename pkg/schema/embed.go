package schema

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed tasks/*.yaml
var embeddedTasks embed.FS

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// EmbeddedFS returns the bundled task documents.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTasks, "tasks")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default returns the registry built from the embedded task documents. The
// registry is parsed once per process.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = LoadFS(EmbeddedFS())
	})
	return defaultRegistry, defaultErr
}
