// Package store fetches raw model artifacts by model reference from a
// backing store: a local directory, memory, S3, Redis or GCS.
package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned when no artifact exists for a reference.
	ErrNotFound = errors.New("store: artifact not found")

	errAccessDenied = errors.New("access denied")
)

// Store returns the raw artifact bytes for a model reference.
type Store interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Func adapts a function to Store.
type Func func(ctx context.Context, ref string) ([]byte, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f(ctx, ref)
}

var extensions = []string{"", ".json", ".yaml", ".yml"}

// Candidates lists the keys tried for ref, in order: the bare reference
// then the reference with each supported artifact extension.
func Candidates(prefix, ref string) []string {
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		key := ref + ext
		if prefix != "" {
			key = path.Join(prefix, key)
		}
		out = append(out, key)
	}
	return out
}

// firstAvailable tries each candidate key until one exists. A candidate refused with
// errAccessDenied counts as absent.
func firstAvailable(ctx context.Context, prefix, ref string, get func(ctx context.Context, key string) ([]byte, error)) ([]byte, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("store: empty model reference: %w", ErrNotFound)
	}
	denied := ""
	for _, key := range Candidates(prefix, ref) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := get(ctx, key)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, errAccessDenied) {
			if denied == "" {
				denied = key
			}
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("store: fetch %s: %w", key, err)
		}
	}
	if denied != "" {
		return nil, fmt.Errorf("%w: %s (access denied for %s)", ErrNotFound, ref, denied)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}
