package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nkiryanov/memoria/internal/apperrors"
)

// Store files in local directory
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("can't resolve upload dir. Err: %w", err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("can't create upload dir. Err: %w", err)
	}

	return &DiskStore{root: abs}, nil
}

// Resolve key to the file path, keys escaping the root are rejected
func (s *DiskStore) path(key string) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if key == "" || !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return p, nil
}

func (s *DiskStore) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("can't create object dir. Err: %w", err)
	}

	// Write to temp file first, so readers never see partially written object
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("can't create temp file. Err: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: body}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't write object. Err: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("can't write object. Err: %w", err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("can't store object. Err: %w", err)
	}
	return nil
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return apperrors.ErrObjectNotFound
	case err != nil:
		return fmt.Errorf("can't delete object. Err: %w", err)
	}
	return nil
}

// Stop copying when request context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
