package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/memoria/internal/apperrors"
)

func TestDiskStore(t *testing.T) {
	newStore := func(t *testing.T) (*DiskStore, string) {
		root := t.TempDir()
		s, err := NewDiskStore(root)
		require.NoError(t, err)
		return s, root
	}

	t.Run("create root dir", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "uploads")

		_, err := NewDiskStore(root)

		require.NoError(t, err)
		require.DirExists(t, root)
	})

	t.Run("put ok", func(t *testing.T) {
		s, root := newStore(t)

		err := s.Put(t.Context(), "memories/u/2024/01/02/file.txt", strings.NewReader("hello"), 5, "text/plain")

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(root, "memories", "u", "2024", "01", "02", "file.txt"))
		require.NoError(t, err)
		require.Equal(t, "hello", string(content))
	})

	t.Run("put replaces object", func(t *testing.T) {
		s, root := newStore(t)
		require.NoError(t, s.Put(t.Context(), "a.txt", strings.NewReader("first"), 5, ""))

		require.NoError(t, s.Put(t.Context(), "a.txt", strings.NewReader("second"), 6, ""))

		content, err := os.ReadFile(filepath.Join(root, "a.txt"))
		require.NoError(t, err)
		require.Equal(t, "second", string(content))
	})

	t.Run("put no temp files left", func(t *testing.T) {
		s, root := newStore(t)
		require.NoError(t, s.Put(t.Context(), "a.txt", strings.NewReader("first"), 5, ""))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "a.txt", entries[0].Name())
	})

	t.Run("put canceled context", func(t *testing.T) {
		s, root := newStore(t)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := s.Put(ctx, "a.txt", strings.NewReader("data"), 4, "")

		require.ErrorIs(t, err, context.Canceled)
		require.NoFileExists(t, filepath.Join(root, "a.txt"))
	})

	t.Run("key escaping root rejected", func(t *testing.T) {
		s, _ := newStore(t)

		for _, key := range []string{"", "../outside.txt", "a/../../outside.txt"} {
			err := s.Put(t.Context(), key, strings.NewReader("x"), 1, "")
			require.Errorf(t, err, "key %q must be rejected", key)
		}
	})

	t.Run("delete ok", func(t *testing.T) {
		s, root := newStore(t)
		require.NoError(t, s.Put(t.Context(), "a/b.txt", strings.NewReader("x"), 1, ""))

		err := s.Delete(t.Context(), "a/b.txt")

		require.NoError(t, err)
		require.NoFileExists(t, filepath.Join(root, "a", "b.txt"))
	})

	t.Run("delete missing", func(t *testing.T) {
		s, _ := newStore(t)

		err := s.Delete(t.Context(), "missing.txt")

		require.ErrorIs(t, err, apperrors.ErrObjectNotFound)
	})
}
