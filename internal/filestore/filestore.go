package filestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Blob storage for uploaded memory files
type Store interface {
	// Store object under the key. Existing object with the same key is replaced
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete object. Missing object must return apperrors.ErrObjectNotFound
	Delete(ctx context.Context, key string) error
}

// Generate unique storage key for user file
// Format is memories/<user>/<yyyy>/<mm>/<dd>/<uuid><ext>, ext taken from the original file name
func NewKey(userID uuid.UUID, filename string) string {
	d := time.Now().UTC()
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, `\`, "/"))))
	if len(ext) > 10 {
		ext = ""
	}

	return fmt.Sprintf("memories/%s/%04d/%02d/%02d/%s%s", userID, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
