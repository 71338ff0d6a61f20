package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/memoria/internal/apperrors"
	"github.com/nkiryanov/memoria/internal/filestore"
	"github.com/nkiryanov/memoria/internal/models"
	"github.com/nkiryanov/memoria/internal/repository"
)

// Uploaded file content
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadParams struct {
	UserID      uuid.UUID
	Type        string
	Title       string
	Description string
	Tags        []string

	// Required for every type except text
	File *File
}

type MemoryService struct {
	storage repository.Storage
	files   filestore.Store
}

func NewService(storage repository.Storage, files filestore.Store) *MemoryService {
	return &MemoryService{storage: storage, files: files}
}

// Store memory file and register the memory as pending processing
func (s *MemoryService) Upload(ctx context.Context, params UploadParams) (models.Memory, error) {
	if params.File == nil && params.Type != models.MemoryTypeText {
		return models.Memory{}, apperrors.ErrMemoryFileMissing
	}

	memory := models.Memory{
		ID:          uuid.New(),
		UserID:      params.UserID,
		Type:        params.Type,
		Title:       params.Title,
		Description: params.Description,
		Tags:        params.Tags,
		Status:      models.MemoryStatusPending,
		CreatedAt:   time.Now(),
	}

	if params.File != nil {
		memory.FileKey = filestore.NewKey(params.UserID, params.File.Name)
		memory.ContentType = params.File.ContentType
		memory.Size = params.File.Size

		err := s.files.Put(ctx, memory.FileKey, params.File.Body, params.File.Size, params.File.ContentType)
		if err != nil {
			return models.Memory{}, fmt.Errorf("can't store memory file. Err: %w", err)
		}
	}

	created, err := s.storage.Memory().CreateMemory(ctx, memory)
	if err != nil {
		err = fmt.Errorf("can't save memory. Err: %w", err)

		// Do not leave orphan file if memory not saved
		if memory.FileKey != "" {
			if delErr := s.files.Delete(context.WithoutCancel(ctx), memory.FileKey); delErr != nil {
				err = errors.Join(err, fmt.Errorf("can't delete orphan file. Err: %w", delErr))
			}
		}
		return models.Memory{}, err
	}

	return created, nil
}

// List user memories, newest first
func (s *MemoryService) List(ctx context.Context, userID uuid.UUID) ([]models.Memory, error) {
	memories, err := s.storage.Memory().ListMemories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("can't list memories. Err: %w", err)
	}
	return memories, nil
}
