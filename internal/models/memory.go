package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MemoryTypeImage = "image"
	MemoryTypeAudio = "audio"
	MemoryTypeVideo = "video"
	MemoryTypeText  = "text"
)

const (
	MemoryStatusPending = "pending"
)

type Memory struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        string
	Title       string
	Description string
	FileKey     string // empty for text memories
	ContentType string
	Size        int64
	Tags        []string
	Status      string
	CreatedAt   time.Time
}
