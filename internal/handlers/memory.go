package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/nkiryanov/memoria/internal/apperrors"
	"github.com/nkiryanov/memoria/internal/handlers/render"
	"github.com/nkiryanov/memoria/internal/handlers/userctx"
	"github.com/nkiryanov/memoria/internal/logger"
	"github.com/nkiryanov/memoria/internal/service/memory"
)

const (
	// Max size of the whole upload request
	maxUploadSize = 32 << 20

	// Part of multipart form kept in memory, the rest goes to temp files
	maxUploadMemory = 8 << 20
)

func handleUploadMemory(ms memoryService, l logger.Logger) http.Handler {
	type form struct {
		Type        string   `json:"type" validate:"required,oneof=image audio video text"`
		Title       string   `json:"title" validate:"required,max=200"`
		Description string   `json:"description" validate:"max=2000"`
		Tags        []string `json:"tags" validate:"max=20,dive,required,max=50"`
	}
	type response struct {
		Message string     `json:"message"`
		Memory  memoryView `json:"memory"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := userctx.FromContext(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			var sizeErr *http.MaxBytesError
			if errors.As(err, &sizeErr) {
				render.ServiceError(w, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			render.ServiceError(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll() // nolint:errcheck

		data := form{
			Type:        r.FormValue("type"),
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Tags:        formTags(r.MultipartForm.Value["tags"]),
		}
		if err := render.Validate(w, data); err != nil {
			return
		}

		params := memory.UploadParams{
			UserID:      session.Claims.UserID,
			Type:        data.Type,
			Title:       data.Title,
			Description: data.Description,
			Tags:        data.Tags,
		}

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close() // nolint:errcheck
			params.File = &memory.File{
				Name:        header.Filename,
				ContentType: contentType(file, header),
				Size:        header.Size,
				Body:        file,
			}
		case errors.Is(err, http.ErrMissingFile):
		default:
			render.ServiceError(w, "Invalid file", http.StatusBadRequest)
			return
		}

		created, err := ms.Upload(r.Context(), params)
		switch {
		case err == nil:
			render.JSONWithStatus(w, response{
				Message: "Memory uploaded successfully",
				Memory:  newMemoryView(created),
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrMemoryFileMissing):
			render.ServiceError(w, "No file uploaded", http.StatusBadRequest)
		default:
			internalError(w, l, "memory upload failed", err)
		}
	})
}

func handleListMemories(ms memoryService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := userctx.FromContext(r.Context())

		memories, err := ms.List(r.Context(), session.Claims.UserID)
		if err != nil {
			internalError(w, l, "list memories failed", err)
			return
		}

		views := make([]memoryView, 0, len(memories))
		for _, m := range memories {
			views = append(views, newMemoryView(m))
		}
		render.JSON(w, views)
	})
}

// Tags may be sent as repeated fields or as one comma separated value
func formTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// Content type declared by client, sniffed from content if not declared
func contentType(file multipart.File, header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}

	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "application/octet-stream"
	}
	return http.DetectContentType(buf[:n])
}
