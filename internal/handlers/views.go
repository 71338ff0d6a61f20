package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/memoria/internal/models"
)

const dateLayout = "2006-01-02"

type caregiverView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Public user view, password hash is never exposed
type userView struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	FullName    string        `json:"fullName"`
	Role        string        `json:"role"`
	Phone       string        `json:"phone,omitempty"`
	Nickname    string        `json:"nickname,omitempty"`
	DateOfBirth string        `json:"dateOfBirth,omitempty"`
	Address     string        `json:"address,omitempty"`
	Interests   []string      `json:"interests"`
	Caregiver   caregiverView `json:"caregiver"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func newUserView(u models.User) userView {
	v := userView{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Phone:     u.Profile.Phone,
		Nickname:  u.Profile.Nickname,
		Address:   u.Profile.Address,
		Interests: u.Profile.Interests,
		Caregiver: caregiverView(u.Profile.Caregiver),
		CreatedAt: u.CreatedAt,
	}
	if v.Interests == nil {
		v.Interests = []string{}
	}
	if u.Profile.DateOfBirth != nil {
		v.DateOfBirth = u.Profile.DateOfBirth.Format(dateLayout)
	}
	return v
}

type memoryView struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileKey     string    `json:"fileKey,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newMemoryView(m models.Memory) memoryView {
	v := memoryView{
		ID:          m.ID,
		Type:        m.Type,
		Title:       m.Title,
		Description: m.Description,
		FileKey:     m.FileKey,
		ContentType: m.ContentType,
		Size:        m.Size,
		Tags:        m.Tags,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v
}
