package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/nkiryanov/memoria/internal/apperrors"
	"github.com/nkiryanov/memoria/internal/handlers/render"
	"github.com/nkiryanov/memoria/internal/handlers/userctx"
	"github.com/nkiryanov/memoria/internal/logger"
	"github.com/nkiryanov/memoria/internal/models"
	"github.com/nkiryanov/memoria/internal/service/auth"
)

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

func newAuthResponse(res auth.Result) authResponse {
	return authResponse{
		Token:     res.Token.Value,
		ExpiresAt: res.Token.ExpiresAt,
		User:      newUserView(res.User),
	}
}

type caregiverRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

// Validated extended patient profile, shared by patient signup and patient details
type patientDetails struct {
	Nickname    string
	DateOfBirth string
	Address     string
	Interests   []string
	Caregiver   caregiverRequest
}

func (d patientDetails) profile(phone string) models.Profile {
	p := models.Profile{
		Phone:     phone,
		Nickname:  d.Nickname,
		Address:   d.Address,
		Interests: d.Interests,
		Caregiver: models.Caregiver(d.Caregiver),
	}

	// Format already checked by validator
	if dob, err := time.Parse(dateLayout, d.DateOfBirth); err == nil {
		p.DateOfBirth = &dob
	}
	return p
}

func handleSignup(as authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=6,max=128"`
		FullName string `json:"fullName" validate:"required,max=100"`
		Role     string `json:"role" validate:"required,oneof=patient caregiver"`
		Phone    string `json:"phone" validate:"omitempty,phone"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		res, err := as.Register(r.Context(), auth.RegisterParams{
			Email:    data.Email,
			Password: data.Password,
			FullName: data.FullName,
			Role:     data.Role,
			Profile:  models.Profile{Phone: data.Phone},
		})
		switch {
		case err == nil:
			render.JSONWithStatus(w, newAuthResponse(res), http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			internalError(w, l, "signup failed", err)
		}
	})
}

func handlePatientSignup(as authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=6,max=128"`
		FullName string `json:"fullName" validate:"required,max=100"`
		Phone    string `json:"phone" validate:"omitempty,phone"`

		Nickname    string           `json:"nickname" validate:"max=50"`
		DateOfBirth string           `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
		Address     string           `json:"address" validate:"max=255"`
		Interests   []string         `json:"interests" validate:"max=50,dive,required,max=50"`
		Caregiver   caregiverRequest `json:"caregiver"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		details := patientDetails{
			Nickname:    data.Nickname,
			DateOfBirth: data.DateOfBirth,
			Address:     data.Address,
			Interests:   data.Interests,
			Caregiver:   data.Caregiver,
		}
		res, err := as.RegisterPatient(r.Context(), auth.RegisterParams{
			Email:    data.Email,
			Password: data.Password,
			FullName: data.FullName,
			Profile:  details.profile(data.Phone),
		})
		switch {
		case err == nil:
			render.JSONWithStatus(w, newAuthResponse(res), http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			internalError(w, l, "patient signup failed", err)
		}
	})
}

func handleLogin(as authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		res, err := as.Login(r.Context(), data.Email, data.Password)
		switch {
		case err == nil:
			render.JSON(w, newAuthResponse(res))
		case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrPasswordMismatch):
			// Same message for both, so response does not tell whether email is registered
			render.ServiceError(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			internalError(w, l, "login failed", err)
		}
	})
}

func handleLogout(as authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := userctx.FromContext(r.Context())

		if err := as.Logout(r.Context(), session); err != nil {
			internalError(w, l, "logout failed", err)
			return
		}

		render.JSON(w, response{Message: "Logged out successfully"})
	})
}
