package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/memoria/internal/apperrors"
	"github.com/nkiryanov/memoria/internal/handlers/render"
	"github.com/nkiryanov/memoria/internal/handlers/userctx"
	"github.com/nkiryanov/memoria/internal/logger"
)

func handleUserMe(us userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := userctx.FromContext(r.Context())

		user, err := us.GetUser(r.Context(), session.Claims.UserID)
		switch {
		case err == nil:
			render.JSON(w, newUserView(user))
		case errors.Is(err, apperrors.ErrUserNotFound):
			// Token is valid but user is gone
			render.ServiceError(w, "User not found", http.StatusUnauthorized)
		default:
			internalError(w, l, "get user failed", err)
		}
	})
}

func handlePatientDetails(us userService, l logger.Logger) http.Handler {
	type request struct {
		Phone string `json:"phone" validate:"omitempty,phone"`

		Nickname    string           `json:"nickname" validate:"max=50"`
		DateOfBirth string           `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
		Address     string           `json:"address" validate:"max=255"`
		Interests   []string         `json:"interests" validate:"max=50,dive,required,max=50"`
		Caregiver   caregiverRequest `json:"caregiver"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := userctx.FromContext(r.Context())

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
		_, err = us.UpdateDetails(r.Context(), session.Claims.UserID, details.profile(data.Phone))
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Patient details saved successfully"})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusUnauthorized)
		default:
			internalError(w, l, "update patient details failed", err)
		}
	})
}
