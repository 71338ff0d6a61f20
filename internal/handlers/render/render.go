package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ValidationErrorType = "validation_failed"
	DecodingErrorType   = "decoding_failed"
	ServiceErrorType    = "service_error"
)

// Max accepted JSON body size
const maxBodySize = 1 << 20

var validate = newValidator()

type Struct any

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, data any) {
	JSONWithStatus(w, data, http.StatusOK)
}

// Render ServiceError
func ServiceError(w http.ResponseWriter, error string, code int) {
	response := ErrorResponse{
		Error:   ServiceErrorType,
		Message: error,
	}

	JSONWithStatus(w, response, code)
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	response := ErrorResponse{
		Error:   DecodingErrorType,
		Message: "",
	}

	// Try to provide more specific error message based on error type
	var typeErr *json.UnmarshalTypeError
	var sizeErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		response.Message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	case errors.As(err, &sizeErr):
		response.Message = fmt.Sprintf("Request body too large (maximum %d bytes)", sizeErr.Limit)
	default:
		response.Message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	JSONWithStatus(w, response, http.StatusBadRequest)
}

// Render ValidationErrors
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := ErrorResponse{
		Error:   ValidationErrorType,
		Message: "Request validation failed",
		Fields:  make(map[string]string, len(errs)),
	}

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
		case "email":
			message = "Invalid email address"
		case "oneof":
			message = fmt.Sprintf("Value must be one of: %s", fieldError.Param())
		case "datetime":
			message = fmt.Sprintf("Invalid date, expected format %s", fieldError.Param())
		case "phone":
			message = "Invalid phone number"
		default:
			message = "Invalid value"
		}

		response.Fields[fieldName(fieldError)] = message
	}

	JSONWithStatus(w, response, http.StatusBadRequest)
}

// Field path without top level struct name, e.g. "caregiver.email"
func fieldName(fe validator.FieldError) string {
	_, name, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return name
}

// Validate struct using its tags
// Writes validation errors to response if any
func Validate(w http.ResponseWriter, value any) error {
	err := validate.Struct(value)
	if err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			ValidationErrors(w, errs)
		} else {
			ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return err
	}
	return nil
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	if err := Validate(w, value); err != nil {
		return value, err
	}

	return value, nil
}

// JSONWithStatus sends data as json and enforces status code
func JSONWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
