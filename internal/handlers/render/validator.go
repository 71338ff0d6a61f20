package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	configureValidator(v)
	return v
}

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("phone", validatePhone)
	validate.RegisterTagNameFunc(useJSONTagNames)
}

// Return on 'TagName' json tag instead of struct name
// Look at documentation of 'RegisterTagNameFunc' for more details
func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// Loose phone number check: optional leading '+', digits, spaces, dashes and parentheses
// Number has to have from 7 to 15 digits
func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()

	digits := 0
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '+' && i == 0:
		case c == ' ', c == '-', c == '(', c == ')':
		default:
			return false
		}
	}

	return digits >= 7 && digits <= 15
}
