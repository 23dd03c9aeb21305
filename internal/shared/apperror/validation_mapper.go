package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var fieldCaser = cases.Title(language.English)

// humanField turns a wire name into a label: check_in_time -> Check In Time.
func humanField(s string) string {
	return fieldCaser.String(strings.ReplaceAll(s, "_", " "))
}

// MapValidationError reports the first failed rule only. Details carry the
// wire field name plus the rule so clients can highlight the input.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	fe := errs[0]
	label := humanField(fe.Field())
	details := map[string]string{"field": fe.Field(), "rule": fe.Tag()}
	if fe.Param() != "" {
		details["param"] = fe.Param()
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = label + " is required"
	case "oneof":
		msg = label + " must be one of: " + fe.Param()
	case "max":
		msg = label + " must be at most " + fe.Param()
	case "min":
		msg = label + " must be at least " + fe.Param()
	default:
		msg = label + " is invalid"
	}
	return New(CodeValidation, msg, http.StatusBadRequest).WithDetails(details)
}
