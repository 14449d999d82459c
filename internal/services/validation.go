package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"conferenceplanner/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks input against its validate tags and translates every
// failing field into a UserError with a <FIELD>_<PROBLEM> code.
func validateInput(input any) ([]domain.UserError, error) {
	err := validate.Struct(input)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("validate input: %w", err)
	}
	userErrs := make([]domain.UserError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		userErrs = append(userErrs, translateFieldError(fe))
	}
	return userErrs, nil
}

func translateFieldError(fe validator.FieldError) domain.UserError {
	field := fe.Field()
	code := upperSnake(field)
	label := humanize(field)
	switch fe.Tag() {
	case "required":
		return domain.NewUserError(fmt.Sprintf("The %s cannot be empty.", label), code+"_EMPTY")
	case "max":
		return domain.NewUserError(fmt.Sprintf("The %s must be at most %s characters.", label, fe.Param()), code+"_TOO_LONG")
	default:
		return domain.NewUserError(fmt.Sprintf("The %s is not valid.", label), code+"_INVALID")
	}
}

// upperSnake turns EmailAddress into EMAIL_ADDRESS.
func upperSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// humanize turns EmailAddress into "email address".
func humanize(s string) string {
	return strings.ToLower(strings.ReplaceAll(upperSnake(s), "_", " "))
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
