package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

func New() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Messages flattens a validator error into user-facing messages, in
// field declaration order. The form shows the first one.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid input."}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, message(fe))
	}
	return out
}

func First(err error) string {
	msgs := Messages(err)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "Title":
		return "Title must be at least 3 characters long."
	case "Price":
		return "Price must be a positive number."
	case "Description":
		return "Description must be between 5 and 400 characters long."
	}
	return "Invalid value for " + fe.Field() + "."
}
