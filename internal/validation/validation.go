package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"goaround-bot/internal/constants"
	apperrors "goaround-bot/internal/errors"
)

const maxLocationTextLength = 256

// ValidateRadius parses a radius in meters typed by the user
func ValidateRadius(text string) (uint, error) {
	radius, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return 0, &apperrors.ValidationError{Field: "radius", Message: "must be a whole number of meters"}
	}

	if radius < constants.MinRadius || radius > constants.MaxRadius {
		return 0, &apperrors.ValidationError{
			Field:   "radius",
			Message: fmt.Sprintf("must be between %d and %d meters", constants.MinRadius, constants.MaxRadius),
		}
	}

	return uint(radius), nil
}

// ValidateLocationText validates an address or place query typed by the user
func ValidateLocationText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &apperrors.ValidationError{Field: "location", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(text) > maxLocationTextLength {
		return "", &apperrors.ValidationError{
			Field:   "location",
			Message: fmt.Sprintf("must be at most %d characters", maxLocationTextLength),
		}
	}
	return text, nil
}
