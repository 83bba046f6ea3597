package drive

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const MaxNameLength = 255

var nameRules = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, MaxNameLength),
	validation.By(func(value interface{}) error {
		if strings.ContainsAny(value.(string), "/\\\x00") {
			return validation.NewError("validation_name_separator", "must not contain path separators")
		}
		return nil
	}),
}

// normalizeName trims the name and checks it against nameRules.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, nameRules...); err != nil {
		return "", fmt.Errorf("%w: name %v", ErrValidation, err)
	}
	return name, nil
}

func validateFileInput(size int64, url string) error {
	err := validation.Errors{
		"size": validation.Validate(size, validation.Min(int64(0))),
		"url":  validation.Validate(url, validation.Required, is.URL),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
