package author

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blog-backend/internal/shared"
)

// NameLookup reports whether an author with the given name is already stored.
type NameLookup func(ctx context.Context, name string) (bool, error)

var phoneNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidateName requires a non-empty name that no stored author uses yet.
// A failing lookup is returned wrapped, never as a validation error.
func ValidateName(ctx context.Context, name string, exists NameLookup) (string, error) {
	var lookupErr error

	err := validation.ValidateWithContext(ctx, name,
		validation.Required.Error(MsgNameRequired),
		validation.WithContext(func(ctx context.Context, value interface{}) error {
			taken, err := exists(ctx, value.(string))
			if err != nil {
				lookupErr = err
				return err
			}
			if taken {
				return ErrDuplicateName
			}
			return nil
		}),
	)
	if lookupErr != nil {
		return "", fmt.Errorf("check author name: %w", lookupErr)
	}
	if err != nil {
		return "", shared.NewFieldError("name", err)
	}
	return name, nil
}

// ValidatePhoneNumber trims surrounding whitespace and requires exactly ten digits.
func ValidatePhoneNumber(phoneNumber string) (string, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)

	err := validation.Validate(phoneNumber,
		validation.Required.Error(MsgInvalidPhoneNumber),
		validation.Match(phoneNumberPattern).Error(MsgInvalidPhoneNumber),
	)
	if err != nil {
		return "", shared.NewFieldError("phone_number", err)
	}
	return phoneNumber, nil
}

// NewAuthor validates every field in order and stops at the first failure.
func NewAuthor(ctx context.Context, name, phoneNumber string, exists NameLookup) (*Author, error) {
	name, err := ValidateName(ctx, name, exists)
	if err != nil {
		return nil, err
	}

	phoneNumber, err = ValidatePhoneNumber(phoneNumber)
	if err != nil {
		return nil, err
	}

	return &Author{Name: name, PhoneNumber: phoneNumber}, nil
}

// Apply returns a copy of current with the supplied fields validated and set.
// An unchanged name is not checked for uniqueness again.
func (req *UpdateAuthorRequest) Apply(ctx context.Context, current Author, exists NameLookup) (*Author, error) {
	updated := current

	if req.Name != nil && *req.Name != current.Name {
		name, err := ValidateName(ctx, *req.Name, exists)
		if err != nil {
			return nil, err
		}
		updated.Name = name
	}

	if req.PhoneNumber != nil {
		phoneNumber, err := ValidatePhoneNumber(*req.PhoneNumber)
		if err != nil {
			return nil, err
		}
		updated.PhoneNumber = phoneNumber
	}

	return &updated, nil
}
