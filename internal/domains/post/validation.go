package post

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blog-backend/internal/shared"
)

var errMissingMarker = errors.New(MsgInvalidTitle)

func hasTitleMarker(value interface{}) error {
	title, _ := value.(string)
	for _, marker := range TitleMarkers {
		if strings.Contains(title, marker) {
			return nil
		}
	}
	return errMissingMarker
}

// ValidateTitle requires one of TitleMarkers, matched case-sensitively.
func ValidateTitle(title string) (string, error) {
	err := validation.Validate(title,
		validation.Required.Error(MsgInvalidTitle),
		validation.By(hasTitleMarker),
	)
	if err != nil {
		return "", shared.NewFieldError("title", err)
	}
	return title, nil
}

// ValidateContent requires at least MinContentLength characters.
func ValidateContent(content string) (string, error) {
	err := validation.Validate(content,
		validation.Required.Error(MsgContentTooShort),
		validation.RuneLength(MinContentLength, 0).Error(MsgContentTooShort),
	)
	if err != nil {
		return "", shared.NewFieldError("content", err)
	}
	return content, nil
}

func ValidateCategory(category string) (string, error) {
	err := validation.Validate(category,
		validation.Required.Error(MsgInvalidCategory),
		validation.In(CategoryFiction, CategoryNonFiction).Error(MsgInvalidCategory),
	)
	if err != nil {
		return "", shared.NewFieldError("category", err)
	}
	return category, nil
}

// ValidateSummary accepts an empty summary.
func ValidateSummary(summary string) (string, error) {
	err := validation.Validate(summary,
		validation.RuneLength(0, MaxSummaryLength).Error(MsgSummaryTooLong),
	)
	if err != nil {
		return "", shared.NewFieldError("summary", err)
	}
	return summary, nil
}

// NewPost validates every field in order and stops at the first failure.
func NewPost(title, content, category, summary string) (*Post, error) {
	var err error
	if title, err = ValidateTitle(title); err != nil {
		return nil, err
	}
	if content, err = ValidateContent(content); err != nil {
		return nil, err
	}
	if category, err = ValidateCategory(category); err != nil {
		return nil, err
	}
	if summary, err = ValidateSummary(summary); err != nil {
		return nil, err
	}

	return &Post{
		Title:    title,
		Content:  content,
		Category: category,
		Summary:  summary,
	}, nil
}

// Apply returns a copy of current with the supplied fields validated and set.
func (req *UpdatePostRequest) Apply(current Post) (*Post, error) {
	updated := current
	var err error

	if req.Title != nil {
		if updated.Title, err = ValidateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Content != nil {
		if updated.Content, err = ValidateContent(*req.Content); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if updated.Category, err = ValidateCategory(*req.Category); err != nil {
			return nil, err
		}
	}
	if req.Summary != nil {
		if updated.Summary, err = ValidateSummary(*req.Summary); err != nil {
			return nil, err
		}
	}

	return &updated, nil
}
