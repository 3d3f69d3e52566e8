package transfer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries a message meant for the submitting caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PostSubmission is a post as submitted through the form endpoints.
type PostSubmission struct {
	Platforms          []string          `json:"platforms" validate:"required,min=1,dive,oneof=linkedin twitter instagram facebook pinterest youtube youtubepost"`
	Captions           map[string]string `json:"captions"`
	PinterestTitle     string            `json:"pinterest_title" validate:"max=100"`
	PinterestLink      string            `json:"pinterest_link" validate:"omitempty,url"`
	YoutubeTitle       string            `json:"youtube_title" validate:"max=100"`
	YoutubeDescription string            `json:"youtube_description" validate:"max=5000"`
	YoutubeVisibility  string            `json:"youtube_visibility" validate:"omitempty,oneof=public unlisted private"`
	ScheduleDatetime   string            `json:"schedule_datetime"`
}

// Validate checks the submission and returns a message fit for the caller.
func (ps *PostSubmission) Validate() error {
	if !ps.hasContent() {
		return invalid("At least one caption or title is required")
	}
	if len(ps.Platforms) == 0 {
		return errNoPlatforms
	}
	if err := validate.Struct(ps); err != nil {
		return describe(err)
	}
	return nil
}

func (ps *PostSubmission) hasContent() bool {
	for _, c := range ps.Captions {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return ps.PinterestTitle != "" || ps.YoutubeTitle != ""
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	// Slice elements report as Field[i].
	field, _, _ := strings.Cut(fe.StructField(), "[")
	switch field {
	case "Platforms":
		if fe.Tag() == "oneof" {
			return invalid(fmt.Sprintf("Unsupported platform: %v", fe.Value()))
		}
		return errNoPlatforms
	case "PinterestLink":
		return invalid("Invalid Pinterest link")
	case "YoutubeVisibility":
		return invalid("YouTube visibility must be public, unlisted or private")
	default:
		return invalid("Invalid " + fe.Field())
	}
}

type SchedulerStatus struct {
	Running     bool `json:"scheduler_running"`
	ActiveJobs  int  `json:"active_jobs"`
	StoredPosts int  `json:"stored_posts"`
}
