package handlers

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/service"
	"github.com/maheshrc27/autopost/internal/transfer"
)

// formValues returns every value of key from a multipart or urlencoded body.
func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil {
		return form.Value[key]
	}
	var values []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		values = append(values, string(v))
	}
	return values
}

func submissionFromForm(c *fiber.Ctx) *transfer.PostSubmission {
	platforms := formValues(c, "platforms[]")
	if len(platforms) == 0 {
		platforms = formValues(c, "platforms")
	}

	captions := make(map[string]string, len(platforms))
	for _, p := range platforms {
		captions[p] = c.FormValue("caption_" + p)
	}

	return &transfer.PostSubmission{
		Platforms:          platforms,
		Captions:           captions,
		PinterestTitle:     c.FormValue("pinterest_title"),
		PinterestLink:      c.FormValue("pinterest_link"),
		YoutubeTitle:       c.FormValue("youtube_title"),
		YoutubeDescription: c.FormValue("youtube_description"),
		YoutubeVisibility:  c.FormValue("youtube_visibility", "public"),
		ScheduleDatetime:   c.FormValue("schedule_datetime"),
	}
}

// mediaFromForm returns the uploaded image field, or nil when none was sent.
func mediaFromForm(c *fiber.Ctx) *multipart.FileHeader {
	fh, err := c.FormFile("image")
	if err != nil || fh.Filename == "" {
		return nil
	}
	return fh
}

func errorStatus(err error) int {
	switch {
	case transfer.IsValidationError(err),
		errors.Is(err, service.ErrScheduleRequired),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrScheduleInPast),
		errors.Is(err, service.ErrUnsupportedMedia):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrMediaTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, repository.ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrCaptionUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func failure(c *fiber.Ctx, err error) error {
	message := err.Error()
	if errors.Is(err, repository.ErrPostNotFound) {
		message = "Post not found"
	}
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ErrorHandler renders any unhandled error in the same envelope as the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
