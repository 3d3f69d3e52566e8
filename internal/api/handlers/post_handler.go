package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/autopost/internal/service"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

// Post publishes immediately and answers with every platform's outcome.
func (h *PostHandler) Post(c *fiber.Ctx) error {
	results, err := h.s.PublishNow(c.Context(), submissionFromForm(c), mediaFromForm(c))
	if err != nil {
		return failure(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"results": results,
	})
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	post, err := h.s.SchedulePost(c.Context(), submissionFromForm(c), mediaFromForm(c))
	if err != nil {
		resp := fiber.Map{
			"success": false,
			"message": err.Error(),
		}
		if post != nil {
			resp["post_id"] = post.ID
		}
		return c.Status(errorStatus(err)).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post scheduled for " + post.ScheduledTime.Format("2006-01-02 15:04"),
		"post_id": post.ID,
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context())
	if err != nil {
		slog.Error(err.Error())
		return failure(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

func (h *PostHandler) CancelPost(c *fiber.Ctx) error {
	if err := h.s.Cancel(c.Context(), c.Params("id")); err != nil {
		return failure(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Scheduled post cancelled",
	})
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	if err := h.s.Delete(c.Context(), c.Params("id")); err != nil {
		return failure(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully",
	})
}

func (h *PostHandler) SchedulerStatus(c *fiber.Ctx) error {
	status, err := h.s.Status(c.Context())
	if err != nil {
		return failure(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":           true,
		"scheduler_running": status.Running,
		"active_jobs":       status.ActiveJobs,
		"stored_posts":      status.StoredPosts,
	})
}
