package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/service"
	"github.com/maheshrc27/autopost/internal/transfer"
)

type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) PublishNow(ctx context.Context, sub *transfer.PostSubmission, media *multipart.FileHeader) (map[string]models.Result, error) {
	args := m.Called(sub, media)
	results, _ := args.Get(0).(map[string]models.Result)
	return results, args.Error(1)
}

func (m *mockPostService) SchedulePost(ctx context.Context, sub *transfer.PostSubmission, media *multipart.FileHeader) (*models.Post, error) {
	args := m.Called(sub, media)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *mockPostService) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called()
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Error(1)
}

func (m *mockPostService) Cancel(ctx context.Context, postID string) error {
	return m.Called(postID).Error(0)
}

func (m *mockPostService) Delete(ctx context.Context, postID string) error {
	return m.Called(postID).Error(0)
}

func (m *mockPostService) Status(ctx context.Context) (*transfer.SchedulerStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(*transfer.SchedulerStatus)
	return status, args.Error(1)
}

type mockCaptionService struct {
	mock.Mock
}

func (m *mockCaptionService) Generate(ctx context.Context, prompt, platform string) (string, error) {
	args := m.Called(prompt, platform)
	return args.String(0), args.Error(1)
}

func (m *mockCaptionService) GenerateAll(ctx context.Context, prompt string, platforms []string) (map[string]string, error) {
	args := m.Called(prompt, platforms)
	captions, _ := args.Get(0).(map[string]string)
	return captions, args.Error(1)
}

func newTestApp(ps service.PostService, cs service.CaptionService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	post := NewPostHandler(ps)
	app.Post("/post", post.Post)
	app.Post("/schedule-post", post.SchedulePost)
	app.Get("/get-scheduled-posts", post.ListPosts)
	app.Delete("/cancel-scheduled-post/:id", post.CancelPost)
	app.Delete("/delete-completed-post/:id", post.DeletePost)
	app.Get("/scheduler-status", post.SchedulerStatus)

	caption := NewCaptionHandler(cs)
	app.Post("/generate-caption", caption.GenerateCaption)
	app.Post("/generate-all-captions", caption.GenerateAllCaptions)
	return app
}

func multipartRequest(t *testing.T, url string, fields map[string][]string, withImage bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	if withImage {
		part, err := w.CreateFormFile("image", "pic.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestPost_ParsesFormAndReturnsResults(t *testing.T) {
	ps := &mockPostService{}
	ps.On("PublishNow", mock.MatchedBy(func(sub *transfer.PostSubmission) bool {
		return assert.ObjectsAreEqual([]string{"twitter", "pinterest"}, sub.Platforms) &&
			sub.Captions["twitter"] == "hello" &&
			sub.PinterestTitle == "Pin" &&
			sub.YoutubeVisibility == "public"
	}), mock.MatchedBy(func(fh *multipart.FileHeader) bool {
		return fh != nil && fh.Filename == "pic.png"
	})).Return(map[string]models.Result{
		"twitter":   {Success: true, Message: "Posted to Twitter successfully"},
		"pinterest": {Success: false, Message: "Pinterest cookies not found"},
	}, nil)

	app := newTestApp(ps, &mockCaptionService{})
	req := multipartRequest(t, "/post", map[string][]string{
		"platforms[]":     {"twitter", "pinterest"},
		"caption_twitter": {"hello"},
		"pinterest_title": {"Pin"},
	}, true)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	results := body["results"].(map[string]any)
	assert.Equal(t, false, results["pinterest"].(map[string]any)["success"])
	ps.AssertExpectations(t)
}

func TestPost_ValidationError(t *testing.T) {
	ps := &mockPostService{}
	ps.On("PublishNow", mock.Anything, mock.Anything).
		Return(nil, (&transfer.PostSubmission{}).Validate())

	resp, err := newTestApp(ps, &mockCaptionService{}).Test(multipartRequest(t, "/post", nil, false), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "At least one caption or title is required", body["message"])
}

func TestSchedulePost(t *testing.T) {
	ps := &mockPostService{}
	at := time.Date(2030, 1, 2, 15, 4, 0, 0, time.Local)
	ps.On("SchedulePost", mock.MatchedBy(func(sub *transfer.PostSubmission) bool {
		return sub.ScheduleDatetime == "2030-01-02T15:04"
	}), mock.Anything).Return(&models.Post{ID: "post_abc", ScheduledTime: at}, nil)

	req := multipartRequest(t, "/schedule-post", map[string][]string{
		"platforms[]":       {"linkedin"},
		"caption_linkedin":  {"hi"},
		"schedule_datetime": {"2030-01-02T15:04"},
	}, false)
	resp, err := newTestApp(ps, &mockCaptionService{}).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "post_abc", body["post_id"])
	assert.Equal(t, "Post scheduled for 2030-01-02 15:04", body["message"])
}

func TestSchedulePost_RegistrationFailureReportsID(t *testing.T) {
	ps := &mockPostService{}
	ps.On("SchedulePost", mock.Anything, mock.Anything).
		Return(&models.Post{ID: "post_orphan"}, errors.New("Error scheduling job: redis down"))

	resp, err := newTestApp(ps, &mockCaptionService{}).Test(multipartRequest(t, "/schedule-post", nil, false), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "post_orphan", body["post_id"])
}

func TestListCancelDeleteStatus(t *testing.T) {
	ps := &mockPostService{}
	ps.On("List").Return([]*models.Post{{ID: "p1", Status: models.PostStatusScheduled}}, nil)
	ps.On("Cancel", "p1").Return(nil)
	ps.On("Cancel", "nope").Return(repository.ErrPostNotFound)
	ps.On("Delete", "p2").Return(nil)
	ps.On("Status").Return(&transfer.SchedulerStatus{Running: true, ActiveJobs: 2, StoredPosts: 3}, nil)
	app := newTestApp(ps, &mockCaptionService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/get-scheduled-posts", nil))
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Len(t, body["posts"], 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/cancel-scheduled-post/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, "Scheduled post cancelled", decode(t, resp)["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/cancel-scheduled-post/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Post not found", decode(t, resp)["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/delete-completed-post/p2", nil))
	require.NoError(t, err)
	assert.Equal(t, "Post deleted successfully", decode(t, resp)["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/scheduler-status", nil))
	require.NoError(t, err)
	body = decode(t, resp)
	assert.Equal(t, true, body["scheduler_running"])
	assert.EqualValues(t, 2, body["active_jobs"])
	assert.EqualValues(t, 3, body["stored_posts"])
}

func jsonRequest(url, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCaptions(t *testing.T) {
	cs := &mockCaptionService{}
	cs.On("Generate", "launch", "twitter").Return("Ship it", nil)
	cs.On("GenerateAll", "launch", []string{"linkedin", "facebook"}).
		Return(map[string]string{"linkedin": "a", "facebook": "b"}, nil)
	app := newTestApp(&mockPostService{}, cs)

	resp, err := app.Test(jsonRequest("/generate-caption", `{"prompt":"launch","platform":"twitter"}`))
	require.NoError(t, err)
	assert.Equal(t, "Ship it", decode(t, resp)["caption"])

	resp, err = app.Test(jsonRequest("/generate-caption", `{"platform":"twitter"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Prompt is required", decode(t, resp)["message"])

	resp, err = app.Test(jsonRequest("/generate-all-captions", `{"prompt":"launch","platforms":["linkedin","facebook"]}`))
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["captions"], 2)

	cs.On("Generate", "x", "").Return("", service.ErrCaptionUnavailable)
	resp, err = app.Test(jsonRequest("/generate-caption", `{"prompt":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
