package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

func (s *AsynqScheduler) HandleSchedulePostTask(ctx context.Context, task *asynq.Task) error {
	var payload SchedulePostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w: %w", TaskTypeSchedulePost, err, asynq.SkipRetry)
	}
	if payload.PostID == "" {
		return fmt.Errorf("missing post id: %w", asynq.SkipRetry)
	}

	s.handler(payload.PostID)
	return nil
}
