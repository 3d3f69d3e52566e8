package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"
)

const DefaultQueue = "posts"

// AsynqScheduler keeps triggers in Redis so they survive restarts of the
// process. The post id doubles as the asynq task id.
type AsynqScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	server    *asynq.Server
	handler   JobFunc
	queue     string
	running   atomic.Bool
}

func NewAsynqScheduler(redisConn asynq.RedisClientOpt, concurrency int, handler JobFunc) *AsynqScheduler {
	if concurrency <= 0 {
		concurrency = 10
	}
	return &AsynqScheduler{
		client:    asynq.NewClient(redisConn),
		inspector: asynq.NewInspector(redisConn),
		server: asynq.NewServer(redisConn, asynq.Config{
			Concurrency: concurrency,
			Queues:      map[string]int{DefaultQueue: 1},
		}),
		handler: handler,
		queue:   DefaultQueue,
	}
}

func NewSchedulePostTask(postID string) (*asynq.Task, error) {
	taskPayload, err := json.Marshal(SchedulePostPayload{PostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSchedulePost, taskPayload), nil
}

func (s *AsynqScheduler) Schedule(id string, t time.Time) error {
	if id == "" || t.IsZero() {
		return ErrInvalidTriggerTime
	}

	task, err := NewSchedulePostTask(id)
	if err != nil {
		return err
	}

	s.Cancel(id)

	// Executions are not retried: a retry would post twice.
	_, err = s.client.Enqueue(task,
		asynq.TaskID(id),
		asynq.Queue(s.queue),
		asynq.ProcessAt(t),
		asynq.MaxRetry(0),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return fmt.Errorf("trigger for %s is already running: %w", id, err)
		}
		return err
	}

	slog.Info("Task scheduled", "post_id", id, "at", t.Format(time.RFC3339))
	return nil
}

func (s *AsynqScheduler) Cancel(id string) {
	err := s.inspector.DeleteTask(s.queue, id)
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		slog.Warn("unable to cancel trigger", "post_id", id, "error", err)
	}
}

func (s *AsynqScheduler) Jobs() int {
	info, err := s.inspector.GetQueueInfo(s.queue)
	if err != nil {
		return 0
	}
	return info.Scheduled + info.Pending + info.Active
}

func (s *AsynqScheduler) Running() bool {
	return s.running.Load()
}

func (s *AsynqScheduler) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeSchedulePost, s.HandleSchedulePostTask)

	slog.Info("Starting the Asynq server...")
	if err := s.server.Start(mux); err != nil {
		return fmt.Errorf("could not start asynq server: %w", err)
	}
	s.running.Store(true)
	return nil
}

func (s *AsynqScheduler) Stop() {
	s.server.Shutdown()
	s.running.Store(false)
	if err := s.client.Close(); err != nil {
		slog.Warn("unable to close asynq client", "error", err)
	}
	if err := s.inspector.Close(); err != nil {
		slog.Warn("unable to close asynq inspector", "error", err)
	}
}
