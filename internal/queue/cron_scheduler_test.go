package queue

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firedRecorder struct {
	mu    sync.Mutex
	fired []string
	ch    chan string
}

func newFiredRecorder() *firedRecorder {
	return &firedRecorder{ch: make(chan string, 16)}
}

func (r *firedRecorder) handle(id string) {
	r.mu.Lock()
	r.fired = append(r.fired, id)
	r.mu.Unlock()
	r.ch <- id
}

func (r *firedRecorder) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, f := range r.fired {
		if f == id {
			n++
		}
	}
	return n
}

func newTestScheduler(t *testing.T, handler JobFunc) *CronScheduler {
	t.Helper()
	s := NewCronScheduler(NewCron(cron.PrintfLogger(log.New(io.Discard, "", 0))), handler)
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)
	return s
}

func waitFired(t *testing.T, r *firedRecorder, want string) {
	t.Helper()
	select {
	case got := <-r.ch:
		assert.Equal(t, want, got)
	case <-time.After(3 * time.Second):
		t.Fatalf("trigger %s did not fire", want)
	}
}

func TestCronScheduler_FiresOnce(t *testing.T) {
	rec := newFiredRecorder()
	s := newTestScheduler(t, rec.handle)

	require.NoError(t, s.Schedule("post_a", time.Now().Add(100*time.Millisecond)))
	assert.Equal(t, 1, s.Jobs())

	waitFired(t, rec, "post_a")
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 1, rec.count("post_a"))
	assert.Equal(t, 0, s.Jobs())
}

func TestCronScheduler_PastTimeFiresImmediately(t *testing.T) {
	rec := newFiredRecorder()
	s := newTestScheduler(t, rec.handle)

	require.NoError(t, s.Schedule("post_late", time.Now().Add(-time.Minute)))
	waitFired(t, rec, "post_late")
}

func TestCronScheduler_ReplaceExisting(t *testing.T) {
	rec := newFiredRecorder()
	s := newTestScheduler(t, rec.handle)

	require.NoError(t, s.Schedule("post_a", time.Now().Add(time.Hour)))
	require.NoError(t, s.Schedule("post_a", time.Now().Add(100*time.Millisecond)))
	assert.Equal(t, 1, s.Jobs())

	waitFired(t, rec, "post_a")
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, rec.count("post_a"))
	assert.Equal(t, 0, s.Jobs())
}

func TestCronScheduler_Cancel(t *testing.T) {
	rec := newFiredRecorder()
	s := newTestScheduler(t, rec.handle)

	require.NoError(t, s.Schedule("post_a", time.Now().Add(200*time.Millisecond)))
	s.Cancel("post_a")
	s.Cancel("post_a")
	s.Cancel("never_scheduled")
	assert.Equal(t, 0, s.Jobs())

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, 0, rec.count("post_a"))
}

func TestCronScheduler_SlowJobDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	fired := make(chan string, 2)
	s := newTestScheduler(t, func(id string) {
		fired <- id
		if id == "slow" {
			<-release
		}
	})
	defer close(release)

	require.NoError(t, s.Schedule("slow", time.Now().Add(50*time.Millisecond)))
	require.NoError(t, s.Schedule("fast", time.Now().Add(200*time.Millisecond)))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-fired:
			got[id] = true
		case <-time.After(3 * time.Second):
			t.Fatal("expected both triggers to fire")
		}
	}
	assert.True(t, got["slow"])
	assert.True(t, got["fast"])
}

func TestCronScheduler_InvalidTrigger(t *testing.T) {
	s := newTestScheduler(t, func(string) {})

	assert.ErrorIs(t, s.Schedule("post_a", time.Time{}), ErrInvalidTriggerTime)
	assert.ErrorIs(t, s.Schedule("", time.Now()), ErrInvalidTriggerTime)
	assert.Equal(t, 0, s.Jobs())
}

func TestOneShot_Next(t *testing.T) {
	at := time.Now().Add(time.Hour)
	o := &oneShot{at: at}

	assert.Equal(t, at, o.Next(time.Now()))
	assert.True(t, o.Next(time.Now()).IsZero())
}

func TestHandleSchedulePostTask(t *testing.T) {
	var got string
	s := &AsynqScheduler{handler: func(id string) { got = id }}

	task, err := NewSchedulePostTask("post_abc")
	require.NoError(t, err)
	require.NoError(t, s.HandleSchedulePostTask(context.Background(), task))
	assert.Equal(t, "post_abc", got)

	err = s.HandleSchedulePostTask(context.Background(), asynq.NewTask(TaskTypeSchedulePost, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = s.HandleSchedulePostTask(context.Background(), asynq.NewTask(TaskTypeSchedulePost, []byte(`{}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
