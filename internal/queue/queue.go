package queue

import (
	"errors"
	"time"
)

// JobFunc is invoked with the post id when a trigger fires.
type JobFunc func(postID string)

// Scheduler holds at most one one-shot trigger per post id.
//
// Cancel only prevents a future fire. A trigger that is already firing when
// Cancel runs still reaches the handler.
type Scheduler interface {
	// Schedule registers a trigger for id at t, replacing any existing one.
	Schedule(id string, t time.Time) error
	// Cancel removes the trigger for id. Absent ids are ignored.
	Cancel(id string)
	// Jobs returns the number of pending triggers.
	Jobs() int
	Running() bool
	Start() error
	Stop()
}

var ErrInvalidTriggerTime = errors.New("invalid trigger time")

const TaskTypeSchedulePost = "schedule:post"

type SchedulePostPayload struct {
	PostID string `json:"post_id"`
}
