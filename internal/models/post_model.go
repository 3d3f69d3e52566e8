package models

import "time"

type Post struct {
	ID                 string            `db:"id" json:"id"`
	Captions           map[string]string `db:"captions" json:"captions"`
	Platforms          []string          `db:"platforms" json:"platforms"`
	ScheduledTime      time.Time         `db:"scheduled_time" json:"scheduled_time"`
	MediaPath          string            `db:"media_path" json:"image_path,omitempty"`
	PinterestTitle     string            `db:"pinterest_title" json:"pinterest_title"`
	PinterestLink      string            `db:"pinterest_link" json:"pinterest_link"`
	YoutubeTitle       string            `db:"youtube_title" json:"youtube_title"`
	YoutubeDescription string            `db:"youtube_description" json:"youtube_description"`
	YoutubeVisibility  string            `db:"youtube_visibility" json:"youtube_visibility"`
	Status             string            `db:"status" json:"status"` // scheduled, completed, missed
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
	ExecutedAt         *time.Time        `db:"executed_at" json:"executed_at,omitempty"`
	Results            map[string]Result `db:"results" json:"results,omitempty"`
}

// Result is the outcome of one platform adapter call.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	PostStatusScheduled = "scheduled"
	PostStatusCompleted = "completed"
	PostStatusMissed    = "missed"
)

const (
	PlatformLinkedin    = "linkedin"
	PlatformTwitter     = "twitter"
	PlatformInstagram   = "instagram"
	PlatformFacebook    = "facebook"
	PlatformPinterest   = "pinterest"
	PlatformYoutube     = "youtube"
	PlatformYoutubePost = "youtubepost"
)

// PlatformOrder is the order in which adapters run within one execution.
var PlatformOrder = []string{
	PlatformLinkedin,
	PlatformTwitter,
	PlatformInstagram,
	PlatformFacebook,
	PlatformPinterest,
	PlatformYoutube,
	PlatformYoutubePost,
}

// Options carries the platform-specific fields that adapters need beyond a caption.
type Options struct {
	PinterestLink      string
	PinterestDesc      string
	YoutubeDescription string
	YoutubeVisibility  string
}
