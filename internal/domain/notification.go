package domain

import "time"

// Kind classifies a notification request.
type Kind string

const (
	KindCall  Kind = "call"
	KindLocal Kind = "local"
)

// NotificationID identifies a displayed notification. It is unique among the
// notifications currently on screen, not across all time.
type NotificationID int64

// NotificationAction is a user action button bound to a deep link.
type NotificationAction struct {
	Label    string         `json:"label"`
	ActionID string         `json:"action_id"`
	Target   DeepLinkTarget `json:"target"`
	Link     string         `json:"link"`
}

// NotificationRequest is the caller input for a single notification.
type NotificationRequest struct {
	Kind          Kind            `json:"kind" validate:"required,oneof=call local"`
	Title         string          `json:"title" validate:"max=256"`
	Body          string          `json:"body" validate:"max=4096"`
	ChannelID     string          `json:"channel_id" validate:"max=64"`
	ContentTarget *DeepLinkTarget `json:"content_target,omitempty"`
	FullScreen    bool            `json:"full_screen"`
}

// NotificationDescriptor is the platform-agnostic notification handed to a
// surface. It is built once and treated as a value afterwards.
type NotificationDescriptor struct {
	ID                NotificationID       `json:"id"`
	Channel           ChannelDescriptor    `json:"channel"`
	Title             string               `json:"title"`
	Body              string               `json:"body"`
	InterruptionLevel InterruptionLevel    `json:"interruption_level"`
	ContentTarget     *DeepLinkTarget      `json:"content_target,omitempty"`
	ContentLink       string               `json:"content_link"`
	Actions           []NotificationAction `json:"actions"`
	FullScreen        bool                 `json:"full_screen"`
	Category          string               `json:"category,omitempty"`
}

// ActionEvent records a triggered notification action for telemetry.
type ActionEvent struct {
	EventID        string         `json:"event_id"`
	ActionID       string         `json:"action_id"`
	Screen         string         `json:"screen"`
	Link           string         `json:"link"`
	NotificationID NotificationID `json:"notification_id,omitempty"`
	At             time.Time      `json:"at"`
}
