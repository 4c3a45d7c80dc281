package domain

// SurfaceOp names the operation carried by a SurfaceEnvelope.
type SurfaceOp string

const (
	OpPost      SurfaceOp = "post"
	OpCancel    SurfaceOp = "cancel"
	OpCancelAll SurfaceOp = "cancel_all"
)

// SurfaceEnvelope is the message a remote surface (notification daemon, UI
// client) receives for every dispatcher call.
type SurfaceEnvelope struct {
	Op           SurfaceOp               `json:"op"`
	ID           NotificationID          `json:"id,omitempty"`
	Notification *NotificationDescriptor `json:"notification,omitempty"`
}

// ClientOp names what a UI client reports back.
type ClientOp string

const (
	ClientAction    ClientOp = "action"
	ClientDismissed ClientOp = "dismissed"
)

// ClientMessage is sent by a UI client when the user taps an action or the
// platform removes a notification on its own.
type ClientMessage struct {
	Op             ClientOp       `json:"op"`
	ActionID       string         `json:"action_id,omitempty"`
	Link           string         `json:"link,omitempty"`
	NotificationID NotificationID `json:"notification_id"`
}
