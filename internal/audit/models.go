package audit

import "time"

// Event is an immutable, append-only audit log record of an administrative
// action on users, groups or recordings.
//
// Invariants:
// - Events are never updated or deleted.
// - actor and ip capture are best-effort; do not block admin flows on audit failures.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`

	// ActorUserID is the signed-in user causing the event.
	ActorUserID string `json:"actorUserId,omitempty"`
	ActorRole   string `json:"actorRole,omitempty"`
	IPAddress   string `json:"ipAddress,omitempty"`

	// TargetID is the uid, group id or recording id the action applied to.
	TargetID string `json:"targetId,omitempty"`

	Message string `json:"message,omitempty"`

	// Metadata is optional JSON with the before/after values.
	Metadata string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type EventType string

const (
	EventTypeUserStatus       EventType = "user_status_changed"
	EventTypeUserRole         EventType = "user_role_changed"
	EventTypeUserRenamed      EventType = "user_renamed"
	EventTypeUserGroup        EventType = "user_group_changed"
	EventTypeUserDeleted      EventType = "user_deleted"
	EventTypeRecordingDeleted EventType = "recording_deleted"
	EventTypeGroupCreated     EventType = "group_created"
	EventTypeGroupDeleted     EventType = "group_deleted"
)

// Actor identifies who performed an action.
type Actor struct {
	UserID string
	Role   string
	IP     string
}
