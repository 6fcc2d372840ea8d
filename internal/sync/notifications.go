package sync

// NotificationKind identifies a one-shot user-visible event.
type NotificationKind int

const (
	// NoteConnectionLost fires once on the healthy to unhealthy edge.
	NoteConnectionLost NotificationKind = iota
	// NoteConnectionRestored fires once on the unhealthy to healthy edge.
	NoteConnectionRestored
	// NoteJobCompleted fires the first time a merge moves a job to
	// completed; presentation uses it to offer audio retrieval.
	NoteJobCompleted
	// NoteAudioReady fires when a fetched audio resource is playable.
	NoteAudioReady
	// NoteAudioFailed fires when an audio retrieval fails.
	NoteAudioFailed
	// NoteDeleteFailed fires when the server-side delete call fails.
	NoteDeleteFailed
)

// String returns the string representation of the kind.
func (k NotificationKind) String() string {
	switch k {
	case NoteConnectionLost:
		return "connection lost"
	case NoteConnectionRestored:
		return "connection restored"
	case NoteJobCompleted:
		return "job completed"
	case NoteAudioReady:
		return "audio ready"
	case NoteAudioFailed:
		return "audio failed"
	case NoteDeleteFailed:
		return "delete failed"
	default:
		return "unknown"
	}
}

// Notification is a one-shot message for the user. JobID is empty for
// connection-level notifications.
type Notification struct {
	Kind    NotificationKind
	JobID   string
	Message string
}
