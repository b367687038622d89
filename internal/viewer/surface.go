// Package viewer implements the protected material viewer: a scoped
// input-suppression session with an identity watermark, and the controller
// that drives the dashboard and viewer flows against the portal API.
//
// Input suppression is deterrence, not DRM. The authoritative gate is the
// server's authorization check on the materials endpoint; this package adds
// friction and a watermark on top of it.
package viewer

import "github.com/HarshG200/neuron-edtech/internal/models"

// EventKind names an input event class on the viewer surface.
type EventKind string

const (
	EventContextMenu EventKind = "contextmenu"
	EventCopy        EventKind = "copy"
	EventDragStart   EventKind = "dragstart"
	EventSelectStart EventKind = "selectstart"
	EventKeyDown     EventKind = "keydown"
)

// Event is one input occurrence delivered to a listener. Key and the
// modifier flags are only meaningful for EventKeyDown. CtrlOrMeta covers
// both Ctrl and the Cmd key so macOS chords are caught too.
type Event struct {
	Kind       EventKind
	Key        string
	CtrlOrMeta bool
	Shift      bool
}

// ListenerID identifies one installed listener for later removal.
type ListenerID int

// ListenerFunc handles an event. Returning true suppresses the event's
// default action.
type ListenerFunc func(Event) bool

// Surface is the document-level input surface the session installs its
// listeners on. Implementations bridge to whatever actually hosts the
// viewer; tests use an in-memory fake.
type Surface interface {
	AddListener(kind EventKind, fn ListenerFunc) ListenerID
	RemoveListener(id ListenerID)

	// ShowWatermark renders a non-removable overlay with the given text
	// inside the protected content region. ClearWatermark removes it.
	ShowWatermark(text string)
	ClearWatermark()
}

// Notifier surfaces transient messages to the user.
type Notifier interface {
	Warn(msg string)
	Info(msg string)
	Error(msg string)
}

// MaterialView is the material currently open in the viewer.
type MaterialView struct {
	Material models.Material
	// Email is the viewing user's identity, rendered into the watermark.
	Email string
}
