package viewer

import (
	"log/slog"
	"sync"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// SessionState is the viewer session lifecycle state.
type SessionState string

const (
	StateClosed SessionState = "closed"
	StateOpen   SessionState = "open"
)

// Session suppresses a fixed set of input events and renders an identity
// watermark while one material is open. At most one material is open at a
// time: opening a second material fully closes the first, listeners removed,
// before the second installs its own.
//
// The invariant on every exit path is that a closed session holds zero
// installed listeners and no watermark.
type Session struct {
	surface Surface
	notify  Notifier
	log     *slog.Logger

	mu        sync.Mutex
	state     SessionState
	listeners []ListenerID
	warned    map[EventKind]bool
	current   *MaterialView
}

// NewSession creates a closed session over the given surface.
func NewSession(surface Surface, notify Notifier, log *slog.Logger) *Session {
	return &Session{
		surface: surface,
		notify:  notify,
		log:     log,
		state:   StateClosed,
	}
}

// Open installs the suppression listeners and the watermark for the material.
// If a material is already open it is closed first.
func (s *Session) Open(material models.Material, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOpen {
		s.teardownLocked()
	}

	s.current = &MaterialView{Material: material, Email: email}
	s.warned = make(map[EventKind]bool)

	s.listeners = append(s.listeners,
		s.surface.AddListener(EventContextMenu, s.suppressWithWarning(EventContextMenu, "Right-click is disabled on protected content")),
		s.surface.AddListener(EventCopy, s.suppressWithWarning(EventCopy, "Copying is disabled on protected content")),
		s.surface.AddListener(EventDragStart, suppressSilently),
		s.surface.AddListener(EventSelectStart, suppressSilently),
		s.surface.AddListener(EventKeyDown, s.suppressKeyChords()),
	)
	s.surface.ShowWatermark(email)
	s.state = StateOpen

	s.log.Info("protection session opened",
		slog.String("material_id", material.ID),
		slog.String("type", material.Type))
}

// Close removes every installed listener and the watermark. Safe to call on
// an already closed session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	s.teardownLocked()
	s.log.Info("protection session closed")
}

// State reports whether a material is currently open.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the open material view, or nil when closed.
func (s *Session) Current() *MaterialView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) teardownLocked() {
	for _, id := range s.listeners {
		s.surface.RemoveListener(id)
	}
	s.listeners = nil
	s.surface.ClearWatermark()
	s.current = nil
	s.warned = nil
	s.state = StateClosed
}

// suppressWithWarning blocks the event and warns the user, once per event
// kind per session so repeated attempts do not spam.
func (s *Session) suppressWithWarning(kind EventKind, msg string) ListenerFunc {
	return func(Event) bool {
		s.warnOnce(kind, msg)
		return true
	}
}

func suppressSilently(Event) bool {
	return true
}

// suppressKeyChords blocks save, print, view-source and devtools shortcuts.
// Everything else passes through untouched.
func (s *Session) suppressKeyChords() ListenerFunc {
	return func(ev Event) bool {
		if !blockedChord(ev) {
			return false
		}
		s.warnOnce(EventKeyDown, "This shortcut is disabled on protected content")
		return true
	}
}

func blockedChord(ev Event) bool {
	if ev.Key == "F12" {
		return true
	}
	if !ev.CtrlOrMeta {
		return false
	}
	if ev.Shift {
		switch ev.Key {
		case "I", "C", "J":
			return true
		}
		return false
	}
	switch ev.Key {
	case "s", "S", "p", "P", "u", "U":
		return true
	}
	return false
}

func (s *Session) warnOnce(kind EventKind, msg string) {
	s.mu.Lock()
	already := s.warned == nil || s.warned[kind]
	if s.warned != nil {
		s.warned[kind] = true
	}
	s.mu.Unlock()

	if !already {
		s.notify.Warn(msg)
	}
}
