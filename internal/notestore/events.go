package notestore

// Event types delivered to subscribers.
const (
	EventNoteCreated     = "note.created"
	EventNoteUpdated     = "note.updated"
	EventNoteDeleted     = "note.deleted"
	EventFolderCreated   = "folder.created"
	EventFolderUpdated   = "folder.updated"
	EventFolderDeleted   = "folder.deleted"
	EventSettingsUpdated = "settings.updated"
)

// Event describes a completed store mutation. ID is empty for settings
// events.
type Event struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// Subscribe registers a change listener and returns its channel together
// with an unsubscribe func. The channel is buffered; a slow consumer drops
// events rather than blocking mutations.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}
