// Package notestore implements the central mutable state container for
// notes, folders, and settings. It is the single source of truth: all
// mutations go through the Store, which owns persistence and enforces the
// cross-entity invariants (synthetic folders always present, per-note
// timestamps, folder reassignment on deletion).
package notestore

import (
	"log/slog"
	"sync"
	"time"

	"github.com/synexim/linen/internal/convert"
	"github.com/synexim/linen/internal/kvstore"
	"github.com/synexim/linen/internal/models"
)

// Store holds all in-memory state. Mutations are serialized by an internal
// mutex; persistence writes are issued fire-and-forget after each mutation,
// so a change is visible in memory immediately but durable only once the
// pending write completes.
type Store struct {
	mu          sync.Mutex
	notes       []models.Note
	folders     []models.Folder
	currentNote *models.Note
	searchQuery string
	settings    models.AppSettings

	kv     kvstore.Provider
	logger *slog.Logger

	subs   map[chan Event]struct{}
	saveWG sync.WaitGroup
}

// New creates a store with default folders and settings, persisting through
// the given provider.
func New(kv kvstore.Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		notes:    nil,
		folders:  models.DefaultFolders(time.Now().UnixMilli()),
		settings: models.DefaultSettings(),
		kv:       kv,
		logger:   logger,
		subs:     make(map[chan Event]struct{}),
	}
}

// NoteUpdate is a partial note mutation. Nil fields are left unchanged.
// SetFolder must be true for FolderID to be applied, since nil is a valid
// target (unfiled).
type NoteUpdate struct {
	Title       *string
	Content     *string
	RichContent *string
	FormatType  *models.FormatType
	FolderID    *string
	SetFolder   bool
	IsFavorite  *bool
	Images      []models.NoteImage
	SetImages   bool
}

// AddNote inserts a new note at the front of the collection (newest-first
// insertion order) and returns its generated id. The id is returned
// synchronously so the caller can treat the draft as persisted-pending.
func (s *Store) AddNote(draft models.Note) string {
	s.mu.Lock()
	now := time.Now().UnixMilli()
	draft.ID = models.NewID()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if draft.FormatType == "" {
		draft.FormatType = s.settings.DefaultFormatType
	}
	if draft.Images == nil {
		draft.Images = []models.NoteImage{}
	}
	// The synthetic views are never a real filing target.
	if draft.FolderID != nil && models.IsSyntheticFolder(*draft.FolderID) {
		draft.FolderID = nil
	}
	// For rtf notes the content field mirrors the stripped rich content so
	// search and export never see a stale derivation. With no rich content
	// yet, the caller's plain content stands.
	if draft.FormatType == models.FormatRTF && draft.RichContent != "" {
		draft.Content = convert.StripHTML(draft.RichContent)
	}
	s.notes = append([]models.Note{draft}, s.notes...)
	s.mu.Unlock()

	s.notify(Event{Type: EventNoteCreated, ID: draft.ID})
	s.scheduleSave()
	return draft.ID
}

// UpdateNote merges the update into the matching note and refreshes its
// UpdatedAt. Unknown ids are a silent no-op.
func (s *Store) UpdateNote(id string, u NoteUpdate) {
	s.mu.Lock()
	idx := s.noteIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	n := &s.notes[idx]
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.RichContent != nil {
		n.RichContent = *u.RichContent
	}
	if u.FormatType != nil {
		// Switching format abandons the previously authoritative field; no
		// automatic conversion is attempted.
		n.FormatType = *u.FormatType
	}
	if u.SetFolder && (u.FolderID == nil || !models.IsSyntheticFolder(*u.FolderID)) {
		n.FolderID = u.FolderID
	}
	if u.IsFavorite != nil {
		n.IsFavorite = *u.IsFavorite
	}
	if u.SetImages {
		imgs := u.Images
		if imgs == nil {
			imgs = []models.NoteImage{}
		}
		n.Images = imgs
	}
	if n.FormatType == models.FormatRTF && n.RichContent != "" && (u.RichContent != nil || u.FormatType != nil) {
		n.Content = convert.StripHTML(n.RichContent)
	}
	n.UpdatedAt = time.Now().UnixMilli()
	if s.currentNote != nil && s.currentNote.ID == id {
		cp := *n
		s.currentNote = &cp
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventNoteUpdated, ID: id})
	s.scheduleSave()
}

// DeleteNote removes the note and clears the current-note pointer if it
// referenced it. Image cleanup is the calling edit flow's responsibility.
func (s *Store) DeleteNote(id string) {
	s.mu.Lock()
	idx := s.noteIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.notes = append(s.notes[:idx], s.notes[idx+1:]...)
	if s.currentNote != nil && s.currentNote.ID == id {
		s.currentNote = nil
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventNoteDeleted, ID: id})
	s.scheduleSave()
}

// ToggleFavorite flips the favorite flag without touching UpdatedAt:
// favorite state is metadata, not content.
func (s *Store) ToggleFavorite(id string) {
	s.mu.Lock()
	idx := s.noteIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.notes[idx].IsFavorite = !s.notes[idx].IsFavorite
	if s.currentNote != nil && s.currentNote.ID == id {
		cp := s.notes[idx]
		s.currentNote = &cp
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventNoteUpdated, ID: id})
	s.scheduleSave()
}

// GetNote returns a copy of the note, or false when absent.
func (s *Store) GetNote(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.noteIndex(id)
	if idx < 0 {
		return models.Note{}, false
	}
	return s.notes[idx], true
}

// SetCurrentNote records the transient UI selection. Not persisted.
func (s *Store) SetCurrentNote(n *models.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == nil {
		s.currentNote = nil
		return
	}
	cp := *n
	s.currentNote = &cp
}

// CurrentNote returns a copy of the transient selection, or nil.
func (s *Store) CurrentNote() *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentNote == nil {
		return nil
	}
	cp := *s.currentNote
	return &cp
}

// AddFolder appends a user folder and returns its id.
func (s *Store) AddFolder(name string) string {
	f := models.Folder{
		ID:        models.NewID(),
		Name:      name,
		CreatedAt: time.Now().UnixMilli(),
	}
	s.mu.Lock()
	s.folders = append(s.folders, f)
	s.mu.Unlock()

	s.notify(Event{Type: EventFolderCreated, ID: f.ID})
	s.scheduleSave()
	return f.ID
}

// UpdateFolder renames a folder. Unknown ids are a silent no-op.
func (s *Store) UpdateFolder(id, name string) {
	s.mu.Lock()
	changed := false
	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders[i].Name = name
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if !changed {
		return
	}

	s.notify(Event{Type: EventFolderUpdated, ID: id})
	s.scheduleSave()
}

// DeleteFolder removes a folder and unfiles its notes (FolderID becomes
// nil). Notes are never cascade-deleted. Synthetic folders are protected.
// Both transitions happen in one locked mutation so no intermediate state
// can be observed or persisted.
func (s *Store) DeleteFolder(id string) {
	if models.IsSyntheticFolder(id) {
		return
	}
	s.mu.Lock()
	found := false
	kept := s.folders[:0]
	for _, f := range s.folders {
		if f.ID == id {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	s.folders = kept
	if found {
		for i := range s.notes {
			if s.notes[i].FolderID != nil && *s.notes[i].FolderID == id {
				s.notes[i].FolderID = nil
			}
		}
	}
	s.mu.Unlock()
	if !found {
		return
	}

	s.notify(Event{Type: EventFolderDeleted, ID: id})
	s.scheduleSave()
}

// SetSearchQuery records the transient filter query. Not persisted and not
// debounced here; debouncing is a UI concern.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	s.searchQuery = q
	s.mu.Unlock()
}

// SearchQuery returns the transient filter query.
func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// UpdateSettings shallow-merges the partial update into settings.
func (s *Store) UpdateSettings(u SettingsUpdate) {
	s.mu.Lock()
	u.applyTo(&s.settings)
	s.mu.Unlock()

	s.notify(Event{Type: EventSettingsUpdated})
	s.scheduleSave()
}

// Notes returns a copy of the note collection in insertion order.
func (s *Store) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Folders returns a copy of the folder collection.
func (s *Store) Folders() []models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// Settings returns the current settings.
func (s *Store) Settings() models.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// AllImages returns every image referenced by any note, for garbage
// collection of the managed image directory.
func (s *Store) AllImages() []models.NoteImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.NoteImage
	for _, n := range s.notes {
		out = append(out, n.Images...)
	}
	return out
}

// Close waits for in-flight persistence writes and closes all subscriber
// channels. The store must not be mutated after Close.
func (s *Store) Close() {
	s.saveWG.Wait()
	s.mu.Lock()
	for ch := range s.subs {
		close(ch)
	}
	s.subs = make(map[chan Event]struct{})
	s.mu.Unlock()
}

// noteIndex returns the index of the note with the given id, or -1.
// Callers must hold s.mu.
func (s *Store) noteIndex(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// SettingsUpdate is a partial settings mutation; nil fields are unchanged.
type SettingsUpdate struct {
	ShareFooterEnabled *bool
	ShareFooterText    *string
	DefaultFormatType  *models.FormatType
	FontSize           *string
	Appearance         *string
	NoteSort           *string
}

func (u SettingsUpdate) applyTo(s *models.AppSettings) {
	if u.ShareFooterEnabled != nil {
		s.ShareFooterEnabled = *u.ShareFooterEnabled
	}
	if u.ShareFooterText != nil {
		s.ShareFooterText = *u.ShareFooterText
	}
	if u.DefaultFormatType != nil {
		s.DefaultFormatType = *u.DefaultFormatType
	}
	if u.FontSize != nil {
		s.FontSize = *u.FontSize
	}
	if u.Appearance != nil {
		s.Appearance = *u.Appearance
	}
	if u.NoteSort != nil {
		s.NoteSort = *u.NoteSort
	}
}
