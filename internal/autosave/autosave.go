// Package autosave commits an edit session's working draft into the note
// store after input activity pauses. It is a trailing-edge debounce: every
// edit restarts the delay timer, and only the expiry (or an explicit Flush
// on navigation-away) commits.
package autosave

import (
	"strings"
	"sync"
	"time"

	"github.com/synexim/linen/internal/convert"
	"github.com/synexim/linen/internal/models"
	"github.com/synexim/linen/internal/notestore"
)

// DefaultDelay is the debounce interval between the last edit and the
// commit.
const DefaultDelay = 800 * time.Millisecond

// Draft is the working copy of the note being edited.
type Draft struct {
	Title       string
	Content     string
	RichContent string
	FormatType  models.FormatType
	FolderID    *string
	IsFavorite  bool
	Images      []models.NoteImage
}

// Controller debounces draft commits for one editing session. The first
// commit creates the note (AddNote); subsequent commits update it using the
// id returned by the first.
type Controller struct {
	mu     sync.Mutex
	store  *notestore.Store
	delay  time.Duration
	timer  *time.Timer
	gen    uint64
	draft  Draft
	armed  bool
	noteID string
}

// New creates a controller for a fresh note. Pass delay <= 0 for the
// default. Editing an existing note is expressed by NewForNote.
func New(store *notestore.Store, delay time.Duration) *Controller {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Controller{store: store, delay: delay}
}

// NewForNote creates a controller whose commits update an existing note.
func NewForNote(store *notestore.Store, noteID string, delay time.Duration) *Controller {
	c := New(store, delay)
	c.noteID = noteID
	return c
}

// Notify records the latest draft and (re)starts the debounce timer. A
// pending timer from an earlier edit is superseded.
func (c *Controller) Notify(d Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
	c.armed = true
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() { c.expire(gen) })
}

// expire commits the draft if no newer edit superseded this timer.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || !c.armed {
		return
	}
	c.commitLocked()
}

// Flush cancels any pending timer and commits the current draft
// synchronously. Called on explicit navigation-away.
func (c *Controller) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if !c.armed {
		return
	}
	c.commitLocked()
}

// Stop cancels any pending commit without saving. The controller may be
// reused after Stop, but in practice it ends with the session.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.armed = false
}

// NoteID returns the id of the committed note, or empty before the first
// commit.
func (c *Controller) NoteID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noteID
}

// commitLocked applies the save-guard and writes the draft to the store.
// Callers must hold c.mu.
func (c *Controller) commitLocked() {
	c.armed = false
	d := c.draft

	// Save-guard: a note with no title, no derived text, no images, and no
	// favorite mark is vacuous. Merely opening and closing the editor must
	// not litter the store with empty notes.
	plain := convert.PlainText(d.Content, d.RichContent, d.FormatType)
	if strings.TrimSpace(d.Title) == "" &&
		strings.TrimSpace(plain) == "" &&
		len(d.Images) == 0 &&
		!d.IsFavorite {
		return
	}

	if c.noteID == "" {
		c.noteID = c.store.AddNote(models.Note{
			Title:       d.Title,
			Content:     d.Content,
			RichContent: d.RichContent,
			FormatType:  d.FormatType,
			FolderID:    d.FolderID,
			IsFavorite:  d.IsFavorite,
			Images:      d.Images,
		})
		return
	}
	fav := d.IsFavorite
	u := notestore.NoteUpdate{
		Title:       &d.Title,
		Content:     &d.Content,
		RichContent: &d.RichContent,
		FolderID:    d.FolderID,
		SetFolder:   true,
		IsFavorite:  &fav,
		Images:      d.Images,
		SetImages:   true,
	}
	// A draft that never chose a format keeps whatever the stored note has;
	// only an explicit format travels with the update.
	if d.FormatType != "" {
		u.FormatType = &d.FormatType
	}
	c.store.UpdateNote(c.noteID, u)
}
