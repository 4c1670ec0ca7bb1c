package autosave

import (
	"testing"
	"time"

	"github.com/synexim/linen/internal/kvstore"
	"github.com/synexim/linen/internal/models"
	"github.com/synexim/linen/internal/notestore"
)

func newStore(t *testing.T) *notestore.Store {
	t.Helper()
	s := notestore.New(kvstore.NewMemory(), nil)
	t.Cleanup(s.Close)
	return s
}

func TestDebouncedCommit(t *testing.T) {
	s := newStore(t)
	c := New(s, 30*time.Millisecond)
	defer c.Stop()

	c.Notify(Draft{Title: "draft", FormatType: models.FormatPlain})

	if len(s.Notes()) != 0 {
		t.Fatal("committed before delay elapsed")
	}
	time.Sleep(80 * time.Millisecond)
	notes := s.Notes()
	if len(notes) != 1 || notes[0].Title != "draft" {
		t.Fatalf("after delay: %+v", notes)
	}
	if c.NoteID() != notes[0].ID {
		t.Error("controller did not record the committed id")
	}
}

func TestDebounceSupersession(t *testing.T) {
	s := newStore(t)
	c := New(s, 40*time.Millisecond)
	defer c.Stop()

	c.Notify(Draft{Title: "v1", FormatType: models.FormatPlain})
	time.Sleep(20 * time.Millisecond)
	c.Notify(Draft{Title: "v2", FormatType: models.FormatPlain})
	time.Sleep(20 * time.Millisecond)
	c.Notify(Draft{Title: "v3", FormatType: models.FormatPlain})

	time.Sleep(100 * time.Millisecond)
	notes := s.Notes()
	if len(notes) != 1 {
		t.Fatalf("want exactly one commit, got %d", len(notes))
	}
	if notes[0].Title != "v3" {
		t.Errorf("committed %q, want the latest draft", notes[0].Title)
	}
}

func TestSecondCommitUpdates(t *testing.T) {
	s := newStore(t)
	c := New(s, 10*time.Millisecond)
	defer c.Stop()

	c.Notify(Draft{Title: "first", FormatType: models.FormatPlain})
	time.Sleep(50 * time.Millisecond)
	id := c.NoteID()
	if id == "" {
		t.Fatal("no first commit")
	}

	c.Notify(Draft{Title: "second", FormatType: models.FormatPlain})
	time.Sleep(50 * time.Millisecond)

	notes := s.Notes()
	if len(notes) != 1 {
		t.Fatalf("update created a new note: %d notes", len(notes))
	}
	if notes[0].ID != id || notes[0].Title != "second" {
		t.Errorf("got %+v", notes[0])
	}
}

func TestCommitWithoutFormatKeepsStoredFormat(t *testing.T) {
	s := newStore(t)
	c := New(s, time.Hour)
	defer c.Stop()

	// Drafts from an editor that never picks a format: the first commit
	// falls back to the store's default, later commits must not clobber it.
	c.Notify(Draft{Title: "note", Content: "Body"})
	c.Flush()
	first, _ := s.GetNote(c.NoteID())
	if first.FormatType != models.FormatRTF {
		t.Fatalf("first commit formatType = %q, want default rtf", first.FormatType)
	}
	if first.Content != "Body" {
		t.Fatalf("first commit content = %q", first.Content)
	}

	c.Notify(Draft{Title: "note", Content: "Body v2"})
	c.Flush()
	second, _ := s.GetNote(c.NoteID())
	if second.FormatType != models.FormatRTF {
		t.Errorf("second commit formatType = %q, want rtf preserved", second.FormatType)
	}
	if second.Content != "Body v2" {
		t.Errorf("second commit content = %q", second.Content)
	}
}

func TestFlushCommitsImmediately(t *testing.T) {
	s := newStore(t)
	c := New(s, time.Hour)
	defer c.Stop()

	c.Notify(Draft{Title: "urgent", FormatType: models.FormatPlain})
	c.Flush()

	notes := s.Notes()
	if len(notes) != 1 || notes[0].Title != "urgent" {
		t.Fatalf("flush did not commit: %+v", notes)
	}
	// Flush with nothing pending is a no-op.
	c.Flush()
	if len(s.Notes()) != 1 {
		t.Error("idle flush committed again")
	}
}

func TestSaveGuardSkipsVacuousDraft(t *testing.T) {
	s := newStore(t)
	c := New(s, time.Hour)
	defer c.Stop()

	cases := []Draft{
		{FormatType: models.FormatPlain},
		{Title: "   ", FormatType: models.FormatPlain},
		{Content: "  \n ", FormatType: models.FormatPlain},
		{RichContent: "<p>&nbsp;</p>", FormatType: models.FormatRTF},
		{Content: "# ", FormatType: models.FormatMarkdown},
	}
	for _, d := range cases {
		c.Notify(d)
		c.Flush()
	}
	if got := len(s.Notes()); got != 0 {
		t.Errorf("vacuous drafts persisted: %d notes", got)
	}
}

func TestSaveGuardPassesOnFavoriteOrImage(t *testing.T) {
	s := newStore(t)

	c := New(s, time.Hour)
	c.Notify(Draft{IsFavorite: true, FormatType: models.FormatPlain})
	c.Flush()
	c.Stop()

	c2 := New(s, time.Hour)
	c2.Notify(Draft{
		FormatType: models.FormatPlain,
		Images:     []models.NoteImage{{ID: "i", URI: "/images/x.jpg"}},
	})
	c2.Flush()
	c2.Stop()

	if got := len(s.Notes()); got != 2 {
		t.Errorf("favorite-only and image-only drafts must save: %d notes", got)
	}
}

func TestStopCancelsPending(t *testing.T) {
	s := newStore(t)
	c := New(s, 20*time.Millisecond)
	c.Notify(Draft{Title: "never", FormatType: models.FormatPlain})
	c.Stop()
	time.Sleep(60 * time.Millisecond)
	if len(s.Notes()) != 0 {
		t.Error("stop did not cancel the pending commit")
	}
}

func TestNewForNoteUpdatesExisting(t *testing.T) {
	s := newStore(t)
	id := s.AddNote(models.Note{Title: "existing", FormatType: models.FormatPlain})

	c := NewForNote(s, id, 10*time.Millisecond)
	defer c.Stop()
	c.Notify(Draft{Title: "edited", FormatType: models.FormatPlain})
	c.Flush()

	n, ok := s.GetNote(id)
	if !ok || n.Title != "edited" {
		t.Errorf("existing note not updated: %+v", n)
	}
	if len(s.Notes()) != 1 {
		t.Error("controller created a duplicate")
	}
}
