package notestore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/synexim/linen/internal/kvstore"
	"github.com/synexim/linen/internal/models"
)

func newTestStore(t *testing.T) (*Store, *kvstore.Memory) {
	t.Helper()
	kv := kvstore.NewMemory()
	s := New(kv, nil)
	t.Cleanup(s.Close)
	return s, kv
}

func strPtr(v string) *string { return &v }

func TestAddNotePrependsAndReturnsID(t *testing.T) {
	s, _ := newTestStore(t)

	first := s.AddNote(models.Note{Title: "first", FormatType: models.FormatPlain})
	second := s.AddNote(models.Note{Title: "second", FormatType: models.FormatPlain})

	notes := s.Notes()
	if len(notes) != 2 {
		t.Fatalf("len(notes) = %d, want 2", len(notes))
	}
	if notes[0].ID != second || notes[0].Title != "second" {
		t.Errorf("newest note not first: got %q/%q", notes[0].ID, notes[0].Title)
	}
	if notes[1].ID != first {
		t.Errorf("older note displaced: %q", notes[1].ID)
	}
	if first == second {
		t.Error("ids must be unique within a process")
	}
	if notes[0].CreatedAt > notes[0].UpdatedAt {
		t.Error("updatedAt must be >= createdAt")
	}
	if notes[0].Images == nil {
		t.Error("images should default to empty slice")
	}
}

func TestAddNoteRTFDerivesContent(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddNote(models.Note{
		RichContent: "<p>Hello <b>World</b></p>",
		FormatType:  models.FormatRTF,
	})
	n, ok := s.GetNote(id)
	if !ok {
		t.Fatal("note missing")
	}
	if n.Content != "Hello World" {
		t.Errorf("content = %q, want stripped rich content", n.Content)
	}
}

func TestAddNoteKeepsPlainContentWithoutRichContent(t *testing.T) {
	s, _ := newTestStore(t)

	// Default settings make rtf the default format; a draft carrying only
	// plain content must survive the derivation untouched.
	id := s.AddNote(models.Note{Title: "quick", Content: "milk"})
	n, ok := s.GetNote(id)
	if !ok {
		t.Fatal("note missing")
	}
	if n.FormatType != models.FormatRTF {
		t.Errorf("formatType = %q, want default rtf", n.FormatType)
	}
	if n.Content != "milk" {
		t.Errorf("content = %q, want caller's content preserved", n.Content)
	}
}

func TestSyntheticFolderNeverAssigned(t *testing.T) {
	s, _ := newTestStore(t)

	id := s.AddNote(models.Note{Title: "n", FolderID: strPtr(models.FolderFavorites)})
	n, _ := s.GetNote(id)
	if n.FolderID != nil {
		t.Errorf("AddNote filed note under %q, want nil", *n.FolderID)
	}

	fid := s.AddFolder("work")
	s.UpdateNote(id, NoteUpdate{FolderID: strPtr(fid), SetFolder: true})
	s.UpdateNote(id, NoteUpdate{FolderID: strPtr(models.FolderAll), SetFolder: true})
	n, _ = s.GetNote(id)
	if n.FolderID == nil || *n.FolderID != fid {
		t.Errorf("synthetic reassignment changed folder: %v", n.FolderID)
	}
}

func TestUpdateNote(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddNote(models.Note{Title: "old", Content: "body", FormatType: models.FormatPlain})
	before, _ := s.GetNote(id)

	time.Sleep(5 * time.Millisecond)
	s.UpdateNote(id, NoteUpdate{Title: strPtr("new")})

	n, _ := s.GetNote(id)
	if n.Title != "new" {
		t.Errorf("title = %q", n.Title)
	}
	if n.Content != "body" {
		t.Errorf("content changed unexpectedly: %q", n.Content)
	}
	if n.UpdatedAt <= before.UpdatedAt {
		t.Error("updatedAt not refreshed")
	}

	// Unknown id is a silent no-op.
	s.UpdateNote("nope", NoteUpdate{Title: strPtr("x")})
}

func TestUpdateNoteRTFRecompute(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddNote(models.Note{Content: "plain", FormatType: models.FormatPlain})
	s.UpdateNote(id, NoteUpdate{
		RichContent: strPtr("<p>Rich&nbsp;text</p>"),
		FormatType:  fmtPtr(models.FormatRTF),
	})
	n, _ := s.GetNote(id)
	if n.Content != "Rich text" {
		t.Errorf("content = %q, want recomputed from richContent", n.Content)
	}
}

func TestUpdateNoteFormatSwitchKeepsContentWithoutRichContent(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddNote(models.Note{Content: "plain body", FormatType: models.FormatPlain})

	s.UpdateNote(id, NoteUpdate{FormatType: fmtPtr(models.FormatRTF)})

	n, _ := s.GetNote(id)
	if n.Content != "plain body" {
		t.Errorf("content = %q, want preserved (no richContent to derive from)", n.Content)
	}
}

func fmtPtr(f models.FormatType) *models.FormatType { return &f }

func TestToggleFavoriteKeepsUpdatedAt(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddNote(models.Note{Title: "fav", FormatType: models.FormatPlain})
	before, _ := s.GetNote(id)

	time.Sleep(5 * time.Millisecond)
	s.ToggleFavorite(id)

	n, _ := s.GetNote(id)
	if !n.IsFavorite {
		t.Error("favorite not flipped")
	}
	if n.UpdatedAt != before.UpdatedAt {
		t.Error("toggleFavorite must not refresh updatedAt")
	}
	s.ToggleFavorite(id)
	n, _ = s.GetNote(id)
	if n.IsFavorite {
		t.Error("second toggle should flip back")
	}
}

func TestDeleteNoteClearsCurrent(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddNote(models.Note{Title: "gone", FormatType: models.FormatPlain})
	n, _ := s.GetNote(id)
	s.SetCurrentNote(&n)

	s.DeleteNote(id)

	if _, ok := s.GetNote(id); ok {
		t.Error("note still present")
	}
	if s.CurrentNote() != nil {
		t.Error("currentNote should be cleared when the deleted note was selected")
	}
}

func TestDeleteFolderUnfilesNotes(t *testing.T) {
	s, _ := newTestStore(t)
	fid := s.AddFolder("work")
	id := s.AddNote(models.Note{Title: "filed", FolderID: &fid, FormatType: models.FormatPlain})
	other := s.AddNote(models.Note{Title: "elsewhere", FormatType: models.FormatPlain})

	s.DeleteFolder(fid)

	for _, f := range s.Folders() {
		if f.ID == fid {
			t.Error("folder still present")
		}
	}
	n, ok := s.GetNote(id)
	if !ok {
		t.Fatal("note was deleted with its folder")
	}
	if n.FolderID != nil {
		t.Errorf("note not unfiled: folderId = %v", *n.FolderID)
	}
	if _, ok := s.GetNote(other); !ok {
		t.Error("unrelated note lost")
	}
}

func TestDeleteFolderRefusesSynthetic(t *testing.T) {
	s, _ := newTestStore(t)
	s.DeleteFolder(models.FolderAll)
	s.DeleteFolder(models.FolderFavorites)

	folders := s.Folders()
	if len(folders) < 2 || folders[0].ID != models.FolderAll || folders[1].ID != models.FolderFavorites {
		t.Errorf("synthetic folders damaged: %+v", folders)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, kv := newTestStore(t)
	fid := s.AddFolder("journal")
	id := s.AddNote(models.Note{
		Title:      "round trip",
		Content:    "body",
		FolderID:   &fid,
		FormatType: models.FormatMarkdown,
		Images:     []models.NoteImage{{ID: "img1", URI: "/images/a.png", Width: 10, Height: 20}},
	})
	if err := s.SaveNow(); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}

	fresh := New(kv, nil)
	defer fresh.Close()
	fresh.Load()

	n, ok := fresh.GetNote(id)
	if !ok {
		t.Fatal("note missing after reload")
	}
	if n.Title != "round trip" || n.Content != "body" || n.FormatType != models.FormatMarkdown {
		t.Errorf("note fields lost: %+v", n)
	}
	if n.FolderID == nil || *n.FolderID != fid {
		t.Error("folderId lost")
	}
	if len(n.Images) != 1 || n.Images[0].URI != "/images/a.png" {
		t.Errorf("images lost: %+v", n.Images)
	}
	found := false
	for _, f := range fresh.Folders() {
		if f.ID == fid && f.Name == "journal" {
			found = true
		}
	}
	if !found {
		t.Error("folder missing after reload")
	}
}

func TestLoadHealsMissingSyntheticFolders(t *testing.T) {
	s, kv := newTestStore(t)
	// Persisted folder data from an older build is missing both anchors.
	blob, _ := json.Marshal(map[string]any{
		"version": 1,
		"folders": []models.Folder{{ID: "custom", Name: "Custom", CreatedAt: 1}},
	})
	_ = kv.Set(kvstore.KeyFolders, blob)

	s.Load()

	folders := s.Folders()
	if len(folders) != 3 {
		t.Fatalf("len(folders) = %d, want 3", len(folders))
	}
	if folders[0].ID != models.FolderAll {
		t.Errorf("folders[0] = %q, want all", folders[0].ID)
	}
	if folders[1].ID != models.FolderFavorites {
		t.Errorf("folders[1] = %q, want favorites", folders[1].ID)
	}
	if folders[2].ID != "custom" {
		t.Errorf("user folder displaced: %q", folders[2].ID)
	}
}

func TestLoadHealsFavoritesOnly(t *testing.T) {
	s, kv := newTestStore(t)
	blob, _ := json.Marshal(map[string]any{
		"version": 1,
		"folders": []models.Folder{
			{ID: models.FolderAll, Name: "All", CreatedAt: 1},
			{ID: "custom", Name: "Custom", CreatedAt: 2},
		},
	})
	_ = kv.Set(kvstore.KeyFolders, blob)

	s.Load()

	folders := s.Folders()
	if folders[0].ID != models.FolderAll || folders[1].ID != models.FolderFavorites {
		t.Errorf("healing order wrong: %+v", folders)
	}
}

func TestLoadSettingsMerge(t *testing.T) {
	s, kv := newTestStore(t)
	_ = kv.Set(kvstore.KeySettings, []byte(`{"version":1,"settings":{"defaultFormatType":"markdown"}}`))

	s.Load()

	got := s.Settings()
	want := models.DefaultSettings()
	if got.DefaultFormatType != models.FormatMarkdown {
		t.Errorf("defaultFormatType = %q", got.DefaultFormatType)
	}
	if got.FontSize != want.FontSize || got.Appearance != want.Appearance ||
		got.NoteSort != want.NoteSort || got.ShareFooterText != want.ShareFooterText {
		t.Errorf("other settings should keep defaults: %+v", got)
	}
}

func TestLoadKeepsNotesWhenKeyAbsent(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddNote(models.Note{Title: "early", FormatType: models.FormatPlain})

	// Load with no persisted notes must not reset the in-memory state: an
	// add may have raced ahead of the initial load.
	s.Load()

	if _, ok := s.GetNote(id); !ok {
		t.Error("load destroyed in-memory note")
	}
}

func TestLoadKeepsNotesOnCorruptBlob(t *testing.T) {
	s, kv := newTestStore(t)
	id := s.AddNote(models.Note{Title: "survivor", FormatType: models.FormatPlain})
	_ = kv.Set(kvstore.KeyNotes, []byte(`{not json`))

	s.Load()

	if _, ok := s.GetNote(id); !ok {
		t.Error("corrupt blob destroyed in-memory notes")
	}
}

func TestLoadMigratesLegacyBlobs(t *testing.T) {
	s, kv := newTestStore(t)
	// Version-0 layout: bare arrays and a bare settings object.
	_ = kv.Set(kvstore.KeyNotes, []byte(`[{"id":"42","title":"legacy","formatType":"plain","createdAt":1,"updatedAt":2}]`))
	_ = kv.Set(kvstore.KeyFolders, []byte(`[{"id":"all","name":"All","createdAt":1},{"id":"favorites","name":"Fav","createdAt":1}]`))
	_ = kv.Set(kvstore.KeySettings, []byte(`{"fontSize":"large"}`))

	s.Load()

	if _, ok := s.GetNote("42"); !ok {
		t.Error("legacy notes blob not migrated")
	}
	if got := s.Settings(); got.FontSize != "large" {
		t.Errorf("legacy settings not merged: %+v", got)
	}
	if got := s.Settings(); got.NoteSort != models.SortUpdatedDesc {
		t.Errorf("legacy settings merge lost defaults: %+v", got)
	}
}

func TestUpdateSettings(t *testing.T) {
	s, _ := newTestStore(t)
	size := "large"
	s.UpdateSettings(SettingsUpdate{FontSize: &size})
	got := s.Settings()
	if got.FontSize != "large" {
		t.Errorf("fontSize = %q", got.FontSize)
	}
	if got.Appearance != models.DefaultSettings().Appearance {
		t.Error("unrelated setting changed")
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s, _ := newTestStore(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	id := s.AddNote(models.Note{Title: "ev", FormatType: models.FormatPlain})

	select {
	case ev := <-ch:
		if ev.Type != EventNoteCreated || ev.ID != id {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	s.DeleteNote(id)
	select {
	case ev := <-ch:
		if ev.Type != EventNoteDeleted {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no delete event")
	}
}

func TestSearchQueryTransient(t *testing.T) {
	s, kv := newTestStore(t)
	s.SetSearchQuery("find me")
	if s.SearchQuery() != "find me" {
		t.Error("query not stored")
	}
	if err := s.SaveNow(); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}
	fresh := New(kv, nil)
	defer fresh.Close()
	fresh.Load()
	if fresh.SearchQuery() != "" {
		t.Error("search query must not be persisted")
	}
}
