package api

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/synexim/linen/internal/apperr"
	"github.com/synexim/linen/internal/convert"
	"github.com/synexim/linen/internal/images"
	"github.com/synexim/linen/internal/models"
	"github.com/synexim/linen/internal/notestore"
	"github.com/synexim/linen/internal/share"
)

// Service coordinates store and image operations for the API layer.
type Service struct {
	store  *notestore.Store
	images *images.Manager
}

// NewService creates a new API service.
func NewService(store *notestore.Store, mgr *images.Manager) *Service {
	return &Service{store: store, images: mgr}
}

// ListNotes returns the filtered, sorted note collection.
func (s *Service) ListNotes(folderID, query string) []models.Note {
	return s.store.FilteredNotes(folderID, query)
}

// CreateNote inserts a new note and returns the stored copy.
func (s *Service) CreateNote(req CreateNoteRequest) (models.Note, error) {
	draft := models.Note{
		Title:       req.Title,
		Content:     req.Content,
		RichContent: req.RichContent,
		FolderID:    req.FolderID,
		IsFavorite:  req.IsFavorite,
		Images:      req.Images,
	}
	if req.FormatType != "" {
		ft, err := parseFormat(req.FormatType)
		if err != nil {
			return models.Note{}, err
		}
		draft.FormatType = ft
	}
	if req.FolderID != nil && models.IsSyntheticFolder(*req.FolderID) {
		return models.Note{}, fmt.Errorf("folder %q: %w", *req.FolderID, apperr.ErrReserved)
	}
	id := s.store.AddNote(draft)
	note, _ := s.store.GetNote(id)
	return note, nil
}

// GetNote returns a single note by id.
func (s *Service) GetNote(id string) (models.Note, error) {
	note, ok := s.store.GetNote(id)
	if !ok {
		return models.Note{}, apperr.ErrNotFound
	}
	return note, nil
}

// UpdateNote applies a partial mutation and returns the updated note.
func (s *Service) UpdateNote(id string, u notestore.NoteUpdate) (models.Note, error) {
	if _, ok := s.store.GetNote(id); !ok {
		return models.Note{}, apperr.ErrNotFound
	}
	if u.FolderID != nil && models.IsSyntheticFolder(*u.FolderID) {
		return models.Note{}, fmt.Errorf("folder %q: %w", *u.FolderID, apperr.ErrReserved)
	}
	s.store.UpdateNote(id, u)
	note, _ := s.store.GetNote(id)
	return note, nil
}

// DeleteNote removes the note and sweeps image files no surviving note
// references.
func (s *Service) DeleteNote(id string) error {
	if _, ok := s.store.GetNote(id); !ok {
		return apperr.ErrNotFound
	}
	s.store.DeleteNote(id)
	s.images.CleanupUnused(s.store.AllImages())
	return nil
}

// ToggleFavorite flips the favorite flag and returns the updated note.
func (s *Service) ToggleFavorite(id string) (models.Note, error) {
	if _, ok := s.store.GetNote(id); !ok {
		return models.Note{}, apperr.ErrNotFound
	}
	s.store.ToggleFavorite(id)
	note, _ := s.store.GetNote(id)
	return note, nil
}

// ExportNote renders a note as shareable plain text: title, plain-text
// body, and the share footer when enabled.
func (s *Service) ExportNote(id string) (string, error) {
	note, ok := s.store.GetNote(id)
	if !ok {
		return "", apperr.ErrNotFound
	}
	var b strings.Builder
	if note.Title != "" {
		b.WriteString(note.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(convert.PlainText(note.Content, note.RichContent, note.FormatType))
	if footer := share.ForNote(s.store.Settings(), note); footer != "" {
		b.WriteString("\n\n")
		b.WriteString(footer)
	}
	return b.String(), nil
}

// Folders returns all folders, synthetic ones first.
func (s *Service) Folders() []models.Folder {
	return s.store.Folders()
}

// CreateFolder adds a folder and returns it.
func (s *Service) CreateFolder(name string) (models.Folder, error) {
	id := s.store.AddFolder(name)
	for _, f := range s.store.Folders() {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Folder{}, apperr.ErrNotFound
}

// RenameFolder renames a folder.
func (s *Service) RenameFolder(id, name string) (models.Folder, error) {
	if models.IsSyntheticFolder(id) {
		return models.Folder{}, fmt.Errorf("folder %q: %w", id, apperr.ErrReserved)
	}
	found := false
	for _, f := range s.store.Folders() {
		if f.ID == id {
			found = true
			break
		}
	}
	if !found {
		return models.Folder{}, apperr.ErrNotFound
	}
	s.store.UpdateFolder(id, name)
	for _, f := range s.store.Folders() {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Folder{}, apperr.ErrNotFound
}

// DeleteFolder removes a folder, unfiling its notes. Synthetic folders are
// refused.
func (s *Service) DeleteFolder(id string) error {
	if models.IsSyntheticFolder(id) {
		return fmt.Errorf("folder %q: %w", id, apperr.ErrReserved)
	}
	found := false
	for _, f := range s.store.Folders() {
		if f.ID == id {
			found = true
			break
		}
	}
	if !found {
		return apperr.ErrNotFound
	}
	s.store.DeleteFolder(id)
	return nil
}

// Settings returns the current app settings.
func (s *Service) Settings() models.AppSettings {
	return s.store.Settings()
}

// UpdateSettings applies a partial settings mutation and returns the result.
func (s *Service) UpdateSettings(u notestore.SettingsUpdate) models.AppSettings {
	s.store.UpdateSettings(u)
	return s.store.Settings()
}

// UploadImage stores an uploaded file in the managed directory and returns
// its reference, probing pixel dimensions when the format is recognised.
func (s *Service) UploadImage(r io.Reader, originalName string) (ImageUploadResponse, error) {
	uri, size, err := s.images.SaveFrom(r, originalName)
	if err != nil {
		return ImageUploadResponse{}, err
	}
	resp := ImageUploadResponse{
		ID:   uuid.NewString(),
		URI:  uri,
		Size: size,
	}
	if w, h, err := s.images.ImageSize(uri); err == nil {
		resp.Width = w
		resp.Height = h
	}
	return resp, nil
}

// StorageSize reports the managed image directory size.
func (s *Service) StorageSize() StorageResponse {
	bytes := s.images.StorageSize()
	return StorageResponse{Bytes: bytes, Human: images.FormatFileSize(bytes)}
}

// ImagesDir exposes the managed directory for file serving.
func (s *Service) ImagesDir() string {
	return s.images.Dir()
}
