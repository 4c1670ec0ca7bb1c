package api

import (
	"encoding/json"
	"fmt"

	"github.com/synexim/linen/internal/models"
	"github.com/synexim/linen/internal/notestore"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	RichContent string             `json:"richContent"`
	FormatType  string             `json:"formatType"`
	FolderID    *string            `json:"folderId"`
	IsFavorite  bool               `json:"isFavorite"`
	Images      []models.NoteImage `json:"images"`
}

// CreateFolderRequest is the request body for creating a folder.
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// UpdateFolderRequest is the request body for renaming a folder.
type UpdateFolderRequest struct {
	Name string `json:"name"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
	Total int           `json:"total"`
}

// FolderListResponse wraps folder listings.
type FolderListResponse struct {
	Folders []models.Folder `json:"folders"`
}

// ExportResponse is the plain-text export of a note.
type ExportResponse struct {
	Text string `json:"text"`
}

// ImageUploadResponse is returned after a successful image upload.
type ImageUploadResponse struct {
	ID     string `json:"id"`
	URI    string `json:"uri"`
	Size   int64  `json:"size"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// StorageResponse reports the managed image directory size.
type StorageResponse struct {
	Bytes int64  `json:"bytes"`
	Human string `json:"human"`
}

func parseFormat(s string) (models.FormatType, error) {
	switch models.FormatType(s) {
	case models.FormatPlain, models.FormatRTF, models.FormatMarkdown:
		return models.FormatType(s), nil
	}
	return "", fmt.Errorf("unknown format type %q", s)
}

// decodeNoteUpdate builds a partial note mutation, distinguishing absent
// fields from explicit nulls (folderId: null means "move to unfiled").
func decodeNoteUpdate(body []byte) (notestore.NoteUpdate, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return notestore.NoteUpdate{}, err
	}

	var u notestore.NoteUpdate
	if v, ok := raw["title"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return u, fmt.Errorf("title: %w", err)
		}
		u.Title = &s
	}
	if v, ok := raw["content"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return u, fmt.Errorf("content: %w", err)
		}
		u.Content = &s
	}
	if v, ok := raw["richContent"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return u, fmt.Errorf("richContent: %w", err)
		}
		u.RichContent = &s
	}
	if v, ok := raw["formatType"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return u, fmt.Errorf("formatType: %w", err)
		}
		ft, err := parseFormat(s)
		if err != nil {
			return u, err
		}
		u.FormatType = &ft
	}
	if v, ok := raw["folderId"]; ok {
		u.SetFolder = true
		if string(v) != "null" {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return u, fmt.Errorf("folderId: %w", err)
			}
			u.FolderID = &s
		}
	}
	if v, ok := raw["isFavorite"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return u, fmt.Errorf("isFavorite: %w", err)
		}
		u.IsFavorite = &b
	}
	if v, ok := raw["images"]; ok {
		u.SetImages = true
		if string(v) != "null" {
			var imgs []models.NoteImage
			if err := json.Unmarshal(v, &imgs); err != nil {
				return u, fmt.Errorf("images: %w", err)
			}
			u.Images = imgs
		}
	}
	return u, nil
}

// decodeSettingsUpdate builds a partial settings mutation from the body.
func decodeSettingsUpdate(body []byte) (notestore.SettingsUpdate, error) {
	var req struct {
		ShareFooterEnabled *bool   `json:"shareFooterEnabled"`
		ShareFooterText    *string `json:"shareFooterText"`
		DefaultFormatType  *string `json:"defaultFormatType"`
		FontSize           *string `json:"fontSize"`
		Appearance         *string `json:"appearance"`
		NoteSort           *string `json:"noteSort"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return notestore.SettingsUpdate{}, err
	}
	u := notestore.SettingsUpdate{
		ShareFooterEnabled: req.ShareFooterEnabled,
		ShareFooterText:    req.ShareFooterText,
		FontSize:           req.FontSize,
		Appearance:         req.Appearance,
		NoteSort:           req.NoteSort,
	}
	if req.DefaultFormatType != nil {
		ft, err := parseFormat(*req.DefaultFormatType)
		if err != nil {
			return u, err
		}
		u.DefaultFormatType = &ft
	}
	return u, nil
}
