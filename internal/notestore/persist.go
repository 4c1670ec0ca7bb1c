package notestore

import (
	"errors"
	"log/slog"
	"time"

	"github.com/synexim/linen/internal/apperr"
	"github.com/synexim/linen/internal/kvstore"
	"github.com/synexim/linen/internal/models"
)

// Load hydrates the store from the three persisted keys. Each key is read
// and decoded independently:
//
//   - notes: absent or corrupt data leaves the in-memory collection
//     untouched, so an AddNote that raced ahead of Load during startup is
//     never destroyed.
//   - folders: the synthetic "all" and "favorites" folders are re-inserted
//     at positions 0 and 1 when missing (healing for older blobs); an
//     absent or corrupt blob resets to defaults.
//   - settings: persisted keys win, missing keys fall back to defaults.
//
// A failed read or decode is logged and never fails startup.
func (s *Store) Load() {
	if data, err := s.kv.Get(kvstore.KeyNotes); err == nil {
		if notes, decErr := decodeNotes(data); decErr == nil {
			s.mu.Lock()
			s.notes = notes
			s.mu.Unlock()
		} else {
			s.logger.Warn("load: decode notes failed", slog.String("error", decErr.Error()))
		}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		s.logger.Warn("load: read notes failed", slog.String("error", err.Error()))
	}

	folders := models.DefaultFolders(time.Now().UnixMilli())
	if data, err := s.kv.Get(kvstore.KeyFolders); err == nil {
		if parsed, decErr := decodeFolders(data); decErr == nil {
			folders = healFolders(parsed)
		} else {
			s.logger.Warn("load: decode folders failed", slog.String("error", decErr.Error()))
		}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		s.logger.Warn("load: read folders failed", slog.String("error", err.Error()))
	}
	s.mu.Lock()
	s.folders = folders
	s.mu.Unlock()

	settings := models.DefaultSettings()
	if data, err := s.kv.Get(kvstore.KeySettings); err == nil {
		if merged, decErr := decodeSettings(data); decErr == nil {
			settings = merged
		} else {
			s.logger.Warn("load: decode settings failed", slog.String("error", decErr.Error()))
		}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		s.logger.Warn("load: read settings failed", slog.String("error", err.Error()))
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// healFolders guarantees the synthetic folders are present, "all" at index
// 0 and "favorites" at index 1, regardless of what was persisted.
func healFolders(folders []models.Folder) []models.Folder {
	hasAll, hasFav := false, false
	for _, f := range folders {
		switch f.ID {
		case models.FolderAll:
			hasAll = true
		case models.FolderFavorites:
			hasFav = true
		}
	}
	if hasAll && hasFav {
		return folders
	}
	defaults := models.DefaultFolders(time.Now().UnixMilli())
	out := folders
	if !hasAll {
		out = append([]models.Folder{defaults[0]}, out...)
	}
	if !hasFav {
		idx := 1
		if len(out) < 1 {
			idx = 0
		}
		rest := make([]models.Folder, 0, len(out)+1)
		rest = append(rest, out[:idx]...)
		rest = append(rest, defaults[1])
		rest = append(rest, out[idx:]...)
		out = rest
	}
	return out
}

// scheduleSave issues a fire-and-forget persistence write. There is no
// write queue: overlapping writes are resolved last-writer-wins per key,
// which is sound because all mutation is serialized by the store mutex.
func (s *Store) scheduleSave() {
	s.saveWG.Add(1)
	go func() {
		defer s.saveWG.Done()
		if err := s.SaveNow(); err != nil {
			s.logger.Warn("background save failed", slog.String("error", err.Error()))
		}
	}()
}

// SaveNow serializes notes, folders, and settings and writes each to its
// own key. Not transactional across keys: folder and settings gaps are
// repaired by Load's healing, a lost notes write is the accepted worst
// case. Returns the first error encountered but attempts all three writes.
func (s *Store) SaveNow() error {
	s.mu.Lock()
	notes := make([]models.Note, len(s.notes))
	copy(notes, s.notes)
	folders := make([]models.Folder, len(s.folders))
	copy(folders, s.folders)
	settings := s.settings
	s.mu.Unlock()

	var first error
	if data, err := encodeNotes(notes); err == nil {
		if err := s.kv.Set(kvstore.KeyNotes, data); err != nil && first == nil {
			first = err
		}
	} else if first == nil {
		first = err
	}
	if data, err := encodeFolders(folders); err == nil {
		if err := s.kv.Set(kvstore.KeyFolders, data); err != nil && first == nil {
			first = err
		}
	} else if first == nil {
		first = err
	}
	if data, err := encodeSettings(settings); err == nil {
		if err := s.kv.Set(kvstore.KeySettings, data); err != nil && first == nil {
			first = err
		}
	} else if first == nil {
		first = err
	}
	return first
}
