package notestore

import (
	"sort"
	"strings"

	"github.com/synexim/linen/internal/models"
)

// FilteredNotes returns the notes visible under a folder selection and
// search query, sorted per the configured note sort. folderID semantics:
// "all" (or empty) matches everything, "favorites" matches starred notes,
// any other id matches FolderID. The query is matched case-insensitively
// against title and content.
func (s *Store) FilteredNotes(folderID, query string) []models.Note {
	s.mu.Lock()
	notes := make([]models.Note, 0, len(s.notes))
	notes = append(notes, s.notes...)
	noteSort := s.settings.NoteSort
	s.mu.Unlock()

	q := strings.ToLower(query)
	filtered := notes[:0]
	for _, n := range notes {
		if !folderMatches(n, folderID) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Content), q) {
			continue
		}
		filtered = append(filtered, n)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch noteSort {
		case models.SortUpdatedAsc:
			return a.UpdatedAt < b.UpdatedAt
		case models.SortCreatedDesc:
			return a.CreatedAt > b.CreatedAt
		case models.SortCreatedAsc:
			return a.CreatedAt < b.CreatedAt
		default: // updated-desc
			return a.UpdatedAt > b.UpdatedAt
		}
	})
	return filtered
}

// CountNotes returns how many notes a folder view contains.
func (s *Store) CountNotes(folderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notes {
		if folderMatches(n, folderID) {
			count++
		}
	}
	return count
}

func folderMatches(n models.Note, folderID string) bool {
	switch folderID {
	case "", models.FolderAll:
		return true
	case models.FolderFavorites:
		return n.IsFavorite
	default:
		return n.FolderID != nil && *n.FolderID == folderID
	}
}
