// Package models defines the domain types for Linen.
package models

// FormatType discriminates which content field of a Note is authoritative.
type FormatType string

const (
	FormatPlain    FormatType = "plain"
	FormatRTF      FormatType = "rtf"
	FormatMarkdown FormatType = "markdown"
)

// Valid reports whether f is one of the known format types.
func (f FormatType) Valid() bool {
	switch f {
	case FormatPlain, FormatRTF, FormatMarkdown:
		return true
	}
	return false
}

// Synthetic folder ids. Both are computed views: "all" matches every note,
// "favorites" matches notes with IsFavorite set. Neither is deletable and
// neither may be assigned as a note's FolderID.
const (
	FolderAll       = "all"
	FolderFavorites = "favorites"
)

// IsSyntheticFolder reports whether id names one of the reserved folders.
func IsSyntheticFolder(id string) bool {
	return id == FolderAll || id == FolderFavorites
}

// Note is a user-authored document. Content is authoritative for the plain
// and markdown formats; RichContent (HTML) is authoritative for rtf, with
// Content holding the stripped plain-text derivation.
type Note struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	RichContent string      `json:"richContent"`
	FormatType  FormatType  `json:"formatType"`
	FolderID    *string     `json:"folderId"`
	IsFavorite  bool        `json:"isFavorite"`
	Images      []NoteImage `json:"images"`
	CreatedAt   int64       `json:"createdAt"`
	UpdatedAt   int64       `json:"updatedAt"`
}

// NoteImage references a locally stored image file. The file behind URI is
// owned exclusively by the note that references it.
type NoteImage struct {
	ID      string `json:"id"`
	URI     string `json:"uri"`
	Caption string `json:"caption,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Folder groups notes. The synthetic folders "all" and "favorites" must
// always be present in a folder collection.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// Note sort modes.
const (
	SortUpdatedDesc = "updated-desc"
	SortUpdatedAsc  = "updated-asc"
	SortCreatedDesc = "created-desc"
	SortCreatedAsc  = "created-asc"
)

// AppSettings holds user preferences. Persisted settings are shallow-merged
// over DefaultSettings at load so newly introduced keys get sane values.
type AppSettings struct {
	ShareFooterEnabled bool       `json:"shareFooterEnabled"`
	ShareFooterText    string     `json:"shareFooterText"`
	DefaultFormatType  FormatType `json:"defaultFormatType"`
	FontSize           string     `json:"fontSize"`
	Appearance         string     `json:"appearance"`
	NoteSort           string     `json:"noteSort"`
}

// DefaultSettings returns the fixed settings defaults.
func DefaultSettings() AppSettings {
	return AppSettings{
		ShareFooterEnabled: true,
		ShareFooterText:    "SynexIM · {time}",
		DefaultFormatType:  FormatRTF,
		FontSize:           "medium",
		Appearance:         "linen",
		NoteSort:           SortUpdatedDesc,
	}
}

// DefaultFolders returns fresh copies of the synthetic folders, "all" first.
func DefaultFolders(now int64) []Folder {
	return []Folder{
		{ID: FolderAll, Name: "All Notes", CreatedAt: now},
		{ID: FolderFavorites, Name: "Starred Notes", CreatedAt: now},
	}
}
