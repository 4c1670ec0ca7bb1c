package notestore

import (
	"encoding/json"
	"fmt"

	"github.com/synexim/linen/internal/models"
)

// schemaVersion tags every persisted blob. Version-0 blobs (the bare
// arrays/objects written before envelopes existed) are migrated
// transparently at decode time.
const schemaVersion = 1

type notesEnvelope struct {
	Version int           `json:"version"`
	Notes   []models.Note `json:"notes"`
}

type foldersEnvelope struct {
	Version int             `json:"version"`
	Folders []models.Folder `json:"folders"`
}

type settingsEnvelope struct {
	Version  int             `json:"version"`
	Settings json.RawMessage `json:"settings"`
}

func encodeNotes(notes []models.Note) ([]byte, error) {
	if notes == nil {
		notes = []models.Note{}
	}
	return json.Marshal(notesEnvelope{Version: schemaVersion, Notes: notes})
}

func decodeNotes(data []byte) ([]models.Note, error) {
	var env notesEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version >= 1 {
		return env.Notes, nil
	}
	// Legacy blob: a bare JSON array.
	var legacy []models.Note
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("notestore: decode notes: %w", err)
	}
	return legacy, nil
}

func encodeFolders(folders []models.Folder) ([]byte, error) {
	if folders == nil {
		folders = []models.Folder{}
	}
	return json.Marshal(foldersEnvelope{Version: schemaVersion, Folders: folders})
}

func decodeFolders(data []byte) ([]models.Folder, error) {
	var env foldersEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version >= 1 {
		return env.Folders, nil
	}
	var legacy []models.Folder
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("notestore: decode folders: %w", err)
	}
	return legacy, nil
}

func encodeSettings(s models.AppSettings) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(settingsEnvelope{Version: schemaVersion, Settings: raw})
}

// decodeSettings unmarshals over a defaults copy so keys missing from old
// blobs keep their default values.
func decodeSettings(data []byte) (models.AppSettings, error) {
	out := models.DefaultSettings()
	var env settingsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return out, fmt.Errorf("notestore: decode settings: %w", err)
	}
	if env.Version >= 1 {
		if len(env.Settings) > 0 {
			if err := json.Unmarshal(env.Settings, &out); err != nil {
				return models.DefaultSettings(), fmt.Errorf("notestore: decode settings: %w", err)
			}
		}
		return out, nil
	}
	// Legacy blob: the settings object itself.
	if err := json.Unmarshal(data, &out); err != nil {
		return models.DefaultSettings(), fmt.Errorf("notestore: decode settings: %w", err)
	}
	return out, nil
}
