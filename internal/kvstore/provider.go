// Package kvstore provides keyed blob persistence for the note store. Each
// key holds one independently written JSON document; there is no
// transactionality across keys.
package kvstore

// Persisted keys owned by the note store.
const (
	KeyNotes    = "notes"
	KeyFolders  = "folders"
	KeySettings = "settings"
)

// KeyBiometric is written and read only by the lock-screen collaborator.
// Listed here for documentation; the store never touches it.
const KeyBiometric = "biometricEnabled"

// Provider is the persistence collaborator injected into the store so it
// can be faked in tests. Get returns apperr.ErrNotFound for absent keys.
type Provider interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
