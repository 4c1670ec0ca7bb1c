// Package images manages the local image directory backing note
// attachments. Files are exclusively owned by the note that references
// them; reclamation happens through CleanupUnused rather than immediate
// deletion, so a crash between an image edit and the note save never
// deletes a file a persisted note still points to.
package images

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/synexim/linen/internal/apperr"
	"github.com/synexim/linen/internal/models"
)

var extRe = regexp.MustCompile(`^[a-z0-9]{1,5}$`)

// Manager owns one managed image directory, lazily created on first use.
type Manager struct {
	dir    string
	logger *slog.Logger
}

// NewManager creates a manager rooted at dir. The directory does not need
// to exist yet.
func NewManager(dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{dir: dir, logger: logger}
}

// Dir returns the managed directory path.
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) ensureDir() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("images: create dir: %w", err)
	}
	return nil
}

// SaveLocal copies the source file into the managed directory under a
// generated name and returns the new path. The timestamp+random name makes
// collisions negligible; there is no explicit collision check. A failed
// copy wraps apperr.ErrStorage and the caller must not create a NoteImage
// record for it.
func (m *Manager) SaveLocal(sourceURI string) (string, error) {
	if err := m.ensureDir(); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(sourceURI), "."))
	if !extRe.MatchString(ext) {
		ext = "jpg"
	}
	name := fmt.Sprintf("%d_%s.%s", time.Now().UnixMilli(), randSuffix(9), ext)
	dest := filepath.Join(m.dir, name)

	if err := copyFile(sourceURI, dest); err != nil {
		return "", fmt.Errorf("%w: save image: %v", apperr.ErrStorage, err)
	}
	return dest, nil
}

// SaveFrom writes an uploaded stream into the managed directory, for
// callers that hold content rather than a source path.
func (m *Manager) SaveFrom(r io.Reader, originalName string) (string, int64, error) {
	if err := m.ensureDir(); err != nil {
		return "", 0, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !extRe.MatchString(ext) {
		ext = "jpg"
	}
	name := fmt.Sprintf("%d_%s.%s", time.Now().UnixMilli(), randSuffix(9), ext)
	dest := filepath.Join(m.dir, name)

	f, err := os.Create(dest)
	if err != nil {
		return "", 0, fmt.Errorf("%w: create image: %v", apperr.ErrStorage, err)
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", 0, fmt.Errorf("%w: write image: %v", apperr.ErrStorage, err)
	}
	return dest, written, nil
}

// DeleteLocal removes an image file. Already-gone files are a silent no-op;
// any other I/O failure is logged and swallowed so a single bad delete
// never blocks a note-save flow.
func (m *Manager) DeleteLocal(uri string) {
	if _, err := os.Stat(uri); os.IsNotExist(err) {
		return
	}
	if err := os.Remove(uri); err != nil {
		m.logger.Warn("images: delete failed",
			slog.String("uri", uri),
			slog.String("error", err.Error()))
	}
}

// CleanupUnused deletes every file in the managed directory that no
// referenced image points to. This is the sole garbage-collection
// mechanism; the owning edit flow invokes it after any note save or delete
// that changes the image set. Files vanishing between listing and deletion
// are tolerated.
func (m *Manager) CleanupUnused(used []models.NoteImage) {
	if err := m.ensureDir(); err != nil {
		m.logger.Warn("images: cleanup: ensure dir failed", slog.String("error", err.Error()))
		return
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.logger.Warn("images: cleanup: list failed", slog.String("error", err.Error()))
		return
	}

	keep := make(map[string]struct{}, len(used))
	for _, img := range used {
		if name := lastSegment(img.URI); name != "" {
			keep[name] = struct{}{}
		}
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := keep[e.Name()]; ok {
			continue
		}
		m.DeleteLocal(filepath.Join(m.dir, e.Name()))
	}
}

// StorageSize returns the total bytes of all files in the managed
// directory, 0 on any read failure.
func (m *Manager) StorageSize() int64 {
	if err := m.ensureDir(); err != nil {
		return 0
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}

// ImageSize probes the natural pixel dimensions of an image file.
func (m *Manager) ImageSize(uri string) (width, height int, err error) {
	f, err := os.Open(uri)
	if err != nil {
		return 0, 0, fmt.Errorf("images: open %s: %w", uri, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("images: decode %s: %w", uri, err)
	}
	return cfg.Width, cfg.Height, nil
}

var sizeUnits = [...]string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with binary (1024-based) prefixes and
// two decimal places, "0 B" for zero.
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	i := 0
	v := float64(bytes)
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}

// lastSegment returns the final path segment of a slash-separated uri.
func lastSegment(uri string) string {
	uri = strings.ReplaceAll(uri, string(os.PathSeparator), "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
