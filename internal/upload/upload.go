package upload

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// FieldName is the multipart form field carrying the profile image.
const FieldName = "profile_image"

// MaxFileSize caps uploads at 2 MiB.
const MaxFileSize = 2 << 20

var (
	ErrTooLarge = errors.New("image must not exceed 2MB")
	ErrBadType  = errors.New("only JPG, JPEG, PNG allowed")
)

// Manager stores profile images under a public-servable directory and hands
// back relative references of the form /uploads/<name>.
type Manager struct {
	dir string
}

func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Save validates type and size, writes the file under a collision-resistant
// name and returns the public reference. Rejected files are never persisted.
func (m *Manager) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	mt := mimetype.Detect(head[:n])
	switch mt.String() {
	case "image/jpeg", "image/png":
	default:
		return "", ErrBadType
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = mt.Extension()
	}
	name := fmt.Sprintf("profile-%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)

	dst, err := os.Create(filepath.Join(m.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := dst.Write(head[:n]); err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// Remove deletes a previously stored file. A missing file is not an error so
// the call stays idempotent. The reference is reduced to its base name to
// keep deletes inside the upload dir.
func (m *Manager) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.dir, path.Base(ref)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
