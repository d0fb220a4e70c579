// Package uploads stores goal images on disk under generated filenames.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fintrack/api/logger"
)

// MaxImageSize caps uploaded images at 5 MB.
const MaxImageSize = 5 << 20

// ErrTooLarge means the uploaded file exceeds MaxImageSize.
var ErrTooLarge = errors.New("image exceeds maximum size")

type Store struct {
	dir string
}

// New ensures the uploads directory exists.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes the uploaded file under a fresh name, keeping the original
// extension, and returns the public path ("/uploads/<name>").
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return "/uploads/" + name, nil
}

// Remove deletes a previously saved image. Failures are logged and
// swallowed: a stale file never affects data correctness.
func (s *Store) Remove(publicPath string) {
	if publicPath == "" {
		return
	}
	name := path.Base(publicPath)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		logger.Get().Warn("failed to remove goal image",
			zap.String("path", publicPath),
			zap.Error(err))
	}
}
