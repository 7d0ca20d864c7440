package exstruct

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultImagesDir is the images directory inside the output directory.
const DefaultImagesDir = "images"

// DirSink writes media and output documents below a root directory.
type DirSink struct {
	root   string
	subdir string
}

// NewDirSink returns a sink saving media under root/subdir. The directories
// are created on first write or by Prepare.
func NewDirSink(root, subdir string) *DirSink {
	return &DirSink{root: root, subdir: subdir}
}

// Prepare creates the media directory so the output layout exists even for
// workbooks without pictures.
func (s *DirSink) Prepare() error {
	abs, err := s.safePath(s.subdir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("output: mkdir: %w", err)
	}
	return nil
}

// Save copies r to <subdir>/<name> and returns that path relative to the
// root, with forward slashes.
func (s *DirSink) Save(name string, r io.Reader) (string, error) {
	if name == "" || name != path.Base(name) || name == ".." || strings.ContainsRune(name, '\\') {
		return "", fmt.Errorf("output: invalid media name: %q", name)
	}
	rel := path.Join(s.subdir, name)
	abs, err := s.safePath(rel)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(abs, func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	}); err != nil {
		return "", err
	}
	return rel, nil
}

// WriteFile writes data to rel below the root.
func (s *DirSink) WriteFile(rel string, data []byte) error {
	abs, err := s.safePath(rel)
	if err != nil {
		return err
	}
	return writeAtomic(abs, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// safePath resolves rel against the root and rejects any result that
// escapes it.
func (s *DirSink) safePath(rel string) (string, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("output: resolve root: %w", err)
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("output: absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(root, cleaned)
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("output: path escapes output directory: %s", rel)
	}
	return abs, nil
}

// writeAtomic writes through a temp file in the target directory and
// renames it into place.
func writeAtomic(abs string, fill func(io.Writer) error) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("output: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".exstruct-tmp-*")
	if err != nil {
		return fmt.Errorf("output: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := fill(tmp); err != nil {
		return fmt.Errorf("output: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("output: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("output: chmod: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("output: rename: %w", err)
	}
	success = true
	return nil
}
