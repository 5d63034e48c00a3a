// Package storage reads and writes contact record files.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/smileynet/contacts/internal/contact"
)

// File is a contact record file on disk, one "name,phone,email,notes"
// line per contact.
type File struct {
	path   string
	logger *slog.Logger
}

// Option configures a File.
type Option func(*File)

// WithLogger sets the logger used for load/save diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *File) { f.logger = l }
}

// NewFile returns a File backed by path.
func NewFile(path string, opts ...Option) *File {
	f := &File{path: path}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	return f
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Load reads the file into a new store. A missing file yields an empty
// store without error; malformed lines are reported in the result.
func (f *File) Load() (*contact.Store, contact.ImportResult, error) {
	s := contact.NewStore()
	res, err := f.ImportInto(s)
	if errors.Is(err, os.ErrNotExist) {
		f.logger.Debug("contact file not found, starting empty", "path", f.path)
		return s, contact.ImportResult{}, nil
	}
	if err != nil {
		return nil, contact.ImportResult{}, err
	}
	return s, res, nil
}

// ImportInto adds the file's records to s. Records already present in s
// are skipped. The returned error wraps contact.ErrSourceUnavailable when
// the file cannot be opened or read.
func (f *File) ImportInto(s *contact.Store) (contact.ImportResult, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return contact.ImportResult{}, fmt.Errorf("%w: opening %s: %w", contact.ErrSourceUnavailable, f.path, err)
	}
	defer fh.Close()

	lines, err := ReadLines(fh)
	if err != nil {
		return contact.ImportResult{}, fmt.Errorf("%w: reading %s: %w", contact.ErrSourceUnavailable, f.path, err)
	}

	res := s.Import(lines)
	for _, recErr := range res.Errors {
		f.logger.Warn("skipping record", "path", f.path, "err", recErr)
	}
	f.logger.Debug("imported contacts", "path", f.path,
		"imported", res.Imported, "skipped", res.Skipped, "errors", len(res.Errors))
	return res, nil
}

// defaultPerm is the mode of a newly created record file.
const defaultPerm fs.FileMode = 0o644

// Save writes every contact in s to the file, replacing its contents.
// The data goes to a temporary file in the same directory first and is
// renamed into place, so a failed save leaves the old file intact. An
// existing file keeps its permission bits. The returned error wraps
// contact.ErrSinkUnavailable.
func (f *File) Save(s *contact.Store) error {
	perm := defaultPerm
	if info, err := os.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %w", contact.ErrSinkUnavailable, dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: setting mode on %s: %w", contact.ErrSinkUnavailable, tmpPath, err)
	}

	if err := writeAndClose(tmp, s.Export()); err != nil {
		return fmt.Errorf("%w: writing %s: %w", contact.ErrSinkUnavailable, tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %w", contact.ErrSinkUnavailable, f.path, err)
	}

	f.logger.Debug("saved contacts", "path", f.path, "count", s.Len())
	return nil
}

// ReadLines returns every line of r without line terminators. Lines of
// any length are accepted.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// WriteLines writes each line to w followed by a newline.
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeAndClose writes lines to fh and closes it, reporting the first error.
func writeAndClose(fh *os.File, lines []string) error {
	if err := WriteLines(fh, lines); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
