package storage

import (
	"log/slog"

	"github.com/smileynet/contacts/internal/contact"
)

// Files opens record files by path for one-off imports and exports.
type Files struct {
	logger *slog.Logger
}

// NewFiles returns a Files that logs through logger; nil discards.
func NewFiles(logger *slog.Logger) Files {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Files{logger: logger}
}

// Import adds the records in path to s.
func (fs Files) Import(s *contact.Store, path string) (contact.ImportResult, error) {
	return NewFile(path, WithLogger(fs.logger)).ImportInto(s)
}

// Export writes every contact in s to path, replacing its contents.
func (fs Files) Export(s *contact.Store, path string) error {
	return NewFile(path, WithLogger(fs.logger)).Save(s)
}
