// Package menu implements the interactive contact menu: a Bubble Tea
// program that drives a contact.Store through numbered menu choices,
// input forms and a delete confirmation screen.
package menu

import "github.com/smileynet/contacts/internal/contact"

// Mode represents the current menu view mode.
type Mode int

const (
	ModeMenu    Mode = iota // Main menu with numbered choices.
	ModeForm                // Collecting input fields.
	ModeConfirm             // Asking to confirm a delete.
	ModeResults             // Showing search or list output.
)

// Files imports and exports record files by path.
type Files interface {
	Import(s *contact.Store, path string) (contact.ImportResult, error)
	Export(s *contact.Store, path string) error
}

// action identifies what a submitted form does.
type action int

const (
	actionAdd action = iota
	actionEditLookup
	actionEdit
	actionDeleteLookup
	actionSearch
	actionImport
	actionExport
)
