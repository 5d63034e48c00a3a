package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/smileynet/contacts/internal/contact"
)

func TestFiles_ExportThenImport(t *testing.T) {
	// Given a store exported to a file
	path := filepath.Join(t.TempDir(), "export.txt")
	orig := contact.NewStore(
		contact.Contact{Name: "Ana", Phone: "555-1", Email: "a@x.com", Notes: "vip"},
		contact.Contact{Name: "Ben", Phone: "555-2"},
	)
	fs := NewFiles(nil)
	if err := fs.Export(orig, path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// When the file is imported into an empty store
	copied := contact.NewStore()
	res, err := fs.Import(copied, path)

	// Then the stores are equal
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("Imported = %d, want 2", res.Imported)
	}
	if !reflect.DeepEqual(copied.List(), orig.List()) {
		t.Errorf("imported = %+v, want %+v", copied.List(), orig.List())
	}
}

func TestFiles_ImportMissing(t *testing.T) {
	_, err := NewFiles(nil).Import(contact.NewStore(), filepath.Join(t.TempDir(), "missing.txt"))

	if !errors.Is(err, contact.ErrSourceUnavailable) {
		t.Errorf("Import(missing) error = %v, want ErrSourceUnavailable", err)
	}
}
