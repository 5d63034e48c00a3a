package contact

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the fields of a record. Embedded delimiters are not
// escaped: a field containing one shifts every later column on re-import.
const Delimiter = ","

// recordFields is the number of fields in a record: name, phone, email, notes.
const recordFields = 4

// RecordError reports a malformed record at a given line of an import.
type RecordError struct {
	Line   int // 1-based line number in the source.
	Fields int // Number of fields found.
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("contact: line %d: malformed record: got %d fields, want %d", e.Line, e.Fields, recordFields)
}

// Unwrap lets errors.Is match ErrMalformedRecord.
func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}

// ParseRecord decodes one "name,phone,email,notes" line. Surrounding
// whitespace is trimmed from the line and from each field.
func ParseRecord(line string) (Contact, error) {
	fields := strings.Split(strings.TrimSpace(line), Delimiter)
	if len(fields) != recordFields {
		return Contact{}, fmt.Errorf("%w: got %d fields, want %d", ErrMalformedRecord, len(fields), recordFields)
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return Contact{
		Name:  fields[0],
		Phone: fields[1],
		Email: fields[2],
		Notes: fields[3],
	}, nil
}

// FormatRecord encodes c as a "name,phone,email,notes" line without a
// trailing newline.
func FormatRecord(c Contact) string {
	return strings.Join([]string{c.Name, c.Phone, c.Email, c.Notes}, Delimiter)
}

// ImportResult summarizes an Import call.
type ImportResult struct {
	Imported int     // Records added to the store.
	Skipped  int     // Records whose phone number was already present.
	Errors   []error // One *RecordError per malformed line.
}

// Import adds every well-formed line to the store. Malformed lines are
// reported in the result and do not stop the batch. Records whose phone
// number is already stored are skipped: existing contacts win.
func (s *Store) Import(lines []string) ImportResult {
	var res ImportResult
	for i, line := range lines {
		c, err := ParseRecord(line)
		if err != nil {
			res.Errors = append(res.Errors, &RecordError{
				Line:   i + 1,
				Fields: len(strings.Split(strings.TrimSpace(line), Delimiter)),
			})
			continue
		}
		err = s.Add(c)
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, ErrDuplicateKey):
			res.Skipped++
		default:
			// Empty phone or a field with a line break.
			res.Errors = append(res.Errors, fmt.Errorf("contact: line %d: %w", i+1, err))
		}
	}
	return res
}

// Export returns one record line per contact in store order.
func (s *Store) Export() []string {
	lines := make([]string, len(s.contacts))
	for i, c := range s.contacts {
		lines[i] = FormatRecord(c)
	}
	return lines
}
