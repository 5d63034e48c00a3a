// Package contact implements the in-memory contact store: an ordered mapping
// from phone number to contact record with add, edit, delete, search, list,
// import and export operations.
package contact

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrDuplicateKey      = errors.New("contact: phone number already exists")
	ErrNotFound          = errors.New("contact: not found")
	ErrCancelled         = errors.New("contact: cancelled")
	ErrMalformedRecord   = errors.New("contact: malformed record")
	ErrSourceUnavailable = errors.New("contact: source unavailable")
	ErrSinkUnavailable   = errors.New("contact: sink unavailable")
	ErrEmptyKey          = errors.New("contact: phone number cannot be empty")
	ErrInvalidField      = errors.New("contact: invalid field")
)

// Contact is a single person's stored details. Phone is the unique key.
type Contact struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
	Notes string `yaml:"notes"`
}

// Validate checks that c can be stored: the phone number is non-empty, no
// field spans more than one line and no field starts or ends with whitespace.
func (c Contact) Validate() error {
	if c.Phone == "" {
		return ErrEmptyKey
	}
	fields := [...]struct{ name, value string }{
		{"name", c.Name}, {"phone", c.Phone}, {"email", c.Email}, {"notes", c.Notes},
	}
	for _, f := range fields {
		if strings.ContainsAny(f.value, "\r\n") {
			return fmt.Errorf("%w: %s contains a line break", ErrInvalidField, f.name)
		}
		if strings.TrimSpace(f.value) != f.value {
			return fmt.Errorf("%w: %s has surrounding whitespace", ErrInvalidField, f.name)
		}
	}
	return nil
}

// Changes holds the fields to overwrite on Edit. A blank field keeps the
// current value.
type Changes struct {
	Name  string
	Email string
	Notes string
}

// Entry pairs a contact with its key.
type Entry struct {
	Phone   string
	Contact Contact
}

// Store is an insertion-ordered mapping from phone number to Contact.
// It is not safe for concurrent use.
type Store struct {
	index    map[string]int // phone -> position in contacts
	contacts []Contact
}

// NewStore returns a store holding cs in order. Contacts that fail
// validation or repeat an earlier phone number are dropped.
func NewStore(cs ...Contact) *Store {
	s := &Store{index: make(map[string]int, len(cs))}
	for _, c := range cs {
		_ = s.Add(c)
	}
	return s
}

// Len returns the number of contacts in the store.
func (s *Store) Len() int {
	return len(s.contacts)
}

// Add inserts c under its phone number.
func (s *Store) Add(c Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[c.Phone]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, c.Phone)
	}
	s.index[c.Phone] = len(s.contacts)
	s.contacts = append(s.contacts, c)
	return nil
}

// Get returns the contact stored under phone.
func (s *Store) Get(phone string) (Contact, error) {
	i, ok := s.index[phone]
	if !ok {
		return Contact{}, fmt.Errorf("%w: %q", ErrNotFound, phone)
	}
	return s.contacts[i], nil
}

// Edit overwrites the non-blank fields of ch on the contact stored under
// phone. The phone number itself never changes.
func (s *Store) Edit(phone string, ch Changes) error {
	i, ok := s.index[phone]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, phone)
	}
	updated := s.contacts[i]
	if ch.Name != "" {
		updated.Name = ch.Name
	}
	if ch.Email != "" {
		updated.Email = ch.Email
	}
	if ch.Notes != "" {
		updated.Notes = ch.Notes
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	s.contacts[i] = updated
	return nil
}

// Delete removes the contact stored under phone. When confirmed is false
// the store is left untouched and ErrCancelled is returned.
func (s *Store) Delete(phone string, confirmed bool) error {
	i, ok := s.index[phone]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, phone)
	}
	if !confirmed {
		return ErrCancelled
	}
	s.contacts = slices.Delete(s.contacts, i, i+1)
	delete(s.index, phone)
	for j := i; j < len(s.contacts); j++ {
		s.index[s.contacts[j].Phone] = j
	}
	return nil
}

// Search returns the contacts whose name contains query, ignoring case, in
// store order. An empty query matches every contact.
func (s *Store) Search(query string) []Contact {
	q := strings.ToLower(query)
	found := []Contact{}
	for _, c := range s.contacts {
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) {
			found = append(found, c)
		}
	}
	return found
}

// List returns every entry in store order.
func (s *Store) List() []Entry {
	entries := make([]Entry, len(s.contacts))
	for i, c := range s.contacts {
		entries[i] = Entry{Phone: c.Phone, Contact: c}
	}
	return entries
}
