package menu

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/contact"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// fakeFiles records Import/Export calls.
type fakeFiles struct {
	importLines []string
	importErr   error
	exportErr   error
	exported    map[string][]string
}

func (f *fakeFiles) Import(s *contact.Store, path string) (contact.ImportResult, error) {
	if f.importErr != nil {
		return contact.ImportResult{}, f.importErr
	}
	return s.Import(f.importLines), nil
}

func (f *fakeFiles) Export(s *contact.Store, path string) error {
	if f.exportErr != nil {
		return f.exportErr
	}
	if f.exported == nil {
		f.exported = map[string][]string{}
	}
	f.exported[path] = s.Export()
	return nil
}

var errDiskFull = errors.New("disk full")

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

// press sends msg to m. Commands produced by form submit and cancel are
// run and fed back so the flow completes synchronously; other commands
// (cursor blink ticks) are dropped.
func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd == nil {
			continue
		}
		if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyEnter || k.Type == tea.KeyEsc) {
			switch out := cmd().(type) {
			case formSubmitMsg, formCancelMsg:
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

// typeText sends each rune of s as its own key press.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, runes(string(r)))
	}
	return m
}

// fillForm types each value into successive fields and submits.
func fillForm(t *testing.T, m Model, values ...string) Model {
	t.Helper()
	for _, v := range values {
		m = typeText(t, m, v)
		m = press(t, m, enterKey)
	}
	return m
}
