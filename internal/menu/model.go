package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/contacts/internal/contact"
)

// menuItems are the main menu choices, in display order.
var menuItems = []string{
	"Add a new contact",
	"Edit an existing contact",
	"Delete a contact",
	"Search for a contact",
	"Display all contacts",
	"Import contacts from a text file",
	"Export contacts to a text file",
	"Quit",
}

// Model is the root Bubble Tea model for the contact menu.
type Model struct {
	store   *contact.Store
	files   Files
	mode    Mode
	cursor  int
	form    formState
	confirm confirmState
	results []string
	status  string
	failed  bool
	dirty   bool
	width   int
	help    help.Model
}

// NewModel creates a Model on the main menu.
func NewModel(store *contact.Store, files Files) Model {
	return Model{
		store: store,
		files: files,
		mode:  ModeMenu,
		help:  help.New(),
	}
}

// Dirty reports whether the store changed since the model was created.
func (m Model) Dirty() bool { return m.dirty }

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case formSubmitMsg:
		return m.submit(msg)

	case formCancelMsg:
		m.mode = ModeMenu
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeForm:
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		case ModeResults:
			if key.Matches(msg, ResultsKeyMap().Back) {
				m.mode = ModeMenu
			}
			return m, nil
		default:
			return m.handleMenuKey(msg)
		}
	}

	if m.mode == ModeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleMenuKey moves the cursor or dispatches a menu choice.
func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := MenuKeyMap()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.cursor = (m.cursor - 1 + len(menuItems)) % len(menuItems)
	case key.Matches(msg, keys.Down):
		m.cursor = (m.cursor + 1) % len(menuItems)
	case key.Matches(msg, keys.Enter):
		return m.choose(m.cursor)
	case key.Matches(msg, keys.Choose):
		m.cursor = int(msg.String()[0] - '1')
		return m.choose(m.cursor)
	}
	return m, nil
}

// choose starts the flow for menu item i.
func (m Model) choose(i int) (tea.Model, tea.Cmd) {
	m.status = ""
	m.failed = false
	switch i {
	case 0:
		return m.openForm(newForm("Add a new contact", actionAdd,
			field{label: "Name"},
			field{label: "Phone number"},
			field{label: "Email address"},
			field{label: "Notes (e.g. address)"},
		))
	case 1:
		return m.openForm(newForm("Edit an existing contact", actionEditLookup,
			field{label: "Phone number"},
		))
	case 2:
		return m.openForm(newForm("Delete a contact", actionDeleteLookup,
			field{label: "Phone number of the contact to delete"},
		))
	case 3:
		return m.openForm(newForm("Search for a contact", actionSearch,
			field{label: "Name", placeholder: "blank lists everyone"},
		))
	case 4:
		m.showList()
		return m, nil
	case 5:
		return m.openForm(newForm("Import contacts from a text file", actionImport,
			field{label: "Filename to import from"},
		))
	case 6:
		return m.openForm(newForm("Export contacts to a text file", actionExport,
			field{label: "Filename to export to"},
		))
	default:
		return m, tea.Quit
	}
}

func (m Model) openForm(fs formState) (tea.Model, tea.Cmd) {
	m.form = fs
	m.mode = ModeForm
	return m, nil
}

// submit applies a completed form to the store.
func (m Model) submit(msg formSubmitMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeMenu
	v := msg.values

	switch msg.action {
	case actionAdd:
		err := m.store.Add(contact.Contact{Name: v[0], Phone: v[1], Email: v[2], Notes: v[3]})
		m.dirty = m.dirty || err == nil
		m.report(err, "Contact successfully added.")

	case actionEditLookup:
		c, err := m.store.Get(v[0])
		if err != nil {
			m.report(err, "")
			return m, nil
		}
		fs := newForm("Edit "+c.Name, actionEdit,
			field{label: "New name (blank keeps current)", placeholder: c.Name},
			field{label: "New email address (blank keeps current)", placeholder: c.Email},
			field{label: "New notes (blank keeps current)", placeholder: c.Notes},
		)
		fs.phone = c.Phone
		return m.openForm(fs)

	case actionEdit:
		err := m.store.Edit(msg.phone, contact.Changes{Name: v[0], Email: v[1], Notes: v[2]})
		m.dirty = m.dirty || err == nil
		m.report(err, "Contact successfully updated.")

	case actionDeleteLookup:
		c, err := m.store.Get(v[0])
		if err != nil {
			m.report(err, "")
			return m, nil
		}
		m.confirm = confirmState{target: c}
		m.mode = ModeConfirm

	case actionSearch:
		found := m.store.Search(v[0])
		if len(found) == 0 {
			m.report(nil, "No contacts found.")
			return m, nil
		}
		lines := []string{fmt.Sprintf("Found %d contact(s):", len(found))}
		for _, c := range found {
			lines = append(lines, formatDetails(c))
		}
		m.results = lines
		m.mode = ModeResults

	case actionImport:
		res, err := m.files.Import(m.store, v[0])
		if err != nil {
			m.report(err, "")
			return m, nil
		}
		if res.Imported > 0 {
			m.dirty = true
		}
		text := fmt.Sprintf("Contacts successfully imported (%d added, %d already present).", res.Imported, res.Skipped)
		if n := len(res.Errors); n > 0 {
			text += fmt.Sprintf(" %d malformed line(s) skipped.", n)
		}
		m.status, m.failed = text, false

	case actionExport:
		err := m.files.Export(m.store, v[0])
		m.report(err, fmt.Sprintf("Contacts successfully exported to %s.", v[0]))
	}
	return m, nil
}

// handleConfirmKey deletes on y and cancels on anything else.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirmed := key.Matches(msg, ConfirmKeyMap().Yes)
	err := m.store.Delete(m.confirm.target.Phone, confirmed)
	m.dirty = m.dirty || err == nil
	m.mode = ModeMenu
	m.report(err, "Contact successfully deleted.")
	return m, nil
}

// showList switches to results with every contact.
func (m *Model) showList() {
	entries := m.store.List()
	if len(entries) == 0 {
		m.report(nil, "No contacts available.")
		return
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = formatDetails(e.Contact)
	}
	m.results = lines
	m.mode = ModeResults
}

// report sets the status line from an operation outcome.
func (m *Model) report(err error, success string) {
	if err == nil {
		m.status, m.failed = success, false
		return
	}
	m.status, m.failed = describe(err), !errors.Is(err, contact.ErrCancelled)
}

// describe maps an error kind to the message shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, contact.ErrDuplicateKey):
		return "This contact already exists."
	case errors.Is(err, contact.ErrNotFound):
		return "Contact does not exist."
	case errors.Is(err, contact.ErrCancelled):
		return "Deletion canceled."
	case errors.Is(err, contact.ErrEmptyKey):
		return "A phone number is required."
	case errors.Is(err, contact.ErrSourceUnavailable):
		return fmt.Sprintf("Could not read the file: %v", err)
	case errors.Is(err, contact.ErrSinkUnavailable):
		return fmt.Sprintf("An error occurred while exporting contacts: %v", err)
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}

// View renders the current mode with the help bar.
func (m Model) View() string {
	var body string
	switch m.mode {
	case ModeForm:
		body = m.form.View()
	case ModeConfirm:
		body = m.confirm.View()
	case ModeResults:
		body = strings.Join(m.results, "\n")
	default:
		body = m.viewMenu()
	}

	parts := []string{body}
	if m.mode == ModeMenu {
		if s := statusLine(m.status, m.failed); s != "" {
			parts = append(parts, "", s)
		}
	}
	parts = append(parts, "", m.help.View(HelpBindings(m.mode)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// viewMenu renders the welcome banner and numbered choices.
func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to the Contact Management System!"))
	fmt.Fprintf(&b, "\n%d contact(s)\n\nMenu:\n", m.store.Len())
	for i, item := range menuItems {
		line := fmt.Sprintf("%d. %s", i+1, item)
		if i == m.cursor {
			b.WriteString(CursorMarker + selectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HelpBindings returns the key map shown in the help bar for mode.
func HelpBindings(mode Mode) help.KeyMap {
	switch mode {
	case ModeForm:
		return FormKeyMap()
	case ModeConfirm:
		return ConfirmKeyMap()
	case ModeResults:
		return ResultsKeyMap()
	default:
		return MenuKeyMap()
	}
}
