package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field describes one form input.
type field struct {
	label       string
	placeholder string
}

// formState holds the inputs of the active form and which one has focus.
type formState struct {
	title  string
	action action
	phone  string // Contact being edited, for actionEdit.
	inputs []textinput.Model
	labels []string
	focus  int
}

// formSubmitMsg carries the trimmed values of a submitted form.
type formSubmitMsg struct {
	action action
	phone  string
	values []string
}

// formCancelMsg signals the form was abandoned with esc.
type formCancelMsg struct{}

func newForm(title string, act action, fields ...field) formState {
	fs := formState{title: title, action: act}
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.placeholder
		in.CharLimit = 256
		if i == 0 {
			in.Focus()
		}
		fs.inputs = append(fs.inputs, in)
		fs.labels = append(fs.labels, f.label)
	}
	return fs
}

// values returns every input value with surrounding whitespace removed.
func (fs formState) values() []string {
	vals := make([]string, len(fs.inputs))
	for i, in := range fs.inputs {
		vals[i] = strings.TrimSpace(in.Value())
	}
	return vals
}

// Update processes messages for the form.
func (fs formState) Update(msg tea.Msg) (formState, tea.Cmd) {
	keys := FormKeyMap()
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Back):
			return fs, func() tea.Msg { return formCancelMsg{} }

		case key.Matches(msg, keys.Submit):
			if fs.focus < len(fs.inputs)-1 {
				return fs.moveFocus(1), nil
			}
			submit := formSubmitMsg{action: fs.action, phone: fs.phone, values: fs.values()}
			return fs, func() tea.Msg { return submit }

		case key.Matches(msg, keys.Next):
			return fs.moveFocus(1), nil

		case key.Matches(msg, keys.Prev):
			return fs.moveFocus(-1), nil
		}
	}

	if len(fs.inputs) == 0 {
		return fs, nil
	}
	var cmd tea.Cmd
	fs.inputs[fs.focus], cmd = fs.inputs[fs.focus].Update(msg)
	return fs, cmd
}

// moveFocus shifts focus by delta, wrapping around.
func (fs formState) moveFocus(delta int) formState {
	if len(fs.inputs) == 0 {
		return fs
	}
	inputs := make([]textinput.Model, len(fs.inputs))
	copy(inputs, fs.inputs)
	inputs[fs.focus].Blur()
	fs.focus = (fs.focus + delta + len(inputs)) % len(inputs)
	inputs[fs.focus].Focus()
	fs.inputs = inputs
	return fs
}

// View renders the form.
func (fs formState) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fs.title))
	b.WriteString("\n\n")
	for i, in := range fs.inputs {
		marker := "  "
		if i == fs.focus {
			marker = CursorMarker
		}
		fmt.Fprintf(&b, "%s%s\n    %s\n", marker, labelStyle.Render(fs.labels[i]), in.View())
	}
	return b.String()
}
