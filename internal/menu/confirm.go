package menu

import (
	"fmt"
	"strings"

	"github.com/smileynet/contacts/internal/contact"
)

// confirmState holds the contact awaiting a delete decision.
type confirmState struct {
	target contact.Contact
}

// View renders the confirmation question.
func (cs confirmState) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Are you sure you want to delete the contact for %s?\n", cs.target.Name)
	fmt.Fprintf(&b, "\n  %s\n", formatDetails(cs.target))
	b.WriteString("\n  [y] Delete   [any other key] Cancel")
	return b.String()
}

// formatDetails renders one contact on a single line.
func formatDetails(c contact.Contact) string {
	return fmt.Sprintf("Name: %s, Phone Number: %s, Email Address: %s, Notes: %s",
		c.Name, c.Phone, c.Email, c.Notes)
}
