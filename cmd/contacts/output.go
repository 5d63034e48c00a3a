package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/contacts/internal/contact"
)

// yamlOut writes data as a YAML document to w.
func yamlOut(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// printContacts renders cs as a table.
func printContacts(w io.Writer, cs []contact.Contact) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "PHONE", "EMAIL", "NOTES")
	for _, c := range cs {
		t.Row(c.Name, c.Phone, c.Email, c.Notes)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// printDetails renders a single contact on one line.
func printDetails(w io.Writer, c contact.Contact) {
	_, _ = fmt.Fprintf(w, "Name: %s, Phone Number: %s, Email Address: %s, Notes: %s\n",
		c.Name, c.Phone, c.Email, c.Notes)
}
