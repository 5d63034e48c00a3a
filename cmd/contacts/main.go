package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/contacts/internal/config"
	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/logger"
	"github.com/smileynet/contacts/internal/menu"
	"github.com/smileynet/contacts/internal/storage"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitSuccess = 0
	exitSetup   = 1 // Usage, config or startup load failure.
	exitDomain  = 2 // A contact operation failed.
)

// errSetup marks failures that happen before any contact operation runs.
var errSetup = errors.New("setup")

var _ menu.Files = storage.Files{}

// Globals holds flags shared by every command.
type Globals struct {
	Version   kong.VersionFlag `help:"Show version." short:"V"`
	File      string           `help:"Contact file loaded at startup (default from config: contact_storage.txt)." short:"f"`
	Config    string           `help:"Extra config file, applied after the user and project configs."`
	YAML      bool             `help:"Print list output as YAML instead of a table." name:"yaml"`
	LogLevel  string           `help:"Log level: debug, info, warn or error."`
	LogFormat string           `help:"Log format: text or json."`
	LogFile   string           `help:"Append logs to this file instead of stderr."`
}

// CLI is the top-level command structure for contacts.
type CLI struct {
	Globals

	Menu   MenuCmd   `cmd:"" default:"1" help:"Open the interactive menu (default)."`
	Add    AddCmd    `cmd:"" help:"Add a new contact."`
	Edit   EditCmd   `cmd:"" help:"Edit an existing contact; omitted fields keep their value."`
	Delete DeleteCmd `cmd:"" help:"Delete a contact."`
	Show   ShowCmd   `cmd:"" help:"Show one contact."`
	Search SearchCmd `cmd:"" help:"Search contacts by name (case-insensitive)."`
	List   ListCmd   `cmd:"" help:"Display all contacts."`
	Import ImportCmd `cmd:"" help:"Import contacts from a text file."`
	Export ExportCmd `cmd:"" help:"Export contacts to a text file."`
}

// session is the loaded state every command works against.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	file   *storage.File
	store  *contact.Store
	yaml   bool
}

// loadConfig loads layered config from user, project and explicit paths with env overrides.
func loadConfig(extra string) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contacts/config.yaml"),
		".contacts.yaml",
		extra,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open loads config, builds the logger and reads the default contact file.
func (g *Globals) open() (*session, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errSetup, err)
	}

	// Apply CLI flag overrides.
	if g.File != "" {
		cfg.Storage.File = g.File
	}
	if g.YAML {
		cfg.Output.Format = "yaml"
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if g.LogFile != "" {
		cfg.Log.File = g.LogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errSetup, err)
	}
	return openSession(cfg, logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}))
}

// openSession reads cfg's contact file into a new session.
func openSession(cfg *config.Config, log *slog.Logger) (*session, error) {
	file := storage.NewFile(cfg.Storage.File, storage.WithLogger(log))
	store, res, err := file.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errSetup, err)
	}
	if n := len(res.Errors); n > 0 {
		log.Warn("contact file has malformed records", "path", file.Path(), "count", n)
	}
	return &session{
		cfg:    cfg,
		logger: log,
		file:   file,
		store:  store,
		yaml:   cfg.Output.Format == "yaml",
	}, nil
}

// commit writes the store back to the contact file when autosave is on.
func (s *session) commit() error {
	if !s.cfg.Storage.Autosave {
		s.logger.Debug("autosave off, changes kept in memory only")
		return nil
	}
	return s.file.Save(s.store)
}

// --- Add ---

// AddCmd adds a new contact.
type AddCmd struct {
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"Phone number; must be unique."`
	Email string `help:"Email address."`
	Notes string `help:"Additional information (e.g. address, notes)."`
}

// Run executes the add command.
func (a *AddCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return a.run(os.Stdout, s)
}

func (a *AddCmd) run(w io.Writer, s *session) error {
	c := contact.Contact{
		Name:  strings.TrimSpace(a.Name),
		Phone: strings.TrimSpace(a.Phone),
		Email: strings.TrimSpace(a.Email),
		Notes: strings.TrimSpace(a.Notes),
	}
	if err := s.store.Add(c); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	if err := s.commit(); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	_, _ = fmt.Fprintln(w, "Contact successfully added.")
	return nil
}

// --- Edit ---

// EditCmd edits an existing contact.
type EditCmd struct {
	Phone string `arg:"" help:"Phone number of the contact to edit."`
	Name  string `help:"New name."`
	Email string `help:"New email address."`
	Notes string `help:"New notes."`
}

// Run executes the edit command.
func (e *EditCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	return e.run(os.Stdout, s)
}

func (e *EditCmd) run(w io.Writer, s *session) error {
	err := s.store.Edit(strings.TrimSpace(e.Phone), contact.Changes{
		Name:  strings.TrimSpace(e.Name),
		Email: strings.TrimSpace(e.Email),
		Notes: strings.TrimSpace(e.Notes),
	})
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	if err := s.commit(); err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	_, _ = fmt.Fprintln(w, "Contact successfully updated.")
	return nil
}

// --- Delete ---

// DeleteCmd deletes a contact after confirmation.
type DeleteCmd struct {
	Phone string `arg:"" help:"Phone number of the contact to delete."`
	Yes   bool   `help:"Delete without asking." short:"y"`
}

// Run executes the delete command.
func (d *DeleteCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return d.run(os.Stdout, os.Stdin, s)
}

func (d *DeleteCmd) run(w io.Writer, in io.Reader, s *session) error {
	phone := strings.TrimSpace(d.Phone)
	c, err := s.store.Get(phone)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	confirmed := d.Yes
	if !confirmed {
		_, _ = fmt.Fprintf(w, "Are you sure you want to delete the contact for %s? (yes/no): ", c.Name)
		confirmed = readYes(in)
	}

	err = s.store.Delete(phone, confirmed)
	if errors.Is(err, contact.ErrCancelled) {
		_, _ = fmt.Fprintln(w, "Deletion canceled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if err := s.commit(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	_, _ = fmt.Fprintln(w, "Contact successfully deleted.")
	return nil
}

// readYes reads one line from in and reports whether it is "yes".
func readYes(in io.Reader) bool {
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}

// --- Show ---

// ShowCmd prints one contact.
type ShowCmd struct {
	Phone string `arg:"" help:"Phone number of the contact to show."`
}

// Run executes the show command.
func (c *ShowCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return c.run(os.Stdout, s)
}

func (c *ShowCmd) run(w io.Writer, s *session) error {
	found, err := s.store.Get(strings.TrimSpace(c.Phone))
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	if s.yaml {
		return yamlOut(w, found)
	}
	printDetails(w, found)
	return nil
}

// --- Search ---

// SearchCmd lists contacts whose name matches a query.
type SearchCmd struct {
	Query string `arg:"" optional:"" help:"Part of a name; empty lists everyone."`
}

// Run executes the search command.
func (c *SearchCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return c.run(os.Stdout, s)
}

func (c *SearchCmd) run(w io.Writer, s *session) error {
	found := s.store.Search(strings.TrimSpace(c.Query))
	if s.yaml {
		return yamlOut(w, found)
	}
	if len(found) == 0 {
		_, _ = fmt.Fprintln(w, "No contacts found.")
		return nil
	}
	_, _ = fmt.Fprintf(w, "Found %d contact(s):\n", len(found))
	return printContacts(w, found)
}

// --- List ---

// ListCmd displays all contacts.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return c.run(os.Stdout, s)
}

func (c *ListCmd) run(w io.Writer, s *session) error {
	entries := s.store.List()
	cs := make([]contact.Contact, len(entries))
	for i, e := range entries {
		cs[i] = e.Contact
	}
	if s.yaml {
		return yamlOut(w, cs)
	}
	if len(cs) == 0 {
		_, _ = fmt.Fprintln(w, "No contacts available.")
		return nil
	}
	return printContacts(w, cs)
}

// --- Import ---

// ImportCmd imports contacts from a record file.
type ImportCmd struct {
	Path string `arg:"" help:"File to import from." type:"path"`
}

// Run executes the import command.
func (c *ImportCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return c.run(os.Stdout, s, storage.NewFiles(s.logger))
}

func (c *ImportCmd) run(w io.Writer, s *session, files menu.Files) error {
	res, err := files.Import(s.store, c.Path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if res.Imported > 0 {
		if err := s.commit(); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	_, _ = fmt.Fprintf(w, "Contacts successfully imported: %d added, %d already present.\n", res.Imported, res.Skipped)
	for _, recErr := range res.Errors {
		_, _ = fmt.Fprintf(w, "warning: %v\n", recErr)
	}
	if n := len(res.Errors); n > 0 {
		return fmt.Errorf("import: %d record(s) rejected: %w", n, errors.Join(res.Errors...))
	}
	return nil
}

// --- Export ---

// ExportCmd exports contacts to a record file.
type ExportCmd struct {
	Path string `arg:"" help:"File to export to." type:"path"`
}

// Run executes the export command.
func (c *ExportCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return c.run(os.Stdout, s, storage.NewFiles(s.logger))
}

func (c *ExportCmd) run(w io.Writer, s *session, files menu.Files) error {
	if err := files.Export(s.store, c.Path); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Contacts successfully exported to %s.\n", c.Path)
	return nil
}

// --- Menu ---

// MenuCmd opens the interactive menu.
type MenuCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds the menu model and launches the program.
func (c *MenuCmd) Run(g *Globals) error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !isTTY {
		return fmt.Errorf("menu: %w: requires a terminal (TTY); use a subcommand instead", errSetup)
	}
	s, err := g.open()
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	m := menu.NewModel(s.store, storage.NewFiles(s.logger))
	return c.run(isTTY, tea.NewProgram(m, tea.WithAltScreen()), s)
}

// run executes the tea program and saves the store if the menu changed it.
func (c *MenuCmd) run(isTTY bool, prog teaRunner, s *session) error {
	if !isTTY {
		return fmt.Errorf("menu: %w: requires a terminal (TTY)", errSetup)
	}
	final, err := prog.Run()
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	if m, ok := final.(menu.Model); ok && m.Dirty() {
		if err := s.commit(); err != nil {
			return fmt.Errorf("menu: %w", err)
		}
	}
	return nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, errSetup) {
		return exitSetup
	}
	for _, kind := range []error{
		contact.ErrDuplicateKey,
		contact.ErrNotFound,
		contact.ErrCancelled,
		contact.ErrMalformedRecord,
		contact.ErrSourceUnavailable,
		contact.ErrSinkUnavailable,
		contact.ErrEmptyKey,
		contact.ErrInvalidField,
	} {
		if errors.Is(err, kind) {
			return exitDomain
		}
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contacts"),
		kong.Description("Manage contacts stored as comma-delimited text."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
