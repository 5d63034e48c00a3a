package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.File != "contact_storage.txt" {
		t.Errorf("default file = %q, want %q", cfg.Storage.File, "contact_storage.txt")
	}
	if !cfg.Storage.Autosave {
		t.Error("default autosave = false, want true")
	}
	if cfg.Output.Format != "table" {
		t.Errorf("default output format = %q, want %q", cfg.Output.Format, "table")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("default log level = %q, want %q", cfg.Log.Level, "warn")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "contacts.yaml", `
storage:
  file: /tmp/people.txt
  autosave: false
output:
  format: yaml
log:
  level: debug
  format: json
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.File != "/tmp/people.txt" {
		t.Errorf("file = %q, want %q", cfg.Storage.File, "/tmp/people.txt")
	}
	if cfg.Storage.Autosave {
		t.Error("autosave = true, want false")
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("output format = %q, want %q", cfg.Output.Format, "yaml")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v, want debug/json", cfg.Log)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/contacts.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "contacts.yaml", "{{invalid yaml")

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "contacts.yaml", `
storage:
  file: mine.txt
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.File != "mine.txt" {
		t.Errorf("file = %q, want %q", cfg.Storage.File, "mine.txt")
	}
	// Unset autosave must not fall to the zero value.
	if !cfg.Storage.Autosave {
		t.Error("autosave = false, want default true")
	}
	if cfg.Output.Format != "table" {
		t.Errorf("output format = %q, want default %q", cfg.Output.Format, "table")
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	dir := t.TempDir()
	userCfg := writeConfig(t, dir, "user.yaml", `
storage:
  file: user.txt
output:
  format: yaml
`)
	projectCfg := writeConfig(t, dir, "project.yaml", `
storage:
  file: project.txt
`)

	cfg, err := LoadLayered(userCfg, "", projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if cfg.Storage.File != "project.txt" {
		t.Errorf("file = %q, want project layer %q", cfg.Storage.File, "project.txt")
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("output format = %q, want user layer %q", cfg.Output.Format, "yaml")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "CONTACTS_FILE overrides file",
			envs: map[string]string{"CONTACTS_FILE": "/data/c.txt"},
			check: func(t *testing.T, c Config) {
				if c.Storage.File != "/data/c.txt" {
					t.Errorf("file = %q, want %q", c.Storage.File, "/data/c.txt")
				}
			},
		},
		{
			name: "CONTACTS_AUTOSAVE overrides autosave",
			envs: map[string]string{"CONTACTS_AUTOSAVE": "false"},
			check: func(t *testing.T, c Config) {
				if c.Storage.Autosave {
					t.Error("autosave = true, want false")
				}
			},
		},
		{
			name: "CONTACTS_OUTPUT overrides output format",
			envs: map[string]string{"CONTACTS_OUTPUT": "yaml"},
			check: func(t *testing.T, c Config) {
				if c.Output.Format != "yaml" {
					t.Errorf("output format = %q, want %q", c.Output.Format, "yaml")
				}
			},
		},
		{
			name: "CONTACTS_LOG_LEVEL overrides log level",
			envs: map[string]string{"CONTACTS_LOG_LEVEL": "debug"},
			check: func(t *testing.T, c Config) {
				if c.Log.Level != "debug" {
					t.Errorf("log level = %q, want %q", c.Log.Level, "debug")
				}
			},
		},
		{
			name: "unset variables keep defaults",
			envs: map[string]string{},
			check: func(t *testing.T, c Config) {
				if c != DefaultConfig() {
					t.Errorf("config = %+v, want defaults", c)
				}
			},
		},
		{
			name:    "invalid CONTACTS_AUTOSAVE returns error",
			envs:    map[string]string{"CONTACTS_AUTOSAVE": "sometimes"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "contacts.yaml", `
storage:
  fiel: typo.txt
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for unknown field 'fiel'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:   "yaml output",
			modify: func(c *Config) { c.Output.Format = "yaml" },
		},
		{
			name:    "empty file",
			modify:  func(c *Config) { c.Storage.File = "" },
			wantErr: true,
		},
		{
			name:    "unknown output format",
			modify:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "contacts.yaml", "# just a comment\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "contacts.yaml", "")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}
