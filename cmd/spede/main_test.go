package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/spede/internal/config"
	"github.com/verte-zerg/spede/internal/model"
	"github.com/verte-zerg/spede/internal/quote"
	"github.com/verte-zerg/spede/internal/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newRootCmd()
	cfg, err := resolveConfig(cmd, filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.Source != model.SourceAPI || cfg.Endpoint != quote.DefaultEndpoint {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Timeout != 10*time.Second || cfg.Retries != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestResolveConfigFileAndFlagPrecedence(t *testing.T) {
	path := writeConfig(t, `
[quotes]
source = "local"
timeout = "2s"
retries = 3
`)
	cmd := newRootCmd()
	if err := cmd.Flags().Set("retries", "1"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg, err := resolveConfig(cmd, path)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.Source != model.SourceLocal {
		t.Fatalf("expected file source, got %q", cfg.Source)
	}
	if cfg.Timeout != 2*time.Second {
		t.Fatalf("expected file timeout, got %v", cfg.Timeout)
	}
	if cfg.Retries != 1 {
		t.Fatalf("expected flag to override file, got %d", cfg.Retries)
	}
}

func TestResolveConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown source", "[quotes]\nsource = \"carrier-pigeon\"\n"},
		{"bad timeout", "[quotes]\ntimeout = \"soon\"\n"},
		{"zero timeout", "[quotes]\ntimeout = \"0s\"\n"},
		{"too many retries", "[quotes]\nretries = 50\n"},
		{"negative retries", "[quotes]\nretries = -1\n"},
		{"empty endpoint", "[quotes]\nendpoint = \"\"\n"},
		{"bad log level", "[log]\nlevel = \"chatty\"\n"},
	}
	for _, tt := range tests {
		path := writeConfig(t, tt.body)
		if _, err := resolveConfig(newRootCmd(), path); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := writeConfig(t, defaultConfigTemplate())
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if cfg.Quotes.Source != nil {
		t.Fatalf("template values must be commented out")
	}
}

func TestUserFacingError(t *testing.T) {
	err := userFacingError(store.ErrEmptyLibrary)
	if !errors.Is(err, store.ErrEmptyLibrary) || !strings.Contains(err.Error(), "spede quotes add") {
		t.Fatalf("unexpected error: %v", err)
	}
	err = userFacingError(quote.ErrNetwork)
	if !errors.Is(err, quote.ErrNetwork) || !strings.Contains(err.Error(), "Internet") {
		t.Fatalf("unexpected error: %v", err)
	}
	other := errors.New("boom")
	if userFacingError(other) != other {
		t.Fatalf("expected other errors to pass through")
	}
}

func TestFilterQuotes(t *testing.T) {
	quotes := []model.StoredQuote{
		{Quote: model.Quote{ID: "1", Content: "Talk is cheap. Show me the code.", Author: "Linus Torvalds"}},
		{Quote: model.Quote{ID: "2", Content: "Premature optimization is the root of all evil.", Author: "Donald Knuth"}},
	}
	if got := filterQuotes(quotes, ""); len(got) != 2 {
		t.Fatalf("expected all quotes, got %d", len(got))
	}
	got := filterQuotes(quotes, "knuth")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if got := filterQuotes(quotes, "zzzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestQuotesCommands(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	run := func(args ...string) string {
		t.Helper()
		quoteAuthor, quoteTags, quoteSearch = "", nil, ""
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	added := run("quotes", "add", "--author", "Grace Hopper", "--tag", "computing", "A", "ship", "in", "port", "is", "safe.")
	if !strings.HasPrefix(added, "added ") {
		t.Fatalf("unexpected add output: %q", added)
	}
	id := strings.TrimSpace(strings.TrimPrefix(added, "added "))

	listed := run("quotes", "list", "--search", "hopper")
	if !strings.Contains(listed, "A ship in port is safe.") || !strings.Contains(listed, "Grace Hopper") {
		t.Fatalf("unexpected list output: %q", listed)
	}
	if !strings.Contains(listed, id[:shortIDLen]) {
		t.Fatalf("expected short id in list output: %q", listed)
	}

	removed := run("quotes", "remove", id[:shortIDLen])
	if strings.TrimSpace(removed) != "removed "+id {
		t.Fatalf("unexpected remove output: %q", removed)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	quotes, err := st.ListQuotes(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quotes) != 0 {
		t.Fatalf("expected library to be empty, got %d", len(quotes))
	}
}
