package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/justyntemme/razorfs/internal/fs"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFrom_Missing(t *testing.T) {
	m := NewManager()
	if err := m.LoadFrom(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatal(err)
	}
	cfg := m.Get()
	if cfg.Browse.DefaultSort != "name" || !cfg.Browse.SortAscending || cfg.Search.DebounceMs != 150 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if m.ParseError() != nil {
		t.Errorf("unexpected parse error: %v", m.ParseError())
	}
}

func TestLoadFrom_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"browse": {"showHidden": true, "defaultSort": "size"},
		"search": {"resultLimit": 50, "systemRoots": ["/srv"]}
	}`)
	m := NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatal(err)
	}
	cfg := m.Get()

	if !cfg.Browse.ShowHidden || cfg.SortKey() != fs.SortBySize {
		t.Errorf("browse = %+v", cfg.Browse)
	}
	if cfg.Browse.HistoryLimit != 500 || cfg.Browse.CacheSize != fs.DefaultCacheSize {
		t.Errorf("omitted browse fields lost defaults: %+v", cfg.Browse)
	}
	opts := cfg.SearchOptions()
	if opts.ResultLimit != 50 || opts.NodeLimit != 10000 || opts.MatchLimit != 500 {
		t.Errorf("search options = %+v", opts)
	}
	if opts.Debounce != 150*time.Millisecond || len(opts.SystemRoots) != 1 {
		t.Errorf("search options = %+v", opts)
	}
	if m.Path() != path {
		t.Errorf("Path = %q", m.Path())
	}
}

func TestLoadFrom_InvalidValuesNormalized(t *testing.T) {
	path := writeConfig(t, `{"browse": {"historyLimit": -1, "cacheSize": 0}, "search": {"debounceMs": -5}}`)
	m := NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatal(err)
	}
	cfg := m.Get()
	if cfg.Browse.HistoryLimit != 500 || cfg.Browse.CacheSize != fs.DefaultCacheSize || cfg.Search.DebounceMs != 150 {
		t.Errorf("not normalized: %+v", cfg)
	}
}

func TestLoadFrom_ParseErrorUsesDefaults(t *testing.T) {
	path := writeConfig(t, `{"browse": {"showHidden": tru`)
	m := NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatalf("LoadFrom returned %v, want nil", err)
	}
	if m.ParseError() == nil {
		t.Error("expected ParseError to be set")
	}
	if m.Get().Browse.ShowHidden {
		t.Error("expected defaults after parse error")
	}

	// A later good load clears the error.
	good := writeConfig(t, `{}`)
	if err := m.LoadFrom(good); err != nil {
		t.Fatal(err)
	}
	if m.ParseError() != nil {
		t.Errorf("ParseError not cleared: %v", m.ParseError())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	path := writeConfig(t, `{"search": {"systemRoots": ["/a"]}}`)
	m := NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatal(err)
	}
	cfg := m.Get()
	cfg.Search.SystemRoots[0] = "/mutated"
	if m.Get().Search.SystemRoots[0] != "/a" {
		t.Error("Get exposed internal slice")
	}
}

func TestGenerateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "razorfs", "config.json")

	backup, err := GenerateConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if backup != "" {
		t.Errorf("unexpected backup %q for a fresh config", backup)
	}

	if err := os.WriteFile(path, []byte(`{"browse":{"showHidden":true}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	backup, err = GenerateConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(backup)
	if err != nil || !strings.Contains(string(data), "showHidden\":true") {
		t.Errorf("backup = %q, %v", data, err)
	}

	m := NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatal(err)
	}
	if m.Get().Browse.ShowHidden {
		t.Error("generated config should hold defaults")
	}
}
