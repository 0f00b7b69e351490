package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/history"
	"github.com/justyntemme/razorfs/internal/search"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Browse BrowseConfig `json:"browse"`
	Search SearchConfig `json:"search"`
}

// BrowseConfig holds directory listing settings
type BrowseConfig struct {
	ShowHidden    bool   `json:"showHidden"`
	DefaultSort   string `json:"defaultSort"` // "name" | "date" | "type" | "size"
	SortAscending bool   `json:"sortAscending"`
	HistoryLimit  int    `json:"historyLimit"`
	CacheSize     int    `json:"cacheSize"` // directories kept in the listing cache
}

// SearchConfig holds search-related settings
type SearchConfig struct {
	DebounceMs      int      `json:"debounceMs"`
	ResultLimit     int      `json:"resultLimit"`
	NodeLimit       int      `json:"nodeLimit"`  // per root
	MatchLimit      int      `json:"matchLimit"` // per root
	ContentMaxBytes int64    `json:"contentMaxBytes"`
	DefaultScope    string   `json:"defaultScope"` // "folder" | "recursive" | "system"
	SystemRoots     []string `json:"systemRoots"`  // empty uses the platform defaults
}

// Manager handles loading and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Browse: BrowseConfig{
			ShowHidden:    false,
			DefaultSort:   "name",
			SortAscending: true,
			HistoryLimit:  history.DefaultLimit,
			CacheSize:     fs.DefaultCacheSize,
		},
		Search: SearchConfig{
			DebounceMs:      int(search.DefaultDebounce / time.Millisecond),
			ResultLimit:     search.DefaultResultLimit,
			NodeLimit:       search.DefaultNodeLimit,
			MatchLimit:      search.DefaultMatchLimit,
			ContentMaxBytes: search.DefaultContentMaxBytes,
			DefaultScope:    "folder",
		},
	}
}

// ConfigPath returns the default config file location
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "razorfs", "config.json")
}

// Load reads the config from ConfigPath.
func (m *Manager) Load() error {
	return m.LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path. A missing file means defaults. A file
// that does not parse also means defaults, and the parse error is kept for
// ParseError rather than returned.
func (m *Manager) LoadFrom(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = path
	m.parseErr = nil

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("Config: %s not found, using defaults", path)
		m.config = DefaultConfig()
		return nil
	}
	if err != nil {
		log.Printf("Config: failed to read %s: %v", path, err)
		return err
	}

	// Unmarshal over the defaults so omitted fields keep their default.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("Config: JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil // Don't return error - we're using defaults
	}

	cfg.normalize()
	log.Printf("Config: loaded from %s", path)
	m.config = cfg
	return nil
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Browse.HistoryLimit <= 0 {
		c.Browse.HistoryLimit = def.Browse.HistoryLimit
	}
	if c.Browse.CacheSize <= 0 {
		c.Browse.CacheSize = def.Browse.CacheSize
	}
	if c.Search.DebounceMs <= 0 {
		c.Search.DebounceMs = def.Search.DebounceMs
	}
	if c.Search.ResultLimit <= 0 {
		c.Search.ResultLimit = def.Search.ResultLimit
	}
	if c.Search.NodeLimit <= 0 {
		c.Search.NodeLimit = def.Search.NodeLimit
	}
	if c.Search.MatchLimit <= 0 {
		c.Search.MatchLimit = def.Search.MatchLimit
	}
	if c.Search.ContentMaxBytes <= 0 {
		c.Search.ContentMaxBytes = def.Search.ContentMaxBytes
	}
}

// Path returns the file the config was last loaded from.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	cfg := *m.config
	cfg.Search.SystemRoots = append([]string(nil), m.config.Search.SystemRoots...)
	return cfg
}

// ParseError returns the JSON error from the last load, if any
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// SortKey is the configured initial sort key.
func (c Config) SortKey() fs.SortKey {
	return fs.ParseSortKey(c.Browse.DefaultSort)
}

// SearchOptions converts the search section into engine options.
func (c Config) SearchOptions() search.Options {
	return search.Options{
		Debounce:        time.Duration(c.Search.DebounceMs) * time.Millisecond,
		ResultLimit:     c.Search.ResultLimit,
		NodeLimit:       c.Search.NodeLimit,
		MatchLimit:      c.Search.MatchLimit,
		ContentMaxBytes: c.Search.ContentMaxBytes,
		SystemRoots:     c.Search.SystemRoots,
	}
}

// GenerateConfig writes the default config to path, backing up any
// existing file first. It returns the backup path, if one was made.
func GenerateConfig(path string) (backupPath string, err error) {
	if _, err := os.Stat(path); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(path), "config.backup."+timestamp+".json")

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return backupPath, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}
