package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StoreConfig selects and parameterizes the record store backend.
type StoreConfig struct {
	// Backend is "file" (JSON files under Dir) or "sqlite".
	Backend string `yaml:"backend" json:"backend"`
	// Dir is the data directory for the file backend.
	Dir string `yaml:"dir" json:"dir"`
	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

// SourceConfig selects where the display controller reads its snapshot.
type SourceConfig struct {
	// Mode is "store" (read the local store directly) or "http" (poll a
	// remote pujadisplay instance's /api/pujas).
	Mode string `yaml:"mode" json:"mode"`
	// URL is the remote snapshot endpoint for http mode.
	URL string `yaml:"url" json:"url"`
}

// AdminConfig seeds the bootstrap super-admin account. Additional admins
// are managed through the API and persisted in the store.
type AdminConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the display and admin APIs.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone all wall-clock decisions are made in
	// (classification, "today" grouping, midnight refresh).
	Timezone string `yaml:"timezone" json:"timezone"`

	Store  StoreConfig  `yaml:"store" json:"store"`
	Source SourceConfig `yaml:"source" json:"source"`
	Admin  AdminConfig  `yaml:"admin" json:"admin"`

	// PollSeconds is the snapshot refresh interval for the display.
	PollSeconds int `yaml:"poll_seconds" json:"poll_seconds"`

	// RotateSeconds is how long each upcoming-list page is shown before
	// the carousel advances.
	RotateSeconds int `yaml:"rotate_seconds" json:"rotate_seconds"`

	// CardsPerSlide is the number of upcoming cards per carousel page.
	CardsPerSlide int `yaml:"cards_per_slide" json:"cards_per_slide"`

	// SessionTTLHours is how long an admin bearer token stays valid.
	SessionTTLHours int `yaml:"session_ttl_hours" json:"session_ttl_hours"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:8080",
		Timezone: "Local",
		Store: StoreConfig{
			Backend:    "file",
			Dir:        "./data",
			SQLitePath: "./data/pujadisplay.sqlite",
		},
		Source: SourceConfig{
			Mode: "store",
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "admin123",
		},
		PollSeconds:     60,
		RotateSeconds:   5,
		CardsPerSlide:   2,
		SessionTTLHours: 24,
	}
}

// Normalize fills in missing/zero values with defaults so partially-filled
// configs from older versions still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}

	switch c.Store.Backend {
	case "file", "sqlite":
	default:
		c.Store.Backend = "file"
	}
	if c.Store.Dir == "" {
		c.Store.Dir = def.Store.Dir
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = def.Store.SQLitePath
	}

	switch c.Source.Mode {
	case "store", "http":
	default:
		c.Source.Mode = "store"
	}
	// http mode without a URL cannot work; fall back to the local store.
	if c.Source.Mode == "http" && c.Source.URL == "" {
		c.Source.Mode = "store"
	}

	if c.Admin.Username == "" {
		c.Admin.Username = def.Admin.Username
	}
	if c.Admin.Password == "" {
		c.Admin.Password = def.Admin.Password
	}

	if c.PollSeconds <= 0 {
		c.PollSeconds = def.PollSeconds
	}
	if c.RotateSeconds <= 0 {
		c.RotateSeconds = def.RotateSeconds
	}
	if c.CardsPerSlide <= 0 {
		c.CardsPerSlide = def.CardsPerSlide
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = def.SessionTTLHours
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (creating
// the parent directory) and returned. Otherwise the YAML is unmarshaled
// and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path: parent directory ensured (0700),
// atomic temp-file + rename, final permissions 0600. The config can hold
// the bootstrap admin password, hence the tight permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".pujadisplay-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
