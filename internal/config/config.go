package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "fourd.db"
	DefaultLogName        = "fourd.log"
	DefaultDeferDays      = 7

	appDirName = "fourd"
	envConfig  = "FOURD_CONFIG"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Select    string `toml:"select"`
	Complete  string `toml:"complete"`
	Defer     string `toml:"defer"`
	Delete    string `toml:"delete"`
	Move      string `toml:"move"`
	Stats     string `toml:"stats"`
	Refresh   string `toml:"refresh"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	BulkDone  string `toml:"bulk_complete"`
	BulkDefer string `toml:"bulk_defer"`
}

type Config struct {
	DBPath    string `toml:"db_path"`
	LogPath   string `toml:"log_path"`
	LogLevel  string `toml:"log_level"`
	ReadOnly  bool   `toml:"read_only"`
	DeferDays int    `toml:"defer_days"`
	Keys      Keymap `toml:"keys"`
}

// ResolveConfigPath returns $FOURD_CONFIG, or config.toml under the user
// config directory, falling back to the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Relative db and log paths are resolved next to the config file.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if cfg.DeferDays <= 0 {
		cfg.DeferDays = DefaultDeferDays
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultConfig().Keys)
	return cfg.resolve(path), nil
}

func (c Config) resolve(configPath string) Config {
	base := filepath.Dir(configPath)
	if !filepath.IsAbs(c.DBPath) && !isDSN(c.DBPath) {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if c.LogPath != "-" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(base, c.LogPath)
	}
	return c
}

func isDSN(p string) bool {
	return len(p) >= 5 && p[:5] == "file:"
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Select, d.Select)
	fill(&k.Complete, d.Complete)
	fill(&k.Defer, d.Defer)
	fill(&k.Delete, d.Delete)
	fill(&k.Move, d.Move)
	fill(&k.Stats, d.Stats)
	fill(&k.Refresh, d.Refresh)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.BulkDone, d.BulkDone)
	fill(&k.BulkDefer, d.BulkDefer)
	return k
}

func defaultConfig() Config {
	return Config{
		DBPath:    DefaultDBName,
		LogPath:   DefaultLogName,
		LogLevel:  "info",
		DeferDays: DefaultDeferDays,
		Keys: Keymap{
			Quit:      "q",
			Up:        "k",
			Down:      "j",
			Select:    " ",
			Complete:  "c",
			Defer:     "f",
			Delete:    "d",
			Move:      "m",
			Stats:     "s",
			Refresh:   "r",
			Confirm:   "enter",
			Cancel:    "esc",
			BulkDone:  "C",
			BulkDefer: "F",
		},
	}
}
