// Package config loads the lobbyd TOML configuration, creating a default
// file on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level lobbyd configuration.
type Config struct {
	HTTPAddress string `toml:"HTTPAddress"`
	DataDir     string `toml:"DataDir"`
	Environment string `toml:"Environment"`
	LogFile     string `toml:"LogFile"`

	Net   Net   `toml:"Net"`
	Lobby Lobby `toml:"Lobby"`
}

// Net configures the hosted server peer.
type Net struct {
	ApplicationID  string `toml:"ApplicationID"`
	ListenAddress  string `toml:"ListenAddress"`
	ListenPort     int    `toml:"ListenPort"`
	MaxConnections int    `toml:"MaxConnections"`
	PingSeconds    int    `toml:"PingSeconds"`
	TimeoutSeconds int    `toml:"TimeoutSeconds"`
	MTU            int    `toml:"MTU"`
}

// Lobby configures field bounds and upkeep.
type Lobby struct {
	Name               string  `toml:"Name"`
	MinUsernameLength  int     `toml:"MinUsernameLength"`
	MaxUsernameLength  int     `toml:"MaxUsernameLength"`
	MinPasswordLength  int     `toml:"MinPasswordLength"`
	MaxPasswordLength  int     `toml:"MaxPasswordLength"`
	ChatPostsPerSecond float64 `toml:"ChatPostsPerSecond"`
	ChatPostBurst      int     `toml:"ChatPostBurst"`
	UpkeepSeconds      int     `toml:"UpkeepSeconds"`
}

// Load reads the configuration at path, writing and returning defaults when
// the file does not exist yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		HTTPAddress: ":8080",
		DataDir:     "./lobbynet-data",
		Environment: "",
		Net: Net{
			ApplicationID:  "lobbynet",
			ListenAddress:  "",
			ListenPort:     6001,
			MaxConnections: 32,
			PingSeconds:    6,
			TimeoutSeconds: 25,
			MTU:            1408,
		},
		Lobby: Lobby{
			Name:               "main",
			MinUsernameLength:  3,
			MaxUsernameLength:  24,
			MinPasswordLength:  8,
			MaxPasswordLength:  128,
			ChatPostsPerSecond: 2,
			ChatPostBurst:      5,
			UpkeepSeconds:      30,
		},
	}
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()
	if strings.TrimSpace(cfg.HTTPAddress) == "" {
		cfg.HTTPAddress = def.HTTPAddress
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = def.DataDir
	}
	if strings.TrimSpace(cfg.Net.ApplicationID) == "" {
		cfg.Net.ApplicationID = def.Net.ApplicationID
	}
	if cfg.Net.ListenPort == 0 {
		cfg.Net.ListenPort = def.Net.ListenPort
	}
	if cfg.Net.MaxConnections == 0 {
		cfg.Net.MaxConnections = def.Net.MaxConnections
	}
	if cfg.Net.PingSeconds == 0 {
		cfg.Net.PingSeconds = def.Net.PingSeconds
	}
	if cfg.Net.TimeoutSeconds == 0 {
		cfg.Net.TimeoutSeconds = def.Net.TimeoutSeconds
	}
	if cfg.Net.MTU == 0 {
		cfg.Net.MTU = def.Net.MTU
	}
	if strings.TrimSpace(cfg.Lobby.Name) == "" {
		cfg.Lobby.Name = def.Lobby.Name
	}
	if cfg.Lobby.MinUsernameLength == 0 {
		cfg.Lobby.MinUsernameLength = def.Lobby.MinUsernameLength
	}
	if cfg.Lobby.MaxUsernameLength == 0 {
		cfg.Lobby.MaxUsernameLength = def.Lobby.MaxUsernameLength
	}
	if cfg.Lobby.MinPasswordLength == 0 {
		cfg.Lobby.MinPasswordLength = def.Lobby.MinPasswordLength
	}
	if cfg.Lobby.MaxPasswordLength == 0 {
		cfg.Lobby.MaxPasswordLength = def.Lobby.MaxPasswordLength
	}
	if cfg.Lobby.ChatPostsPerSecond == 0 {
		cfg.Lobby.ChatPostsPerSecond = def.Lobby.ChatPostsPerSecond
	}
	if cfg.Lobby.ChatPostBurst == 0 {
		cfg.Lobby.ChatPostBurst = def.Lobby.ChatPostBurst
	}
	if cfg.Lobby.UpkeepSeconds == 0 {
		cfg.Lobby.UpkeepSeconds = def.Lobby.UpkeepSeconds
	}
}

// Validate rejects configurations that cannot possibly serve.
func (c *Config) Validate() error {
	if c.Net.ListenPort <= 1024 || c.Net.ListenPort > 65535 {
		return fmt.Errorf("Net.ListenPort %d outside (1024, 65535]", c.Net.ListenPort)
	}
	if c.Net.MTU <= 0 {
		return fmt.Errorf("Net.MTU must be positive")
	}
	if c.Lobby.MinUsernameLength > c.Lobby.MaxUsernameLength {
		return fmt.Errorf("Lobby username length bounds inverted")
	}
	if c.Lobby.MinPasswordLength > c.Lobby.MaxPasswordLength {
		return fmt.Errorf("Lobby password length bounds inverted")
	}
	if c.Lobby.UpkeepSeconds <= 0 {
		return fmt.Errorf("Lobby.UpkeepSeconds must be positive")
	}
	return nil
}

// UpkeepInterval returns the upkeep cadence as a duration.
func (c *Config) UpkeepInterval() time.Duration {
	return time.Duration(c.Lobby.UpkeepSeconds) * time.Second
}

func createDefault(path string) (*Config, error) {
	cfg := defaultConfig()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
