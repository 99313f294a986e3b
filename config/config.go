// Package config loads the simulator configuration with viper. Encounter
// settings are a flat string map read with typed getters that fall back to
// the caller's default.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/milk9111/raidsim/mechanic"
	"github.com/spf13/viper"
)

var (
	ErrInvalidSetting = errors.New("config: invalid setting")
	ErrNoFile         = errors.New("config: no config file")
)

// keyDelimiter replaces viper's "." so encounter setting keys such as
// "ucob.tethers" stay flat.
const keyDelimiter = "::"

const envPrefix = "RAIDSIM"

const (
	keyEverythingDisabled = "everything_disabled"
	keyPunishmentImmunity = "punishment_immunity"
	keyRngSeed            = "rng_seed"
	keyServerURL          = "server_url"
	keyEncounterSettings  = "encounter_settings"
	keyLoggingLevel       = "logging" + keyDelimiter + "level"
	keyLoggingFormat      = "logging" + keyDelimiter + "format"
)

const DefaultServerURL = "ws://localhost:3000/ws"

type LoggingConfig struct {
	Level  string
	Format string
}

// Config is a point-in-time copy of every setting.
type Config struct {
	EverythingDisabled bool
	PunishmentImmunity bool
	RngSeed            string
	ServerURL          string
	Logging            LoggingConfig
	EncounterSettings  map[string]string
}

// Configuration is the live, reloadable configuration. It is safe for
// concurrent use; mechanics read it through the mechanic.Settings methods.
type Configuration struct {
	mu  sync.RWMutex
	v   *viper.Viper
	cfg Config
}

var _ mechanic.Settings = (*Configuration)(nil)

func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetDefault(keyEverythingDisabled, false)
	v.SetDefault(keyPunishmentImmunity, false)
	v.SetDefault(keyRngSeed, "")
	v.SetDefault(keyServerURL, DefaultServerURL)
	v.SetDefault(keyLoggingLevel, "info")
	v.SetDefault(keyLoggingFormat, "console")
	v.SetDefault(keyEncounterSettings, map[string]string{})
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()
	return v
}

// New returns a configuration holding only defaults and environment
// overrides.
func New() *Configuration {
	c := &Configuration{v: newViper()}
	c.cfg = c.decode()
	return c
}

// Load reads path. The file format follows its extension.
func Load(path string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	c := &Configuration{v: v}
	c.cfg = c.decode()
	return c, nil
}

// Reload re-reads the file the configuration was loaded from.
func (c *Configuration) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v.ConfigFileUsed() == "" {
		return ErrNoFile
	}
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: reload %s: %w", c.v.ConfigFileUsed(), err)
	}
	c.cfg = c.decodeLocked()
	return nil
}

// Save writes the current settings back to the loaded file.
func (c *Configuration) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v.ConfigFileUsed() == "" {
		return ErrNoFile
	}
	if err := c.v.WriteConfig(); err != nil {
		return fmt.Errorf("config: save: %w", err)
	}
	return nil
}

// SaveAs writes the current settings to path and loads from it afterwards.
func (c *Configuration) SaveAs(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	c.v.SetConfigFile(path)
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *Configuration) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.ConfigFileUsed()
}

func (c *Configuration) decode() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decodeLocked()
}

func (c *Configuration) decodeLocked() Config {
	settings := make(map[string]string)
	for k, v := range c.v.GetStringMapString(keyEncounterSettings) {
		settings[strings.ToLower(k)] = v
	}
	return Config{
		EverythingDisabled: c.v.GetBool(keyEverythingDisabled),
		PunishmentImmunity: c.v.GetBool(keyPunishmentImmunity),
		RngSeed:            c.v.GetString(keyRngSeed),
		ServerURL:          c.v.GetString(keyServerURL),
		Logging: LoggingConfig{
			Level:  c.v.GetString(keyLoggingLevel),
			Format: c.v.GetString(keyLoggingFormat),
		},
		EncounterSettings: settings,
	}
}

// Snapshot returns a copy of the current settings.
func (c *Configuration) Snapshot() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.cfg
	out.EncounterSettings = make(map[string]string, len(c.cfg.EncounterSettings))
	for k, v := range c.cfg.EncounterSettings {
		out.EncounterSettings[k] = v
	}
	return out
}

func (c *Configuration) EverythingDisabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.EverythingDisabled
}

func (c *Configuration) SetEverythingDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v.Set(keyEverythingDisabled, disabled)
	c.cfg.EverythingDisabled = disabled
}

func (c *Configuration) PunishmentImmunity() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.PunishmentImmunity
}

func (c *Configuration) RngSeed() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.RngSeed
}

func (c *Configuration) SetRngSeed(seed string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v.Set(keyRngSeed, seed)
	c.cfg.RngSeed = seed
}

func (c *Configuration) ServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.ServerURL
}

func (c *Configuration) Logging() LoggingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.Logging
}

// SetEncounterSetting stores value under key. Keys are case-insensitive.
func (c *Configuration) SetEncounterSetting(key string, value any) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return fmt.Errorf("config: set encounter setting: %w: empty key", ErrInvalidSetting)
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case bool:
		s = strconv.FormatBool(v)
	case int:
		s = strconv.Itoa(v)
	case float64:
		s = strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Errorf("config: set encounter setting %s: %w: %T", key, ErrInvalidSetting, value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.EncounterSettings == nil {
		c.cfg.EncounterSettings = make(map[string]string)
	}
	c.cfg.EncounterSettings[key] = s
	all := make(map[string]string, len(c.cfg.EncounterSettings))
	for k, v := range c.cfg.EncounterSettings {
		all[k] = v
	}
	c.v.Set(keyEncounterSettings, all)
	return nil
}

func (c *Configuration) setting(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.cfg.EncounterSettings[strings.ToLower(key)]
	return s, ok
}

func (c *Configuration) EncounterBool(key string, def bool) bool {
	if s, ok := c.setting(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b
		}
	}
	return def
}

func (c *Configuration) EncounterInt(key string, def int) int {
	if s, ok := c.setting(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i
		}
	}
	return def
}

func (c *Configuration) EncounterFloat(key string, def float64) float64 {
	if s, ok := c.setting(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return def
}

func (c *Configuration) EncounterString(key, def string) string {
	if s, ok := c.setting(key); ok {
		return s
	}
	return def
}
