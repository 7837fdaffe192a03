package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultTimeout is how long a partially matched chain waits for its next chord.
const DefaultTimeout = 3 * time.Second

// ErrNoHotkeys is returned when the configuration defines no hotkey at all.
var ErrNoHotkeys = errors.New("no hotkeys defined")

// HotkeyConfig is one [[hotkey]] table: a chain and the commands it cycles
// through. Command is shorthand for a single-entry Commands.
type HotkeyConfig struct {
	Chain    string   `toml:"chain"`
	Command  string   `toml:"command,omitempty"`
	Commands []string `toml:"commands,omitempty"`

	// Non-TOML fields (runtime state)
	source string
}

// CommandList returns the command cycle with the shorthand folded in.
func (h HotkeyConfig) CommandList() []string {
	if h.Command == "" {
		return h.Commands
	}
	return append([]string{h.Command}, h.Commands...)
}

// Source returns the file the hotkey was read from.
func (h HotkeyConfig) Source() string {
	return h.source
}

// Config holds the daemon configuration
type Config struct {
	// Timeout in seconds; zero disables chain timeouts.
	Timeout       float64        `toml:"timeout"`
	MaxMotionFreq uint           `toml:"max_motion_freq"`
	Notifications bool           `toml:"notifications"`
	Watch         bool           `toml:"watch"`
	Hotkeys       []HotkeyConfig `toml:"hotkey"`

	// Non-TOML fields (runtime state)
	configPath string
	extraPaths []string
}

// Default returns the settings used for keys a file leaves out.
func Default() *Config {
	return &Config{
		Timeout:       DefaultTimeout.Seconds(),
		Notifications: true,
		Watch:         true,
	}
}

// GetConfigPath returns the path to the main configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Paths returns the main file followed by the extra files, in load order.
func (c *Config) Paths() []string {
	return append([]string{c.configPath}, c.extraPaths...)
}

// TimeoutDuration converts Timeout to a duration.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Timeout * float64(time.Second))
}

// DefaultPath returns $XDG_CONFIG_HOME/hotkeyd/hotkeyd.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "hotkeyd", "hotkeyd.toml"), nil
}

// Load reads and parses the main configuration file, creating a default one
// when it does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("Config file '%s' not found. Attempting to create default.", configPath)
		if createErr := CreateDefaultConfig(configPath); createErr != nil {
			return nil, fmt.Errorf("config file not found and failed to create default '%s': %w", configPath, createErr)
		}
	}

	config := Default()
	if err := decodeFile(configPath, config); err != nil {
		return nil, err
	}
	for i := range config.Hotkeys {
		config.Hotkeys[i].source = configPath
	}
	config.configPath = configPath
	return config, nil
}

// LoadAll loads the main file and appends the hotkeys of every extra file.
// Settings are only taken from the main file.
func LoadAll(configPath string, extraPaths []string) (*Config, error) {
	config, err := Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, p := range extraPaths {
		extra := &Config{}
		if err := decodeFile(p, extra); err != nil {
			return nil, err
		}
		for _, h := range extra.Hotkeys {
			h.source = p
			config.Hotkeys = append(config.Hotkeys, h)
		}
		config.extraPaths = append(config.extraPaths, p)
	}
	if len(config.Hotkeys) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoHotkeys, strings.Join(config.Paths(), ", "))
	}
	return config, nil
}

func decodeFile(path string, into *Config) error {
	md, err := toml.DecodeFile(path, into)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Printf("Warning: Unknown keys in '%s': %s", path, strings.Join(keys, ", "))
	}
	return nil
}

const defaultConfig = `# hotkeyd configuration
#
# Seconds a partially typed chain waits for its next chord (0 = forever).
timeout = 3

# Maximum rate in Hz at which pointer motion hotkeys fire (0 = unlimited).
max_motion_freq = 0

# Desktop notifications for reload results and grab conflicts.
notifications = true

# Reload automatically when this file changes.
watch = true

# A chain is one or more chords separated by ';'. A chord is
# "mod + mod + key"; modifiers are super, hyper, alt, ctrl, shift, mode_switch.
# Prefix a key with '@' to match its release, use '!buttonN' for pointer
# motion with button N held. Several commands are cycled through on each match.

[[hotkey]]
chain = "super + Return"
command = "xterm"

[[hotkey]]
chain = "super + Escape"
command = "pkill -USR1 -x hotkeyd"

[[hotkey]]
chain = "super + w ; b"
commands = ["xdg-open https://example.org", "xdg-open https://example.com"]
`

// CreateDefaultConfig creates a default configuration file if none exists
func CreateDefaultConfig(configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil // File exists, don't overwrite
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking config path '%s': %w", configPath, err)
	}

	log.Printf("Creating default configuration file at: %s", configPath)

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory for '%s': %w", configPath, err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0600); err != nil {
		return fmt.Errorf("failed to write default config file '%s': %w", configPath, err)
	}

	log.Printf("Default configuration file created successfully.")
	return nil
}
