package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultTakeoverTimeout      = 5 * time.Second
	DefaultTakeoverPollInterval = 100 * time.Millisecond

	// ProjectSettingsFile is read from the project root.
	ProjectSettingsFile = "flatplay.toml"
)

// Duration is a time.Duration decoded from a TOML string such as "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Settings holds user and project tunables.
type Settings struct {
	Takeover TakeoverSettings `toml:"takeover"`
	Build    BuildSettings    `toml:"build"`
}

// TakeoverSettings bound how long a new session waits for a previous one to exit.
type TakeoverSettings struct {
	Timeout      Duration `toml:"timeout"`
	PollInterval Duration `toml:"poll_interval"`
}

type BuildSettings struct {
	Ccache bool `toml:"ccache"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{
		Takeover: TakeoverSettings{
			Timeout:      Duration{DefaultTakeoverTimeout},
			PollInterval: Duration{DefaultTakeoverPollInterval},
		},
		Build: BuildSettings{
			Ccache: true,
		},
	}
}

// Validate checks that the Settings are usable.
func (s *Settings) Validate() error {
	if s.Takeover.Timeout.Duration <= 0 {
		return fmt.Errorf("takeover.timeout must be positive (got %s)", s.Takeover.Timeout)
	}
	if s.Takeover.PollInterval.Duration <= 0 {
		return fmt.Errorf("takeover.poll_interval must be positive (got %s)", s.Takeover.PollInterval)
	}
	if s.Takeover.PollInterval.Duration > s.Takeover.Timeout.Duration {
		return fmt.Errorf("takeover.poll_interval (%s) must not exceed takeover.timeout (%s)",
			s.Takeover.PollInterval, s.Takeover.Timeout)
	}
	return nil
}

// UserSettingsPath returns $XDG_CONFIG_HOME/flatplay/config.toml, or "" if
// no configuration directory can be determined.
func UserSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "flatplay", "config.toml")
}

// LoadSettings starts from DefaultSettings and applies each existing file in
// order; keys present in a later file override earlier values.
func LoadSettings(paths ...string) (*Settings, error) {
	settings := DefaultSettings()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}

		meta, err := toml.DecodeFile(path, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys in settings %s: %v", path, undecoded)
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}
