// Package config loads the automaton settings once at startup. A Config is a plain value:
// nothing changes it after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"steamwork/input"

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultFileName = "steamwork.toml"

type Config struct {
	ProcessName      string `toml:"process_name"`
	SupportedVersion int    `toml:"supported_version"`
	VersionPattern   string `toml:"version_pattern"`
	WaitForLaunch    bool   `toml:"wait_for_launch"`

	Azerty              bool `toml:"azerty"`
	DelayBetweenComboMS int  `toml:"delay_between_combo_ms"`
	KeyCutsceneSkip     int  `toml:"key_cutscene_skip"`
	SequenceLength      int  `toml:"sequence_length"`
	PollIntervalMS      int  `toml:"poll_interval_ms"`
	AcceptTimeoutMS     int  `toml:"accept_timeout_ms"`

	RandomRun         bool    `toml:"random_run"`
	CommonSuccessRate float64 `toml:"common_success_rate"`
	RareSuccessRate   float64 `toml:"rare_success_rate"`

	OnlyUseNaturalFuel bool `toml:"only_use_natural_fuel"`
	StopAtFuelAmount   int  `toml:"stop_at_fuel_amount"`
	ShouldAutoQuit     bool `toml:"should_auto_quit"`

	HistoryDB string `toml:"history_db"`
	Debug     bool   `toml:"debug"`
}

// Default is the configuration written when no file exists
func Default() Config {
	return Config{
		ProcessName:         "MonsterHunterWorld.exe",
		SupportedVersion:    410013,
		VersionPattern:      `v(\d+)`,
		DelayBetweenComboMS: 100,
		KeyCutsceneSkip:     int(input.KeySpace),
		SequenceLength:      3,
		PollIntervalMS:      10,
		CommonSuccessRate:   1,
		RareSuccessRate:     1,
		HistoryDB:           "steamwork.db",
	}
}

// Load reads path, writing the defaults there first when the file does not exist.
// Keys missing from the file keep their default.
func Load(path string) (Config, error) {
	if b, err := os.ReadFile(path); err == nil {
		cfg := Default()
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		return normalize(cfg)
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	cfg, err := normalize(Default())
	if err != nil {
		return Config{}, err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Config{}, err
		}
	}
	if err := writeTOMLAtomically(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalize(cfg Config) (Config, error) {
	cfg.ProcessName = strings.TrimSpace(cfg.ProcessName)
	if cfg.ProcessName == "" {
		cfg.ProcessName = Default().ProcessName
	}
	if strings.TrimSpace(cfg.VersionPattern) == "" {
		cfg.VersionPattern = Default().VersionPattern
	}
	if _, err := regexp.Compile(cfg.VersionPattern); err != nil {
		return Config{}, fmt.Errorf("version_pattern: %w", err)
	}

	if cfg.DelayBetweenComboMS < 0 {
		cfg.DelayBetweenComboMS = 0
	}
	if cfg.KeyCutsceneSkip <= 0 || cfg.KeyCutsceneSkip > 0xFE {
		cfg.KeyCutsceneSkip = Default().KeyCutsceneSkip
	}
	if cfg.SequenceLength <= 0 {
		cfg.SequenceLength = Default().SequenceLength
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = Default().PollIntervalMS
	}
	if cfg.AcceptTimeoutMS < 0 {
		cfg.AcceptTimeoutMS = 0
	}
	if cfg.StopAtFuelAmount < 0 {
		cfg.StopAtFuelAmount = 0
	}

	cfg.CommonSuccessRate = clampRate(cfg.CommonSuccessRate)
	cfg.RareSuccessRate = clampRate(cfg.RareSuccessRate)
	cfg.HistoryDB = strings.TrimSpace(cfg.HistoryDB)
	return cfg, nil
}

func clampRate(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

func writeTOMLAtomically(path string, v any) error {
	b, err := toml.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Pattern compiles VersionPattern; Load has already validated it
func (c Config) Pattern() *regexp.Regexp {
	re, err := regexp.Compile(c.VersionPattern)
	if err != nil {
		return regexp.MustCompile(Default().VersionPattern)
	}
	return re
}

func (c Config) DelayBetweenCombo() time.Duration {
	return time.Duration(c.DelayBetweenComboMS) * time.Millisecond
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// AcceptTimeout is zero when acceptance waits are unbounded
func (c Config) AcceptTimeout() time.Duration {
	return time.Duration(c.AcceptTimeoutMS) * time.Millisecond
}

func (c Config) CutsceneSkipKey() input.Key {
	return input.Key(c.KeyCutsceneSkip)
}
