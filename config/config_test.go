package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"steamwork/input"
)

func TestLoad_InitializesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ProcessName != "MonsterHunterWorld.exe" || cfg.SupportedVersion != 410013 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again != cfg {
		t.Fatalf("reloaded config differs: %+v vs %+v", again, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	body := `
azerty = true
delay_between_combo_ms = 250
random_run = true
common_success_rate = 0.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Azerty || !cfg.RandomRun || cfg.CommonSuccessRate != 0.5 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.DelayBetweenCombo() != 250*time.Millisecond {
		t.Fatalf("unexpected delay %s", cfg.DelayBetweenCombo())
	}
	if cfg.RareSuccessRate != 1 || cfg.PollInterval() != 10*time.Millisecond {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.CutsceneSkipKey() != input.KeySpace {
		t.Fatalf("unexpected skip key %s", cfg.CutsceneSkipKey())
	}
}

func TestLoad_NormalizesOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	body := `
process_name = "  "
common_success_rate = 3.0
rare_success_rate = -1.0
poll_interval_ms = 0
accept_timeout_ms = -5
sequence_length = 0
key_cutscene_skip = 999
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ProcessName != "MonsterHunterWorld.exe" {
		t.Errorf("process name not defaulted: %q", cfg.ProcessName)
	}
	if cfg.CommonSuccessRate != 1 || cfg.RareSuccessRate != 0 {
		t.Errorf("rates not clamped: %v %v", cfg.CommonSuccessRate, cfg.RareSuccessRate)
	}
	if cfg.PollIntervalMS != 10 || cfg.AcceptTimeout() != 0 || cfg.SequenceLength != 3 {
		t.Errorf("timings not normalized: %+v", cfg)
	}
	if cfg.KeyCutsceneSkip != int(input.KeySpace) {
		t.Errorf("skip key not defaulted: %d", cfg.KeyCutsceneSkip)
	}
}

func TestLoad_RejectsBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(`version_pattern = "v(\\d+"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for an invalid pattern")
	}
}

func TestLoad_RejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte("azerty = = true"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestPattern(t *testing.T) {
	cfg := Default()
	if m := cfg.Pattern().FindStringSubmatch("MHW:IB v410013"); len(m) != 2 || m[1] != "410013" {
		t.Fatalf("unexpected match %v", m)
	}
}
