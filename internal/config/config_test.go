package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
detection:
  rep_cooldown_ms: 1500
thresholds:
  bicep_curl:
    extended_min: 150
    curled_max: 40
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadDefaults: no file means defaults, and defaults must validate.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Detection.RepCooldownMS != 1000 || cfg.Detection.HoldThresholdMS != 500 {
		t.Errorf("default timing = %d/%d, want 1000/500",
			cfg.Detection.RepCooldownMS, cfg.Detection.HoldThresholdMS)
	}
	if cfg.Thresholds.BicepCurl.ExtendedMin != 140 {
		t.Errorf("default bicep extended_min = %v, want 140", cfg.Thresholds.BicepCurl.ExtendedMin)
	}
}

// TestLoadFileOverlay: file values override defaults, untouched fields keep
// them.
func TestLoadFileOverlay(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server = %s:%d, want 127.0.0.1:9090", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Detection.RepCooldownMS != 1500 {
		t.Errorf("rep_cooldown_ms = %d, want 1500", cfg.Detection.RepCooldownMS)
	}
	if cfg.Detection.HoldThresholdMS != 500 {
		t.Errorf("hold_threshold_ms lost its default: %d", cfg.Detection.HoldThresholdMS)
	}
	if cfg.Thresholds.BicepCurl.CurledMax != 40 {
		t.Errorf("bicep curled_max = %v, want 40", cfg.Thresholds.BicepCurl.CurledMax)
	}
	if cfg.Thresholds.Squat.StandingKneeMin != 160 {
		t.Errorf("squat default lost: %v", cfg.Thresholds.Squat.StandingKneeMin)
	}
}

// TestLoadEnvOverrides: env wins over file, and plain PORT is honored for
// platforms that only inject that.
func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REPBOT_SERVER_HOST", "10.0.0.5")
	t.Setenv("PORT", "3000")
	t.Setenv("REPBOT_REP_COOLDOWN_MS", "2000")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Host != "10.0.0.5" {
		t.Errorf("host = %q, want env override", cfg.Server.Host)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000 from PORT", cfg.Server.Port)
	}
	if cfg.Detection.RepCooldownMS != 2000 {
		t.Errorf("rep_cooldown_ms = %d, want 2000", cfg.Detection.RepCooldownMS)
	}
}

// TestLoadMissingFile: a named file that does not exist is an error, not a
// silent fallback.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

// TestValidation rejects inverted threshold bands and bad ports.
func TestValidation(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantSub string
	}{
		{
			"bad port",
			"server:\n  port: 70000\n",
			"server.port",
		},
		{
			"inverted bicep band",
			"thresholds:\n  bicep_curl:\n    extended_min: 40\n    curled_max: 50\n",
			"bicep_curl",
		},
		{
			"inverted situp band",
			"thresholds:\n  situp:\n    lying_min: 70\n    sitting_max: 80\n",
			"situp",
		},
		{
			"tailscale without hostname",
			"tailscale:\n  enabled: true\n",
			"tailscale.hostname",
		},
	}
	for _, tc := range cases {
		_, err := Load(writeConfig(t, tc.yaml))
		if err == nil {
			t.Errorf("%s: Load succeeded, want error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.wantSub)
		}
	}
}
