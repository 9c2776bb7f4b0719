package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Tailscale  TailscaleConfig `yaml:"tailscale"`
	Detection  DetectionConfig `yaml:"detection"`
	Thresholds Thresholds      `yaml:"thresholds"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DetectionConfig carries the timing gates shared by every classifier and the
// session sweep settings. All values are milliseconds.
type DetectionConfig struct {
	RepCooldownMS    int64 `yaml:"rep_cooldown_ms"`
	HoldThresholdMS  int64 `yaml:"hold_threshold_ms"`
	SweepIntervalMS  int64 `yaml:"sweep_interval_ms"`
	SessionMaxIdleMS int64 `yaml:"session_max_idle_ms"`
}

// Thresholds groups the per-exercise detection bands. Angles are degrees;
// heights, spreads and movement deltas are normalized image coordinates.
// The defaults are the tuned values the detector shipped with; they are
// configuration, not physics.
type Thresholds struct {
	BicepCurl       BicepCurlThresholds       `yaml:"bicep_curl"`
	Squat           SquatThresholds           `yaml:"squat"`
	Pushup          PushupThresholds          `yaml:"pushup"`
	ShoulderPress   ShoulderPressThresholds   `yaml:"shoulder_press"`
	Handstand       HandstandThresholds       `yaml:"handstand"`
	Pullup          PullupThresholds          `yaml:"pullup"`
	Situp           SitupThresholds           `yaml:"situp"`
	JumpingJacks    JumpingJacksThresholds    `yaml:"jumping_jacks"`
	Lunge           LungeThresholds           `yaml:"lunge"`
	CalfRaise       CalfRaiseThresholds       `yaml:"calf_raise"`
	TricepExtension TricepExtensionThresholds `yaml:"tricep_extension"`
}

type BicepCurlThresholds struct {
	ExtendedMin float64 `yaml:"extended_min"`
	CurledMax   float64 `yaml:"curled_max"`
}

type SquatThresholds struct {
	StandingKneeMin float64 `yaml:"standing_knee_min"`
	StandingHipMax  float64 `yaml:"standing_hip_max"`
	SquatKneeMax    float64 `yaml:"squat_knee_max"`
	SquatHipMin     float64 `yaml:"squat_hip_min"`
}

type PushupThresholds struct {
	UpElbowMin    float64 `yaml:"up_elbow_min"`
	UpShoulderMax float64 `yaml:"up_shoulder_max"`
	DownElbowMax  float64 `yaml:"down_elbow_max"`
	AlignmentWarn float64 `yaml:"alignment_warn"`
}

type ShoulderPressThresholds struct {
	DownElbowMax     float64 `yaml:"down_elbow_max"`
	UpBothMin        float64 `yaml:"up_both_min"`
	UpSingleMin      float64 `yaml:"up_single_min"`
	ElbowShoulderTol float64 `yaml:"elbow_shoulder_tolerance"`
	MinUpwardMove    float64 `yaml:"min_upward_move"`
}

type HandstandThresholds struct {
	BodyLineMin   float64 `yaml:"body_line_min"`
	LegLineMin    float64 `yaml:"leg_line_min"`
	WristRatioMin float64 `yaml:"wrist_ratio_min"`
	WristRatioMax float64 `yaml:"wrist_ratio_max"`
}

type PullupThresholds struct {
	ExtendedMin float64 `yaml:"extended_min"`
	FlexedMax   float64 `yaml:"flexed_max"`
}

type SitupThresholds struct {
	LyingMin   float64 `yaml:"lying_min"`
	SittingMax float64 `yaml:"sitting_max"`
}

type JumpingJacksThresholds struct {
	OpenArmMin      float64 `yaml:"open_arm_min"`
	ClosedArmMax    float64 `yaml:"closed_arm_max"`
	OpenSpreadMin   float64 `yaml:"open_spread_min"`
	ClosedSpreadMax float64 `yaml:"closed_spread_max"`
	HipUprightMin   float64 `yaml:"hip_upright_min"`
}

type LungeThresholds struct {
	StraightKneeMin     float64 `yaml:"straight_knee_min"`
	BentKneeMax         float64 `yaml:"bent_knee_max"`
	StandingKneeDiffMax float64 `yaml:"standing_knee_diff_max"`
	LungeKneeDiffMin    float64 `yaml:"lunge_knee_diff_min"`
	MinVelocity         float64 `yaml:"min_velocity"`
	MinAngleChange      float64 `yaml:"min_angle_change"`
}

type CalfRaiseThresholds struct {
	LiftMin      float64 `yaml:"lift_min"`
	ExtensionMin float64 `yaml:"extension_min"`
}

type TricepExtensionThresholds struct {
	BentMax     float64 `yaml:"bent_max"`
	ExtendedMin float64 `yaml:"extended_min"`
}

// Default returns the configuration the detector runs with when no file is
// supplied. Threshold values are the tuned production constants.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Detection: DetectionConfig{
			RepCooldownMS:    1000,
			HoldThresholdMS:  500,
			SweepIntervalMS:  10 * 60 * 1000,
			SessionMaxIdleMS: 60 * 60 * 1000,
		},
		Thresholds: Thresholds{
			BicepCurl: BicepCurlThresholds{ExtendedMin: 140, CurledMax: 50},
			Squat: SquatThresholds{
				StandingKneeMin: 160, StandingHipMax: 0.6,
				SquatKneeMax: 125, SquatHipMin: 0.65,
			},
			Pushup: PushupThresholds{
				UpElbowMin: 160, UpShoulderMax: 0.7,
				DownElbowMax: 90, AlignmentWarn: 15,
			},
			ShoulderPress: ShoulderPressThresholds{
				DownElbowMax: 120, UpBothMin: 140, UpSingleMin: 150,
				ElbowShoulderTol: 0.05, MinUpwardMove: 0.01,
			},
			Handstand: HandstandThresholds{
				BodyLineMin: 150, LegLineMin: 160,
				WristRatioMin: 0.8, WristRatioMax: 2.5,
			},
			Pullup: PullupThresholds{ExtendedMin: 150, FlexedMax: 70},
			Situp:  SitupThresholds{LyingMin: 160, SittingMax: 80},
			JumpingJacks: JumpingJacksThresholds{
				OpenArmMin: 140, ClosedArmMax: 40,
				OpenSpreadMin: 1.5, ClosedSpreadMax: 1.0,
				HipUprightMin: 150,
			},
			Lunge: LungeThresholds{
				StraightKneeMin: 150, BentKneeMax: 110,
				StandingKneeDiffMax: 0.15, LungeKneeDiffMin: 0.2,
				MinVelocity: 0.01, MinAngleChange: 20,
			},
			CalfRaise:       CalfRaiseThresholds{LiftMin: 0.02, ExtensionMin: 140},
			TricepExtension: TricepExtensionThresholds{BentMax: 100, ExtendedMin: 130},
		},
	}
}

// Load reads config from a YAML file layered over the defaults, then applies
// environment variable overrides. An empty path skips the file and runs on
// defaults plus env, matching deployments where the platform only provides
// PORT-style env configuration.
//
//	REPBOT_SERVER_HOST, REPBOT_SERVER_PORT (also plain PORT),
//	REPBOT_TS_ENABLED, REPBOT_TS_HOSTNAME, REPBOT_TS_STATE_DIR,
//	REPBOT_REP_COOLDOWN_MS, REPBOT_HOLD_THRESHOLD_MS,
//	REPBOT_SESSION_MAX_IDLE_MS
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPBOT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPBOT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	// Render and similar platforms inject the listen port as plain PORT.
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPBOT_TS_ENABLED"); v != "" {
		cfg.Tailscale.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("REPBOT_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("REPBOT_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("REPBOT_REP_COOLDOWN_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Detection.RepCooldownMS = ms
		}
	}
	if v := os.Getenv("REPBOT_HOLD_THRESHOLD_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Detection.HoldThresholdMS = ms
		}
	}
	if v := os.Getenv("REPBOT_SESSION_MAX_IDLE_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Detection.SessionMaxIdleMS = ms
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Detection.RepCooldownMS <= 0 {
		return fmt.Errorf("detection.rep_cooldown_ms must be positive")
	}
	if c.Detection.HoldThresholdMS <= 0 {
		return fmt.Errorf("detection.hold_threshold_ms must be positive")
	}
	if c.Detection.SessionMaxIdleMS <= 0 {
		return fmt.Errorf("detection.session_max_idle_ms must be positive")
	}
	t := c.Thresholds
	if t.BicepCurl.CurledMax >= t.BicepCurl.ExtendedMin {
		return fmt.Errorf("thresholds.bicep_curl: curled_max must be below extended_min")
	}
	if t.Squat.SquatKneeMax >= t.Squat.StandingKneeMin {
		return fmt.Errorf("thresholds.squat: squat_knee_max must be below standing_knee_min")
	}
	if t.Pushup.DownElbowMax >= t.Pushup.UpElbowMin {
		return fmt.Errorf("thresholds.pushup: down_elbow_max must be below up_elbow_min")
	}
	if t.Pullup.FlexedMax >= t.Pullup.ExtendedMin {
		return fmt.Errorf("thresholds.pullup: flexed_max must be below extended_min")
	}
	if t.Situp.SittingMax >= t.Situp.LyingMin {
		return fmt.Errorf("thresholds.situp: sitting_max must be below lying_min")
	}
	if t.TricepExtension.BentMax >= t.TricepExtension.ExtendedMin {
		return fmt.Errorf("thresholds.tricep_extension: bent_max must be below extended_min")
	}
	return nil
}
