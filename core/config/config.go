// Package config provides the YAML configuration schema and loader for the
// voice pipeline: model and voice selection, turn-detection tuning and the
// data backend location. Credentials never live in the file; they come from
// the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable holding the realtime model credential.
const APIKeyEnv = "OPENAI_API_KEY"

type Config struct {
	Realtime RealtimeConfig `yaml:"realtime"`
	Backend  BackendConfig  `yaml:"backend"`
}

// RealtimeConfig tunes the streaming model session.
type RealtimeConfig struct {
	Model string `yaml:"model"`
	Voice string `yaml:"voice"`

	// TranscriptionModel transcribes the user's input audio server-side.
	TranscriptionModel string `yaml:"transcription_model"`

	TurnDetection TurnDetectionConfig `yaml:"turn_detection"`

	// SettleDelayMs is how long capture stays paused after the model finishes
	// speaking, letting the speaker drain before the microphone reopens.
	SettleDelayMs int `yaml:"settle_delay_ms"`
}

// TurnDetectionConfig maps to the server VAD block of the session
// configuration.
type TurnDetectionConfig struct {
	Threshold         float64 `yaml:"threshold"`
	PrefixPaddingMs   int     `yaml:"prefix_padding_ms"`
	SilenceDurationMs int     `yaml:"silence_duration_ms"`
}

// BackendConfig locates the task/contact CRUD service.
type BackendConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Realtime: RealtimeConfig{
			Model:              "gpt-4o-realtime-preview",
			Voice:              "alloy",
			TranscriptionModel: "whisper-1",
			TurnDetection: TurnDetectionConfig{
				Threshold:         0.5,
				PrefixPaddingMs:   300,
				SilenceDurationMs: 500,
			},
			SettleDelayMs: 400,
		},
	}
}

// Load reads the YAML configuration file at path and returns a validated
// [Config] with defaults applied.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and validates
// the result. Useful in tests where configs are constructed from string
// literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// APIKey resolves the realtime credential from the environment. An empty
// string means no credential is configured.
func APIKey() string {
	return os.Getenv(APIKeyEnv)
}

func applyDefaults(cfg *Config) {
	defaults := Default()
	if cfg.Realtime.Model == "" {
		cfg.Realtime.Model = defaults.Realtime.Model
	}
	if cfg.Realtime.Voice == "" {
		cfg.Realtime.Voice = defaults.Realtime.Voice
	}
	if cfg.Realtime.TranscriptionModel == "" {
		cfg.Realtime.TranscriptionModel = defaults.Realtime.TranscriptionModel
	}
	if cfg.Realtime.TurnDetection.Threshold == 0 {
		cfg.Realtime.TurnDetection.Threshold = defaults.Realtime.TurnDetection.Threshold
	}
	if cfg.Realtime.TurnDetection.PrefixPaddingMs == 0 {
		cfg.Realtime.TurnDetection.PrefixPaddingMs = defaults.Realtime.TurnDetection.PrefixPaddingMs
	}
	if cfg.Realtime.TurnDetection.SilenceDurationMs == 0 {
		cfg.Realtime.TurnDetection.SilenceDurationMs = defaults.Realtime.TurnDetection.SilenceDurationMs
	}
	if cfg.Realtime.SettleDelayMs == 0 {
		cfg.Realtime.SettleDelayMs = defaults.Realtime.SettleDelayMs
	}
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Realtime.TurnDetection.Threshold < 0 || cfg.Realtime.TurnDetection.Threshold > 1 {
		errs = append(errs, fmt.Errorf("realtime.turn_detection.threshold %f must be within [0, 1]", cfg.Realtime.TurnDetection.Threshold))
	}
	if cfg.Realtime.TurnDetection.SilenceDurationMs < 0 {
		errs = append(errs, fmt.Errorf("realtime.turn_detection.silence_duration_ms must not be negative"))
	}
	if cfg.Realtime.SettleDelayMs < 0 {
		errs = append(errs, fmt.Errorf("realtime.settle_delay_ms must not be negative"))
	}
	if cfg.Backend.URL == "" && cfg.Backend.APIKey != "" {
		errs = append(errs, fmt.Errorf("backend.api_key is set but backend.url is empty"))
	}

	return errors.Join(errs...)
}
