// Package config loads mudra's runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Config holds process-level settings. Detection thresholds are fixed in
// code and deliberately absent here.
type Config struct {
	CameraID  int    `env:"MUDRA_CAMERA_ID" envDefault:"0"`
	CameraFPS int    `env:"MUDRA_CAMERA_FPS" envDefault:"30"`
	AssetDir  string `env:"MUDRA_ASSET_DIR"`
	DataDir   string `env:"MUDRA_DATA_DIR"`
	HTTPAddr  string `env:"MUDRA_HTTP_ADDR"`
	StaticDir string `env:"MUDRA_STATIC_DIR"`
	LogLevel  string `env:"MUDRA_LOG_LEVEL" envDefault:"info"`
	// AudioPlayer is an external command for the cue. Empty plays it
	// in-process.
	AudioPlayer string `env:"MUDRA_AUDIO_PLAYER"`
	MQTTBroker  string `env:"MUDRA_MQTT_BROKER"`
	MQTTTopic   string `env:"MUDRA_MQTT_TOPIC" envDefault:"mudra/display"`
	Tray        bool   `env:"MUDRA_TRAY" envDefault:"false"`
	Window      bool   `env:"MUDRA_WINDOW" envDefault:"true"`
	Mirror      bool   `env:"MUDRA_MIRROR" envDefault:"true"`
}

// Setting keys shared with the settings store. Stored values fill in
// fields the environment leaves unset.
const (
	KeyCameraID    = "camera_id"
	KeyAssetDir    = "asset_dir"
	KeyAudioPlayer = "audio_player"
)

// Load parses the environment and fills in directory defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".mudra")
	}

	return cfg, nil
}

// DBPath returns the path of the settings database inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}

// Settings is the read side of the settings store.
type Settings interface {
	Get(key string) (string, error)
}

// Merge fills fields left empty by the environment from stored settings.
// Lookup errors other than a missing key are returned.
func (c Config) Merge(s Settings, isNotFound func(error) bool) (Config, error) {
	if s == nil {
		return c, nil
	}

	fill := func(key string, set func(string) error) error {
		v, err := s.Get(key)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return fmt.Errorf("setting %s: %w", key, err)
		}
		return set(v)
	}

	if _, ok := os.LookupEnv("MUDRA_CAMERA_ID"); !ok {
		err := fill(KeyCameraID, func(v string) error {
			id, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("setting %s: %w", KeyCameraID, err)
			}
			c.CameraID = id
			return nil
		})
		if err != nil {
			return c, err
		}
	}
	if c.AssetDir == "" {
		if err := fill(KeyAssetDir, func(v string) error { c.AssetDir = v; return nil }); err != nil {
			return c, err
		}
	}
	if c.AudioPlayer == "" {
		if err := fill(KeyAudioPlayer, func(v string) error { c.AudioPlayer = v; return nil }); err != nil {
			return c, err
		}
	}

	return c, nil
}
