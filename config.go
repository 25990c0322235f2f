package furshell

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the player-facing settings persisted between runs.
type Config struct {
	Fullscreen       bool    `yaml:"fullscreen"`
	Monitor          string  `yaml:"monitor,omitempty"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
}

func DefaultConfig() Config {
	return Config{
		Fullscreen:       false,
		MouseSensitivity: 0.1,
		Width:            1920,
		Height:           1080,
	}
}

// LoadConfig reads the config file at path. A missing file is not an error;
// it yields the defaults.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func SaveConfig(path string, cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
