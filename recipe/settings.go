package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFile is the name of the optional defaults file.
const SettingsFile = "ggfx.yaml"

// Settings holds defaults read from ggfx.yaml. Zero values mean "not set".
type Settings struct {
	Workers     int    `yaml:"workers,omitempty"`
	MaxSize     int    `yaml:"max_size,omitempty"`
	Format      string `yaml:"format,omitempty"`
	JPEGQuality int    `yaml:"jpeg_quality,omitempty"`
	FrameDelay  int    `yaml:"frame_delay,omitempty"`
}

// LoadOptional reads ggfx.yaml from dir if present. A missing file yields
// empty settings.
func LoadOptional(dir string) (*Settings, error) {
	path := filepath.Join(dir, SettingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SettingsFile, err)
	}
	return &s, nil
}
