package config

import (
	"os"
	"path/filepath"

	"media-converter/internal/domain"
)

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		FFmpegPath:       "ffmpeg",
		FFprobePath:      "ffprobe",
		LastInputDir:     filepath.Join(homeDir, "Videos"),
		LastOutputDir:    filepath.Join(homeDir, "Videos", "Converted"),
		DefaultPreset:    "YouTube Upload",
		OptimizeWeb:      true,
		PreserveMetadata: true,
	}
}

// DefaultPath returns the settings file location under the user home.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".media-converter", "settings.toml")
}
