package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// VariablePrefix prefixes every bridge option key exposed to the host.
const VariablePrefix = "eflash_"

// Letterbox modes.
const (
	LetterboxOff        = "off"
	LetterboxFullscreen = "fullscreen"
	LetterboxOn         = "on"
)

// Load behaviors for the root movie.
const (
	LoadStreaming = "streaming"
	LoadBlocking  = "blocking"
	LoadDelayed   = "delayed"
)

// Config holds the bridge options. Hosts set them through the variable
// callback under VariablePrefix-prefixed keys; the standalone harness
// loads defaults from yaml.
type Config struct {
	// Autoplay starts the movie immediately upon load.
	Autoplay bool `yaml:"autoplay"`

	// Letterbox controls bar rendering when aspect ratios differ.
	Letterbox string `yaml:"letterbox"`

	// MaxExecutionDuration bounds a single script execution slice.
	MaxExecutionDuration time.Duration `yaml:"max_execution_duration"`

	// SampleRate is the preferred audio rate; negotiation may override.
	SampleRate int `yaml:"sample_rate"`

	// FrameRate overrides the movie's declared frame rate. Zero keeps
	// the movie rate.
	FrameRate float64 `yaml:"frame_rate"`

	// LoadBehavior controls how the root movie is loaded.
	LoadBehavior string `yaml:"load_behavior"`
}

// DefaultConfig returns the defaults used when the host sets nothing.
func DefaultConfig() Config {
	return Config{
		Autoplay:             true,
		Letterbox:            LetterboxFullscreen,
		MaxExecutionDuration: 15 * time.Second,
		SampleRate:           48000,
		LoadBehavior:         LoadStreaming,
	}
}

// ApplyVariable applies one host-set option. The key must carry
// VariablePrefix. Returns false for unknown keys or unparseable values;
// unknown keys are not an error, hosts may pass their whole variable set.
func (c *Config) ApplyVariable(key, value string) bool {
	name, ok := strings.CutPrefix(key, VariablePrefix)
	if !ok {
		return false
	}

	switch name {
	case "autoplay":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		c.Autoplay = b
	case "letterbox":
		switch value {
		case LetterboxOff, LetterboxFullscreen, LetterboxOn:
			c.Letterbox = value
		default:
			return false
		}
	case "max_execution_duration":
		secs, err := strconv.Atoi(value)
		if err != nil || secs < 0 {
			return false
		}
		c.MaxExecutionDuration = time.Duration(secs) * time.Second
	case "sample_rate":
		rate, err := strconv.Atoi(value)
		if err != nil || rate <= 0 {
			return false
		}
		c.SampleRate = rate
	case "frame_rate":
		fps, err := strconv.ParseFloat(value, 64)
		if err != nil || fps < 0 {
			return false
		}
		c.FrameRate = fps
	case "load_behavior":
		switch value {
		case LoadStreaming, LoadBlocking, LoadDelayed:
			c.LoadBehavior = value
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// LoadConfig loads configuration from yaml.
// Search order: customPath -> ~/.config/eflash/eflash.yaml ->
// ./eflash.yaml -> built-in defaults.
func LoadConfig(customPath string) (Config, error) {
	cfg := DefaultConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userPath := userConfigPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("eflash.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	return cfg, nil
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "eflash", "eflash.yaml")
}
