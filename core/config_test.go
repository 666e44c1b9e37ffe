package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Autoplay {
		t.Fatalf("autoplay should default on")
	}
	if cfg.Letterbox != LetterboxFullscreen {
		t.Fatalf("expected letterbox %q, got %q", LetterboxFullscreen, cfg.Letterbox)
	}
	if cfg.MaxExecutionDuration != 15*time.Second {
		t.Fatalf("expected 15s max execution, got %v", cfg.MaxExecutionDuration)
	}
	if cfg.SampleRate != 48000 {
		t.Fatalf("expected 48000 sample rate, got %d", cfg.SampleRate)
	}
	if cfg.FrameRate != 0 {
		t.Fatalf("frame rate override should default off, got %v", cfg.FrameRate)
	}
	if cfg.LoadBehavior != LoadStreaming {
		t.Fatalf("expected load behavior %q, got %q", LoadStreaming, cfg.LoadBehavior)
	}
}

func TestApplyVariable(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.ApplyVariable("eflash_autoplay", "false") {
		t.Fatalf("autoplay=false should apply")
	}
	if cfg.Autoplay {
		t.Fatalf("autoplay should be off")
	}

	if !cfg.ApplyVariable("eflash_letterbox", "off") {
		t.Fatalf("letterbox=off should apply")
	}
	if cfg.Letterbox != LetterboxOff {
		t.Fatalf("expected letterbox off, got %q", cfg.Letterbox)
	}

	if !cfg.ApplyVariable("eflash_max_execution_duration", "30") {
		t.Fatalf("max_execution_duration=30 should apply")
	}
	if cfg.MaxExecutionDuration != 30*time.Second {
		t.Fatalf("expected 30s, got %v", cfg.MaxExecutionDuration)
	}

	if !cfg.ApplyVariable("eflash_sample_rate", "44100") {
		t.Fatalf("sample_rate=44100 should apply")
	}
	if cfg.SampleRate != 44100 {
		t.Fatalf("expected 44100, got %d", cfg.SampleRate)
	}

	if !cfg.ApplyVariable("eflash_frame_rate", "60") {
		t.Fatalf("frame_rate=60 should apply")
	}
	if cfg.FrameRate != 60 {
		t.Fatalf("expected 60, got %v", cfg.FrameRate)
	}

	if !cfg.ApplyVariable("eflash_load_behavior", "blocking") {
		t.Fatalf("load_behavior=blocking should apply")
	}
	if cfg.LoadBehavior != LoadBlocking {
		t.Fatalf("expected blocking, got %q", cfg.LoadBehavior)
	}
}

func TestApplyVariableRejects(t *testing.T) {
	cfg := DefaultConfig()
	before := cfg

	cases := []struct {
		key, value string
	}{
		{"autoplay", "true"},                        // missing prefix
		{"eflash_unknown", "1"},                     // unknown key
		{"eflash_autoplay", "maybe"},                // bad bool
		{"eflash_letterbox", "sideways"},            // unknown mode
		{"eflash_max_execution_duration", "-5"},     // negative
		{"eflash_max_execution_duration", "soon"},   // not a number
		{"eflash_sample_rate", "0"},                 // non-positive
		{"eflash_frame_rate", "-1"},                 // negative
		{"eflash_load_behavior", "eventually"},      // unknown behavior
	}
	for _, tc := range cases {
		if cfg.ApplyVariable(tc.key, tc.value) {
			t.Fatalf("%s=%s should be rejected", tc.key, tc.value)
		}
	}

	if cfg != before {
		t.Fatalf("rejected variables must not modify the config")
	}
}

func TestLoadConfigCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eflash.yaml")
	content := "autoplay: false\nletterbox: \"on\"\nsample_rate: 22050\nframe_rate: 30\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Autoplay {
		t.Fatalf("autoplay should be off")
	}
	if cfg.Letterbox != LetterboxOn {
		t.Fatalf("expected letterbox on, got %q", cfg.Letterbox)
	}
	if cfg.SampleRate != 22050 {
		t.Fatalf("expected 22050, got %d", cfg.SampleRate)
	}
	if cfg.FrameRate != 30 {
		t.Fatalf("expected 30, got %v", cfg.FrameRate)
	}
	// Unset keys keep their defaults.
	if cfg.LoadBehavior != LoadStreaming {
		t.Fatalf("expected default load behavior, got %q", cfg.LoadBehavior)
	}
}

func TestLoadConfigMissingCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	cfg, err := LoadConfig(path)
	if err == nil {
		t.Fatalf("expected an error for a missing explicit config path")
	}
	// Defaults still come back so callers can proceed.
	if cfg.SampleRate != 48000 {
		t.Fatalf("expected defaults on error, got sample rate %d", cfg.SampleRate)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eflash.yaml")
	if err := os.WriteFile(path, []byte("autoplay: [broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}
