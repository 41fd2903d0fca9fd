package logger

import (
	"testing"
)

func TestNew(t *testing.T) {
	// Test with text format
	cfg := Config{
		Level:  "info",
		Format: "text",
	}
	logger := New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	// Test with json format
	cfg.Format = "json"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	// Test with invalid level (should default to info)
	cfg.Level = "invalid"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}
}

func TestWithHelpers(t *testing.T) {
	logger := Default()

	if logger.WithComponent("guess-engine") == nil {
		t.Error("Expected component logger to not be nil")
	}
	if logger.WithGame(42) == nil {
		t.Error("Expected game logger to not be nil")
	}
	if logger.WithUser("alice") == nil {
		t.Error("Expected user logger to not be nil")
	}
}
