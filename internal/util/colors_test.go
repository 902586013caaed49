package util

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColorOutput(t *testing.T) {
	// Force color output even when not attached to a terminal
	original := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = original }()

	for _, options := range [][]string{
		{"green"},
		{"bold"},
		{"bold", "underline"},
	} {
		output := ColorOutput("total", options...)
		if !strings.Contains(output, "total") {
			t.Errorf("Expected output to contain the text, got %q", output)
		}
		if !strings.Contains(output, "\x1b[") {
			t.Errorf("Expected ANSI escape codes for %v, got %q", options, output)
		}
	}
}

func TestColorOutputUnknownOption(t *testing.T) {
	output := ColorOutput("plain", "sparkly")
	if !strings.Contains(output, "plain") {
		t.Errorf("Expected output to contain the text, got %q", output)
	}
}
