package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/voltlane/silt/internal/filter"
)

func TestColorizeResult(t *testing.T) {
	tests := []struct {
		name          string
		result        filter.Result
		expectColor   bool
		expectedColor string
	}{
		{
			name:          "preserved failure - bold red",
			result:        filter.Result{Text: "FAIL: conversion mismatch", Category: filter.CategoryPreserve},
			expectColor:   true,
			expectedColor: colorBold + colorRed,
		},
		{
			name:          "preserved pass - green",
			result:        filter.Result{Text: "** TEST PASSED **", Category: filter.CategoryPreserve},
			expectColor:   true,
			expectedColor: colorGreen,
		},
		{
			name:        "preserved header - no color",
			result:      filter.Result{Text: "T1: zero vector", Category: filter.CategoryPreserve},
			expectColor: false,
		},
		{
			name:          "metavalue warning - yellow",
			result:        filter.Result{Text: "metavalue detected, returning 0", Category: filter.CategoryMetavalueWarning},
			expectColor:   true,
			expectedColor: colorYellow,
		},
		{
			name:          "initialization warning - yellow",
			result:        filter.Result{Text: "@0ms: not yet stable", Category: filter.CategoryInitWarning},
			expectColor:   true,
			expectedColor: colorYellow,
		},
		{
			name:          "internal message - gray",
			result:        filter.Result{Text: "ghdl:info: elaboration completed", Category: filter.CategoryInternalMessage},
			expectColor:   true,
			expectedColor: colorGray,
		},
		{
			name:          "duplicate - gray",
			result:        filter.Result{Text: "metavalue detected, returning 0", Category: filter.CategoryDuplicate},
			expectColor:   true,
			expectedColor: colorGray,
		},
		{
			name:        "other noise - no color",
			result:      filter.Result{Text: "Testing byte 0x3C", Category: filter.CategoryOtherNoise},
			expectColor: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ColorizeResult(tt.result)

			if tt.expectColor {
				if !strings.Contains(result, tt.expectedColor) {
					t.Errorf("Expected result to contain color code %q, got: %s", tt.expectedColor, result)
				}
				if !strings.Contains(result, colorReset) {
					t.Errorf("Expected result to contain reset code, got: %s", result)
				}
				if !strings.Contains(result, tt.result.Text) {
					t.Errorf("Expected result to contain line %q, got: %s", tt.result.Text, result)
				}
			} else {
				if result != tt.result.Text {
					t.Errorf("Expected line to be unchanged, got: %s", result)
				}
			}
		})
	}
}

func TestFormatResult(t *testing.T) {
	res := filter.Result{
		Text:     "ERROR: timeout waiting for ready",
		Category: filter.CategoryPreserve,
	}

	t.Run("with colorize", func(t *testing.T) {
		result := FormatResult(res, true)
		if !strings.Contains(result, colorRed) {
			t.Errorf("Expected red color in result: %s", result)
		}
		if !strings.Contains(result, res.Text) {
			t.Errorf("Expected original line in result: %s", result)
		}
	})

	t.Run("without colorize", func(t *testing.T) {
		result := FormatResult(res, false)
		if result != res.Text {
			t.Errorf("Expected raw line %q, got: %s", res.Text, result)
		}
		if strings.Contains(result, "\033[") {
			t.Errorf("Expected no color codes, got: %s", result)
		}
	})
}

func TestShouldColorize(t *testing.T) {
	tests := []struct {
		name     string
		mode     ColorMode
		writer   interface{}
		expected bool
	}{
		{
			name:     "ColorAlways - any writer",
			mode:     ColorAlways,
			writer:   &bytes.Buffer{},
			expected: true,
		},
		{
			name:     "ColorNever - any writer",
			mode:     ColorNever,
			writer:   os.Stdout,
			expected: false,
		},
		{
			name:     "ColorAuto - non-file writer",
			mode:     ColorAuto,
			writer:   &bytes.Buffer{},
			expected: false,
		},
		{
			name:     "ColorAuto - file writer (stdout)",
			mode:     ColorAuto,
			writer:   os.Stdout,
			expected: isTerminal(os.Stdout), // Depends on test environment
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shouldColorize(tt.mode, tt.writer)
			if result != tt.expected {
				t.Errorf("shouldColorize() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input    string
		expected ColorMode
	}{
		{"always", ColorAlways},
		{"ALWAYS", ColorAlways},
		{"never", ColorNever},
		{"auto", ColorAuto},
		{"", ColorAuto},
		{"bogus", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseColorMode(tt.input); got != tt.expected {
				t.Errorf("ParseColorMode(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWriteResult(t *testing.T) {
	res := filter.Result{
		Text:     "FAIL: conversion mismatch",
		Category: filter.CategoryPreserve,
	}

	t.Run("ColorNever mode", func(t *testing.T) {
		buf := &bytes.Buffer{}
		writer := New(buf, FormatText)

		if err := writer.WriteResult(res, ColorNever); err != nil {
			t.Fatalf("WriteResult() error = %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "\033[") {
			t.Errorf("Expected no color codes, got: %s", output)
		}
		if !strings.Contains(output, res.Text) {
			t.Errorf("Expected message in output, got: %s", output)
		}
	})

	t.Run("ColorAlways mode", func(t *testing.T) {
		buf := &bytes.Buffer{}
		writer := New(buf, FormatText)

		if err := writer.WriteResult(res, ColorAlways); err != nil {
			t.Fatalf("WriteResult() error = %v", err)
		}

		if !strings.Contains(buf.String(), colorRed) {
			t.Errorf("Expected red color code, got: %s", buf.String())
		}
	})

	t.Run("ColorAuto mode with buffer (not TTY)", func(t *testing.T) {
		buf := &bytes.Buffer{}
		writer := New(buf, FormatText)

		if err := writer.WriteResult(res, ColorAuto); err != nil {
			t.Fatalf("WriteResult() error = %v", err)
		}

		if strings.Contains(buf.String(), "\033[") {
			t.Errorf("Expected no color codes for non-TTY, got: %s", buf.String())
		}
	})
}

func TestColorizeResultPreservesContent(t *testing.T) {
	testLines := []string{
		"simple line",
		"line with special chars: !@#$%^&*()",
		"line with numbers 12345",
		"line with\ttabs\tand\tspaces",
	}

	for _, line := range testLines {
		t.Run(line, func(t *testing.T) {
			colored := ColorizeResult(filter.Result{Text: line, Category: filter.CategoryInternalMessage})

			cleaned := strings.ReplaceAll(colored, colorGray, "")
			cleaned = strings.ReplaceAll(cleaned, colorReset, "")

			if cleaned != line {
				t.Errorf("Content was modified: expected %q, got %q", line, cleaned)
			}
		})
	}
}
