// Package config provides configuration types and helpers for silt.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config holds the application-wide configuration.
type Config struct {
	Level  string       `mapstructure:"level"`
	Format string       `mapstructure:"format"`
	Color  string       `mapstructure:"color"`
	Stats  bool         `mapstructure:"stats"`
	Triage TriageConfig `mapstructure:"triage"`
}

// TriageConfig holds settings for the AI triage assistant.
type TriageConfig struct {
	Host        string  `mapstructure:"host"`        // Ollama API endpoint, e.g. "http://localhost:11434"
	Model       string  `mapstructure:"model"`       // Default model name
	Temperature float32 `mapstructure:"temperature"` // 0 keeps triage output consistent
	MaxTokens   int     `mapstructure:"max_tokens"`  // Response length cap (0 = provider default)
	MaxLines    int     `mapstructure:"max_lines"`   // Cap on retained lines sent to the model
}

// ExpandGlobs expands log file paths and glob patterns into a sorted unique
// list. Plain paths must exist; glob patterns must match at least one file.
func ExpandGlobs(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no log files provided")
	}

	files := make([]string, 0)
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		if hasGlobMeta(pattern) {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no matches for pattern %q", pattern)
			}
			for _, match := range matches {
				if _, ok := seen[match]; ok {
					continue
				}
				seen[match] = struct{}{}
				files = append(files, match)
			}
			continue
		}

		if _, err := os.Stat(pattern); err != nil {
			return nil, err
		}
		if _, ok := seen[pattern]; ok {
			continue
		}
		seen[pattern] = struct{}{}
		files = append(files, pattern)
	}

	sort.Strings(files)
	return files, nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
