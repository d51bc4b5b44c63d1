package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voltlane/silt/internal/filter"
)

func newFilterTestCmd(out, errOut *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "filter"}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.Flags().Bool("stats", false, "print a statistics summary to stderr after filtering")
	cmd.Flags().Bool("no-color", false, "disable colored output")
	return cmd
}

func writeTempFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func TestFilterNoneIsByteIdentical(t *testing.T) {
	viper.Reset()
	viper.Set("level", "none")

	content := joinLines([]string{
		"ghdl:info: elaboration completed",
		"NUMERIC_STD.TO_INTEGER: metavalue detected, returning 0",
		"NUMERIC_STD.TO_INTEGER: metavalue detected, returning 0",
		"some unrecognized content",
	}) + "\n"

	dir := t.TempDir()
	file := writeTempFile(t, dir, "sim.log", content)

	var out, errOut bytes.Buffer
	cmd := newFilterTestCmd(&out, &errOut)

	if err := runFilter(cmd, []string{file}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	if out.String() != content {
		t.Errorf("output at level none is not byte-identical:\ngot:  %q\nwant: %q", out.String(), content)
	}
}

func TestFilterAggressiveScenario(t *testing.T) {
	viper.Reset()
	viper.Set("level", "aggressive")

	var lines []string
	warnings := []string{
		"NUMERIC_STD.TO_INTEGER: metavalue detected, returning 0",
		"NUMERIC_STD.TO_UNSIGNED: metavalue detected, returning 0",
		"NUMERIC_STD.\"=\": metavalue detected, returning FALSE",
	}
	for _, w := range warnings {
		for i := 0; i < 50; i++ {
			lines = append(lines, w)
		}
	}
	lines = append(lines, "ERROR: timeout")

	dir := t.TempDir()
	file := writeTempFile(t, dir, "sim.log", joinLines(lines)+"\n")

	var out, errOut bytes.Buffer
	cmd := newFilterTestCmd(&out, &errOut)

	if err := runFilter(cmd, []string{file}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	want := append(append([]string{}, warnings...), "ERROR: timeout")
	if len(got) != len(want) {
		t.Fatalf("emitted %d lines, want %d:\n%s", len(got), len(want), out.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilterUnknownLevel(t *testing.T) {
	viper.Reset()
	viper.Set("level", "extreme")

	var out, errOut bytes.Buffer
	cmd := newFilterTestCmd(&out, &errOut)

	err := runFilter(cmd, []string{"irrelevant.log"})
	if !errors.Is(err, filter.ErrUnknownLevel) {
		t.Errorf("runFilter() error = %v, want ErrUnknownLevel", err)
	}
	if out.Len() != 0 {
		t.Errorf("no output expected on configuration error, got %q", out.String())
	}
}

func TestFilterStdin(t *testing.T) {
	viper.Reset()
	viper.Set("level", "normal")

	input := joinLines([]string{
		"null argument detected, returning NAU",
		"null argument detected, returning NAU",
		"FAIL: conversion mismatch",
	}) + "\n"

	var out, errOut bytes.Buffer
	cmd := newFilterTestCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(input))

	if err := runFilter(cmd, nil); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	want := "null argument detected, returning NAU\nFAIL: conversion mismatch\n"
	if out.String() != want {
		t.Errorf("stdin output = %q, want %q", out.String(), want)
	}
}

func TestFilterStatsToStderr(t *testing.T) {
	viper.Reset()
	viper.Set("level", "normal")
	viper.Set("format", "text")
	viper.Set("stats", true)

	dir := t.TempDir()
	file := writeTempFile(t, dir, "sim.log", joinLines([]string{
		"metavalue detected, returning 0",
		"metavalue detected, returning 0",
		"PASS: all checks",
	})+"\n")

	var out, errOut bytes.Buffer
	cmd := newFilterTestCmd(&out, &errOut)

	if err := runFilter(cmd, []string{file}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	if strings.Contains(out.String(), "Observed") {
		t.Error("statistics leaked into stdout")
	}
	if !strings.Contains(errOut.String(), "Observed 3 lines, emitted 2") {
		t.Errorf("stderr missing statistics summary, got:\n%s", errOut.String())
	}
}

func TestFilterMultiFile(t *testing.T) {
	viper.Reset()
	viper.Set("level", "normal")

	dir := t.TempDir()
	fileA := writeTempFile(t, dir, "run_a.log", "metavalue detected, returning 0\n")
	fileB := writeTempFile(t, dir, "run_b.log", "metavalue detected, returning 0\n")

	var out, errOut bytes.Buffer
	cmd := newFilterTestCmd(&out, &errOut)

	if err := runFilter(cmd, []string{fileA, fileB}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	// Each file is its own session, so the warning survives in both.
	want := "==> " + fileA + " <==\n" +
		"metavalue detected, returning 0\n" +
		"==> " + fileB + " <==\n" +
		"metavalue detected, returning 0\n"
	if out.String() != want {
		t.Errorf("multi-file output = %q, want %q", out.String(), want)
	}
}

func TestFilterMalformedLineMidStream(t *testing.T) {
	viper.Reset()
	viper.Set("level", "aggressive")

	content := "ghdl:info: elaboration completed\n\xff\xfe broken bytes\nFAIL: mismatch\n"

	dir := t.TempDir()
	file := writeTempFile(t, dir, "sim.log", content)

	var out, errOut bytes.Buffer
	cmd := newFilterTestCmd(&out, &errOut)

	if err := runFilter(cmd, []string{file}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	want := "\xff\xfe broken bytes\nFAIL: mismatch\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
