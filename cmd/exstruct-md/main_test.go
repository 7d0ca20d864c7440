package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/exstruct-md/internal/testutil"
)

func TestExecuteMissingInputExitsTwo(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer

	code := execute(context.Background(), []string{"-i", filepath.Join(dir, "missing.xlsx"), "-o", filepath.Join(dir, "out")}, &stderr)
	if code != exitInputMissing {
		t.Errorf("exit code = %d, want %d", code, exitInputMissing)
	}
	if !strings.Contains(stderr.String(), "input file not found") {
		t.Errorf("stderr = %q, want input-not-found message", stderr.String())
	}
}

func TestExecuteDirectoryInputExitsTwo(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer

	code := execute(context.Background(), []string{"-i", dir, "-o", filepath.Join(dir, "out")}, &stderr)
	if code != exitInputMissing {
		t.Errorf("exit code = %d, want %d", code, exitInputMissing)
	}
}

func TestExecuteRequiresInput(t *testing.T) {
	var stderr bytes.Buffer
	code := execute(context.Background(), []string{"-o", t.TempDir()}, &stderr)
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
}

func TestExecuteInvalidArchiveExitsOne(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.xlsx")
	if err := os.WriteFile(input, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	code := execute(context.Background(), []string{"-i", input, "-o", filepath.Join(dir, "out")}, &stderr)
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
}

func TestExecuteWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteZip(t, dir, "book.xlsx", testutil.BaseParts("Q1 Sales (Draft)"))
	outDir := filepath.Join(dir, "out")

	var stderr bytes.Buffer
	code := execute(context.Background(), []string{"-i", input, "-o", outDir, "--html", "--log-level", "error"}, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	for _, name := range []string{"extracted_data.json", "converted.md", "converted.html"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	md, _ := os.ReadFile(filepath.Join(outDir, "converted.md"))
	if !strings.Contains(string(md), "- [Q1 Sales (Draft)](#q1-sales-draft)") {
		t.Errorf("table of contents missing from:\n%s", md)
	}
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteZip(t, dir, "book.xlsx", testutil.BaseParts("Sheet1"))
	cfgOut := filepath.Join(dir, "from-config")
	flagOut := filepath.Join(dir, "from-flag")

	cfgPath := filepath.Join(dir, "config.yaml")
	content := "output:\n  dir: " + cfgOut + "\n  markdown_file: book.md\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(configEnv, cfgPath)
	var stderr bytes.Buffer
	if code := execute(context.Background(), []string{"-i", input}, &stderr); code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(cfgOut, "book.md")); err != nil {
		t.Errorf("config output dir not used: %v", err)
	}

	if code := execute(context.Background(), []string{"-i", input, "-o", flagOut}, &stderr); code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(flagOut, "book.md")); err != nil {
		t.Errorf("flag output dir not used: %v", err)
	}
}
