package main

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/yuanying/docx-rebrand/internal/config"
	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

func findCmd(t *testing.T, name string, flagArgs ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := newRootCmd().Find([]string{name})
	if err != nil {
		t.Fatalf("Find(%q) error = %v", name, err)
	}
	if err := cmd.ParseFlags(flagArgs); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func readRebrandOptionsForTest(t *testing.T, flagArgs ...string) error {
	t.Helper()
	_, err := readRebrandOptions(findCmd(t, "rebrand", flagArgs...), []string{"./input/policy.docx"})
	return err
}

func TestReadRebrandOptions_Defaults(t *testing.T) {
	cmd := findCmd(t, "rebrand", "--brand", "Globex")
	opts, err := readRebrandOptions(cmd, []string{"./input/policy.docx"})
	if err != nil {
		t.Fatalf("readRebrandOptions() error = %v", err)
	}

	if opts.Brand != "Globex" {
		t.Fatalf("Brand = %q", opts.Brand)
	}
	if opts.Jobs != opts.Config.Jobs || opts.Jobs < 1 {
		t.Fatalf("Jobs = %d, want config default %d", opts.Jobs, opts.Config.Jobs)
	}
	if opts.OutputDir != "" {
		t.Fatalf("OutputDir = %q, want empty", opts.OutputDir)
	}
	if opts.Config.Brand.Original != "Aistra" {
		t.Fatalf("Config.Brand.Original = %q", opts.Config.Brand.Original)
	}
	if opts.Logger == nil {
		t.Fatal("Logger is nil, want non-nil")
	}
	if !opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Logger should be enabled at INFO level by default")
	}
	if opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should not be enabled at DEBUG level by default")
	}
}

func TestReadRebrandOptions_CustomFlags(t *testing.T) {
	cmd := findCmd(t, "rebrand",
		"--brand", "Globex Inc.",
		"--original", "Contoso",
		"--logo", "./logo.png",
		"--header-text", "Globex Security",
		"--footer-center", "Confidential",
		"--footer-right", "Prepared by Globex",
		"--output-dir", "./out",
		"--jobs", "3",
		"--logo-max-width", "400",
		"--verbose",
	)

	opts, err := readRebrandOptions(cmd, []string{"./input/policy.docx"})
	if err != nil {
		t.Fatalf("readRebrandOptions() error = %v", err)
	}

	if opts.Original != "Contoso" || opts.LogoPath != "./logo.png" || opts.HeaderText != "Globex Security" {
		t.Fatalf("opts = %+v", opts)
	}
	if opts.FooterCenter != "Confidential" || opts.FooterRight != "Prepared by Globex" {
		t.Fatalf("footer = %q / %q", opts.FooterCenter, opts.FooterRight)
	}
	if opts.OutputDir != "./out" || opts.Jobs != 3 {
		t.Fatalf("OutputDir/Jobs = %q/%d", opts.OutputDir, opts.Jobs)
	}
	if opts.Config.Logo.MaxWidth != 400 {
		t.Fatalf("Logo.MaxWidth = %d", opts.Config.Logo.MaxWidth)
	}
	// --verbose overrides log-level to debug
	if !opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should be enabled at DEBUG level when --verbose is set")
	}
}

func TestReadRebrandOptions_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("jobs: 2\nbrand:\n  original: Contoso\nlog:\n  level: warn\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cmd := findCmd(t, "rebrand", "--config", path, "--brand", "Globex")
	opts, err := readRebrandOptions(cmd, []string{"./input/policy.docx"})
	if err != nil {
		t.Fatalf("readRebrandOptions() error = %v", err)
	}
	if opts.Jobs != 2 || opts.Config.Brand.Original != "Contoso" {
		t.Fatalf("Jobs/Original = %d/%q", opts.Jobs, opts.Config.Brand.Original)
	}
	if opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Logger should honor the configured warn level")
	}
}

func TestReadRebrandOptions_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing brand", nil, "--brand"},
		{"blank brand", []string{"--brand", "  "}, "--brand"},
		{"jobs", []string{"--brand", "X", "--jobs", "0"}, "--jobs"},
		{"logo width", []string{"--brand", "X", "--logo-max-width", "-1"}, "--logo-max-width"},
		{"log level", []string{"--brand", "X", "--log-level", "trace"}, "--log-level"},
		{"log format", []string{"--brand", "X", "--log-format", "yaml"}, "--log-format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := readRebrandOptionsForTest(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %s validation error, got %v", tt.want, err)
			}
		})
	}
}

func TestReadRebrandOptions_RejectsNonDocx(t *testing.T) {
	cmd := findCmd(t, "rebrand", "--brand", "Globex")
	_, err := readRebrandOptions(cmd, []string{"./input/policy.pdf"})
	if err == nil || !strings.Contains(err.Error(), ".docx") {
		t.Fatalf("expected .docx validation error, got %v", err)
	}
}

func TestReadServeOptions(t *testing.T) {
	opts, err := readServeOptions(findCmd(t, "serve"))
	if err != nil {
		t.Fatalf("readServeOptions() error = %v", err)
	}
	if opts.Listen != ":8080" {
		t.Fatalf("Listen = %q, want config default", opts.Listen)
	}

	opts, err = readServeOptions(findCmd(t, "serve", "--listen", "127.0.0.1:9999"))
	if err != nil {
		t.Fatalf("readServeOptions() error = %v", err)
	}
	if opts.Listen != "127.0.0.1:9999" {
		t.Fatalf("Listen = %q", opts.Listen)
	}
}

func TestBuildLogger_FormatNormalization(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&buf, "info", "JSON")
	logger.Info("test message")
	// JSON format should produce JSON output (starts with '{')
	output := buf.String()
	if len(output) == 0 || output[0] != '{' {
		t.Fatalf("expected JSON output for format 'JSON', got: %s", output)
	}
}

func TestOutputPath(t *testing.T) {
	got := outputPath("./docs/policy.docx", "", "Globex_policy.docx")
	if got != filepath.Join("docs", "Globex_policy.docx") {
		t.Fatalf("outputPath() = %q", got)
	}
	got = outputPath("./docs/policy.docx", "./out", "Globex_policy.docx")
	if got != filepath.Join("out", "Globex_policy.docx") {
		t.Fatalf("outputPath() = %q", got)
	}
}

func writeFixture(t *testing.T, path, text string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entries := []struct{ name, body string }{
		{ooxml.ContentTypesPath, `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`},
		{ooxml.DocumentPath, `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`},
	}
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		fw.Write([]byte(e.body))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestRunRebrand(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{filepath.Join(dir, "access.docx"), filepath.Join(dir, "backup.docx")}
	for _, in := range inputs {
		writeFixture(t, in, "Aistra policy")
	}
	outDir := filepath.Join(dir, "out")

	cfg := config.DefaultConfig()
	opts := &rebrandOptions{
		Inputs:    inputs,
		OutputDir: outDir,
		Jobs:      2,
		Brand:     "Globex Inc.",
		Config:    cfg,
		Logger:    buildLogger(io.Discard, "info", "text"),
	}
	if err := runRebrand(context.Background(), opts); err != nil {
		t.Fatalf("runRebrand() error = %v", err)
	}

	for _, name := range []string{"Globex_Inc__access.docx", "Globex_Inc__backup.docx"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
		pkg, err := ooxml.Open(data)
		if err != nil {
			t.Fatalf("ooxml.Open(%s) error = %v", name, err)
		}
		doc, err := pkg.ReadText(ooxml.DocumentPath)
		if err != nil {
			t.Fatalf("ReadText() error = %v", err)
		}
		if !strings.Contains(doc, "Globex Inc. policy") {
			t.Fatalf("%s document = %s", name, doc)
		}
	}
}

func TestRunRebrand_FailsOnInvalidInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.docx")
	if err := os.WriteFile(in, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	opts := &rebrandOptions{
		Inputs: []string{in},
		Jobs:   1,
		Brand:  "Globex",
		Config: config.DefaultConfig(),
		Logger: buildLogger(io.Discard, "info", "text"),
	}
	err := runRebrand(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "broken.docx") {
		t.Fatalf("runRebrand() error = %v, want failure naming the input", err)
	}
}
