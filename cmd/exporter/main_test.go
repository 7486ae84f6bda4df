package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zgpcy/azure-spend-exporter/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile = ""
		_ = rootCmd.PersistentFlags().Set("env-file", ".env")
		rootCmd.PersistentFlags().Lookup("env-file").Changed = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if !strings.Contains(out, version.Version) || !strings.Contains(out, "commit") {
		t.Errorf("version output: got %q", out)
	}
}

func TestScrapeCommand_MissingEnvFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	_, err := execute(t, "scrape", "--env-file", missing)
	if err == nil {
		t.Fatal("expected an error for an explicit env file that does not exist")
	}
	if !strings.Contains(err.Error(), "missing.env") {
		t.Errorf("error should name the env file, got %v", err)
	}
}

func TestScrapeCommand_InvalidConfig(t *testing.T) {
	t.Setenv("AZURE_COST_HTTP_PORT", "70000")

	_, err := execute(t, "scrape", "--env-file", "")
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if !strings.Contains(err.Error(), "failed to load configuration") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "scrape failure already printed", err: errScrapeFailed, want: ""},
		{name: "wrapped scrape failure", err: fmt.Errorf("run: %w", errScrapeFailed), want: ""},
		{name: "config error", err: errors.New("failed to load configuration: bad port"), want: "Error: failed to load configuration: bad port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage(tt.err); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
