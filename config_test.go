package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xdrpc.ini")
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func parseWithConfig(t *testing.T, args ...string) Options {
	t.Helper()
	options := Options{}
	parser := newParser(&options)
	if err := loadConfig(parser, findConfig()); err != nil {
		t.Fatalf("loadConfig failed: %s", err)
	}
	if _, err := parser.ParseArgs(args); err != nil {
		t.Fatalf("ParseArgs failed: %s", err)
	}
	return options
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[call]
base = https://ini.example.com/
page = https://www.example.com/watch
timeout = 3s
`)
	t.Setenv(configEnv, path)
	if got := findConfig(); got != path {
		t.Fatalf("findConfig: got: %q; want %q", got, path)
	}

	options := parseWithConfig(t, "call", "ping")
	if got, want := options.Call.Base, "https://ini.example.com/"; got != want {
		t.Errorf("base: got: %q; want %q", got, want)
	}
	if got, want := options.Call.Page, "https://www.example.com/watch"; got != want {
		t.Errorf("page: got: %q; want %q", got, want)
	}
	if got, want := options.Call.Timeout, 3*time.Second; got != want {
		t.Errorf("timeout: got: %s; want %s", got, want)
	}
	if got, want := options.Serve.Bind, "127.0.0.1:8080"; got != want {
		t.Errorf("untouched default: got: %q; want %q", got, want)
	}

	// Flags win over the file.
	options = parseWithConfig(t, "call", "--base", "http://flag/", "ping")
	if got, want := options.Call.Base, "http://flag/"; got != want {
		t.Errorf("base: got: %q; want %q", got, want)
	}
	if got, want := options.Call.Page, "https://www.example.com/watch"; got != want {
		t.Errorf("page: got: %q; want %q", got, want)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.ini")

	// An explicitly named file must exist.
	t.Setenv(configEnv, missing)
	options := Options{}
	if err := loadConfig(newParser(&options), findConfig()); err == nil {
		t.Errorf("expected error for missing %s", missing)
	}

	// A missing file in the config dirs is skipped.
	t.Setenv(configEnv, "")
	if err := loadConfig(newParser(&options), missing); err != nil {
		t.Errorf("got: %v; want no error", err)
	}
	if err := loadConfig(newParser(&options), ""); err != nil {
		t.Errorf("got: %v; want no error", err)
	}
}
