package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kotsu.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	got, err := Load(write(t, `{"layout-dir": "net", "trace": true, "watch-interval": "1s"}`))
	if err != nil {
		t.Fatal(err)
	}
	expected := Config{
		LayoutDir:     "net",
		Trace:         true,
		WatchInterval: Duration(time.Second),
	}
	if !cmp.Equal(expected, got) {
		t.Fatalf("config: %s", cmp.Diff(expected, got))
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	got, err := Load(write(t, `{"check": true}`))
	if err != nil {
		t.Fatal(err)
	}
	expected := Default()
	expected.Check = true
	if !cmp.Equal(expected, got) {
		t.Fatalf("config: %s", cmp.Diff(expected, got))
	}
}

func TestLoadErrors(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":   `{"trace": `,
		"duration": `{"watch-interval": "soon"}`,
		"negative": `{"watch-interval": "-1s"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(write(t, content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file: expected error")
	}
}
