package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_KeepsDefaults(t *testing.T) {
	path := writeFile(t, "name: lifeflow\n")
	cfg := &sample{Port: 8080}
	if err := Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "lifeflow" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, "")
	cfg := &sample{Port: 1}
	if err := Load(path, cfg); err != nil {
		t.Fatalf("empty file should keep defaults: %v", err)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeFile(t, "prot: 9000\n")
	cfg := &sample{Port: 1}
	err := Load(path, cfg)
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("err = %v, want parse failure", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	cfg := &sample{}
	err := Load(path, cfg)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("err = %v, want validation failure", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := &sample{}
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), cfg)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("LF_PORT", "9100")
	t.Setenv("LF_EMPTY", "")

	cases := map[string]string{
		"port: ${LF_PORT}":         "port: 9100",
		"port: $LF_PORT":           "port: 9100",
		"port: ${LF_PORT:-1}":      "port: 9100",
		"port: ${LF_EMPTY:-7}":     "port: 7",
		"port: ${LF_UNSET_XYZ:-8}": "port: 8",
		"name: ${LF_UNSET_XYZ}":    "name: ",
	}
	for in, want := range cases {
		if got := Expand(in); got != want {
			t.Errorf("Expand(%q) = %q, want %q", in, got, want)
		}
	}
}
