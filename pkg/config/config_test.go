package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Addr     string        `mapstructure:"addr"`
	Interval time.Duration `mapstructure:"interval"`
	Grace    time.Duration `mapstructure:"grace"`
}

func TestManagerLoad(t *testing.T) {
	dir := t.TempDir()
	content := `{"addr": "127.0.0.1:1", "interval": "2s", "grace": 250}`
	if err := os.WriteFile(filepath.Join(dir, "app.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := New("app", dir, "", "", false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	conf := &testConfig{}
	if err := m.Load(conf); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if conf.Addr != "127.0.0.1:1" || conf.Interval != 2*time.Second || conf.Grace != 250*time.Millisecond {
		t.Errorf("Load() = %+v", conf)
	}
}

func TestManagerDefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APPX_ADDR", "10.0.0.1:80")

	m, err := New("app", dir, "", "appx", true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	SetDefaults(m.Viper, map[string]any{
		"addr":     "0.0.0.0:1",
		"interval": time.Second,
		"grace":    "100ms",
	})

	conf := &testConfig{}
	if err := m.Load(conf); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if conf.Addr != "10.0.0.1:80" {
		t.Errorf("env override: addr = %s", conf.Addr)
	}
	if conf.Interval != time.Second || conf.Grace != 100*time.Millisecond {
		t.Errorf("defaults: %+v", conf)
	}
	if _, err := os.Stat(filepath.Join(dir, "app.json")); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestPrepareDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := PrepareDir(dir); err != nil {
		t.Fatalf("PrepareDir() error = %v", err)
	}
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := PrepareDir(file); err != ErrInvalidDirectory {
		t.Errorf("PrepareDir(file) = %v, want ErrInvalidDirectory", err)
	}
}
