package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sjzar/procwatch/internal/state"
)

func TestNewServiceDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := NewService(dir, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	c := s.GetConfig()

	if c.HTTPAddr != DefaultHTTPAddr || !c.HTTPEnabled {
		t.Errorf("http defaults = %q %v", c.HTTPAddr, c.HTTPEnabled)
	}
	if c.PollInterval != DefaultPollInterval || c.RefreshInterval != DefaultRefreshInterval || c.KillGrace != DefaultKillGrace {
		t.Errorf("interval defaults = %+v", c)
	}
	if c.GetProcRoot() != DefaultProcRoot || c.GetOrder() != state.Ascending {
		t.Errorf("proc root %q, order %v", c.ProcRoot, c.GetOrder())
	}
	if c.ConfigDir != dir {
		t.Errorf("config dir = %s, want %s", c.ConfigDir, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, AppName+".json")); err != nil {
		t.Errorf("config file not written on first run: %v", err)
	}

	// 第二次加载读取已写入的文件
	s2, err := NewService(dir, nil)
	if err != nil {
		t.Fatalf("NewService() second load error = %v", err)
	}
	if got := s2.GetConfig().KillGrace; got != DefaultKillGrace {
		t.Errorf("kill_grace after reload = %v", got)
	}
}

func TestNewServiceOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROCWATCH_SORT_ORDER", "desc")

	s, err := NewService(dir, map[string]any{
		"http_addr":     "127.0.0.1:9999",
		"poll_interval": "250ms",
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	c := s.GetConfig()
	if c.HTTPAddr != "127.0.0.1:9999" || c.PollInterval != 250*time.Millisecond {
		t.Errorf("command overrides not applied: %+v", c)
	}
	if c.GetOrder() != state.Descending {
		t.Errorf("env override not applied: sort_order = %q", c.SortOrder)
	}

	b, err := os.ReadFile(filepath.Join(dir, AppName+".json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) == "" || strings.Contains(string(b), "9999") {
		t.Errorf("command overrides written to config file: %s", b)
	}
}

func TestNewServiceInvalid(t *testing.T) {
	_, err := NewService(t.TempDir(), map[string]any{"poll_interval": "1ms"})
	if err == nil {
		t.Fatalf("NewService() accepted a 1ms poll interval")
	}
}

func TestHandleEvent(t *testing.T) {
	dir := t.TempDir()
	s, err := NewService(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	var got *Config
	s.OnChange(func(c *Config) { got = c })

	s.manager.Viper.Set("poll_interval", "3s")
	s.handleEvent(fsnotify.Event{Name: "procwatch.json", Op: fsnotify.Chmod})
	if got != nil {
		t.Fatalf("chmod event triggered reload")
	}

	s.handleEvent(fsnotify.Event{Name: "procwatch.json", Op: fsnotify.Write})
	if got == nil || got.PollInterval != 3*time.Second {
		t.Fatalf("handler config = %+v", got)
	}
	if s.GetConfig().PollInterval != 3*time.Second {
		t.Errorf("service config not updated")
	}

	got = nil
	s.manager.Viper.Set("poll_interval", "1ms")
	s.handleEvent(fsnotify.Event{Name: "procwatch.json", Op: fsnotify.Write})
	if got != nil {
		t.Errorf("invalid config was applied")
	}
}
