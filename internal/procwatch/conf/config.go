package conf

import (
	"time"

	"github.com/sjzar/procwatch/internal/errors"
	"github.com/sjzar/procwatch/internal/state"
)

const (
	DefaultHTTPAddr        = "0.0.0.0:4242"
	DefaultPollInterval    = time.Second
	DefaultRefreshInterval = time.Second
	DefaultKillGrace       = 100 * time.Millisecond
	DefaultProcRoot        = "/proc"

	minInterval = 50 * time.Millisecond
)

type Config struct {
	ConfigDir       string        `mapstructure:"-" json:"config_dir"`
	HTTPAddr        string        `mapstructure:"http_addr" json:"http_addr"`
	HTTPEnabled     bool          `mapstructure:"http_enabled" json:"http_enabled"`
	PollInterval    time.Duration `mapstructure:"poll_interval" json:"poll_interval"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" json:"refresh_interval"`
	KillGrace       time.Duration `mapstructure:"kill_grace" json:"kill_grace"`
	ProcRoot        string        `mapstructure:"proc_root" json:"proc_root"`
	SortOrder       string        `mapstructure:"sort_order" json:"sort_order"`
}

// Defaults 以字符串形式保存时长，写入配置文件后仍可读
var Defaults = map[string]any{
	"http_addr":        DefaultHTTPAddr,
	"http_enabled":     true,
	"poll_interval":    DefaultPollInterval.String(),
	"refresh_interval": DefaultRefreshInterval.String(),
	"kill_grace":       DefaultKillGrace.String(),
	"proc_root":        DefaultProcRoot,
	"sort_order":       state.Ascending.String(),
}

// Validate rejects values the monitor cannot run with.
func (c *Config) Validate() error {
	if c.PollInterval < minInterval {
		return errors.ConfigInvalid("poll_interval", nil)
	}
	if c.RefreshInterval < minInterval {
		return errors.ConfigInvalid("refresh_interval", nil)
	}
	if c.KillGrace < 0 {
		return errors.ConfigInvalid("kill_grace", nil)
	}
	if c.HTTPEnabled && c.HTTPAddr == "" {
		return errors.ConfigInvalid("http_addr", nil)
	}
	return nil
}

func (c *Config) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	return c.HTTPAddr
}

func (c *Config) GetProcRoot() string {
	if c.ProcRoot == "" {
		c.ProcRoot = DefaultProcRoot
	}
	return c.ProcRoot
}

func (c *Config) GetOrder() state.Order {
	return state.ParseOrder(c.SortOrder)
}
