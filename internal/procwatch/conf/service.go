package conf

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/sjzar/procwatch/pkg/config"
)

const (
	AppName      = "procwatch"
	EnvPrefix    = "PROCWATCH"
	EnvConfigDir = "PROCWATCH_DIR"
)

// Service 配置服务
type Service struct {
	manager  *config.Manager
	config   *Config
	mu       sync.RWMutex
	handlers []func(*Config)
}

// NewService 加载配置，cmdConf 中的值覆盖配置文件和环境变量
func NewService(configPath string, cmdConf map[string]any) (*Service, error) {
	if configPath == "" {
		configPath = os.Getenv(EnvConfigDir)
	}

	cm, err := config.New(AppName, configPath, "", EnvPrefix, true)
	if err != nil {
		log.Error().Err(err).Msg("load config failed")
		return nil, err
	}
	config.SetDefaults(cm.Viper, Defaults)

	conf := &Config{}
	if err := cm.Load(conf); err != nil {
		log.Error().Err(err).Msg("load config failed")
		return nil, err
	}

	// 命令行参数只覆盖本次运行，不写入配置文件
	if len(cmdConf) > 0 {
		for key, value := range cmdConf {
			cm.Viper.Set(key, value)
		}
		if err := cm.Unmarshal(conf); err != nil {
			log.Error().Err(err).Msg("load command config failed")
			return nil, err
		}
	}
	conf.ConfigDir = cm.Path
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	b, _ := json.Marshal(conf)
	log.Info().Msgf("config: %s", string(b))

	return &Service{
		manager: cm,
		config:  conf,
	}, nil
}

// GetConfig 获取配置副本
func (s *Service) GetConfig() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	configCopy := *s.config
	return &configCopy
}

// OnChange registers fn to run with the new configuration after the config
// file changes.
func (s *Service) OnChange(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Watch 监听配置文件变化
func (s *Service) Watch() {
	s.manager.Watch(s.handleEvent)
}

func (s *Service) handleEvent(e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}

	conf := &Config{}
	if err := s.manager.Unmarshal(conf); err != nil {
		log.Err(err).Str("file", e.Name).Msg("reload config failed")
		return
	}
	if err := conf.Validate(); err != nil {
		log.Err(err).Str("file", e.Name).Msg("ignore invalid config")
		return
	}

	s.mu.Lock()
	conf.ConfigDir = s.config.ConfigDir
	s.config = conf
	handlers := make([]func(*Config), len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	log.Info().Str("file", e.Name).Msg("config reloaded")
	for _, fn := range handlers {
		fn(conf.copy())
	}
}

func (c *Config) copy() *Config {
	cc := *c
	return &cc
}
