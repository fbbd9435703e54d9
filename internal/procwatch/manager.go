package procwatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/procwatch/conf"
	"github.com/sjzar/procwatch/internal/procwatch/http"
	"github.com/sjzar/procwatch/internal/procwatch/mcp"
	"github.com/sjzar/procwatch/internal/procwatch/poller"
	"github.com/sjzar/procwatch/internal/state"
)

// Manager 管理进程监视器的各个服务
type Manager struct {
	conf *conf.Service

	// Services
	store      *state.Store
	poller     *poller.Service
	http       *http.Service
	controller *Controller
	terminator proc.Terminator

	httpEnabled atomic.Bool
	cancel      context.CancelFunc
	stopOnce    sync.Once
	wg          sync.WaitGroup

	// Terminal UI
	app *App
}

func New() *Manager {
	return &Manager{
		terminator: proc.SignalTerminator{},
	}
}

// init 加载配置并创建采集链路，不启动任何协程
func (m *Manager) init(configPath string, cmdConf map[string]any) error {
	var err error
	m.conf, err = conf.NewService(configPath, cmdConf)
	if err != nil {
		return err
	}
	c := m.conf.GetConfig()

	source := proc.NewSource(c.GetProcRoot())
	tracker, err := proc.NewTracker(source, proc.LogicalCPUs())
	if err != nil {
		return err
	}

	m.store = state.NewStore(state.New(c.GetOrder()))
	m.poller = poller.NewService(m.store, source, tracker, c.PollInterval, c.GetOrder())
	m.http = http.NewService(c, m.store)

	m.conf.OnChange(m.applyConfig)
	return nil
}

func (m *Manager) applyConfig(c *conf.Config) {
	m.poller.SetInterval(c.PollInterval)
	if m.controller != nil {
		m.controller.SetKillGrace(c.KillGrace)
	}
	log.Info().
		Dur("poll_interval", c.PollInterval).
		Dur("kill_grace", c.KillGrace).
		Msg("config applied")
}

// startPoller runs the poller until Stop.
func (m *Manager) startPoller() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.poller.Run(ctx)
	}()
}

// Run 启动终端界面，阻塞直到退出
func (m *Manager) Run(configPath string) error {

	if err := m.init(configPath, nil); err != nil {
		return err
	}
	c := m.conf.GetConfig()

	m.controller = NewController(m.store, m.terminator, m.poller, c.KillGrace)
	m.controller.OnQuit(m.Stop)

	if c.HTTPEnabled {
		if err := m.StartService(); err != nil {
			m.StopService()
		}
	}

	m.app = NewApp(m)
	m.poller.OnRefresh(m.app.Redraw)
	m.startPoller()
	m.conf.Watch()

	// 阻塞
	err := m.app.Run()
	m.Stop()
	return err
}

func (m *Manager) StartService() error {
	if err := m.http.Start(); err != nil {
		return err
	}
	m.httpEnabled.Store(true)
	return nil
}

func (m *Manager) StopService() error {
	if err := m.http.Stop(); err != nil {
		return err
	}
	m.httpEnabled.Store(false)
	return nil
}

func (m *Manager) httpRunning() bool {
	return m.httpEnabled.Load()
}

// Stop 停止所有服务，可重复调用
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
		}
		if m.httpRunning() {
			if err := m.StopService(); err != nil {
				log.Err(err).Msg("stop http server failed")
			}
		}
		if m.app != nil {
			m.app.Stop()
		}
		m.wg.Wait()
	})
}

// CommandHTTPServer 无界面运行采集和 HTTP 服务，阻塞直到服务退出
func (m *Manager) CommandHTTPServer(configPath string, cmdConf map[string]any) error {

	if err := m.init(configPath, cmdConf); err != nil {
		return err
	}

	log.Info().Msgf("server config: %+v", m.conf.GetConfig())

	m.startPoller()
	m.conf.Watch()
	defer m.Stop()

	return m.http.ListenAndServe()
}

// CommandMCP 通过标准输入输出提供 MCP 服务
func (m *Manager) CommandMCP(configPath string) error {

	if err := m.init(configPath, nil); err != nil {
		return err
	}

	m.startPoller()
	m.conf.Watch()
	defer m.Stop()

	return mcp.NewService(m.store, m.terminator, m.poller).ServeStdio()
}
