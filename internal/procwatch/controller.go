package procwatch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/sjzar/procwatch/internal/errors"
	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/state"
)

// Refresher asks the poller for an immediate refresh.
type Refresher interface {
	Trigger()
}

// Controller 是界面一侧的状态访问入口
// 输入在锁内经过状态机，产生的副作用在锁外执行
type Controller struct {
	store      *state.Store
	machine    *state.Machine
	terminator proc.Terminator
	refresher  Refresher

	killGrace atomic.Int64
	afterFunc func(time.Duration, func())

	mu     sync.Mutex
	onQuit func()
}

func NewController(store *state.Store, terminator proc.Terminator, refresher Refresher, killGrace time.Duration) *Controller {
	c := &Controller{
		store:      store,
		machine:    state.NewMachine(),
		terminator: terminator,
		refresher:  refresher,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	c.SetKillGrace(killGrace)
	return c
}

// SetKillGrace sets the delay between a kill and the following reload.
func (c *Controller) SetKillGrace(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.killGrace.Store(int64(d))
}

func (c *Controller) OnQuit(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onQuit = fn
}

// HandleKey maps key with the mode current at the time the lock is taken.
func (c *Controller) HandleKey(key *tcell.EventKey) (bool, error) {
	return c.dispatch(func(mode state.Mode) (state.Event, bool) {
		return MapKey(mode, key)
	})
}

// Handle dispatches ev regardless of the key that produced it.
func (c *Controller) Handle(ev state.Event) (bool, error) {
	return c.dispatch(func(state.Mode) (state.Event, bool) {
		return ev, true
	})
}

func (c *Controller) dispatch(mapper func(state.Mode) (state.Event, bool)) (bool, error) {
	var (
		cmd     state.Command
		ev      state.Event
		handled bool
	)
	err := c.store.Update(func(s *state.State) error {
		var ok bool
		if ev, ok = mapper(s.Mode()); !ok {
			return nil
		}
		cmd, handled = c.machine.Dispatch(s, ev)
		return nil
	})
	if err != nil {
		// 状态不可用时仍然允许退出
		if key, ok := mapper(state.Normal); ok && key.Input == state.InputQuit {
			c.quit()
		}
		return false, err
	}

	c.execute(cmd)
	return handled, nil
}

func (c *Controller) execute(cmd state.Command) {
	switch cmd.Action {
	case state.ActionQuit:
		c.quit()
	case state.ActionReload:
		c.refresher.Trigger()
	case state.ActionKill:
		c.kill(cmd.PID, cmd.Name)
	}
}

func (c *Controller) quit() {
	c.mu.Lock()
	fn := c.onQuit
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Controller) kill(pid uint32, name string) {
	err := c.terminator.Kill(pid)

	text := fmt.Sprintf("killed %d (%s)", pid, name)
	if err != nil {
		log.Err(err).Uint32("pid", pid).Str("name", name).Msg("kill process failed")
		text = killFailure(pid, err)
	} else {
		log.Info().Uint32("pid", pid).Str("name", name).Msg("process killed")
	}
	if serr := c.store.Update(func(s *state.State) error {
		s.SetStatus(text, err != nil)
		return nil
	}); serr != nil {
		log.Debug().Err(serr).Msg("set status failed")
	}

	c.afterFunc(time.Duration(c.killGrace.Load()), c.refresher.Trigger)
}

func killFailure(pid uint32, err error) string {
	switch errors.GetType(err) {
	case errors.ErrTypePermission:
		return fmt.Sprintf("kill %d: permission denied", pid)
	case errors.ErrTypeNotFound:
		return fmt.Sprintf("kill %d: no such process", pid)
	case errors.ErrTypeInvalidArg:
		return fmt.Sprintf("kill %d: refused", pid)
	default:
		return fmt.Sprintf("kill %d: %v", pid, errors.RootCause(err))
	}
}
