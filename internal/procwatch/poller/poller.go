package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/state"
)

// Fetcher produces snapshots of the process table.
type Fetcher interface {
	Fetch() (proc.Snapshot, error)
}

// Scorer fills in CPUPercent on a snapshot before it is published.
type Scorer interface {
	Update(snap *proc.Snapshot)
}

// Service 后台刷新进程表
// 采集和计算在锁外完成，只有 Reload 在锁内执行
type Service struct {
	store   *state.Store
	source  Fetcher
	tracker Scorer
	order   state.Order

	interval atomic.Int64
	trigger  chan struct{}

	mu        sync.Mutex
	prev      proc.Snapshot
	onRefresh []func()
}

func NewService(store *state.Store, source Fetcher, tracker Scorer, interval time.Duration, order state.Order) *Service {
	s := &Service{
		store:   store,
		source:  source,
		tracker: tracker,
		order:   order,
		trigger: make(chan struct{}, 1),
	}
	s.SetInterval(interval)
	return s
}

// SetInterval changes the refresh period, taking effect after the next cycle.
func (s *Service) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.interval.Store(int64(d))
}

func (s *Service) Interval() time.Duration {
	return time.Duration(s.interval.Load())
}

// OnRefresh registers fn to run after every published snapshot.
func (s *Service) OnRefresh(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = append(s.onRefresh, fn)
}

// Trigger 请求立即刷新，已有待处理请求时直接返回
func (s *Service) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run refreshes until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Info().Dur("interval", s.Interval()).Msg("poller started")
	s.Refresh()

	timer := time.NewTimer(s.Interval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("poller stopped")
			return
		case <-timer.C:
		case <-s.trigger:
		}
		s.Refresh()
		timer.Reset(s.Interval())
	}
}

// Refresh runs one fetch, score and publish cycle. It must not be called
// concurrently with Run.
func (s *Service) Refresh() {
	snap, err := s.source.Fetch()
	if err != nil {
		log.Err(err).Msg("enumerate processes failed")
		snap = proc.Snapshot{TakenAt: time.Now()}
	}
	s.tracker.Update(&snap)
	s.logChanges(snap)

	if err := s.publish(snap); err != nil {
		log.Err(err).Msg("publish snapshot failed")
		return
	}

	s.mu.Lock()
	handlers := s.onRefresh
	s.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
}

func (s *Service) publish(snap proc.Snapshot) error {
	reload := func(st *state.State) error {
		st.Reload(snap)
		return nil
	}

	err := s.store.Update(reload)
	var pe *state.PanicError
	if !errors.Is(err, state.ErrPoisoned) && !errors.As(err, &pe) {
		return err
	}

	// 状态已损坏，重建后重新加载
	log.Error().Err(err).Msg("process state poisoned, resetting")
	s.store.Reset(state.New(s.order))
	return s.store.Update(reload)
}

func (s *Service) logChanges(snap proc.Snapshot) {
	s.mu.Lock()
	prev := s.prev
	s.prev = snap
	s.mu.Unlock()

	if prev.TakenAt.IsZero() {
		log.Debug().Int("count", snap.Len()).Msg("initial process table")
		return
	}
	added, removed := proc.Diff(prev, snap)
	for _, r := range added {
		log.Debug().Uint32("pid", r.PID).Str("name", r.Name).Msg("process added")
	}
	for _, r := range removed {
		log.Debug().Uint32("pid", r.PID).Str("name", r.Name).Msg("process removed")
	}
}
