package state

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// ErrPoisoned is returned by a Store whose previous critical section panicked.
var ErrPoisoned = errors.New("state store poisoned")

// PanicError records a panic recovered while the store lock was held.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic while holding state lock: %v", e.Value)
}

// Store 用一把读写锁保护 State
// 持锁期间发生 panic 会使 Store 进入中毒状态，直到调用 Reset
type Store struct {
	mu     sync.RWMutex
	state  *State
	poison atomic.Pointer[PanicError]
}

// NewStore wraps st.
func NewStore(st *State) *Store {
	return &Store{state: st}
}

// Update runs fn with exclusive access to the state.
func (s *Store) Update(fn func(*State) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.poison.Load(); p != nil {
		return fmt.Errorf("%w: %v", ErrPoisoned, p)
	}
	defer s.recover(&err)
	return fn(s.state)
}

// View runs fn with shared access to the state. fn must not modify it.
func (s *Store) View(fn func(*State)) (err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.poison.Load(); p != nil {
		return fmt.Errorf("%w: %v", ErrPoisoned, p)
	}
	defer s.recover(&err)
	fn(s.state)
	return nil
}

// Reset replaces the state and clears the poison.
func (s *Store) Reset(st *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.poison.Store(nil)
}

// Poisoned reports whether the store refuses access.
func (s *Store) Poisoned() bool {
	return s.poison.Load() != nil
}

func (s *Store) recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	p := &PanicError{Value: r, Stack: debug.Stack()}
	// concurrent readers may panic together, keep the first
	if !s.poison.CompareAndSwap(nil, p) {
		p = s.poison.Load()
	}
	log.Error().Interface("panic", r).Msg("state store poisoned")
	*err = p
}
