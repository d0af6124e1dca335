package bridge

import (
	"sync"
	"sync/atomic"
)

// State is the mutable state shared by the command façade and the relay: the
// registered handler, the stop and in-callback flags and the capture path.
//
// None of its methods block. mu only orders flag transitions so that a relay
// cannot start dispatching after a stop request observed it idle.
type State struct {
	handler     atomic.Pointer[handlerSlot]
	capturePath atomic.Pointer[string]

	// stopping is set while a stop is in progress.
	stopping atomic.Bool
	// inCallback is true strictly while the relay is inside its dispatch loop.
	inCallback atomic.Bool

	mu sync.Mutex
	// idle is closed whenever inCallback is false.
	idle chan struct{}
}

type handlerSlot struct {
	handler Handler
}

func NewState() *State {
	idle := make(chan struct{})
	close(idle)
	return &State{idle: idle}
}

// Handler returns the registered handler or nil.
func (s *State) Handler() Handler {
	if slot := s.handler.Load(); slot != nil {
		return slot.handler
	}
	return nil
}

// SetHandler registers handler, or clears the registration when handler is
// nil, and returns the handler it replaced.
func (s *State) SetHandler(handler Handler) Handler {
	var slot *handlerSlot
	if handler != nil {
		slot = &handlerSlot{handler: handler}
	}

	if previous := s.handler.Swap(slot); previous != nil {
		return previous.handler
	}
	return nil
}

func (s *State) Stopping() bool   { return s.stopping.Load() }
func (s *State) InCallback() bool { return s.inCallback.Load() }

// CapturePath returns the output capture path, if one is configured.
func (s *State) CapturePath() (string, bool) {
	if path := s.capturePath.Load(); path != nil {
		return *path, true
	}
	return "", false
}

// SetCapturePath replaces the capture path wholesale.
func (s *State) SetCapturePath(path string) {
	s.capturePath.Store(&path)
}

func (s *State) ClearCapturePath() {
	s.capturePath.Store(nil)
}

// beginDispatch marks the relay as in-callback. It refuses while a stop is in
// effect.
func (s *State) beginDispatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopping.Load() {
		return false
	}

	s.idle = make(chan struct{})
	s.inCallback.Store(true)
	return true
}

func (s *State) endDispatch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inCallback.Load() {
		return
	}

	s.inCallback.Store(false)
	close(s.idle)
}

// requestStop sets the stop flag and returns a channel closed once the relay
// has left its dispatch loop.
func (s *State) requestStop() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopping.Store(true)
	return s.idle
}

func (s *State) clearStop() {
	s.stopping.Store(false)
}
