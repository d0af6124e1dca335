package espeak

import (
	"runtime/cgo"
	"sync"
)

// userData keeps the values passed to Synth alive while the engine refers to
// them by handle. C code only ever sees the handle.
type userData struct {
	mu      sync.Mutex
	handles map[uintptr]cgo.Handle
}

func newUserData() *userData {
	return &userData{handles: map[uintptr]cgo.Handle{}}
}

// register returns the handle to pass for value. nil is passed as 0.
func (u *userData) register(value any) uintptr {
	if value == nil {
		return 0
	}

	handle := cgo.NewHandle(value)
	u.mu.Lock()
	u.handles[uintptr(handle)] = handle
	u.mu.Unlock()
	return uintptr(handle)
}

func (u *userData) lookup(id uintptr) any {
	if id == 0 {
		return nil
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if handle, ok := u.handles[id]; ok {
		return handle.Value()
	}
	return nil
}

func (u *userData) release(id uintptr) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if handle, ok := u.handles[id]; ok {
		handle.Delete()
		delete(u.handles, id)
	}
}

func (u *userData) releaseAll() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for id, handle := range u.handles {
		handle.Delete()
		delete(u.handles, id)
	}
}
