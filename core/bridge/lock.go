package bridge

import "sync"

// ExecutionLock is the global lock that must be held around every call into
// handler code. Acquire and Release may be called from any goroutine.
type ExecutionLock interface {
	Acquire()
	Release()
}

type mutexLock struct {
	mu sync.Mutex
}

// NewExecutionLock returns a non-reentrant ExecutionLock backed by a mutex.
func NewExecutionLock() ExecutionLock {
	return &mutexLock{}
}

func (l *mutexLock) Acquire() { l.mu.Lock() }
func (l *mutexLock) Release() { l.mu.Unlock() }
