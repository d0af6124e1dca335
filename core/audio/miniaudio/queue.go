package miniaudio

import "sync"

type playbackMark struct {
	name     string
	position int
	callback func(string)
}

// queue holds audio waiting for the device together with the marks placed
// into it. Mark positions are byte offsets into pending.
type queue struct {
	mu      sync.Mutex
	pending []byte
	marks   []playbackMark
}

func (q *queue) push(audio []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, audio...)
}

func (q *queue) mark(name string, callback func(string)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.marks = append(q.marks, playbackMark{name: name, position: len(q.pending), callback: callback})
}

// clear drops pending audio and returns every mark so waiters are released.
func (q *queue) clear() []playbackMark {
	q.mu.Lock()
	defer q.mu.Unlock()
	dropped := q.marks
	q.pending = nil
	q.marks = nil
	return dropped
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// fill copies the next len(out) bytes into out, padding with silence, and
// returns the marks the copied audio has passed.
func (q *queue) fill(out []byte, silence byte) []playbackMark {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := copy(out, q.pending)
	for i := n; i < len(out); i++ {
		out[i] = silence
	}
	q.pending = q.pending[n:]
	if len(q.pending) == 0 {
		q.pending = nil
	}

	passed := 0
	for i := range q.marks {
		if q.marks[i].position <= n {
			passed++
			continue
		}
		q.marks[i].position -= n
	}
	if passed == 0 {
		return nil
	}
	reached := q.marks[:passed:passed]
	q.marks = q.marks[passed:]
	return reached
}

func notify(marks []playbackMark) {
	for _, mark := range marks {
		mark.callback(mark.name)
	}
}
