package bytesocket

import "sync"

// eventQueue runs tasks in submission order, one at a time, on a goroutine
// that exists only while tasks are pending.
type eventQueue struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
}

// push appends task and starts a drain goroutine when none is running.
func (q *eventQueue) push(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	go q.drain()
}

func (q *eventQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
	}
}
