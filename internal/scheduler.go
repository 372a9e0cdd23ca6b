package internal

import (
	"sort"
	"sync"
	"time"
)

// CancelFunc stops a scheduled callback. It reports whether the callback
// was still pending.
type CancelFunc func() bool

// Scheduler runs a callback once after a delay. Implementations must run
// callbacks on the same logical thread as user commands.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) CancelFunc
}

// ManualScheduler is a Scheduler driven by an explicit clock. Nothing
// fires until Advance is called, which makes deferred replies testable
// without sleeping.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	due  time.Time
	seq  uint64
	fn   func()
	done bool
}

// NewManualScheduler creates a scheduler whose clock starts at start
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the scheduler's clock
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule implements Scheduler
func (m *ManualScheduler) Schedule(delay time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()

	if delay < 0 {
		delay = 0
	}
	m.seq++
	task := &manualTask{due: m.now.Add(delay), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, task)

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if task.done {
			return false
		}
		task.done = true
		return true
	}
}

// Advance moves the clock forward by d and runs every callback that has
// come due, earliest first and in scheduling order for equal due times.
// Callbacks scheduled while advancing fire too if they fall inside the
// window. It returns the number of callbacks run.
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	fired := 0
	for {
		task := m.nextDue(target)
		if task == nil {
			break
		}
		task.fn()
		fired++
	}

	m.mu.Lock()
	if m.now.Before(target) {
		m.now = target
	}
	m.mu.Unlock()
	return fired
}

// Flush runs every pending callback regardless of its due time
func (m *ManualScheduler) Flush() int {
	m.mu.Lock()
	var last time.Time
	for _, task := range m.tasks {
		if !task.done && task.due.After(last) {
			last = task.due
		}
	}
	d := last.Sub(m.now)
	m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	return m.Advance(d)
}

// Pending returns the number of callbacks not yet run or cancelled
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, task := range m.tasks {
		if !task.done {
			n++
		}
	}
	return n
}

// nextDue pops the earliest pending task due at or before target and
// moves the clock to its due time
func (m *ManualScheduler) nextDue(target time.Time) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.tasks[:0]
	for _, task := range m.tasks {
		if !task.done {
			live = append(live, task)
		}
	}
	m.tasks = live

	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].due.Before(m.tasks[j].due)
	})

	if len(m.tasks) == 0 || m.tasks[0].due.After(target) {
		return nil
	}
	task := m.tasks[0]
	task.done = true
	if task.due.After(m.now) {
		m.now = task.due
	}
	return task
}
