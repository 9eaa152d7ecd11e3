package webenv

import (
	"sort"
	"sync"
	"time"
)

// scheduler is the cooperative engine behind timers and async
// completions. Nothing runs on its own: completion jobs sit in a queue
// until drained and timers fire only when the virtual clock advances.
// This keeps scripts, promises, and timer callbacks on one goroutine.
type scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int64
	timers []*timer
	jobs   []func()
}

type timer struct {
	id       int64
	due      time.Duration
	interval time.Duration // 0 for one-shot
	fn       func()
}

func newScheduler() *scheduler {
	return &scheduler{}
}

// enqueue appends a completion job to the queue.
func (s *scheduler) enqueue(job func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// flush drains the job queue, including jobs enqueued while draining.
func (s *scheduler) flush() {
	for {
		s.mu.Lock()
		if len(s.jobs) == 0 {
			s.mu.Unlock()
			return
		}
		job := s.jobs[0]
		s.jobs = s.jobs[1:]
		s.mu.Unlock()

		job()
	}
}

// setTimer schedules fn after delay of virtual time. A non-zero
// interval reschedules it after every firing.
func (s *scheduler) setTimer(delay, interval time.Duration, fn func()) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t := &timer{
		id:       s.nextID,
		due:      s.now + delay,
		interval: interval,
		fn:       fn,
	}
	s.timers = append(s.timers, t)
	return t.id
}

// clearTimer cancels a scheduled timer. Unknown ids are ignored.
func (s *scheduler) clearTimer(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.timers {
		if t.id == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// advance moves the virtual clock forward, firing due timers in due
// order and draining completion jobs after each firing.
func (s *scheduler) advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue()
		if next == nil || next.due > target {
			s.now = target
			s.mu.Unlock()
			break
		}

		s.now = next.due
		if next.interval > 0 {
			next.due = s.now + next.interval
		} else {
			s.removeTimer(next.id)
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
		s.flush()
	}

	s.flush()
}

// nextDue returns the earliest timer, breaking ties by id. Caller holds
// the lock.
func (s *scheduler) nextDue() *timer {
	if len(s.timers) == 0 {
		return nil
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due != s.timers[j].due {
			return s.timers[i].due < s.timers[j].due
		}
		return s.timers[i].id < s.timers[j].id
	})
	return s.timers[0]
}

// removeTimer deletes a timer by id. Caller holds the lock.
func (s *scheduler) removeTimer(id int64) {
	for i, t := range s.timers {
		if t.id == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// nextTimerDelay returns how far the clock must advance for the next
// timer to fire.
func (s *scheduler) nextTimerDelay() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.nextDue()
	if next == nil {
		return 0, false
	}
	delay := next.due - s.now
	if delay < 0 {
		delay = 0
	}
	return delay, true
}

// pending reports whether any work remains.
func (s *scheduler) pending() (jobs, timers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs), len(s.timers)
}

// clear drops all queued jobs and timers.
func (s *scheduler) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = nil
	s.timers = nil
}
