package ecs

import "sort"

// Task is a scheduled continuation. Cancel is safe to call at any point,
// including after the task has fired.
type Task struct {
	due       float64
	seq       uint64
	fn        func()
	cancelled bool
	done      bool
}

// Cancel prevents the task from running.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Done reports whether the task has already fired.
func (t *Task) Done() bool {
	return t != nil && t.done
}

// Scheduler suspends work in exactly two forms: resume after a fixed
// duration and resume next tick. It is single-threaded and driven by an
// explicit virtual clock, so callers can unit-test timed behavior by
// advancing Tick without a real frame loop.
type Scheduler struct {
	now   float64
	seq   uint64
	timed []*Task
	next  []func()
}

// NewScheduler creates a scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual clock in seconds.
func (s *Scheduler) Now() float64 {
	if s == nil {
		return 0
	}
	return s.now
}

// After schedules fn to run once at least delay seconds of virtual time from
// now. Non-positive delays fire on the next tick.
func (s *Scheduler) After(delay float64, fn func()) *Task {
	if s == nil || fn == nil {
		return nil
	}
	if delay < 0 {
		delay = 0
	}
	s.seq++
	t := &Task{due: s.now + delay, seq: s.seq, fn: fn}
	s.timed = append(s.timed, t)
	return t
}

// NextTick schedules fn to run once on the next tick.
func (s *Scheduler) NextTick(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.next = append(s.next, fn)
}

// Tick advances the virtual clock by dt seconds and runs every due
// continuation in scheduling order. Work scheduled by a running continuation
// fires no earlier than the following tick.
func (s *Scheduler) Tick(dt float64) {
	if s == nil || dt < 0 {
		return
	}
	s.now += dt

	nextTick := s.next
	s.next = nil

	var due []*Task
	var remaining []*Task
	for _, t := range s.timed {
		if t == nil || t.cancelled {
			continue
		}
		if t.due <= s.now {
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	s.timed = remaining
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})

	for _, fn := range nextTick {
		fn()
	}
	for _, t := range due {
		if t.cancelled {
			continue
		}
		t.done = true
		t.fn()
	}
}

// Pending returns the number of timed tasks still waiting.
func (s *Scheduler) Pending() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, t := range s.timed {
		if t != nil && !t.cancelled {
			n++
		}
	}
	return n
}
