/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package stadium

import (
	"testing"
	"time"
)

type sent struct {
	to  string
	msg any
}

type fakeNotifier struct {
	broadcasts []any
	private    []sent
}

func (f *fakeNotifier) Broadcast(msg any) {
	f.broadcasts = append(f.broadcasts, msg)
}

func (f *fakeNotifier) Send(id string, msg any) {
	f.private = append(f.private, sent{to: id, msg: msg})
}

func (f *fakeNotifier) reset() {
	f.broadcasts = nil
	f.private = nil
}

func (f *fakeNotifier) sentTo(id string) []any {
	var out []any
	for _, s := range f.private {
		if s.to == id {
			out = append(out, s.msg)
		}
	}
	return out
}

type fakeTask struct {
	interval  time.Duration
	fn        func()
	cancelled bool
}

// fakeScheduler only runs tasks when the test fires them.
type fakeScheduler struct {
	tasks []*fakeTask
}

func (f *fakeScheduler) Every(interval time.Duration, fn func()) func() {
	task := &fakeTask{interval: interval, fn: fn}
	f.tasks = append(f.tasks, task)
	return func() { task.cancelled = true }
}

func (f *fakeScheduler) active() []*fakeTask {
	var out []*fakeTask
	for _, t := range f.tasks {
		if !t.cancelled {
			out = append(out, t)
		}
	}
	return out
}

// fire runs every live task n times, as a real ticker would.
func (f *fakeScheduler) fire(n int) {
	for range n {
		for _, t := range f.active() {
			t.fn()
		}
	}
}

type fixture struct {
	match    *Match
	notifier *fakeNotifier
	sched    *fakeScheduler
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	f := &fixture{
		notifier: &fakeNotifier{},
		sched:    &fakeScheduler{},
	}

	opts.Notifier = f.notifier
	opts.Scheduler = f.sched
	opts.Logf = t.Logf

	f.match = New(opts)

	return f
}

func (f *fixture) join(t *testing.T, id, name string) {
	t.Helper()

	if _, err := f.match.Join(id, name); err != nil {
		t.Fatalf("join %q: %v", name, err)
	}
}

func lastOf[T any](msgs []any) (T, bool) {
	var zero T
	for i := len(msgs) - 1; i >= 0; i-- {
		if m, ok := msgs[i].(T); ok {
			return m, true
		}
	}
	return zero, false
}

func countOf[T any](msgs []any) int {
	n := 0
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			n++
		}
	}
	return n
}
