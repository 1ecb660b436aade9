// Package clock provides an injectable time source so that periodic work
// (ticket polling, notice fades) can be driven deterministically in tests.
//
// Production code uses Real(). Tests use Fake() and move time forward with
// Advance; AfterFunc callbacks registered on a fake clock run synchronously
// inside Advance, in deadline order.
package clock

import "time"

// Clock abstracts the parts of the time package the console depends on.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
	// AfterFunc calls f after d elapses. The returned Timer cancels the call.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a scheduled call created by AfterFunc.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. It reports whether the call was
// stopped before it ran.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stopFunc: timer.Stop}
}
