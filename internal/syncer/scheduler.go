package syncer

import "time"

// CancelFunc cancels a scheduled callback. Calling it after the callback
// has fired is a no-op.
type CancelFunc func()

// Scheduler abstracts the debounce timer so the coordinator's timing policy
// lives in one place and tests can drive it manually.
//
// Schedule runs fn once after delay unless cancelled first.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) CancelFunc
}

// TimerScheduler is the production Scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// Schedule runs fn on a timer goroutine after delay.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
