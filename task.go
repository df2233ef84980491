// task.go - cooperative task identity and state machine

package softcut

import "context"

// TaskID identifies a task registered with Clock.Run. Identifiers are
// not reused: once a task completes or is cancelled its id is removed
// from the registry and will never be handed out again.
type TaskID uint64

// Task is the handle passed to a function registered with Clock.Run. A
// task moves through Scheduled → Running ⇌ Suspended(sleep|sync) →
// Completed | Cancelled; the clock removes it from its registry the
// moment it reaches either terminal state. Sleep and Sync are the only
// suspension points — the clock never suspends a task anywhere else.
type Task struct {
	ID  TaskID
	clk *Clock
	ctx context.Context
}

// Sleep suspends the task for the given real-time duration, in
// seconds. It returns ErrCancelled if the task is cancelled before the
// duration elapses.
func (t *Task) Sleep(seconds float64) error {
	return t.clk.sleep(t.ctx, seconds)
}

// Sync suspends the task until the next instant at which beats() ≡
// offset (mod beat). See Clock.sync for the exact alignment rule and
// the documented stopped-transport fallback.
func (t *Task) Sync(beat, offset float64) error {
	return t.clk.sync(t.ctx, beat, offset)
}

// Done reports whether the task's cancellation has been requested.
// Long-running work between suspension points may poll this to exit
// early instead of waiting for the next Sleep or Sync call.
func (t *Task) Done() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}
