package softcut

import (
	"context"
	"testing"
	"time"
)

func TestClockTempoClampedAtConstruction(t *testing.T) {
	c := NewClock(0)
	if got := c.BeatSeconds(); got != 60 {
		t.Fatalf("BeatSeconds() for clamped-to-1bpm clock = %v, want 60", got)
	}
	c2 := NewClock(10000)
	if got := c2.BeatSeconds(); got != 60.0/300.0 {
		t.Fatalf("BeatSeconds() for clamped-to-300bpm clock = %v, want %v", got, 60.0/300.0)
	}
}

func TestClockBeatsFrozenWhileStopped(t *testing.T) {
	c := NewClock(120)
	b1 := c.Beats()
	time.Sleep(5 * time.Millisecond)
	b2 := c.Beats()
	if b1 != b2 {
		t.Fatalf("Beats() moved while stopped: %v -> %v", b1, b2)
	}
}

func TestClockStartStopIdempotent(t *testing.T) {
	c := NewClock(120)
	starts, stops := 0, 0
	c.SetTransportStartHook(func() { starts++ })
	c.SetTransportStopHook(func() { stops++ })

	c.Start()
	c.Start()
	if starts != 1 {
		t.Fatalf("start hook fired %d times for two Start() calls, want 1", starts)
	}
	c.Stop()
	c.Stop()
	if stops != 1 {
		t.Fatalf("stop hook fired %d times for two Stop() calls, want 1", stops)
	}
}

func TestClockSetTempoPreservesBeatPosition(t *testing.T) {
	c := NewClock(120)
	c.Start()
	time.Sleep(10 * time.Millisecond)
	before := c.Beats()
	c.SetTempo(240)
	after := c.Beats()
	if after < before {
		t.Fatalf("beat position regressed across tempo change: %v -> %v", before, after)
	}
	if after-before > 0.01 {
		t.Fatalf("beat position jumped too far across tempo change: %v -> %v", before, after)
	}
}

func TestClockRunAndCancelTerminatesTask(t *testing.T) {
	c := NewClock(120)
	c.Start()
	done := make(chan struct{})

	id := c.Run(func(ctx context.Context, task *Task) error {
		defer close(done)
		err := task.Sleep(10)
		if err != ErrCancelled {
			t.Errorf("Sleep() returned %v, want ErrCancelled", err)
		}
		return err
	})

	time.Sleep(5 * time.Millisecond)
	c.Cancel(id)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("task did not terminate within 1s of Cancel")
	}
}

func TestClockSleepShortDurationDoesNotReturnEarly(t *testing.T) {
	c := NewClock(120)
	start := time.Now()
	err := c.sleep(context.Background(), 0.01)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("sleep() returned error %v", err)
	}
	if elapsed < 9*time.Millisecond {
		t.Fatalf("sleep() returned too early: %v", elapsed)
	}
}

func TestClockSyncStoppedTransportFallsBackToTempoSleep(t *testing.T) {
	c := NewClock(600) // clamped to 300 BPM: 200ms per beat
	start := time.Now()
	err := c.sync(context.Background(), 1, 0)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("sync() on stopped clock returned error %v", err)
	}
	if elapsed < 190*time.Millisecond {
		t.Fatalf("sync() on stopped clock returned too early: %v, want ~200ms", elapsed)
	}
}

func TestClockCleanupCancelsOutstandingTasks(t *testing.T) {
	c := NewClock(120)
	c.Start()
	done := make(chan struct{})
	c.Run(func(ctx context.Context, task *Task) error {
		defer close(done)
		return task.Sleep(10)
	})
	time.Sleep(5 * time.Millisecond)
	c.Cleanup()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("task outlived Cleanup()")
	}
}

func TestTaskDoneReflectsCancellation(t *testing.T) {
	c := NewClock(120)
	c.Start()
	var sawDone bool
	release := make(chan struct{})
	done := make(chan struct{})

	id := c.Run(func(ctx context.Context, task *Task) error {
		defer close(done)
		<-release
		sawDone = task.Done()
		return nil
	})
	c.Cancel(id)
	close(release)
	<-done

	if !sawDone {
		t.Fatalf("Task.Done() was false after Cancel")
	}
}
