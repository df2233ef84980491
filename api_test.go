package softcut

import "testing"

func newTestControl() (*Control, *Engine) {
	e := NewEngine(EngineOptions{})
	return NewControl(e), e
}

func TestControlVoiceIndexTranslation(t *testing.T) {
	c, e := newTestControl()
	if err := c.Enable(1, true); err != nil {
		t.Fatalf("Enable(1, true) returned %v", err)
	}
	e.drainCommands()
	if !e.voice(0).Enabled {
		t.Fatalf("1-based voice 1 did not map to internal voice 0")
	}
}

func TestControlVoiceIndexOutOfRangeRejected(t *testing.T) {
	c, _ := newTestControl()
	if err := c.Enable(0, true); err != ErrInvalidArgument {
		t.Fatalf("Enable(0, ...) = %v, want ErrInvalidArgument", err)
	}
	if err := c.Enable(VoiceCount+1, true); err != ErrInvalidArgument {
		t.Fatalf("Enable(VoiceCount+1, ...) = %v, want ErrInvalidArgument", err)
	}
}

func TestControlBufferIndexOutOfRangeRejected(t *testing.T) {
	c, _ := newTestControl()
	if err := c.BufferSelect(1, 0); err != ErrInvalidArgument {
		t.Fatalf("BufferSelect(1, 0) = %v, want ErrInvalidArgument", err)
	}
	if err := c.BufferSelect(1, BufferCount+1); err != ErrInvalidArgument {
		t.Fatalf("BufferSelect(1, BufferCount+1) = %v, want ErrInvalidArgument", err)
	}
}

func TestControlValidationRejectsBeforeEnqueue(t *testing.T) {
	c, e := newTestControl()
	if err := c.Level(1, -1); err != ErrInvalidArgument {
		t.Fatalf("Level(1, -1) = %v, want ErrInvalidArgument", err)
	}
	if e.commands.len() != 0 {
		t.Fatalf("invalid call enqueued a command: len=%d", e.commands.len())
	}
}

func TestControlPanRangeValidation(t *testing.T) {
	c, _ := newTestControl()
	if err := c.Pan(1, 1.5); err != ErrInvalidArgument {
		t.Fatalf("Pan(1, 1.5) = %v, want ErrInvalidArgument", err)
	}
	if err := c.Pan(1, -1.5); err != ErrInvalidArgument {
		t.Fatalf("Pan(1, -1.5) = %v, want ErrInvalidArgument", err)
	}
	if err := c.Pan(1, 0); err != nil {
		t.Fatalf("Pan(1, 0) = %v, want nil", err)
	}
}

func TestControlPumpEventsDispatchesPhaseCallback(t *testing.T) {
	c, e := newTestControl()
	c.Enable(1, true)
	c.Play(1, true)
	c.Rate(1, 1)
	c.PhaseQuant(1, 1.0/float64(SampleRate))
	c.PollStartPhase()
	e.drainCommands()

	var gotVoice int
	var called bool
	c.OnPhase(func(voice int, positionS float64) {
		called = true
		gotVoice = voice
	})

	n := 10
	in := make([]float32, n)
	outL := make([]float32, n)
	outR := make([]float32, n)
	e.Process(in, outL, outR)

	c.PumpEvents()
	if !called {
		t.Fatalf("OnPhase callback never invoked")
	}
	if gotVoice != 1 {
		t.Fatalf("OnPhase callback received 0-based voice %d, want 1-based 1", gotVoice)
	}
}

func TestControlPumpEventsDispatchesBufferDataAndReleasesSlot(t *testing.T) {
	c, e := newTestControl()
	e.buffer(0).set(0, 0.25)

	var gotSamples []float32
	c.OnBufferData(func(buf int, startS float64, samples []float32) {
		gotSamples = samples
	})

	if err := c.BufferRead(1, 0, 4.0/float64(SampleRate)); err != nil {
		t.Fatalf("BufferRead returned %v", err)
	}
	e.drainCommands()
	c.PumpEvents()

	if len(gotSamples) == 0 {
		t.Fatalf("OnBufferData callback never invoked")
	}
	if gotSamples[0] != 0.25 {
		t.Fatalf("gotSamples[0] = %v, want 0.25", gotSamples[0])
	}
	for i := range e.pool.busy {
		if e.pool.busy[i].Load() {
			t.Fatalf("pool slot %d still busy after PumpEvents", i)
		}
	}
}

func TestControlResetIsIdempotent(t *testing.T) {
	c, e := newTestControl()
	c.Enable(1, true)
	e.drainCommands()
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset() returned %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("second Reset() returned %v", err)
	}
	e.drainCommands()
	if e.voice(0).Enabled {
		t.Fatalf("voice still enabled after Reset")
	}
}

func TestControlBufferLoadNegativeStartRejected(t *testing.T) {
	c, _ := newTestControl()
	if err := c.BufferLoad(1, -1, []float32{1, 2, 3}); err != ErrInvalidArgument {
		t.Fatalf("BufferLoad with negative start = %v, want ErrInvalidArgument", err)
	}
}

func TestControlZeroValueReturnsNotReady(t *testing.T) {
	var c Control
	if err := c.Enable(1, true); err != ErrNotReady {
		t.Fatalf("Enable on zero-value Control = %v, want ErrNotReady", err)
	}
	if err := c.Reset(); err != ErrNotReady {
		t.Fatalf("Reset on zero-value Control = %v, want ErrNotReady", err)
	}
}

func TestControlNilEngineReturnsNotReady(t *testing.T) {
	c := NewControl(nil)
	if err := c.BufferClear(); err != ErrNotReady {
		t.Fatalf("BufferClear on Control built with NewControl(nil) = %v, want ErrNotReady", err)
	}
}

func TestControlInvalidArgumentTakesPrecedenceOverNotReady(t *testing.T) {
	// Argument validation runs before push, so an out-of-range index is
	// still reported as ErrInvalidArgument even with no engine attached.
	var c Control
	if err := c.Enable(0, true); err != ErrInvalidArgument {
		t.Fatalf("Enable(0, ...) on zero-value Control = %v, want ErrInvalidArgument", err)
	}
}
