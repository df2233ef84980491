package softcut

import "testing"

func TestNewEngineVoicesAtDefaults(t *testing.T) {
	e := NewEngine(EngineOptions{})
	for i := 0; i < VoiceCount; i++ {
		v := e.voices[i]
		want := DefaultVoiceState(i)
		if v.Rate != want.Rate || v.Level != want.Level || v.BufferID != want.BufferID {
			t.Errorf("voice %d not at documented default: %+v", i, v)
		}
	}
}

func TestProcessClearsOutputBuffers(t *testing.T) {
	e := NewEngine(EngineOptions{})
	outL := []float32{1, 1, 1}
	outR := []float32{1, 1, 1}
	e.Process(nil, outL, outR)
	for i := range outL {
		if outL[i] != 0 || outR[i] != 0 {
			t.Fatalf("Process with no enabled voices left nonzero output at %d: %v %v", i, outL[i], outR[i])
		}
	}
}

func TestDispatchEnableAndPlay(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.PushCommand(CmdEnable{Voice: 0, On: true})
	e.PushCommand(CmdPlay{Voice: 0, On: true})
	e.PushCommand(CmdRate{Voice: 0, Rate: 1})
	e.drainCommands()

	v := e.voice(0)
	if !v.Enabled || !v.Playing || v.Rate != 1 {
		t.Fatalf("voice 0 state after dispatch: %+v", v)
	}
}

func TestProcessAdvancesEnabledVoicePhase(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.PushCommand(CmdEnable{Voice: 0, On: true})
	e.PushCommand(CmdPlay{Voice: 0, On: true})
	e.PushCommand(CmdRate{Voice: 0, Rate: 1})

	n := 10
	in := make([]float32, n)
	outL := make([]float32, n)
	outR := make([]float32, n)
	e.Process(in, outL, outR)

	if e.voice(0).Phase != float64(n) {
		t.Fatalf("phase after %d frames = %v, want %v", n, e.voice(0).Phase, n)
	}
}

func TestBufferClearThenReadIsAllZero(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.buffer(0).set(5, 1)
	e.PushCommand(CmdBufferClear{})
	e.drainCommands()

	e.PushCommand(CmdBufferRead{Buffer: 0, StartS: 0, DurationS: 10.0 / float64(SampleRate)})
	e.drainCommands()

	ev, ok := e.PopEvent()
	if !ok {
		t.Fatalf("expected a buffer data event after buffer_read")
	}
	data, isData := ev.(EventBufferData)
	if !isData {
		t.Fatalf("event = %#v, want EventBufferData", ev)
	}
	for i, s := range data.Samples {
		if s != 0 {
			t.Fatalf("sample %d = %v after buffer_clear, want 0", i, s)
		}
	}
	e.ReleasePoolSlot(data)
}

func TestResetIsIdempotentAndRestoresDefaults(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.PushCommand(CmdEnable{Voice: 0, On: true})
	e.PushCommand(CmdLevel{Voice: 0, Level: 0.3})
	e.buffer(0).set(0, 1)
	e.drainCommands()

	e.PushCommand(CmdReset{})
	e.drainCommands()
	e.PushCommand(CmdReset{})
	e.drainCommands()

	v := e.voice(0)
	if v.Enabled || v.LevelTarget != 1 {
		t.Fatalf("voice not restored to defaults after reset: %+v", v)
	}
	if s, _ := e.buffer(0).at(0); s != 0 {
		t.Fatalf("buffer not cleared after reset: %v", s)
	}
}

func TestBufferClearRegionAffectsBothBuffers(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.buffer(0).set(0, 1)
	e.buffer(1).set(0, 1)

	e.PushCommand(CmdBufferClearRegion{StartS: 0, DurationS: 1.0 / float64(SampleRate)})
	e.drainCommands()

	if s, _ := e.buffer(0).at(0); s != 0 {
		t.Fatalf("buffer 0 not cleared by clear_region")
	}
	if s, _ := e.buffer(1).at(0); s != 0 {
		t.Fatalf("buffer 1 not cleared by clear_region")
	}
}

func TestBufferReadExhaustionReportsCapacity(t *testing.T) {
	e := NewEngine(EngineOptions{PoolSlabs: 1})
	for i := 0; i < 3; i++ {
		e.PushCommand(CmdBufferRead{Buffer: 0, StartS: 0, DurationS: 1.0 / float64(SampleRate)})
	}
	e.drainCommands()

	sawCapacity := false
	for {
		ev, ok := e.PopEvent()
		if !ok {
			break
		}
		switch e := ev.(type) {
		case EventBufferData:
			// fine; one request is serviced
			_ = e
		case EventCapacity:
			sawCapacity = true
		}
	}
	if !sawCapacity {
		t.Fatalf("expected at least one EventCapacity once the single pool slab was exhausted")
	}
}

func TestPollPhaseGateControlsEventEmission(t *testing.T) {
	e := NewEngine(EngineOptions{})
	e.PushCommand(CmdEnable{Voice: 0, On: true})
	e.PushCommand(CmdPlay{Voice: 0, On: true})
	e.PushCommand(CmdRate{Voice: 0, Rate: 1})
	e.PushCommand(CmdPhaseQuant{Voice: 0, QuantumS: 1.0 / float64(SampleRate)})
	e.drainCommands()

	n := 100
	in := make([]float32, n)
	outL := make([]float32, n)
	outR := make([]float32, n)
	e.Process(in, outL, outR)
	if _, ok := e.PopEvent(); ok {
		t.Fatalf("phase event emitted while polling disabled")
	}

	e.PushCommand(CmdPollStartPhase{})
	e.drainCommands()
	e.Process(in, outL, outR)
	if _, ok := e.PopEvent(); !ok {
		t.Fatalf("expected phase events once polling enabled")
	}
}
