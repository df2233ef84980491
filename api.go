// api.go - the public control façade

package softcut

import "sync"

// Control is a thin façade over an Engine: it translates the 1-based
// voice and buffer indices callers use into the engine's internal
// 0-based indices, composes and pushes Command values, and dispatches
// received Event values to registered callbacks. It holds no audio
// state of its own — every mutation still flows through the engine's
// command queue.
//
// Control's voice/buffer-mutating methods are safe to call from a
// single control-zone goroutine at a time (the underlying command
// queue is single-producer); OnPhase, OnBufferData, and PumpEvents are
// likewise intended to be driven from one goroutine, conventionally
// the same one.
type Control struct {
	engine *Engine

	mu           sync.Mutex
	onPhase      func(voice int, positionS float64)
	onBufferData func(buf int, startS float64, samples []float32)
}

// NewControl constructs a façade over engine.
func NewControl(engine *Engine) *Control {
	return &Control{engine: engine}
}

func voiceIndex(voice int) (int, error) {
	if voice < 1 || voice > VoiceCount {
		return 0, ErrInvalidArgument
	}
	return voice - 1, nil
}

func bufferIndex(buf int) (int, error) {
	if buf < 1 || buf > BufferCount {
		return 0, ErrInvalidArgument
	}
	return buf - 1, nil
}

func (c *Control) push(cmd Command) error {
	if c.engine == nil {
		// Spec §7: calls made against a Control not yet attached to a
		// constructed Engine (the zero value, or one built with
		// NewControl(nil)) are rejected rather than allowed to panic on
		// a nil engine.
		return ErrNotReady
	}
	if !c.engine.PushCommand(cmd) {
		// Spec §5: command-queue overflow is a programming error. The
		// queue is sized generously relative to control-rate traffic,
		// so reaching this point means the caller is submitting
		// commands far faster than Process is draining them.
		panic("softcut: command queue overflow")
	}
	return nil
}

// Enable toggles a voice between idle and active.
func (c *Control) Enable(voice int, on bool) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	return c.push(CmdEnable{Voice: v, On: on})
}

// Play toggles a voice's transport.
func (c *Control) Play(voice int, on bool) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	return c.push(CmdPlay{Voice: v, On: on})
}

// Rec toggles a voice's recording.
func (c *Control) Rec(voice int, on bool) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	return c.push(CmdRec{Voice: v, On: on})
}

// BufferSelect chooses a voice's source/destination buffer.
func (c *Control) BufferSelect(voice, buf int) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	b, err := bufferIndex(buf)
	if err != nil {
		return err
	}
	return c.push(CmdBufferSelect{Voice: v, Buffer: b})
}

// Rate sets a voice's signed playback/record rate.
func (c *Control) Rate(voice int, rate float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	return c.push(CmdRate{Voice: v, Rate: rate})
}

// Level sets a voice's target output level.
func (c *Control) Level(voice int, amp float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if amp < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdLevel{Voice: v, Level: amp})
}

// LevelSlewTime sets the time, in seconds, over which Level chases its
// target.
func (c *Control) LevelSlewTime(voice int, seconds float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if seconds < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdLevelSlewTime{Voice: v, Seconds: seconds})
}

// Pan sets a voice's equal-power pan position, in [-1, 1].
func (c *Control) Pan(voice int, pan float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if pan < -1 || pan > 1 {
		return ErrInvalidArgument
	}
	return c.push(CmdPan{Voice: v, Pan: pan})
}

// Position sets a voice's head directly, in seconds.
func (c *Control) Position(voice int, positionS float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if positionS < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdPosition{Voice: v, PositionS: positionS})
}

// Loop toggles a voice's loop mode.
func (c *Control) Loop(voice int, on bool) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	return c.push(CmdLoop{Voice: v, On: on})
}

// LoopStart sets a voice's loop start, in seconds.
func (c *Control) LoopStart(voice int, seconds float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if seconds < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdLoopStart{Voice: v, Start: seconds})
}

// LoopEnd sets a voice's loop end, in seconds.
func (c *Control) LoopEnd(voice int, seconds float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if seconds < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdLoopEnd{Voice: v, End: seconds})
}

// FadeTime sets a voice's loop-boundary crossfade length, in seconds.
func (c *Control) FadeTime(voice int, seconds float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if seconds < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdFadeTime{Voice: v, Seconds: seconds})
}

// RecLevel sets the gain applied to the incoming sample while
// recording, in [0, 1].
func (c *Control) RecLevel(voice int, amp float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if amp < 0 || amp > 1 {
		return ErrInvalidArgument
	}
	return c.push(CmdRecLevel{Voice: v, Level: amp})
}

// PreLevel sets the gain applied to the existing buffer sample before
// summing while recording, in [0, 1].
func (c *Control) PreLevel(voice int, amp float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if amp < 0 || amp > 1 {
		return ErrInvalidArgument
	}
	return c.push(CmdPreLevel{Voice: v, Level: amp})
}

// PhaseQuant sets a voice's phase-report granularity, in seconds; 0
// disables reporting for that voice.
func (c *Control) PhaseQuant(voice int, quantumS float64) error {
	v, err := voiceIndex(voice)
	if err != nil {
		return err
	}
	if quantumS < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdPhaseQuant{Voice: v, QuantumS: quantumS})
}

// PollStartPhase enables engine-wide phase reporting.
func (c *Control) PollStartPhase() error { return c.push(CmdPollStartPhase{}) }

// PollStopPhase disables engine-wide phase reporting.
func (c *Control) PollStopPhase() error { return c.push(CmdPollStopPhase{}) }

// BufferClear zeroes both buffers.
func (c *Control) BufferClear() error { return c.push(CmdBufferClear{}) }

// BufferClearChannel zeroes one buffer.
func (c *Control) BufferClearChannel(buf int) error {
	b, err := bufferIndex(buf)
	if err != nil {
		return err
	}
	return c.push(CmdBufferClearChannel{Buffer: b})
}

// BufferClearRegion zeroes a region in BOTH buffers simultaneously —
// see the spec's open question 2; this asymmetry with
// BufferClearChannel is intentional and preserved.
func (c *Control) BufferClearRegion(startS, durationS float64) error {
	if startS < 0 || durationS < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdBufferClearRegion{StartS: startS, DurationS: durationS})
}

// BufferLoad copies data into buf starting at startDstS, truncated to
// the buffer's bounds. Posting a load transfers ownership of data to
// the engine: the caller must not read or write data again afterward.
func (c *Control) BufferLoad(buf int, startDstS float64, data []float32) error {
	b, err := bufferIndex(buf)
	if err != nil {
		return err
	}
	if startDstS < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdBufferLoad{Buffer: b, StartDstS: startDstS, Data: data})
}

// BufferRead asynchronously requests a copy of a buffer region. The
// result is delivered to the callback registered with OnBufferData the
// next time PumpEvents is called. If no pool slot was available when
// the engine serviced the request, PumpEvents instead drains an
// EventCapacity, which it only logs (when Verbose is set); no callback
// is invoked for it.
func (c *Control) BufferRead(buf int, startS, durationS float64) error {
	b, err := bufferIndex(buf)
	if err != nil {
		return err
	}
	if startS < 0 || durationS < 0 {
		return ErrInvalidArgument
	}
	return c.push(CmdBufferRead{Buffer: b, StartS: startS, DurationS: durationS})
}

// Reset restores all voice state to documented defaults and zeroes
// both buffers. Reset is idempotent.
func (c *Control) Reset() error { return c.push(CmdReset{}) }

// OnPhase registers the single callback invoked for each EventPhase
// drained by PumpEvents. Registering a new callback replaces any
// previous one.
func (c *Control) OnPhase(cb func(voice int, positionS float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPhase = cb
}

// OnBufferData registers the single callback invoked for each
// EventBufferData drained by PumpEvents, with voice/buffer indices
// translated back to 1-based and the sample data copied out of the
// engine's internal pool slab before the callback runs.
func (c *Control) OnBufferData(cb func(buf int, startS float64, samples []float32)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onBufferData = cb
}

// PumpEvents drains every event currently queued and dispatches it to
// whichever callback is registered, returning the number of events
// processed. It is safe, and expected, to call this repeatedly from a
// polling loop on the control thread; it never blocks.
func (c *Control) PumpEvents() int {
	n := 0
	for {
		ev, ok := c.engine.PopEvent()
		if !ok {
			return n
		}
		c.dispatch(ev)
		n++
	}
}

func (c *Control) dispatch(ev Event) {
	c.mu.Lock()
	onPhase := c.onPhase
	onBufferData := c.onBufferData
	c.mu.Unlock()

	switch e := ev.(type) {
	case EventPhase:
		if onPhase != nil {
			onPhase(e.Voice+1, e.PositionS)
		}
	case EventBufferData:
		startS := float64(e.StartSample) / float64(SampleRate)
		if onBufferData != nil {
			samples := make([]float32, len(e.Samples))
			copy(samples, e.Samples)
			onBufferData(e.Buffer+1, startS, samples)
		}
		c.engine.ReleasePoolSlot(e)
	case EventCapacity:
		logf("buffer_read refused: buffer=%d start=%.3fs dur=%.3fs: %v", e.Buffer+1, e.StartS, e.DurationS, ErrCapacity)
	}
}
