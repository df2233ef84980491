// engine.go - the sample engine: buffers, voices, Process

package softcut

// Default queue and pool sizing. These are generous relative to typical
// control traffic (a handful of commands per audio block at most) so
// that command-queue overflow, a programming error per the spec,
// should never occur in practice.
const (
	defaultCommandQueueCapacity = 256
	defaultEventQueueCapacity   = 1024
)

// EngineOptions configures an Engine at construction. All fields have
// sane defaults (see NewEngine); the engine's shape — buffer length,
// voice count, sample rate — is fixed for its lifetime once
// constructed, mirroring the reference engine's treatment of its own
// sample rate and channel count as immutable after NewSoundChip.
type EngineOptions struct {
	CommandQueueCapacity int
	EventQueueCapacity   int
	PoolSlabs            int
	PoolSlabCapacity     int
}

func (o EngineOptions) withDefaults() EngineOptions {
	if o.CommandQueueCapacity <= 0 {
		o.CommandQueueCapacity = defaultCommandQueueCapacity
	}
	if o.EventQueueCapacity <= 0 {
		o.EventQueueCapacity = defaultEventQueueCapacity
	}
	if o.PoolSlabs <= 0 {
		o.PoolSlabs = defaultPoolSlabs
	}
	if o.PoolSlabCapacity <= 0 {
		o.PoolSlabCapacity = defaultPoolSlabCapacity
	}
	return o
}

// Engine owns the two shared PCM buffers and the six voices, and is the
// sole mutator of either while Process is running. All other access is
// mediated by Command values pushed through PushCommand and Event
// values drained through PopEvent; see the package doc comment for the
// audio-zone/control-zone split this enforces.
type Engine struct {
	buffers [BufferCount]*Buffer
	voices  [VoiceCount]Voice

	commands *commandQueue
	events   *eventQueue
	pool     *bufferPool

	pollPhase bool // audio-thread-owned; mutated only via drained commands
}

// NewEngine constructs an engine with both buffers allocated and zeroed
// and all voices at their documented defaults.
func NewEngine(opts EngineOptions) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		commands: newCommandQueue(opts.CommandQueueCapacity),
		events:   newEventQueue(opts.EventQueueCapacity),
		pool:     newBufferPool(opts.PoolSlabs, opts.PoolSlabCapacity),
	}
	for i := range e.buffers {
		e.buffers[i] = NewBuffer()
	}
	for i := range e.voices {
		e.voices[i] = DefaultVoiceState(i)
	}
	return e
}

// PushCommand enqueues a command for the next Process call to drain. It
// is safe to call from exactly one control-zone goroutine at a time (the
// ring buffer is single-producer); ok is false if the command queue is
// full, which the spec treats as a programming error for the caller to
// surface as fatal or to retry after blocking.
func (e *Engine) PushCommand(cmd Command) (ok bool) {
	return e.commands.push(cmd)
}

// PopEvent dequeues the oldest pending event, if any. It is safe to
// call from exactly one control-zone goroutine at a time.
func (e *Engine) PopEvent() (Event, bool) {
	return e.events.pop()
}

// ReleasePoolSlot returns a buffer-pool slab to the free pool once the
// control side has finished copying an EventBufferData's Samples out of
// it. Control.PumpEvents calls this automatically; callers draining
// events directly via PopEvent must call it themselves for any
// EventBufferData they receive.
func (e *Engine) ReleasePoolSlot(ev EventBufferData) {
	e.pool.release(ev.poolSlot)
}

// Process is the real-time entry point: it clears outputL and outputR,
// drains all pending commands in arrival order, runs the per-voice
// kernel across the block for every enabled voice, and flushes any
// events the kernel or command handling produced. input, outputL and
// outputR must be the same length; input may be nil, in which case the
// engine behaves as if it were all zeros (no input for recording).
//
// Process never allocates and never calls into user code. The only lock
// it can take is the buffer pool's semaphore mutex, briefly and without
// waiting, while servicing a CmdBufferRead (see bufferPool); the control
// zone takes the same mutex when it releases a slab. It must return
// well within the caller's block deadline.
func (e *Engine) Process(input, outputL, outputR []float32) {
	n := len(outputL)
	for i := 0; i < n; i++ {
		outputL[i] = 0
		outputR[i] = 0
	}

	e.drainCommands()

	for vi := range e.voices {
		v := &e.voices[vi]
		if !v.Enabled {
			continue
		}
		buf := e.buffers[v.BufferID]
		for i := 0; i < n; i++ {
			var in float32
			if i < len(input) {
				in = input[i]
			}
			res := v.step(buf, in, e.pollPhase)
			outputL[i] += res.outL
			outputR[i] += res.outR
			for k := 0; k < res.phaseEventCount; k++ {
				e.events.pushPhase(EventPhase{Voice: vi, PositionS: res.phasePosS})
			}
		}
	}
}

// drainCommands dispatches every command currently queued, in arrival
// order, via a type switch — the sum-type dispatch the spec's design
// notes call for in place of string-keyed dynamic dispatch.
func (e *Engine) drainCommands() {
	for {
		cmd, ok := e.commands.pop()
		if !ok {
			return
		}
		e.dispatch(cmd)
	}
}

func (e *Engine) dispatch(cmd Command) {
	switch c := cmd.(type) {
	case CmdEnable:
		e.voice(c.Voice).Enabled = c.On
	case CmdPlay:
		e.voice(c.Voice).Playing = c.On
	case CmdRec:
		e.voice(c.Voice).Recording = c.On
	case CmdBufferSelect:
		e.voice(c.Voice).BufferID = c.Buffer
	case CmdRate:
		e.voice(c.Voice).Rate = c.Rate
	case CmdLevel:
		v := e.voice(c.Voice)
		v.LevelTarget = c.Level
		if v.LevelSlewS == 0 {
			v.Level = c.Level
		}
	case CmdLevelSlewTime:
		e.voice(c.Voice).LevelSlewS = c.Seconds
	case CmdPan:
		e.voice(c.Voice).Pan = c.Pan
	case CmdPosition:
		e.voice(c.Voice).Phase = secondsToSamples(c.PositionS)
	case CmdLoop:
		e.voice(c.Voice).LoopOn = c.On
	case CmdLoopStart:
		e.voice(c.Voice).LoopStartS = c.Start
	case CmdLoopEnd:
		e.voice(c.Voice).LoopEndS = c.End
	case CmdFadeTime:
		e.voice(c.Voice).FadeTimeS = c.Seconds
	case CmdRecLevel:
		e.voice(c.Voice).RecLevel = c.Level
	case CmdPreLevel:
		e.voice(c.Voice).PreLevel = c.Level
	case CmdPhaseQuant:
		e.voice(c.Voice).PhaseQuantS = c.QuantumS
	case CmdPollStartPhase:
		e.pollPhase = true
	case CmdPollStopPhase:
		e.pollPhase = false
	case CmdBufferClear:
		for _, b := range e.buffers {
			b.clear()
		}
	case CmdBufferClearChannel:
		e.buffer(c.Buffer).clear()
	case CmdBufferClearRegion:
		// Open question 2: this clears the region in BOTH buffers,
		// asymmetric with CmdBufferClearChannel. Preserved as spec'd.
		start := int(secondsToSamples(c.StartS))
		length := int(secondsToSamples(c.DurationS))
		for _, b := range e.buffers {
			b.clearRegion(start, length)
		}
	case CmdBufferLoad:
		e.buffer(c.Buffer).load(int(secondsToSamples(c.StartDstS)), c.Data)
	case CmdBufferRead:
		e.handleBufferRead(c)
	case CmdReset:
		e.handleReset()
	}
}

func (e *Engine) handleReset() {
	for _, b := range e.buffers {
		b.clear()
	}
	for i := range e.voices {
		e.voices[i].resetTo()
	}
	e.pollPhase = false
}

func (e *Engine) handleBufferRead(c CmdBufferRead) {
	slot, slab, ok := e.pool.acquire()
	if !ok {
		e.events.pushDurable(EventCapacity{Buffer: c.Buffer, StartS: c.StartS, DurationS: c.DurationS})
		return
	}
	buf := e.buffer(c.Buffer)
	start := int(secondsToSamples(c.StartS))
	length := int(secondsToSamples(c.DurationS))
	if length > len(slab) {
		length = len(slab)
	}
	n := buf.read(start, length, slab)
	ev := EventBufferData{Buffer: c.Buffer, StartSample: start, Samples: slab[:n], poolSlot: slot}
	if !e.events.pushDurable(ev) {
		e.pool.release(slot)
		e.events.pushDurable(EventCapacity{Buffer: c.Buffer, StartS: c.StartS, DurationS: c.DurationS})
	}
}

// voice returns a pointer to the voice at 0-based index i, clamped into
// range rather than panicking — the control API is responsible for
// rejecting out-of-range indices before a command is ever built, but
// the engine itself never trusts that as its only line of defence.
func (e *Engine) voice(i int) *Voice {
	if i < 0 {
		i = 0
	}
	if i >= VoiceCount {
		i = VoiceCount - 1
	}
	return &e.voices[i]
}

func (e *Engine) buffer(i int) *Buffer {
	if i < 0 {
		i = 0
	}
	if i >= BufferCount {
		i = BufferCount - 1
	}
	return e.buffers[i]
}
