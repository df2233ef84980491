// commands.go - the Command tagged-variant family

package softcut

// Command is implemented by every control-to-audio message. Dispatch in
// Engine.drainCommands is a type switch — no runtime string comparison
// and no allocation on the audio thread, matching the reference
// engine's register-address switch in HandleRegisterWrite, generalised
// from "switch on address" to "switch on variant" per the spec's design
// note that sum-type commands, not dynamic dispatch, drive the kernel.
//
// All commands are value types except CmdBufferLoad, which additionally
// carries ownership of a freshly allocated sample slice: once posted,
// the control side must not touch that slice again.
type Command interface{ isCommand() }

// CmdEnable toggles a voice between idle and active.
type CmdEnable struct {
	Voice int
	On    bool
}

// CmdPlay toggles a voice's transport.
type CmdPlay struct {
	Voice int
	On    bool
}

// CmdRec toggles a voice's recording.
type CmdRec struct {
	Voice int
	On    bool
}

// CmdBufferSelect chooses a voice's source/destination buffer.
type CmdBufferSelect struct {
	Voice  int
	Buffer int
}

// CmdRate sets a voice's signed playback/record rate.
type CmdRate struct {
	Voice int
	Rate  float64
}

// CmdLevel sets a voice's target output level; it also updates
// LevelTarget, and snaps Level immediately if LevelSlewS is zero (the
// engine tolerates either the snap happening here or in the kernel).
type CmdLevel struct {
	Voice int
	Level float64
}

// CmdLevelSlewTime sets the time, in seconds, over which Level chases
// LevelTarget.
type CmdLevelSlewTime struct {
	Voice   int
	Seconds float64
}

// CmdPan sets a voice's equal-power pan position.
type CmdPan struct {
	Voice int
	Pan   float64
}

// CmdPosition sets a voice's head directly, in seconds.
type CmdPosition struct {
	Voice     int
	PositionS float64
}

// CmdLoop toggles a voice's loop mode.
type CmdLoop struct {
	Voice int
	On    bool
}

// CmdLoopStart sets a voice's loop start, in seconds.
type CmdLoopStart struct {
	Voice int
	Start float64
}

// CmdLoopEnd sets a voice's loop end, in seconds.
type CmdLoopEnd struct {
	Voice int
	End   float64
}

// CmdFadeTime sets a voice's loop-boundary crossfade length, in
// seconds.
type CmdFadeTime struct {
	Voice   int
	Seconds float64
}

// CmdRecLevel sets the gain applied to the incoming sample while
// recording.
type CmdRecLevel struct {
	Voice int
	Level float64
}

// CmdPreLevel sets the gain applied to the existing buffer sample
// before summing while recording (0 = overwrite, 1 = infinite
// overdub).
type CmdPreLevel struct {
	Voice int
	Level float64
}

// CmdPhaseQuant sets a voice's phase-report granularity, in seconds; 0
// disables reporting for that voice.
type CmdPhaseQuant struct {
	Voice    int
	QuantumS float64
}

// CmdPollStartPhase enables engine-wide phase reporting.
type CmdPollStartPhase struct{}

// CmdPollStopPhase disables engine-wide phase reporting.
type CmdPollStopPhase struct{}

// CmdBufferClear zeroes both buffers.
type CmdBufferClear struct{}

// CmdBufferClearChannel zeroes one buffer.
type CmdBufferClearChannel struct {
	Buffer int
}

// CmdBufferClearRegion zeroes a region in BOTH buffers simultaneously.
// This asymmetry with CmdBufferClearChannel is intentional — see the
// spec's open question 2 — and is preserved rather than "fixed".
type CmdBufferClearRegion struct {
	StartS    float64
	DurationS float64
}

// CmdBufferLoad copies Data into Buffer starting at StartDstS, clamped
// to the buffer's bounds. Posting a CmdBufferLoad transfers ownership
// of Data to the engine; the caller must not read or write Data again.
type CmdBufferLoad struct {
	Buffer    int
	StartDstS float64
	Data      []float32
}

// CmdBufferRead asynchronously requests a copy of a buffer region. The
// response arrives as an EventBufferData on the event queue, or as an
// EventCapacity if no pool slot (or no event-queue slot) is available.
type CmdBufferRead struct {
	Buffer    int
	StartS    float64
	DurationS float64
}

// CmdReset restores all voice state to documented defaults and zeroes
// both buffers.
type CmdReset struct{}

func (CmdEnable) isCommand()            {}
func (CmdPlay) isCommand()              {}
func (CmdRec) isCommand()               {}
func (CmdBufferSelect) isCommand()      {}
func (CmdRate) isCommand()              {}
func (CmdLevel) isCommand()             {}
func (CmdLevelSlewTime) isCommand()     {}
func (CmdPan) isCommand()               {}
func (CmdPosition) isCommand()          {}
func (CmdLoop) isCommand()              {}
func (CmdLoopStart) isCommand()         {}
func (CmdLoopEnd) isCommand()           {}
func (CmdFadeTime) isCommand()          {}
func (CmdRecLevel) isCommand()          {}
func (CmdPreLevel) isCommand()          {}
func (CmdPhaseQuant) isCommand()        {}
func (CmdPollStartPhase) isCommand()    {}
func (CmdPollStopPhase) isCommand()     {}
func (CmdBufferClear) isCommand()        {}
func (CmdBufferClearChannel) isCommand() {}
func (CmdBufferClearRegion) isCommand()  {}
func (CmdBufferLoad) isCommand()        {}
func (CmdBufferRead) isCommand()        {}
func (CmdReset) isCommand()             {}
