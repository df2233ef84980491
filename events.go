// events.go - the Event tagged-variant family

package softcut

// Event is implemented by every audio-to-control message.
type Event interface{ isEvent() }

// EventPhase reports a voice's current head position, emitted at the
// cadence set by that voice's phase quantum while engine-wide phase
// polling is enabled.
type EventPhase struct {
	Voice     int
	PositionS float64
}

// EventBufferData is the asynchronous response to CmdBufferRead.
// Samples is a pool-owned view, not a copy. Control.PumpEvents hands
// Control.OnBufferData a copy and releases the slab itself; callers
// draining events directly via Engine.PopEvent see the pool-owned view
// and must release it with Engine.ReleasePoolSlot.
type EventBufferData struct {
	Buffer      int
	StartSample int
	Samples     []float32

	poolSlot int // -1 if not pool-backed
}

// EventCapacity reports that a CmdBufferRead could not be serviced
// because no buffer-pool slot, or no event-queue slot, was available
// at the time the engine tried to service it. It carries enough of the
// original request for the caller to decide whether to retry.
type EventCapacity struct {
	Buffer    int
	StartS    float64
	DurationS float64
}

func (EventPhase) isEvent()       {}
func (EventBufferData) isEvent()  {}
func (EventCapacity) isEvent()    {}
