// voice.go - per-voice state and the per-frame kernel

package softcut

import "math"

// VoiceCount is the fixed number of voices the engine creates at
// construction. Voices are never created or destroyed after that; an
// idle voice simply has Enabled == false.
const VoiceCount = 6

// Voice holds the nine logical groups of per-voice state described in
// the spec: topology, transport, loop, fade, amplitude, pan, record,
// and phase reporting. All fields are touched exclusively by the audio
// thread while Engine.Process is running; the command queue is the only
// legitimate path for the control side to change them.
type Voice struct {
	index int // 0-based; fixed at construction

	// Topology.
	BufferID  int
	Enabled   bool
	Playing   bool
	Recording bool

	// Transport. Phase is the fractional sample position shared by
	// playback and record; it may run negative momentarily during
	// reverse-loop wrap arithmetic.
	Phase float64
	Rate  float64

	// Loop.
	LoopOn     bool
	LoopStartS float64
	LoopEndS   float64

	// Fade: crossfade length, in seconds, applied at loop boundaries.
	FadeTimeS float64

	// Amplitude.
	Level       float64
	LevelTarget float64
	LevelSlewS  float64

	// Pan, equal-power, in [-1, 1].
	Pan float64

	// Record.
	RecLevel float64
	PreLevel float64

	// Phase reporting.
	PhaseQuantS float64
	PhaseAccum  float64
}

// DefaultVoiceState returns the documented factory-default state for
// the voice at the given 0-based index, as specified for the `reset`
// command: voices 0-2 default to buffer 0, voices 3-5 to buffer 1; rate
// 1; level and level target 1; centred pan; looping off with loop
// spanning the full buffer; a short default crossfade; everything else
// zero or false.
func DefaultVoiceState(index int) Voice {
	bufID := 0
	if index >= VoiceCount/2 {
		bufID = 1
	}
	return Voice{
		index:       index,
		BufferID:    bufID,
		Rate:        1,
		Level:       1,
		LevelTarget: 1,
		LoopStartS:  0,
		LoopEndS:    MaxDurationSeconds,
		FadeTimeS:   0.01,
	}
}

// resetTo reinitialises the voice in place to its factory defaults,
// preserving its index.
func (v *Voice) resetTo() {
	idx := v.index
	*v = DefaultVoiceState(idx)
}

// stepResult carries everything the kernel produces for one frame
// beyond the stereo sample, so Engine.Process can decide whether and
// how to report it without the kernel reaching back into the engine.
type stepResult struct {
	outL, outR      float32
	phaseEventCount int
	phasePosS       float64
}

// step runs one frame of the per-voice kernel against buf, consuming
// one input sample and producing one stereo output sample, per the
// ten-step contract in the spec. pollPhase is the engine-wide phase
// reporting gate (spec §9 open question 3: reporting is global on/off,
// quantum is per-voice).
//
// The spec's step 2 ("if playing is false, skip to step 8") is
// resolved, per the explicit invariant in the data model ("playing
// false implies no phase advance and no output"), to mean the voice's
// head does not move at all while paused: steps 3 through 10 are all
// skipped together, not just 3 through 7. Level slew (step 1) still
// runs regardless of Playing, since it governs a control-rate ramp
// independent of the transport.
func (v *Voice) step(buf *Buffer, input float32, pollPhase bool) stepResult {
	v.slewLevel()

	if !v.Playing {
		return stepResult{}
	}

	sample := v.readInterpolated(buf)
	fadeGain := v.crossfadeGain()
	gl, gr := panGains(v.Pan)

	out := sample * float32(v.Level) * fadeGain
	res := stepResult{outL: out * gl, outR: out * gr}

	if v.Recording {
		v.writeRecord(buf, input)
	}

	v.Phase += v.Rate
	v.applyBoundary(buf.Len())

	if pollPhase && v.PhaseQuantS > 0 {
		if n, pos := v.advancePhaseReport(); n > 0 {
			res.phaseEventCount = n
			res.phasePosS = pos
		}
	}
	return res
}

// slewLevel implements step 1: linear slew of Level toward LevelTarget.
// A zero slew time snaps instantly; the kernel tolerates Level already
// equalling LevelTarget (a no-op in that case).
func (v *Voice) slewLevel() {
	if v.Level == v.LevelTarget {
		return
	}
	if v.LevelSlewS <= 0 {
		v.Level = v.LevelTarget
		return
	}
	step := 1.0 / (v.LevelSlewS * float64(SampleRate))
	if v.Level < v.LevelTarget {
		v.Level += step
		if v.Level > v.LevelTarget {
			v.Level = v.LevelTarget
		}
	} else {
		v.Level -= step
		if v.Level < v.LevelTarget {
			v.Level = v.LevelTarget
		}
	}
}

// readInterpolated implements step 3: linear interpolation between the
// two samples straddling the fractional phase.
func (v *Voice) readInterpolated(buf *Buffer) float32 {
	p := v.Phase
	i0 := int(math.Floor(p))
	f := float32(p - math.Floor(p))

	s0, ok0 := buf.at(i0)
	if !ok0 {
		return 0
	}
	s1, ok1 := buf.at(i0 + 1)
	if !ok1 {
		return s0
	}
	return s0*(1-f) + s1*f
}

// crossfadeGain implements step 4: the loop-boundary crossfade.
func (v *Voice) crossfadeGain() float32 {
	if !v.LoopOn || v.FadeTimeS <= 0 {
		return 1
	}
	loopStart := secondsToSamples(v.LoopStartS)
	loopEnd := secondsToSamples(v.LoopEndS)
	if loopEnd-loopStart <= 0 {
		return 1
	}
	fadeSamples := secondsToSamples(v.FadeTimeS)
	dStart := v.Phase - loopStart
	dEnd := loopEnd - v.Phase
	switch {
	case dStart >= 0 && dStart < fadeSamples:
		return float32(dStart / fadeSamples)
	case dEnd >= 0 && dEnd < fadeSamples:
		return float32(dEnd / fadeSamples)
	default:
		return 1
	}
}

// panGains implements step 5: equal-power pan law.
func panGains(pan float64) (gl, gr float32) {
	panNorm := (pan + 1) / 2
	return float32(math.Cos(panNorm * math.Pi / 2)), float32(math.Sin(panNorm * math.Pi / 2))
}

// writeRecord implements step 7: record-with-overdub.
func (v *Voice) writeRecord(buf *Buffer, input float32) {
	ri := int(math.Floor(v.Phase))
	existing, ok := buf.at(ri)
	if !ok {
		return
	}
	buf.set(ri, float32(v.RecLevel)*input+float32(v.PreLevel)*existing)
}

// applyBoundary implements step 9: loop wrap or one-shot stop.
func (v *Voice) applyBoundary(bufLen int) {
	if v.LoopOn {
		loopStart := secondsToSamples(v.LoopStartS)
		loopEnd := secondsToSamples(v.LoopEndS)
		switch {
		case v.Rate > 0 && v.Phase >= loopEnd:
			v.Phase = loopStart + (v.Phase - loopEnd)
		case v.Rate < 0 && v.Phase < loopStart:
			v.Phase = loopEnd - (loopStart - v.Phase)
		}
		return
	}
	if v.Phase >= float64(bufLen) || v.Phase < 0 {
		v.Playing = false
	}
}

// advancePhaseReport implements step 10: quantised phase reporting.
// |Rate| is accumulated every frame; each time the accumulator crosses
// a full quantum, one event fires at the voice's current position. A
// single frame may cross more than one quantum at high |Rate|, in
// which case advancePhaseReport returns the crossing count so the
// caller emits that many events (all at the same position, since
// Phase only advances once per frame) — this keeps the long-run event
// cadence equal to |rate|*T/quantum regardless of block size.
func (v *Voice) advancePhaseReport() (count int, posS float64) {
	v.PhaseAccum += math.Abs(v.Rate)
	quantum := secondsToSamples(v.PhaseQuantS)
	if quantum <= 0 {
		return 0, 0
	}
	for v.PhaseAccum >= quantum {
		v.PhaseAccum -= quantum
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return count, v.Phase / float64(SampleRate)
}
