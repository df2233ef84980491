// buffer.go - shared PCM buffer arenas for the sample engine

package softcut

const (
	// SampleRate is the fixed engine sample rate. Behaviour at any other
	// rate is undefined; the spec makes no provision for sample-rate
	// conversion inside the engine.
	SampleRate = 48000

	// MaxDurationSeconds is the length, in seconds, of each of the two
	// PCM buffers. At SampleRate this yields roughly 67MB of float32
	// storage per buffer.
	MaxDurationSeconds = 350.0

	// BufferLengthSamples is the fixed length of each PCM buffer, in
	// samples. Both buffers are allocated once at engine construction
	// and never resized or reallocated.
	BufferLengthSamples = int(SampleRate * MaxDurationSeconds)

	// BufferCount is the fixed number of shared PCM buffers.
	BufferCount = 2
)

// Buffer is a fixed-length, contiguous, mono float32 sample arena. Index
// zero corresponds to sample position zero. Every access is bounds
// checked; out-of-range reads and writes are silently clamped or
// skipped rather than faulting, so a misbehaving voice can never crash
// the audio thread.
//
// A Buffer is allocated once by NewBuffer and is owned by the Engine for
// the remainder of its lifetime: the audio thread is the sole mutator
// during Process, and the command queue is the only path by which the
// control side may affect its contents.
type Buffer struct {
	data []float32
}

// NewBuffer allocates a zero-initialised buffer of BufferLengthSamples
// samples. It is intended to be called exactly once per buffer slot at
// engine construction.
func NewBuffer() *Buffer {
	return &Buffer{data: make([]float32, BufferLengthSamples)}
}

// Len returns the buffer's fixed length in samples.
func (b *Buffer) Len() int { return len(b.data) }

// at returns the sample at i and whether i was in range. Out-of-range
// reads return (0, false) rather than panicking.
func (b *Buffer) at(i int) (float32, bool) {
	if i < 0 || i >= len(b.data) {
		return 0, false
	}
	return b.data[i], true
}

// set writes v at i if i is in range; out-of-range writes are silently
// skipped.
func (b *Buffer) set(i int, v float32) {
	if i < 0 || i >= len(b.data) {
		return
	}
	b.data[i] = v
}

// clear zeroes the entire buffer.
func (b *Buffer) clear() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// clearRegion zeroes [startSample, startSample+lengthSamples), clamped
// to the buffer's bounds.
func (b *Buffer) clearRegion(startSample, lengthSamples int) {
	start, end := clampRegion(startSample, lengthSamples, len(b.data))
	for i := start; i < end; i++ {
		b.data[i] = 0
	}
}

// load copies src into the buffer beginning at startSample, truncating
// src to fit within the buffer's remaining length.
func (b *Buffer) load(startSample int, src []float32) {
	if startSample < 0 {
		src = src[minInt(-startSample, len(src)):]
		startSample = 0
	}
	if startSample >= len(b.data) {
		return
	}
	n := minInt(len(src), len(b.data)-startSample)
	copy(b.data[startSample:startSample+n], src[:n])
}

// read copies the region [startSample, startSample+lengthSamples),
// clamped to the buffer's bounds, into the front of dst and returns the
// number of samples copied. If dst is shorter than the clamped region,
// only len(dst) samples are copied.
func (b *Buffer) read(startSample, lengthSamples int, dst []float32) int {
	start, end := clampRegion(startSample, lengthSamples, len(b.data))
	n := end - start
	if n <= 0 {
		return 0
	}
	if n > len(dst) {
		n = len(dst)
	}
	copy(dst[:n], b.data[start:start+n])
	return n
}

// clampRegion clamps [start, start+length) to [0, bound).
func clampRegion(start, length, bound int) (clampedStart, clampedEnd int) {
	end := start + length
	if start < 0 {
		start = 0
	}
	if end > bound {
		end = bound
	}
	if start > bound {
		start = bound
	}
	if end < start {
		end = start
	}
	return start, end
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// secondsToSamples converts a duration in seconds to a (possibly
// fractional) sample count at SampleRate.
func secondsToSamples(s float64) float64 { return s * float64(SampleRate) }
