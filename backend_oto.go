//go:build !headless

// backend_oto.go - oto/v3-backed realtime audio output

package softcut

import (
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// otoFramesPerRead is the block size, in frames, Process is called with
// from inside Read. oto may ask for more or fewer bytes than this in a
// single Read call; Read fills each request completely in successive
// chunks of at most this many frames, carrying nothing over between
// calls.
const otoFramesPerRead = 256

// platformOutput drives Engine.Process from oto's pull-based Read
// callback, converting between oto's interleaved stereo float32 wire
// format and the engine's separate mono-input/stereo-output slice
// contract.
//
// Grounded almost directly on the reference engine's OtoPlayer
// (audio_backend_oto.go): same oto.Context/oto.Player/Read([]byte)
// shape, same started/mutex bookkeeping, same type/constructor name
// shared with the opposite-tagged headless backend (see backend.go),
// adapted from "pull one interpolated chip sample" to "pull one block
// from Engine.Process".
type platformOutput struct {
	engine *Engine
	ctx    *oto.Context
	player *oto.Player

	scratchL, scratchR, scratchIn []float32

	mu      sync.Mutex
	started bool

	priorityOnce sync.Once
}

// newPlatformOutput mirrors backend_headless.go's constructor of the
// same name under the opposite build tag; see NewAudioOutput in
// backend.go.
func newPlatformOutput(e *Engine) (*platformOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0, // oto default
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	out := &platformOutput{
		engine:    e,
		ctx:       ctx,
		scratchL:  make([]float32, otoFramesPerRead),
		scratchR:  make([]float32, otoFramesPerRead),
		scratchIn: make([]float32, otoFramesPerRead),
	}
	out.player = ctx.NewPlayer(out)
	return out, nil
}

// Read implements io.Reader for oto's pull model: p is a byte buffer
// oto wants filled with interleaved little-endian float32 stereo
// samples. platformOutput fills it in otoFramesPerRead-frame chunks
// pulled from Engine.Process.
func (o *platformOutput) Read(p []byte) (n int, err error) {
	const bytesPerFrame = 8 // 2 channels * 4 bytes
	frames := len(p) / bytesPerFrame

	written := 0
	for written < frames {
		chunk := frames - written
		if chunk > otoFramesPerRead {
			chunk = otoFramesPerRead
		}
		l := o.scratchL[:chunk]
		r := o.scratchR[:chunk]
		in := o.scratchIn[:chunk]
		for i := range in {
			in[i] = 0
		}
		o.engine.Process(in, l, r)

		base := written * bytesPerFrame
		for i := 0; i < chunk; i++ {
			putFloat32LE(p[base+i*8:], l[i])
			putFloat32LE(p[base+i*8+4:], r[i])
		}
		written += chunk
	}
	return frames * bytesPerFrame, nil
}

func putFloat32LE(dst []byte, v float32) {
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}

func (o *platformOutput) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return
	}
	o.priorityOnce.Do(raiseAudioThreadPriority)
	o.player.Play()
	o.started = true
}

func (o *platformOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		return
	}
	o.player.Pause()
	o.started = false
}

func (o *platformOutput) Close() {
	o.Stop()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
}

func (o *platformOutput) IsStarted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started
}
