//go:build headless

// backend_headless.go - no-device audio output for tests and CI

package softcut

import "time"

// headlessBlockFrames and headlessBlockPeriod give the headless driver
// the same real-time cadence a real device callback would, rather than
// spinning the control goroutine as fast as possible.
const headlessBlockFrames = 256

var headlessBlockPeriod = time.Duration(headlessBlockFrames) * time.Second / time.Duration(SampleRate)

// platformOutput never touches a real device. It still calls
// Engine.Process on a background ticker-driven loop so that tests
// exercising Start/Stop against the AudioOutput interface behave the
// same regardless of which backend was selected, without requiring a
// sound card in the test environment.
//
// Grounded directly on the reference engine's headless backend
// (audio_backend_headless.go), which is always compiled in under the
// same build tag for exactly this reason, and which names its type
// OtoPlayer identically to the non-headless backend so untagged code
// never has to pick between two constructor names; extended here with
// a ticking driver loop since softcut's engine, unlike the reference
// chip, is meant to actually be exercised over time by something.
type platformOutput struct {
	engine  *Engine
	started bool
	stop    chan struct{}
}

// newPlatformOutput mirrors backend_oto.go's constructor of the same
// name under the opposite build tag; see NewAudioOutput in backend.go.
func newPlatformOutput(e *Engine) (*platformOutput, error) {
	return &platformOutput{engine: e}, nil
}

func (h *platformOutput) Start() {
	if h.started {
		return
	}
	h.started = true
	h.stop = make(chan struct{})
	go h.run(h.stop)
}

func (h *platformOutput) run(stop chan struct{}) {
	l := make([]float32, headlessBlockFrames)
	r := make([]float32, headlessBlockFrames)
	in := make([]float32, headlessBlockFrames)
	ticker := time.NewTicker(headlessBlockPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.engine.Process(in, l, r)
		}
	}
}

func (h *platformOutput) Stop() {
	if !h.started {
		return
	}
	close(h.stop)
	h.started = false
}

func (h *platformOutput) Close() { h.Stop() }

func (h *platformOutput) IsStarted() bool { return h.started }
