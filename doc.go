// doc.go - package overview

// Package softcut implements a real-time sample-playback and recording
// engine modelled on the Monome norns "softcut" subsystem: six
// independent voices read and write variable-rate, looped, crossfaded
// audio from two shared linear PCM buffers, while a companion tempo
// clock drives cooperative scheduling so control logic can synchronise
// to a beat grid.
//
// The package is split along the audio-zone/control-zone boundary the
// design rests on:
//
//   - buffer.go    the two fixed-length PCM arenas
//   - voice.go     per-voice state and the per-frame kernel
//   - engine.go    Engine.Process, the sole real-time entry point
//   - commands.go  the Command tagged-variant family (control → audio)
//   - events.go    the Event tagged-variant family (audio → control)
//   - ringbuffer.go / queue.go   the lock-free SPSC transport
//   - bufferpool.go   preallocated slabs for CmdBufferRead
//   - clock.go / task.go   the tempo clock and cooperative task executor
//   - backend.go / backend_oto.go / backend_headless.go   realtime drivers
//   - api.go       Control, the public façade with 1-based indices
//
// Engine.Process must only ever be called from one audio-thread-like
// caller; everything else — Control's methods, the tempo clock, and any
// user tasks registered with Clock.Run — belongs to a single
// control-zone goroutine or its children. Buffer and voice state is
// never touched directly from the control zone: the command queue is
// the only legitimate path, and phase/read-back data only ever flows
// back out through the event queue.
package softcut
