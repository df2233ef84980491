//go:build linux && !headless

// priority_linux.go - best-effort realtime priority for the audio thread

package softcut

import "golang.org/x/sys/unix"

// raiseAudioThreadPriority attempts to lower the calling goroutine's
// (and hence its OS thread's, once locked) nice value so the audio
// callback is scheduled promptly under load. Failure is silent and
// non-fatal — unprivileged processes routinely cannot raise priority,
// and the engine must work correctly without it.
//
// Grounded on the spec's requirement that the audio zone be "a single
// high-priority thread (or equivalent real-time callback)";
// golang.org/x/sys is a dependency of the reference engine's own
// module graph (pulled in only transitively there) promoted here to
// direct, load-bearing use — a fit the reference engine's emulator
// domain never had, since it relies entirely on oto's own callback
// thread for scheduling.
func raiseAudioThreadPriority() {
	const niceDelta = -10
	_ = unix.Setpriority(unix.PRIO_PROCESS, 0, niceDelta)
}
