//go:build !linux && !headless

// priority_other.go - no-op priority hook on non-Linux platforms

package softcut

// raiseAudioThreadPriority is a no-op outside Linux, where the
// unix.Setpriority path in priority_linux.go does not apply.
func raiseAudioThreadPriority() {}
