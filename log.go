// log.go - control-zone-only diagnostic logging

package softcut

import (
	"fmt"
	"os"
)

// Verbose gates diagnostic output from the control zone: refused
// buffer reads and task failures. It is never consulted on
// the audio thread, which must not perform I/O of any kind.
//
// Grounded on the reference engine's plain fmt.Fprintf(os.Stderr, ...)
// diagnostics — none of the pack's audio-domain repos reach for a
// structured logging framework on a path this close to the hot loop.
var Verbose = false

func logf(format string, args ...any) {
	if !Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "softcut: "+format+"\n", args...)
}
