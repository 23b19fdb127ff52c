// log.go - Package-level diagnostic logging. No library in the retrieval
// pack imports a structured logging package; every example, including the
// teacher, logs via fmt.Fprintf with a hand-rolled timestamp prefix
// (cpu_ie32.go uses time.Now().Format("15:04:05.000")). This file follows
// that convention rather than reaching for zerolog/zap/logrus, none of
// which appear anywhere in the corpus.

package core

import (
	"fmt"
	"os"
	"time"
)

// Verbose gates per-instruction and per-load diagnostic logging. It
// defaults to off so normal emulation produces no output; qprahost has no
// flag that sets it.
var Verbose bool

func logf(format string, args ...any) {
	if !Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "%s core: %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// warnf logs recovered runtime anomalies (unmapped I/O, unknown opcode)
// unconditionally: §7 requires these be logged even when Verbose is off,
// since they indicate a ROM defect the host should be able to see.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s core: WARNING: %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}
