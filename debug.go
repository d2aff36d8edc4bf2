package pinewood

import (
	"fmt"
	"io"
	"os"
)

// globalDebug enables extra diagnostics: tree depth checks, scene and
// resource lifecycle logging. Set via SetDebugMode.
var globalDebug bool

// logOutput receives every log line. Defaults to stderr.
var logOutput io.Writer = os.Stderr

// SetDebugMode turns debug logging and tree checks on or off.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug mode is on.
func DebugMode() bool {
	return globalDebug
}

// SetLogOutput redirects log lines. A nil writer restores stderr.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logOutput = w
}

// debugf prints a "[pinewood]" line when debug mode is on.
func debugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(logOutput, "[pinewood] "+format+"\n", args...)
}

// warnf always prints a "[pinewood] warning:" line.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(logOutput, "[pinewood] warning: "+format+"\n", args...)
}

// debugMaxTreeDepth is the depth past which SetParent warns in debug mode.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the child count past which SetParent warns in debug mode.
const debugMaxChildCount = 1000

func (t *TransformTree) debugCheckDepth(id TransformID) {
	depth := 0
	for p := id; p != NoTransform; p = t.nodes[p.index-1].parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		warnf("tree depth %d exceeds %d (transform %s %q)", depth, debugMaxTreeDepth, id, t.Name(id))
	}
	parent := t.Parent(id)
	if parent == NoTransform {
		return
	}
	if n := t.NumChildren(parent); n > debugMaxChildCount {
		warnf("transform %s has %d children (threshold %d)", parent, n, debugMaxChildCount)
	}
}
