package arm64

import "sync/atomic"

// initialLabelID is the starting value of the process-wide label counter.
// DESIGN.md Open Question 2: kept as a bare documented constant, not a
// derived one — the source gives no reason to believe it avoids colliding
// with hand-written runtime labels, and none is invented here.
const initialLabelID int64 = 5000

var labelCounter = initialLabelID - 1 // pre-increment in NextLabelID

// NextLabelID draws the next value from the whole-compilation label
// counter (§3: "Label IDs are drawn from a process-wide monotonically
// increasing counter ... scope: whole compilation"). Safe for concurrent
// use, though §5 assumes only one backend runs per process.
func NextLabelID() int64 {
	return atomic.AddInt64(&labelCounter, 1)
}

// ResetLabelCounter is exposed only for tests that need Testable Property 7
// (idempotent rebuild within a run) without cross-test interference; it
// must never be called mid-compile.
func ResetLabelCounter() {
	atomic.StoreInt64(&labelCounter, initialLabelID-1)
}
