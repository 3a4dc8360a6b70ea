package capture

import "github.com/teslashibe/go-theta/pkg/theta"

// listStrategy is the strategy of the accumulating modes. SC2 never
// reports a terminal command state for them, so completion is inferred
// from the capture status returning to idle.
func listStrategy(c *Capture, mode theta.ShootingMode) strategy[[]string] {
	st := strategy[[]string]{
		mode:   string(mode),
		start:  c.startCapture(mode),
		result: fileURLs,
	}
	if c.model.IsSC2() {
		st.monitored = true
		st.idle = inferredIdle
	}
	return st
}

// inferredIdle completes with an empty list once shooting was observed;
// the SC2 does not report the files. Idle before any shot is a cancel.
func inferredIdle(captured bool) ([]string, bool) {
	if captured {
		return []string{}, false
	}
	return nil, true
}
