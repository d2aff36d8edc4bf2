package pinewood

// Edge is the transition of a boolean input line between two frames.
type Edge uint8

const (
	EdgeNone     Edge = iota // unchanged since the previous frame
	EdgePressed              // went down this frame
	EdgeReleased             // went up this frame
)

// String returns "none", "pressed" or "released".
func (e Edge) String() string {
	switch e {
	case EdgePressed:
		return "pressed"
	case EdgeReleased:
		return "released"
	default:
		return "none"
	}
}

// DetectEdge classifies the change of a line from prev to cur.
func DetectEdge(prev, cur bool) Edge {
	switch {
	case !prev && cur:
		return EdgePressed
	case prev && !cur:
		return EdgeReleased
	default:
		return EdgeNone
	}
}

// Direction returns the sign of the change from prev to cur: -1, 0 or +1.
func Direction(prev, cur float64) int {
	switch {
	case cur > prev:
		return 1
	case cur < prev:
		return -1
	default:
		return 0
	}
}
