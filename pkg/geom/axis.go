package geom

// Axis names one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// LongestAxis returns the first axis, tested in X, Y, Z order, whose
// half-extent is greater than or equal to both others.
func LongestAxis(hx, hy, hz float64) Axis {
	if hx >= hy && hx >= hz {
		return AxisX
	}
	if hy >= hx && hy >= hz {
		return AxisY
	}
	return AxisZ
}

// ShortestAxis returns the first axis, tested in X, Y, Z order, whose
// half-extent is less than or equal to both others.
func ShortestAxis(hx, hy, hz float64) Axis {
	if hx <= hy && hx <= hz {
		return AxisX
	}
	if hy <= hx && hy <= hz {
		return AxisY
	}
	return AxisZ
}
