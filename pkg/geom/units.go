package geom

import "fmt"

// Unit is a linear length unit.
type Unit string

const (
	Millimeters Unit = "mm"
	Centimeters Unit = "cm"
	Meters      Unit = "m"
	Inches      Unit = "in"
	Feet        Unit = "ft"
)

var unitToMM = map[Unit]float64{
	Millimeters: 1,
	Centimeters: 10,
	Meters:      1000,
	Inches:      25.4,
	Feet:        304.8,
}

// ParseUnit validates a unit name. An empty name means millimeters.
func ParseUnit(s string) (Unit, error) {
	if s == "" {
		return Millimeters, nil
	}
	u := Unit(s)
	if _, ok := unitToMM[u]; !ok {
		return "", fmt.Errorf("unknown unit %q, expected mm, cm, m, in or ft", s)
	}
	return u, nil
}

// Factor returns the multiplier converting lengths in from into lengths in to.
// Unknown units convert with factor 1.
func Factor(from, to Unit) float64 {
	f, okF := unitToMM[from]
	t, okT := unitToMM[to]
	if !okF || !okT {
		return 1
	}
	return f / t
}
