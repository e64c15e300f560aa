package geom

import "gonum.org/v1/gonum/spatial/r3"

// Segment is the bounded axis line of a linear element.
type Segment struct {
	Start Vec3 `json:"start" yaml:"start"`
	End   Vec3 `json:"end" yaml:"end"`
}

// Length returns the distance between the end points.
func (s Segment) Length() float64 {
	return r3.Norm(r3.Sub(s.End.r3(), s.Start.r3()))
}

// Project returns the point on s nearest to p. A zero-length segment
// projects everything onto its start point.
func (s Segment) Project(p Vec3) Vec3 {
	a := s.Start.r3()
	d := r3.Sub(s.End.r3(), a)
	dd := r3.Dot(d, d)
	if dd == 0 {
		return s.Start
	}
	t := r3.Dot(r3.Sub(p.r3(), a), d) / dd
	t = max(0, min(1, t))
	return fromR3(r3.Add(a, r3.Scale(t, d)))
}

