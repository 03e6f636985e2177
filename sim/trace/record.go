// Package trace records time-stamped step functions of simulation metrics and
// turns them into time-weighted probability mass functions.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import "fmt"

// Point is a single sample of a step function: the metric takes Value from
// Time until the next point.
type Point struct {
	Time  float64 `yaml:"time"`
	Value int     `yaml:"value"`
}

// Trace is a step function of a non-negative integer metric over logical
// time. Points are kept in recording order; several points may share a
// timestamp, in which case only the last one holds.
type Trace struct {
	points []Point
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{points: make([]Point, 0)}
}

// Record appends a sample. Time must not decrease and value must be
// non-negative; violations are programming errors and panic.
func (tr *Trace) Record(t float64, v int) {
	if v < 0 {
		panic(fmt.Sprintf("trace: negative value %d at %v", v, t))
	}
	if n := len(tr.points); n > 0 && t < tr.points[n-1].Time {
		panic(fmt.Sprintf("trace: time went backwards (%v < %v)", t, tr.points[n-1].Time))
	}
	tr.points = append(tr.points, Point{Time: t, Value: v})
}

// Points returns a copy of the recorded samples.
func (tr *Trace) Points() []Point {
	return append([]Point(nil), tr.points...)
}

// Len returns the number of recorded samples.
func (tr *Trace) Len() int { return len(tr.points) }

// Last returns the most recent sample.
func (tr *Trace) Last() (Point, bool) {
	if len(tr.points) == 0 {
		return Point{}, false
	}
	return tr.points[len(tr.points)-1], true
}

// durations walks the step function over [first sample, end] and reports
// how long each sample held. Samples after end hold for zero time.
func (tr *Trace) durations(end float64, visit func(p Point, d float64)) (total float64) {
	for i, p := range tr.points {
		next := end
		if i+1 < len(tr.points) {
			next = min(tr.points[i+1].Time, end)
		}
		d := max(next-p.Time, 0)
		visit(p, d)
		total += d
	}
	return total
}

// PMF returns the time-weighted probability mass function of the metric
// over [first sample, end]: pmf[v] is the fraction of time the metric had
// value v. If no time elapsed, all mass goes to the last value. An empty
// trace yields nil.
func (tr *Trace) PMF(end float64) []float64 {
	last, ok := tr.Last()
	if !ok {
		return nil
	}
	maxValue := 0
	for _, p := range tr.points {
		maxValue = max(maxValue, p.Value)
	}
	pmf := make([]float64, maxValue+1)
	total := tr.durations(end, func(p Point, d float64) { pmf[p.Value] += d })
	if total <= 0 {
		pmf[last.Value] = 1
		return pmf
	}
	for i := range pmf {
		pmf[i] /= total
	}
	return pmf
}

// TimeAverage returns the time-weighted mean of the metric over
// [first sample, end], or the last value if no time elapsed.
func (tr *Trace) TimeAverage(end float64) float64 {
	last, ok := tr.Last()
	if !ok {
		return 0
	}
	var area float64
	total := tr.durations(end, func(p Point, d float64) { area += float64(p.Value) * d })
	if total <= 0 {
		return float64(last.Value)
	}
	return area / total
}
