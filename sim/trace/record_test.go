package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrace_Record_AppendsInOrder(t *testing.T) {
	tr := NewTrace()
	tr.Record(0, 1)
	tr.Record(2.5, 3)
	tr.Record(2.5, 0)

	assert.Equal(t, []Point{{0, 1}, {2.5, 3}, {2.5, 0}}, tr.Points())
	assert.Equal(t, 3, tr.Len())
	last, ok := tr.Last()
	assert.True(t, ok)
	assert.Equal(t, Point{2.5, 0}, last)
}

func TestTrace_Record_Panics(t *testing.T) {
	tr := NewTrace()
	tr.Record(5, 0)
	assert.Panics(t, func() { tr.Record(4, 0) }, "time going backwards")
	assert.Panics(t, func() { tr.Record(6, -1) }, "negative value")
}

func TestTrace_Points_ReturnsCopy(t *testing.T) {
	tr := NewTrace()
	tr.Record(0, 1)
	pts := tr.Points()
	pts[0].Value = 9
	assert.Equal(t, 1, tr.Points()[0].Value)
}

func TestTrace_PMF(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		end    float64
		want   []float64
	}{
		{
			name:   "single value holds for the whole window",
			points: []Point{{0, 2}},
			end:    10,
			want:   []float64{0, 0, 1},
		},
		{
			name:   "time weighted",
			points: []Point{{0, 0}, {2, 1}, {8, 0}},
			end:    10,
			want:   []float64{0.4, 0.6},
		},
		{
			name:   "same timestamp keeps last sample",
			points: []Point{{0, 0}, {5, 3}, {5, 1}},
			end:    10,
			want:   []float64{0.5, 0.5, 0, 0},
		},
		{
			name:   "samples past end are ignored",
			points: []Point{{0, 1}, {4, 0}, {12, 2}},
			end:    8,
			want:   []float64{0.5, 0.5, 0},
		},
		{
			name:   "zero length window puts mass on last value",
			points: []Point{{3, 0}, {3, 1}},
			end:    3,
			want:   []float64{0, 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTrace()
			for _, p := range tc.points {
				tr.Record(p.Time, p.Value)
			}
			assert.InDeltaSlice(t, tc.want, tr.PMF(tc.end), 1e-9)
		})
	}
}

func TestTrace_PMF_Empty(t *testing.T) {
	assert.Nil(t, NewTrace().PMF(10))
}

func TestTrace_PMF_SumsToOne(t *testing.T) {
	tr := NewTrace()
	for i, v := range []int{0, 3, 1, 4, 1, 5, 9, 2, 6} {
		tr.Record(float64(i)*1.5, v)
	}
	var sum float64
	for _, p := range tr.PMF(20) {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestTrace_TimeAverage(t *testing.T) {
	tr := NewTrace()
	assert.Equal(t, 0.0, tr.TimeAverage(10))

	tr.Record(0, 1)
	tr.Record(6, 0)
	assert.InDelta(t, 0.6, tr.TimeAverage(10), 1e-9)

	zero := NewTrace()
	zero.Record(4, 1)
	assert.Equal(t, 1.0, zero.TimeAverage(4))
}
