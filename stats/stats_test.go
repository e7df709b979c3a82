package stats

import (
	"bytes"
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		lengths []int
		mean    float64
		stdev   float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, l := range c.lengths {
			s.Push(float64(l))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Count(), len(c.lengths))
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(math.Abs(ZVal(95)-1.959964) < 1e-5)
	is.True(math.Abs(ZVal(99)-2.575829) < 1e-5)
}

func TestTally(t *testing.T) {
	is := is.New(t)
	tl := &Tally{Wins: 6, Draws: 2, Losses: 2}
	is.Equal(tl.Games(), 10)
	is.True(FuzzyEqual(tl.Score(), 0.7))

	lo, hi := tl.Interval(95)
	is.True(lo < 0.7 && hi > 0.7)
	is.True(FuzzyEqual(0.7-lo, hi-0.7))

	all := &Tally{Wins: 5}
	lo, hi = all.Interval(95)
	is.True(FuzzyEqual(lo, 1))
	is.True(FuzzyEqual(hi, 1))

	empty := &Tally{}
	lo, hi = empty.Interval(95)
	is.Equal(lo, 0.0)
	is.Equal(hi, 1.0)
}

func TestFprintHistogram(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(FprintHistogram(&buf, []float64{7, 9, 9, 11, 13, 13, 13, 20}, 20))
	is.True(buf.Len() > 0)

	buf.Reset()
	is.NoErr(FprintHistogram(&buf, nil, 20))
	is.Equal(buf.Len(), 0)
}
