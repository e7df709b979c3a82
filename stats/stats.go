// Package stats summarizes self-play results.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance, such as of game lengths.
type Statistic struct {
	n    int
	last float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	if s.n == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		return
	}
	s.newM = s.oldM + (val-s.oldM)/float64(s.n)
	s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
	s.oldM = s.newM
	s.oldS = s.newS
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.newS / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Count() int {
	return s.n
}

// Tally counts game outcomes from one player's point of view. A draw is
// worth half a win.
type Tally struct {
	Wins   int
	Draws  int
	Losses int
}

func (t *Tally) Games() int {
	return t.Wins + t.Draws + t.Losses
}

// Points is wins plus half the draws.
func (t *Tally) Points() float64 {
	return float64(t.Wins) + float64(t.Draws)/2
}

// Score is the points per game, in [0, 1].
func (t *Tally) Score() float64 {
	g := t.Games()
	if g == 0 {
		return 0.0
	}
	return t.Points() / float64(g)
}

// Interval returns the confidence interval for Score, clamped to [0, 1].
// confidence is a percentage such as 95.
func (t *Tally) Interval(confidence float64) (float64, float64) {
	return WinRateInterval(t.Points(), t.Games(), confidence)
}

// WinRateInterval is the normal-approximation interval for a score of
// points out of games. With no games it is [0, 1].
func WinRateInterval(points float64, games int, confidence float64) (float64, float64) {
	if games == 0 {
		return 0, 1
	}
	p := points / float64(games)
	margin := ZVal(confidence) * math.Sqrt(p*(1-p)/float64(games))
	return math.Max(0, p-margin), math.Min(1, p+margin)
}
