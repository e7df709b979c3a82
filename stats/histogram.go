package stats

import (
	"io"

	"github.com/aybabtme/uniplot/histogram"
)

const histogramBins = 12

// FprintHistogram draws a text histogram of vals to w.
func FprintHistogram(w io.Writer, vals []float64, width int) error {
	if len(vals) == 0 {
		return nil
	}
	hist := histogram.Hist(histogramBins, vals)
	return histogram.Fprint(w, hist, histogram.Linear(width))
}
