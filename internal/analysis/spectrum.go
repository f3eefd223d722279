package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X_k|² / n for k in [0, n/2] of the mean-removed
// trace. Traces shorter than two samples or containing non-finite values
// yield nil.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
	}
	centred := append([]float64(nil), data...)
	floats.AddConst(-stat.Mean(data, nil), centred)

	coeffs := fft.FFTReal(centred)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(coeffs[k])
		ps[k] = a * a / float64(n)
	}
	return ps
}

// DominantPeriod is the period in samples of the largest non-zero bin of
// the power spectrum, with its share of the total power. It reports 0, 0
// for a flat or unusable trace.
func DominantPeriod(data []float64) (period float64, share float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, 0
	}
	total := floats.Sum(ps[1:])
	if total == 0 {
		return 0, 0
	}
	best := floats.MaxIdx(ps[1:]) + 1
	return float64(len(data)) / float64(best), ps[best] / total
}
