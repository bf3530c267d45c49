package filter

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Butterworth designs a digital low-pass Butterworth filter of the given order
// and returns the transfer function coefficients (b, a), with a[0] == 1.
// The analog prototype is mapped with a pre-warped bilinear transform, so the
// -3dB point of the digital filter lies exactly at cutoff.
func Butterworth(order int, cutoff float64, sampleRate float64) (b []float64, a []float64, err error) {
	if order < 1 {
		return nil, nil, fmt.Errorf("filter order must be >= 1, got %d", order)
	}
	nyquist := sampleRate / 2
	if cutoff <= 0 || cutoff >= nyquist {
		return nil, nil, fmt.Errorf("cutoff frequency %g must be in (0, %g)", cutoff, nyquist)
	}

	const fs = 2.0
	normalized := cutoff / nyquist
	warped := 2 * fs * math.Tan(math.Pi*normalized/fs)

	// analog prototype poles on the left half of the unit circle, scaled to the warped cutoff
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		m := float64(-order + 1 + 2*k)
		poles[k] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*order))) * complex(warped, 0)
	}
	gain := math.Pow(warped, float64(order))

	// bilinear transform, all zeros end up at z = -1
	digitalPoles := make([]complex128, order)
	zeros := make([]complex128, order)
	denominator := complex(1, 0)
	for i, p := range poles {
		digitalPoles[i] = (2*fs + p) / (2*fs - p)
		zeros[i] = -1
		denominator *= 2*fs - p
	}
	gain *= real(1 / denominator)

	bc := poly(zeros)
	ac := poly(digitalPoles)
	b = make([]float64, len(bc))
	a = make([]float64, len(ac))
	for i := range bc {
		b[i] = gain * real(bc[i])
		a[i] = real(ac[i])
	}
	return b, a, nil
}

// poly returns the coefficients of the monic polynomial with the given roots, highest power first
func poly(roots []complex128) []complex128 {
	coefficients := []complex128{1}
	for _, root := range roots {
		next := make([]complex128, len(coefficients)+1)
		for i, c := range coefficients {
			next[i] += c
			next[i+1] -= c * root
		}
		coefficients = next
	}
	return coefficients
}
