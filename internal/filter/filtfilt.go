package filter

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LFilter applies the IIR filter (b, a) to x using the direct form II transposed
// structure, starting from the delay line state zi (may be nil for a zero state).
// a[0] must be 1.
func LFilter(b []float64, a []float64, x []float64, zi []float64) []float64 {
	n := max(len(a), len(b))
	b = padCoefficients(b, n)
	a = padCoefficients(a, n)

	z := make([]float64, n-1)
	copy(z, zi)

	y := make([]float64, len(x))
	for i, xi := range x {
		yi := b[0]*xi + valueOrZero(z, 0)
		for k := 1; k < n-1; k++ {
			z[k-1] = b[k]*xi + z[k] - a[k]*yi
		}
		if n > 1 {
			z[n-2] = b[n-1]*xi - a[n-1]*yi
		}
		y[i] = yi
	}
	return y
}

// LFilterZi computes the delay line state of LFilter that corresponds to the
// steady state of a unit step input.
func LFilterZi(b []float64, a []float64) ([]float64, error) {
	n := max(len(a), len(b))
	if n < 2 {
		return []float64{}, nil
	}
	b = padCoefficients(b, n)
	a = padCoefficients(a, n)

	// (I - companion(a)^T) * zi = b[1:] - a[1:] * b[0]
	size := n - 1
	iMinusA := mat.NewDense(size, size, nil)
	rhs := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		iMinusA.Set(i, i, 1)
		iMinusA.Set(i, 0, iMinusA.At(i, 0)+a[i+1])
		if i+1 < size {
			iMinusA.Set(i, i+1, -1)
		}
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(iMinusA, rhs); err != nil {
		return nil, fmt.Errorf("unable to compute filter initial conditions: %w", err)
	}
	result := make([]float64, size)
	for i := range result {
		result[i] = zi.AtVec(i)
	}
	return result, nil
}

// FiltFilt applies the filter (b, a) forward and backward over x, which results in
// zero phase distortion. The signal is extended at both ends by an odd reflection of
// up to 3 * len(a) samples and both passes start in steady state to suppress
// transients at the edges.
func FiltFilt(b []float64, a []float64, x []float64) ([]float64, error) {
	if len(x) < 2 {
		return append([]float64{}, x...), nil
	}
	padLen := min(3*max(len(a), len(b)), len(x)-1)

	zi, err := LFilterZi(b, a)
	if err != nil {
		return nil, err
	}

	ext := oddExtend(x, padLen)

	y := LFilter(b, a, ext, scale(zi, ext[0]))
	reverse(y)
	y = LFilter(b, a, y, scale(zi, y[0]))
	reverse(y)

	return y[padLen : len(y)-padLen], nil
}

func oddExtend(x []float64, padLen int) []float64 {
	n := len(x)
	ext := make([]float64, 0, n+2*padLen)
	for i := padLen; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-1-padLen; i-- {
		ext = append(ext, 2*x[n-1]-x[i])
	}
	return ext
}

func padCoefficients(c []float64, n int) []float64 {
	if len(c) >= n {
		return c
	}
	padded := make([]float64, n)
	copy(padded, c)
	return padded
}

func scale(values []float64, factor float64) []float64 {
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = v * factor
	}
	return result
}

func reverse(values []float64) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}

func valueOrZero(values []float64, index int) float64 {
	if index < len(values) {
		return values[index]
	}
	return 0
}
