// Package wavelet implements a periodized Daubechies-4 wavelet transform
// and the multiresolution analysis built on top of it.
package wavelet

import (
	"fmt"
	"math"
)

// db4Lo is the Daubechies-4 scaling (low-pass) filter. The high-pass filter
// is its quadrature mirror.
var db4Lo = []float64{
	0.23037781330885523,
	0.7148465705525415,
	0.6308807679295904,
	-0.02798376941698385,
	-0.18703481171888114,
	0.030841381835986965,
	0.032883011666982945,
	-0.010597401784997278,
}

var db4Hi = quadratureMirror(db4Lo)

func quadratureMirror(lo []float64) []float64 {
	hi := make([]float64, len(lo))
	for k := range lo {
		hi[k] = lo[len(lo)-1-k]
		if k%2 == 1 {
			hi[k] = -hi[k]
		}
	}
	return hi
}

// Decomposition holds the coefficients of a multi-level transform. Details
// are ordered finest first. The per-level input lengths are kept so the
// inverse can trim the padding added for odd lengths.
type Decomposition struct {
	Approx  []float64
	Details [][]float64

	lengths []int
}

// Levels returns the number of detail bands.
func (d *Decomposition) Levels() int { return len(d.Details) }

// MaxLevel returns how many transform levels a signal of length n supports,
// capped at 8.
func MaxLevel(n int) int {
	if n < len(db4Lo) {
		return 0
	}
	level := int(math.Floor(math.Log2(float64(n) / float64(len(db4Lo)-1))))
	if level > 8 {
		level = 8
	}
	if level < 0 {
		level = 0
	}
	return level
}

// Decompose runs a periodized transform for the given number of levels.
func Decompose(signal []float64, levels int) (*Decomposition, error) {
	if levels < 1 {
		return nil, fmt.Errorf("levels must be positive, got %d", levels)
	}
	if max := MaxLevel(len(signal)); levels > max {
		return nil, fmt.Errorf("signal of length %d supports at most %d levels, got %d",
			len(signal), max, levels)
	}

	dec := &Decomposition{}
	current := append([]float64(nil), signal...)
	for level := 0; level < levels; level++ {
		dec.lengths = append(dec.lengths, len(current))
		approx, detail := analyzeStep(current)
		dec.Details = append(dec.Details, detail)
		current = approx
	}
	dec.Approx = current
	return dec, nil
}

// Reconstruct inverts a decomposition back to the original signal length.
func Reconstruct(dec *Decomposition) []float64 {
	current := append([]float64(nil), dec.Approx...)
	for level := len(dec.Details) - 1; level >= 0; level-- {
		current = synthesizeStep(current, dec.Details[level], dec.lengths[level])
	}
	return current
}

// analyzeStep performs one level of the periodized transform. Odd-length
// inputs are padded by repeating the last sample.
func analyzeStep(x []float64) (approx, detail []float64) {
	if len(x)%2 == 1 {
		x = append(append([]float64(nil), x...), x[len(x)-1])
	}
	n := len(x)
	half := n / 2
	approx = make([]float64, half)
	detail = make([]float64, half)
	for i := 0; i < half; i++ {
		var a, d float64
		for k, lo := range db4Lo {
			v := x[(2*i+k)%n]
			a += lo * v
			d += db4Hi[k] * v
		}
		approx[i] = a
		detail[i] = d
	}
	return approx, detail
}

// synthesizeStep is the transpose of analyzeStep. outLen trims the result
// when the analysis padded an odd input.
func synthesizeStep(approx, detail []float64, outLen int) []float64 {
	n := 2 * len(approx)
	y := make([]float64, n)
	for i := range approx {
		for k := range db4Lo {
			y[(2*i+k)%n] += db4Lo[k]*approx[i] + db4Hi[k]*detail[i]
		}
	}
	return y[:outLen]
}
