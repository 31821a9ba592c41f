package wavelet

import (
	"fmt"
)

// Result is a multiresolution analysis: the signal split into one smooth
// component plus one detail component per level. The components sum back to
// the input.
type Result struct {
	Levels int

	// Smooth is the final-level approximation projected back to signal
	// length.
	Smooth []float64

	// Bands holds the detail components, finest first. Each has the same
	// length as the input signal.
	Bands [][]float64
}

// MRA decomposes a signal and reconstructs each band in isolation. The
// level count is the lesser of maxLevel and what the signal length
// supports.
func MRA(signal []float64, maxLevel int) (*Result, error) {
	levels := MaxLevel(len(signal))
	if maxLevel > 0 && maxLevel < levels {
		levels = maxLevel
	}
	if levels < 1 {
		return nil, fmt.Errorf("signal too short for analysis: %d samples", len(signal))
	}

	dec, err := Decompose(signal, levels)
	if err != nil {
		return nil, err
	}

	res := &Result{Levels: levels}

	smooth := &Decomposition{
		Approx:  dec.Approx,
		Details: zeroedDetails(dec),
		lengths: dec.lengths,
	}
	res.Smooth = Reconstruct(smooth)

	for level := range dec.Details {
		isolated := &Decomposition{
			Approx:  make([]float64, len(dec.Approx)),
			Details: zeroedDetails(dec),
			lengths: dec.lengths,
		}
		isolated.Details[level] = dec.Details[level]
		res.Bands = append(res.Bands, Reconstruct(isolated))
	}
	return res, nil
}

func zeroedDetails(dec *Decomposition) [][]float64 {
	out := make([][]float64, len(dec.Details))
	for i, d := range dec.Details {
		out[i] = make([]float64, len(d))
	}
	return out
}
