package mfcc

import "math"

// dctMatrix builds an orthonormal DCT-II matrix mapping numMels log mel
// energies to numCoeffs cepstral coefficients. Row c, column m holds the
// weight of mel channel m in coefficient c.
func dctMatrix(numCoeffs, numMels int) [][]float64 {
	d := make([][]float64, numCoeffs)
	scale0 := math.Sqrt(1.0 / float64(numMels))
	scale := math.Sqrt(2.0 / float64(numMels))
	for c := 0; c < numCoeffs; c++ {
		row := make([]float64, numMels)
		s := scale
		if c == 0 {
			s = scale0
		}
		for m := 0; m < numMels; m++ {
			row[m] = s * math.Cos(math.Pi*float64(c)*(float64(m)+0.5)/float64(numMels))
		}
		d[c] = row
	}
	return d
}
