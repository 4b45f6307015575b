package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FFT returns the non-negative frequency half of the discrete Fourier
// transform of data, len(data)/2+1 coefficients.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return nil
	}
	return fourier.NewFFT(len(data)).Coefficients(nil, data)
}

// PowerSpectrum returns |X_k| for the non-negative frequencies of data.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft))

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// Spectrum is the one-sided amplitude spectrum of a uniformly sampled
// signal with its mean removed.
type Spectrum struct {
	Omega     []float64
	Amplitude []float64
}

// NewSpectrum analyses samples taken every dt seconds. Amplitudes are scaled
// so a pure cosine of amplitude a shows a peak of a.
func NewSpectrum(samples []float64, dt float64) *Spectrum {
	n := len(samples)
	if n < 2 || dt <= 0 {
		return &Spectrum{}
	}
	centred := make([]float64, n)
	copy(centred, samples)
	floats.AddConst(-stat.Mean(samples, nil), centred)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centred)
	sp := &Spectrum{
		Omega:     make([]float64, len(coeffs)),
		Amplitude: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		sp.Omega[i] = 2 * math.Pi * fft.Freq(i) / dt
		scale := 2.0
		if i == 0 || (n%2 == 0 && i == n/2) {
			scale = 1
		}
		sp.Amplitude[i] = scale * cmplx.Abs(c) / float64(n)
	}
	return sp
}

// Dominant returns the angular frequency of the largest amplitude, or 0 for
// an empty spectrum.
func (s *Spectrum) Dominant() float64 {
	if len(s.Amplitude) == 0 {
		return 0
	}
	return s.Omega[floats.MaxIdx(s.Amplitude)]
}

// Period returns 2π/Dominant, or 0 when there is no dominant frequency.
func (s *Spectrum) Period() float64 {
	w := s.Dominant()
	if w == 0 {
		return 0
	}
	return 2 * math.Pi / w
}

// SignificantHeight is 4σ of the samples, the spectral estimate of the
// significant wave or response height.
func SignificantHeight(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	return 4 * stat.PopStdDev(samples, nil)
}
