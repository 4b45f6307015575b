// Package wave models the undisturbed incident free surface seen by a
// floating body. All models use linear (Airy) deep-water theory.
package wave

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/buoydyn/internal/hydro"
)

// Still is calm water.
type Still struct{}

func (Still) Eta(_, _, _ float64) float64 { return 0 }

// Regular is a monochromatic wave travelling in direction Heading (radians,
// measured from +x towards +y).
type Regular struct {
	Amplitude float64
	Omega     float64
	Heading   float64
	Phase     float64
	Gravity   float64
}

func NewRegular(amplitude, period, heading float64) *Regular {
	return &Regular{
		Amplitude: amplitude,
		Omega:     2 * math.Pi / period,
		Heading:   heading,
		Gravity:   hydro.DefaultGravity,
	}
}

// SetGravity changes the gravity used by the dispersion relation.
func (w *Regular) SetGravity(g float64) { w.Gravity = g }

// Wavenumber is ω²/g.
func (w *Regular) Wavenumber() float64 { return Wavenumber(w.Omega, w.Gravity) }

func (w *Regular) Eta(t, x, y float64) float64 {
	k := w.Wavenumber()
	return w.Amplitude * math.Cos(w.Omega*t-k*(x*math.Cos(w.Heading)+y*math.Sin(w.Heading))+w.Phase)
}

// Wavenumber returns the deep-water wavenumber for angular frequency omega.
func Wavenumber(omega, g float64) float64 {
	if g <= 0 {
		g = hydro.DefaultGravity
	}
	return omega * omega / g
}

// Irregular is a sum of regular components with random phases.
type Irregular struct {
	Components []Regular
}

func (w *Irregular) Eta(t, x, y float64) float64 {
	eta := 0.0
	for i := range w.Components {
		eta += w.Components[i].Eta(t, x, y)
	}
	return eta
}

func (w *Irregular) SetGravity(g float64) {
	for i := range w.Components {
		w.Components[i].Gravity = g
	}
}

// Variance is the zeroth spectral moment, Σ a²/2.
func (w *Irregular) Variance() float64 {
	m0 := 0.0
	for _, c := range w.Components {
		m0 += 0.5 * c.Amplitude * c.Amplitude
	}
	return m0
}

// SeaState describes an irregular sea.
type SeaState struct {
	Spectrum Spectrum
	Hs       float64
	Tp       float64
	Heading  float64
	// Gamma is the JONSWAP peak enhancement; ignored by other spectra.
	Gamma      float64
	Components int
	OmegaMin   float64
	OmegaMax   float64
	Seed       int64
}

// Synthesize discretizes the sea state into components at equally spaced
// frequencies with amplitudes √(2·S(ω)·Δω) and uniformly random phases.
// Equal seeds give equal surfaces.
func (s SeaState) Synthesize() (*Irregular, error) {
	if s.Hs < 0 || s.Tp <= 0 {
		return nil, fmt.Errorf("wave: need Hs >= 0 and Tp > 0, got Hs=%g Tp=%g", s.Hs, s.Tp)
	}
	n := s.Components
	if n <= 0 {
		n = 200
	}
	wp := 2 * math.Pi / s.Tp
	lo, hi := s.OmegaMin, s.OmegaMax
	if lo <= 0 {
		lo = 0.3 * wp
	}
	if hi <= lo {
		hi = 4 * wp
	}
	dw := (hi - lo) / float64(n)
	rnd := rand.New(rand.NewSource(s.Seed))

	irr := &Irregular{Components: make([]Regular, n)}
	for i := range irr.Components {
		w := lo + (float64(i)+0.5)*dw
		irr.Components[i] = Regular{
			Amplitude: math.Sqrt(2 * s.Density(w) * dw),
			Omega:     w,
			Heading:   s.Heading,
			Phase:     2 * math.Pi * rnd.Float64(),
			Gravity:   hydro.DefaultGravity,
		}
	}
	return irr, nil
}

// Density is the one-sided spectral density S(ω) in m²·s.
func (s SeaState) Density(omega float64) float64 {
	if omega <= 0 || s.Tp <= 0 {
		return 0
	}
	wp := 2 * math.Pi / s.Tp
	switch s.Spectrum {
	case JONSWAP:
		g := s.Gamma
		if g <= 0 {
			g = 3.3
		}
		sigma := 0.07
		if omega > wp {
			sigma = 0.09
		}
		r := math.Exp(-(omega - wp) * (omega - wp) / (2 * sigma * sigma * wp * wp))
		return (1 - 0.287*math.Log(g)) * bretschneider(omega, wp, s.Hs) * math.Pow(g, r)
	default:
		return bretschneider(omega, wp, s.Hs)
	}
}

// bretschneider is the two-parameter Pierson–Moskowitz spectrum.
func bretschneider(omega, wp, hs float64) float64 {
	r := wp / omega
	return 5.0 / 16.0 * hs * hs * math.Pow(r, 4) / omega * math.Exp(-1.25*math.Pow(r, 4))
}

type Spectrum int

const (
	PiersonMoskowitz Spectrum = iota
	JONSWAP
)

func (s Spectrum) String() string {
	switch s {
	case JONSWAP:
		return "jonswap"
	default:
		return "pm"
	}
}

func ParseSpectrum(name string) (Spectrum, error) {
	switch name {
	case "", "pm", "bretschneider", "pierson-moskowitz":
		return PiersonMoskowitz, nil
	case "jonswap":
		return JONSWAP, nil
	}
	return 0, fmt.Errorf("wave: unknown spectrum %q", name)
}
