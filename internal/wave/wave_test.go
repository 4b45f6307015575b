package wave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/buoydyn/internal/hydro"
)

var _ hydro.IncidentWave = Still{}
var _ hydro.IncidentWave = (*Regular)(nil)
var _ hydro.IncidentWave = (*Irregular)(nil)

func TestStill(t *testing.T) {
	assert.Equal(t, 0.0, Still{}.Eta(3, 1, 2))
}

func TestRegular(t *testing.T) {
	w := NewRegular(0.5, 8, 0)
	assert.InDelta(t, 2*math.Pi/8, w.Omega, 1e-12)
	assert.InDelta(t, w.Omega*w.Omega/9.81, w.Wavenumber(), 1e-12)

	assert.InDelta(t, 0.5, w.Eta(0, 0, 0), 1e-12)
	assert.InDelta(t, 0.5, w.Eta(8, 0, 0), 1e-12, "one period later")
	assert.InDelta(t, -0.5, w.Eta(4, 0, 0), 1e-12)

	wavelength := 2 * math.Pi / w.Wavenumber()
	assert.InDelta(t, 0.5, w.Eta(0, wavelength, 0), 1e-9)
	assert.InDelta(t, 0.5, w.Eta(0, 0, wavelength), 1e-12, "crests parallel to y for heading 0")

	w.Heading = math.Pi / 2
	assert.InDelta(t, 0.5, w.Eta(0, 0, wavelength), 1e-9)
	assert.InDelta(t, -0.5, w.Eta(0, 0, wavelength/2), 1e-9)
}

func TestWavenumberDefaultsGravity(t *testing.T) {
	assert.InDelta(t, 4/hydro.DefaultGravity, Wavenumber(2, 0), 1e-12)
	assert.InDelta(t, 0.4, Wavenumber(2, 10), 1e-12)
}

func TestSpectrumVariance(t *testing.T) {
	tests := []struct {
		name string
		sea  SeaState
		tol  float64
	}{
		{"pm", SeaState{Spectrum: PiersonMoskowitz, Hs: 2, Tp: 8, Components: 400}, 0.02},
		{"jonswap", SeaState{Spectrum: JONSWAP, Hs: 2, Tp: 8, Gamma: 3.3, Components: 400}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			irr, err := tt.sea.Synthesize()
			require.NoError(t, err)
			require.Len(t, irr.Components, 400)
			want := tt.sea.Hs * tt.sea.Hs / 16
			assert.InEpsilon(t, want, irr.Variance(), tt.tol)
		})
	}
}

func TestSpectrumPeak(t *testing.T) {
	sea := SeaState{Hs: 1, Tp: 10}
	wp := 2 * math.Pi / 10
	peak := sea.Density(wp)
	for _, f := range []float64{0.8, 0.9, 1.1, 1.3} {
		assert.Less(t, sea.Density(f*wp), peak)
	}
	assert.Equal(t, 0.0, sea.Density(0))

	sea.Spectrum = JONSWAP
	assert.Greater(t, sea.Density(wp), peak, "peak enhancement")
}

func TestIrregularSeeded(t *testing.T) {
	sea := SeaState{Hs: 1.5, Tp: 7, Seed: 42, Components: 50}
	a, err := sea.Synthesize()
	require.NoError(t, err)
	b, err := sea.Synthesize()
	require.NoError(t, err)
	for _, tt := range []float64{0, 1.3, 17} {
		assert.Equal(t, a.Eta(tt, 0, 0), b.Eta(tt, 0, 0))
	}

	sea.Seed = 7
	c, err := sea.Synthesize()
	require.NoError(t, err)
	assert.NotEqual(t, a.Eta(1.3, 0, 0), c.Eta(1.3, 0, 0))

	_, err = SeaState{Hs: 1}.Synthesize()
	assert.Error(t, err)
}

func TestParseSpectrum(t *testing.T) {
	for name, want := range map[string]Spectrum{"": PiersonMoskowitz, "pm": PiersonMoskowitz, "jonswap": JONSWAP} {
		got, err := ParseSpectrum(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSpectrum("ochi")
	assert.Error(t, err)
	assert.Equal(t, "jonswap", JONSWAP.String())
}

func TestSetGravity(t *testing.T) {
	w := NewRegular(1, 2, 0)
	w.SetGravity(10)
	assert.InDelta(t, w.Omega*w.Omega/10, w.Wavenumber(), 1e-12)

	irr, err := SeaState{Hs: 1, Tp: 5, Components: 3}.Synthesize()
	require.NoError(t, err)
	irr.SetGravity(3)
	for _, c := range irr.Components {
		assert.Equal(t, 3.0, c.Gravity)
	}
}
