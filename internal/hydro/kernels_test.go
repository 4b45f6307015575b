package hydro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poleConfig() KernelConfig {
	cfg := DefaultKernelConfig()
	cfg.TauMax = 4
	return cfg
}

func TestSynthesizeSinglePole(t *testing.T) {
	const alpha, beta = 1.0, 0.5
	store, err := NewCoefficientStore(singlePoleTable(alpha, beta, 2, 200, 0.01, Heave), nil)
	require.NoError(t, err)

	k, err := Synthesize(store, poleConfig())
	require.NoError(t, err)
	require.Len(t, k.Tau, 81)
	assert.InDelta(t, 4.0, k.Duration(), 1e-12)

	for q, tau := range k.Tau {
		if tau < 0.5 || tau > 3 {
			continue
		}
		want := alpha * math.Exp(-beta*tau)
		assert.InDelta(t, want, k.IRCos[Heave][Heave][q], 0.02, "cosine kernel at tau=%g", tau)
		assert.InDelta(t, want, k.IRSin[Heave][Heave][q], 0.02, "sine kernel at tau=%g", tau)
	}

	for _, ir := range k.IRCos[Surge] {
		for _, v := range ir {
			assert.Equal(t, 0.0, v)
		}
	}
	assert.False(t, k.HasExcitation())
}

func TestSynthesizeKramersKronig(t *testing.T) {
	store, err := NewCoefficientStore(singlePoleTable(2, 1.2, 10, 200, 0.01, Surge, Pitch), nil)
	require.NoError(t, err)
	k, err := Synthesize(store, poleConfig())
	require.NoError(t, err)

	for _, d := range []int{Surge, Pitch} {
		for q, tau := range k.Tau {
			if tau < 1 || tau > 3 {
				continue
			}
			assert.InDelta(t, k.IRCos[d][d][q], k.IRSin[d][d][q], 0.02, "%s at tau=%g", DOFName(d), tau)
		}
	}
}

func TestSynthesizeSimpson(t *testing.T) {
	store, err := NewCoefficientStore(singlePoleTable(1, 0.5, 2, 200, 0.01, Heave), nil)
	require.NoError(t, err)
	cfg := poleConfig()
	cfg.Quadrature = Simpson
	k, err := Synthesize(store, cfg)
	require.NoError(t, err)

	q := 20
	assert.InDelta(t, math.Exp(-0.5*k.Tau[q]), k.IRCos[Heave][Heave][q], 0.02)
}

func TestSynthesizeIdempotent(t *testing.T) {
	exc := gaussianExcitation(1, Heave)
	store, err := NewCoefficientStore(singlePoleTable(1, 0.5, 2, 50, 0.05, Heave, Roll), exc)
	require.NoError(t, err)

	first, err := Synthesize(store, poleConfig())
	require.NoError(t, err)
	second, err := Synthesize(store, poleConfig())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSynthesizeDecayPolicy(t *testing.T) {
	store, err := NewCoefficientStore(singlePoleTable(1, 2, 2, 200, 0.01, Heave), nil)
	require.NoError(t, err)
	cfg := DefaultKernelConfig()
	cfg.DecayTol = 1e-2
	cfg.MinCycles = 0
	k, err := Synthesize(store, cfg)
	require.NoError(t, err)

	// exp(-2τ) falls below 1% of its peak near τ = 2.3.
	assert.Greater(t, k.Duration(), 2.0)
	assert.Less(t, k.Duration(), 3.5)

	cfg.TauMax = 1
	k, err = Synthesize(store, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, k.Duration(), 1e-12, "TauMax caps the duration")
}

func TestSynthesizeMinCycles(t *testing.T) {
	// A single-sample table integrates to zero kernels; the duration then
	// comes from the dominant-period floor alone.
	store, err := NewCoefficientStore(flatTable(diag(1), diag(0.1), 1.0), nil)
	require.NoError(t, err)
	cfg := DefaultKernelConfig()
	cfg.MinCycles = 2
	k, err := Synthesize(store, cfg)
	require.NoError(t, err)

	assert.InDelta(t, 4*math.Pi, k.Duration(), cfg.DTau)
	for _, v := range k.IRCos[Heave][Heave] {
		assert.Equal(t, 0.0, v)
	}
}

func TestSynthesizeExcitation(t *testing.T) {
	const tau0 = 1.0
	store, err := NewCoefficientStore(flatTable(Mat6{}, Mat6{}, 0, 1), gaussianExcitation(tau0, Heave))
	require.NoError(t, err)
	cfg := DefaultKernelConfig()
	cfg.ExcTauMax = 6
	k, err := Synthesize(store, cfg)
	require.NoError(t, err)
	require.True(t, k.HasExcitation())

	n := len(k.TauExc)
	assert.Equal(t, 1, n%2)
	assert.InDelta(t, -k.TauExc[0], k.TauExc[n-1], 1e-12, "excitation grid is symmetric")
	assert.Greater(t, k.TauExc[n-1], 4.0)

	for q, tau := range k.TauExc {
		want := math.Exp(-(tau - tau0) * (tau - tau0) / 2)
		assert.InDelta(t, want, k.IRExc[Heave][q], 1e-3, "tau=%g", tau)
		assert.InDelta(t, 0, k.IRExc[Surge][q], 1e-12)
	}
}

func TestSynthesizeNoCoefficients(t *testing.T) {
	_, err := Synthesize(nil, DefaultKernelConfig())
	assert.ErrorIs(t, err, ErrNoCoefficients)

	store, _ := NewCoefficientStore(flatTable(diag(1), diag(1), 1), nil)
	cfg := DefaultKernelConfig()
	cfg.DTau = 0
	_, err = Synthesize(store, cfg)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDiscretize(t *testing.T) {
	const alpha, beta = 1.0, 0.5
	store, err := NewCoefficientStore(singlePoleTable(alpha, beta, 2, 200, 0.01, Heave), nil)
	require.NoError(t, err)
	k, err := Synthesize(store, poleConfig())
	require.NoError(t, err)

	d, err := k.Discretize(0.1, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 41, d.NRad)
	assert.Equal(t, 0, d.NExc)

	l := d.LRad[Heave][Heave]
	assert.Equal(t, 0.0, l[0])
	for s := 5; s < d.NRad; s += 5 {
		tau := float64(s) * 0.1
		want := alpha / beta * (1 - math.Exp(-beta*tau))
		assert.InDelta(t, want, l[s], 0.02, "L at tau=%g", tau)
	}
	for s := range l {
		assert.Equal(t, l[s], d.radRev[Heave][Heave][d.NRad-1-s])
	}

	_, err = k.Discretize(0, 0.1)
	assert.ErrorIs(t, err, ErrBadTimestep)
}

func TestDiscretizeExcitation(t *testing.T) {
	k := &Kernels{
		Tau:    []float64{0, 1},
		TauExc: []float64{-1, 0, 1},
	}
	k.IRCos[Heave][Heave] = []float64{1, 1}
	k.IRExc[Heave] = []float64{0, 2, 4}
	require.NoError(t, k.Validate())

	d, err := k.Discretize(0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 5, d.NExc)
	assert.Equal(t, 1.0, d.TExc)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, d.LExc[Heave])
	assert.Equal(t, []float64{4, 3, 2, 1, 0}, d.excRev[Heave])
	assert.Equal(t, []float64{0, 0.5, 1}, d.LRad[Heave][Heave])
}

func TestKernelsValidate(t *testing.T) {
	k := &Kernels{Tau: []float64{0.1, 0.2}}
	assert.ErrorIs(t, k.Validate(), ErrData)

	k = &Kernels{Tau: []float64{0, 0.1, 0.2}}
	k.IRCos[Surge][Surge] = []float64{1, 2}
	assert.ErrorIs(t, k.Validate(), ErrData)
}

func TestParseQuadrature(t *testing.T) {
	q, err := ParseQuadrature("simpson")
	require.NoError(t, err)
	assert.Equal(t, Simpson, q)
	q, err = ParseQuadrature("")
	require.NoError(t, err)
	assert.Equal(t, Trapezoidal, q)
	_, err = ParseQuadrature("gauss")
	assert.Error(t, err)
}
