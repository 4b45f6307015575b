package hydro

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/integrators"
)

func preparedBody(t *testing.T, w IncidentWave, rad *FrequencyTable, exc *ExcitationTable) *Hydrodynamics {
	t.Helper()
	h := New(w)
	heaveBody(h)
	require.NoError(t, h.LoadFrequencyDomain(rad, exc))
	require.NoError(t, h.SetTimestepSize(0.01))
	require.NoError(t, h.Prepare())
	return h
}

func TestFailFast(t *testing.T) {
	h := New(nil)
	x := make(dynamo.State, 12)

	_, err := h.Accelerations(x, nil, 0)
	assert.ErrorIs(t, err, ErrNoCoefficients)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, h.Prepare(), ErrNoCoefficients)

	require.NoError(t, h.LoadFrequencyDomain(flatTable(diag(1), diag(0.1), 1), nil))
	_, err = h.Accelerations(x, nil, 0)
	assert.ErrorIs(t, err, ErrBadTimestep)

	assert.ErrorIs(t, h.SetTimestepSize(0), ErrBadTimestep)
	require.NoError(t, h.SetTimestepSize(0.01))
	_, err = h.Accelerations(x, nil, 0)
	assert.ErrorIs(t, err, ErrNotPrepared)
	assert.Panics(t, func() { h.Derive(x, nil, 0) })

	assert.ErrorIs(t, h.Prepare(), ErrNotConfigured, "mass not set")
	heaveBody(h)
	require.NoError(t, h.Prepare())
	require.NoError(t, h.Ready())

	_, err = h.Accelerations(x[:6], nil, 0)
	assert.ErrorIs(t, err, ErrStateDim)
}

func TestPrepareRequiresExcitationForWave(t *testing.T) {
	h := New(cosineWave{amp: 1, omega: 1})
	heaveBody(h)
	require.NoError(t, h.LoadFrequencyDomain(flatTable(diag(1), diag(0.1), 1), nil))
	require.NoError(t, h.SetTimestepSize(0.01))
	assert.ErrorIs(t, h.Prepare(), ErrNoExcitation)
}

func TestPrepareSingularMass(t *testing.T) {
	h := New(nil)
	h.SetMass(10)
	require.NoError(t, h.LoadFrequencyDomain(flatTable(Mat6{}, Mat6{}, 1), nil))
	require.NoError(t, h.SetTimestepSize(0.01))
	assert.ErrorIs(t, h.Prepare(), ErrSingularMass, "rotational inertia is zero")
}

func TestTimestepChangeMarksKernelsStale(t *testing.T) {
	h := preparedBody(t, nil, singlePoleTable(10, 0.5, 5, 20, 0.01, Heave), nil)
	x := make(dynamo.State, 12)
	_, err := h.Accelerations(x, nil, 0)
	require.NoError(t, err)

	require.NoError(t, h.SetTimestepSize(0.01))
	assert.NoError(t, h.Ready(), "same timestep keeps kernels")

	require.NoError(t, h.SetTimestepSize(0.02))
	_, err = h.Accelerations(x, nil, 0.02)
	assert.ErrorIs(t, err, ErrKernelsStale)
	assert.Panics(t, func() { h.Derive(x, nil, 0.02) })

	require.NoError(t, h.Prepare())
	assert.Equal(t, 0.02, h.Discretized().Dt)
	assert.Equal(t, 0, h.History().Steps())
	_, err = h.Accelerations(x, nil, 0.02)
	assert.NoError(t, err)
}

func TestHeadingChangeResynthesizes(t *testing.T) {
	exc := gaussianExcitation(0, Heave)
	h := preparedBody(t, cosineWave{amp: 1, omega: 1}, flatTable(diag(1), diag(0.1), 0, 1), exc)

	h.SetHeading(0)
	assert.NoError(t, h.Ready())

	h.SetHeading(0.5)
	assert.ErrorIs(t, h.Ready(), ErrKernelsStale)
	require.NoError(t, h.Prepare())
	assert.NotNil(t, h.Kernels())
}

func TestHeadingBeforeLoad(t *testing.T) {
	exc := &ExcitationTable{
		Omega: []float64{0.5, 1},
		Beta:  []float64{0, 1},
	}
	for range exc.Omega {
		var b0, b1 [NumDOF]complex128
		b0[Heave], b1[Heave] = 1, 5
		exc.X = append(exc.X, [][NumDOF]complex128{b0, b1})
	}

	h := New(cosineWave{amp: 1, omega: 1})
	heaveBody(h)
	h.SetHeading(1)
	require.NoError(t, h.LoadFrequencyDomain(flatTable(diag(1), diag(0.1), 0.5, 1), exc))

	assert.Equal(t, 1.0, h.Heading())
	assert.Equal(t, 1.0, h.Store().Heading())
	x, err := h.Store().WaveExcitingForceComponents(0.75, Heave)
	require.NoError(t, err)
	assert.InDelta(t, 5, real(x), 1e-12)
}

func TestRepeatedRunsMatch(t *testing.T) {
	h := New(cosineWave{amp: 0.5, omega: 1})
	heaveBody(h)
	require.NoError(t, h.LoadFrequencyDomain(singlePoleTable(10, 0.5, 5, 20, 0.01, Heave), gaussianExcitation(1, Heave)))
	cfg := DefaultKernelConfig()
	cfg.ExcTauMax = 6
	h.SetKernelConfig(cfg)
	require.NoError(t, h.SetTimestepSize(0.02))
	require.NoError(t, h.Prepare())

	x0 := make(dynamo.State, 12)
	x0[Heave] = 0.1
	run := dynamo.Config{Dt: 0.02, Duration: 5, ValidateState: true}
	sim := dynamo.New(h, integrators.NewRK4(), nil)

	first, err := sim.Run(context.Background(), x0, run)
	require.NoError(t, err)
	second, err := sim.Run(context.Background(), x0, run)
	require.NoError(t, err)

	require.Len(t, second.States, len(first.States))
	for i := range first.States {
		assert.InDeltaSlice(t, first.States[i], second.States[i], 1e-12, "step %d", i)
	}
	assert.Equal(t, 250, h.History().Steps())
}

func TestForceContributions(t *testing.T) {
	h := preparedBody(t, nil, flatTable(diag(1), Mat6{}, 1), nil)
	h.SetDampingCoeffs(Vec6{10, 10, 20, 0, 0, 0})
	h.SetDragCoeffs(Vec6{Heave: 0.8})
	h.SetAreas(Vec6{Heave: 2})

	v := []float64{1, -1, -0.5, 0, 0, 0}
	drag := h.ViscousDragForce(v)
	assert.InDelta(t, 0.5*h.rho*0.8*2*0.25, drag[Heave], 1e-9)
	assert.Equal(t, 0.0, drag[Surge])

	damp := h.LinearDampingForce(v)
	assert.Equal(t, Vec6{-10, 10, 10, 0, 0, 0}, damp)

	x := make([]float64, 12)
	x[Heave] = 0.1
	copy(x[6:], v)
	fb, err := h.Forces(x, []float64{0, 0, 5}, 0)
	require.NoError(t, err)
	assert.Equal(t, drag, fb.Drag)
	assert.Equal(t, damp, fb.Damping)
	assert.Equal(t, 5.0, fb.External[Heave])
	assert.Equal(t, Vec6{}, fb.Excitation)

	total := fb.Total()
	restoring := fb.Gravity[Heave] + fb.Buoyancy[Heave]
	assert.InDelta(t, -100, restoring, 1e-6, "c33 * z")
	assert.InDelta(t, restoring+drag[Heave]+damp[Heave]+5, total[Heave], 1e-9)
}

func TestAccelerationsUseInfiniteFrequencyMass(t *testing.T) {
	h := preparedBody(t, nil, flatTable(diag(100), Mat6{}, 1), nil)
	x := make(dynamo.State, 12)
	x[Heave] = 0.1

	a, err := h.Accelerations(x, nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, -100/600.0, a[Heave], 1e-9)

	dx := h.Derive(x, dynamo.Control{Surge: 60}, 0)
	require.Len(t, dx, 12)
	assert.InDelta(t, 0.1, dx[NumDOF+Surge], 1e-9)
	assert.Equal(t, 12, h.StateDim())
	assert.Equal(t, 6, h.ControlDim())
}

func TestStepCommit(t *testing.T) {
	h := preparedBody(t, nil, singlePoleTable(10, 0.5, 5, 20, 0.01, Heave), nil)
	x := make(dynamo.State, 12)
	x[Heave] = 0.1

	_, err := h.Accelerations(x, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, h.History().Steps())

	_, _ = h.Accelerations(x, nil, 0.005)
	_, _ = h.Accelerations(x, nil, 0.005)
	assert.Equal(t, 0, h.History().Steps(), "stage evaluations are not committed")

	_, _ = h.Accelerations(x, nil, 0.01)
	assert.Equal(t, 1, h.History().Steps())
	_, _ = h.Accelerations(x, nil, 0.01)
	assert.Equal(t, 1, h.History().Steps(), "re-evaluating a step overwrites it")

	_, _ = h.Accelerations(x, nil, 0.04)
	assert.Equal(t, 4, h.History().Steps(), "skipped steps repeat the pending sample")

	_, _ = h.Accelerations(x, nil, 0.02)
	assert.Equal(t, 0, h.History().Steps(), "an earlier step starts a new run")
	_, _ = h.Accelerations(x, nil, 0.03)
	assert.Equal(t, 1, h.History().Steps())

	h.Reset()
	assert.Equal(t, 0, h.History().Steps())
}

func TestStepCommitWithIntegrator(t *testing.T) {
	h := preparedBody(t, nil, singlePoleTable(10, 0.5, 5, 20, 0.01, Heave), nil)
	x := make(dynamo.State, 12)
	x[Heave] = 0.1

	// Stages at t, t+dt/2, t+dt/2, t+dt: the last stage of each step
	// commits the first-stage sample of that step.
	const steps = 25
	for n := 0; n < steps; n++ {
		tn := float64(n) * 0.01
		for _, s := range []float64{0, 0.005, 0.005, 0.01} {
			_, err := h.Accelerations(x, nil, tn+s)
			require.NoError(t, err)
		}
	}
	assert.Equal(t, steps, h.History().Steps())
}

func TestExcitingForceRegularWave(t *testing.T) {
	const tau0 = 1.0
	h := New(cosineWave{amp: 1, omega: 1})
	heaveBody(h)
	require.NoError(t, h.LoadFrequencyDomain(flatTable(Mat6{}, Mat6{}, 0, 1), gaussianExcitation(tau0, Heave)))
	cfg := DefaultKernelConfig()
	cfg.ExcTauMax = 6
	h.SetKernelConfig(cfg)
	require.NoError(t, h.SetTimestepSize(0.01))
	require.NoError(t, h.Prepare())

	// F(t) = Re(X(1)·exp(it)) for η = cos t.
	amp := math.Sqrt(2*math.Pi) * math.Exp(-0.5)
	for _, tt := range []float64{12, 12.5, 13.3} {
		f := h.ExcitingForce(tt)
		assert.InDelta(t, amp*math.Cos(tt-tau0), f[Heave], 0.01, "t=%g", tt)
		assert.Equal(t, 0.0, f[Surge])
	}
}

func TestForcesLeaveWaveHistory(t *testing.T) {
	h := New(cosineWave{amp: 1, omega: 1})
	heaveBody(h)
	require.NoError(t, h.LoadFrequencyDomain(flatTable(Mat6{}, Mat6{}, 0, 1), gaussianExcitation(1, Heave)))
	cfg := DefaultKernelConfig()
	cfg.ExcTauMax = 6
	h.SetKernelConfig(cfg)
	require.NoError(t, h.SetTimestepSize(0.01))
	require.NoError(t, h.Prepare())

	x := make(dynamo.State, 12)
	far, err := h.Forces(x, nil, 1000)
	require.NoError(t, err)
	assert.Equal(t, -1, h.lastWave)

	fb, err := h.Forces(x, nil, 12.5)
	require.NoError(t, err)
	assert.InDelta(t, h.ExcitingForce(12.5)[Heave], fb.Excitation[Heave], 1e-12)

	amp := math.Sqrt(2*math.Pi) * math.Exp(-0.5)
	assert.InDelta(t, amp*math.Cos(1000-1), far.Excitation[Heave], 0.01)
}

func TestEnergy(t *testing.T) {
	h := preparedBody(t, nil, flatTable(diag(100), Mat6{}, 1), nil)
	x := make(dynamo.State, 12)
	x[Heave] = 0.1
	x[NumDOF+Heave] = 2
	assert.InDelta(t, 0.5*1000*0.01+0.5*600*4, h.Energy(x), 1e-6)
	assert.Equal(t, 0.0, h.Energy(x[:3]))
}

func TestString(t *testing.T) {
	h := preparedBody(t, nil, singlePoleTable(10, 0.5, 5, 20, 0.01, Heave), nil)
	s := h.String()
	assert.Contains(t, s, "hydrostatic stiffness c:")
	assert.Contains(t, s, "n_rad_intpts:")
	assert.Contains(t, s, "status: ready")

	require.NoError(t, h.SetTimestepSize(0.05))
	assert.Contains(t, h.String(), "stale")
}
