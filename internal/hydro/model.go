package hydro

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// IncidentWave gives the free-surface elevation of the undisturbed incident
// wave field at time t and horizontal position (x, y).
type IncidentWave interface {
	Eta(t, x, y float64) float64
}

const (
	DefaultGravity = 9.81
	DefaultDensity = 1025.0
)

// Hydrodynamics evaluates the equations of motion of a single floating body.
// It implements [dynamo.System] with the 12-component state
// [x, y, z, φ, θ, ψ, ẋ, ẏ, ż, φ̇, θ̇, ψ̇] and six generalized control forces.
type Hydrodynamics struct {
	wave   IncidentWave
	length float64
	grav   float64
	rho    float64

	geom    Geometry
	mass    float64
	inertia [3][3]float64
	c       Mat6

	damping Vec6
	drag    Vec6
	area    Vec6

	store     *CoefficientStore
	kcfg      KernelConfig
	kernels   *Kernels
	tdAInf    Mat6
	synthetic bool

	dt, dtExc float64
	heading   float64
	prepared  bool
	stale     bool

	massInv *mat.Dense
	disc    *Discretized
	hist    *History

	pendingIdx int
	pending    Vec6
	pendingVel Vec6
	lastWave   int
}

// New returns a model in sea water under standard gravity with unit length
// scale. A nil wave means calm water.
func New(w IncidentWave) *Hydrodynamics {
	return NewWithConstants(w, 1, DefaultGravity, DefaultDensity)
}

// NewWithConstants sets the length scale, gravity and water density used to
// dimensionalize coefficients and evaluate hydrostatics.
func NewWithConstants(w IncidentWave, length, grav, rho float64) *Hydrodynamics {
	return &Hydrodynamics{
		wave:       w,
		length:     length,
		grav:       grav,
		rho:        rho,
		kcfg:       DefaultKernelConfig(),
		pendingIdx: -1,
		lastWave:   -1,
	}
}

func (h *Hydrodynamics) Gravity() float64     { return h.grav }
func (h *Hydrodynamics) Density() float64     { return h.rho }
func (h *Hydrodynamics) LengthScale() float64 { return h.length }
func (h *Hydrodynamics) Geometry() Geometry   { return h.geom }
func (h *Hydrodynamics) Mass() float64        { return h.mass }
func (h *Hydrodynamics) Timestep() float64    { return h.dt }
func (h *Hydrodynamics) Restoring() Mat6      { return h.c }

// Store returns the frequency tables, or nil for time-domain input.
func (h *Hydrodynamics) Store() *CoefficientStore { return h.store }

// Wave returns the incident wave, nil for calm water.
func (h *Hydrodynamics) Wave() IncidentWave { return h.wave }

// Kernels returns the impulse responses in use, or nil before synthesis.
func (h *Hydrodynamics) Kernels() *Kernels { return h.kernels }

// Discretized returns the kernels sampled at the current timesteps, or nil
// before Prepare.
func (h *Hydrodynamics) Discretized() *Discretized { return h.disc }

// SetDampingCoeffs sets the linear damping b per DOF.
func (h *Hydrodynamics) SetDampingCoeffs(b Vec6) { h.damping = b }

// SetDragCoeffs sets the quadratic drag coefficients Cd per DOF.
func (h *Hydrodynamics) SetDragCoeffs(cd Vec6) { h.drag = cd }

// SetAreas sets the drag reference areas per DOF.
func (h *Hydrodynamics) SetAreas(a Vec6) { h.area = a }

func (h *Hydrodynamics) SetWaterplane(s, s11, s22 float64) {
	h.geom.S, h.geom.S11, h.geom.S22 = s, s11, s22
	h.updateRestoring()
}

func (h *Hydrodynamics) SetCOB(x, y, z float64) {
	h.geom.COB = [3]float64{x, y, z}
	h.updateRestoring()
}

func (h *Hydrodynamics) SetCOG(x, y, z float64) {
	h.geom.COG = [3]float64{x, y, z}
	h.updateRestoring()
}

func (h *Hydrodynamics) SetVolume(v float64) {
	h.geom.Volume = v
	h.updateRestoring()
}

// SetGeometry replaces all hydrostatic geometry at once.
func (h *Hydrodynamics) SetGeometry(g Geometry) {
	h.geom = g
	h.updateRestoring()
}

// SetMass changes the body mass. Prepare must run again before stepping.
func (h *Hydrodynamics) SetMass(m float64) {
	h.mass = m
	h.prepared = false
	h.updateRestoring()
}

// SetI sets the rotational inertia tensor about the reference point.
// Prepare must run again before stepping.
func (h *Hydrodynamics) SetI(inertia [3][3]float64) {
	h.inertia = inertia
	h.prepared = false
}

func (h *Hydrodynamics) updateRestoring() {
	h.c = RestoringMatrix(h.geom, h.mass, h.rho, h.grav)
}

// SetTimestepSize sets the radiation convolution step. Changing it after
// Prepare marks the discretized kernels stale.
func (h *Hydrodynamics) SetTimestepSize(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: got %g", ErrBadTimestep, dt)
	}
	if dt != h.dt && h.disc != nil {
		h.stale = true
	}
	h.dt = dt
	return nil
}

// SetExcitationTimestep sets the wave-history step dtau_exc. Zero means the
// radiation step.
func (h *Hydrodynamics) SetExcitationTimestep(dt float64) error {
	if dt < 0 {
		return fmt.Errorf("%w: excitation step %g", ErrBadTimestep, dt)
	}
	if dt != h.dtExc && h.disc != nil {
		h.stale = true
	}
	h.dtExc = dt
	return nil
}

func (h *Hydrodynamics) excitationStep() float64 {
	if h.dtExc > 0 {
		return h.dtExc
	}
	return h.dt
}

// SetHeading selects the incident wave heading. It may be called before the
// coefficients are loaded. Kernels synthesized from frequency tables depend
// on it and become stale.
func (h *Hydrodynamics) SetHeading(beta float64) {
	h.heading = beta
	if h.store == nil || beta == h.store.Heading() {
		return
	}
	h.store.SetHeading(beta)
	if h.synthetic {
		h.kernels = nil
		h.stale = h.disc != nil
	}
}

// SetKernelConfig changes the synthesis settings and drops synthesized
// kernels.
func (h *Hydrodynamics) SetKernelConfig(cfg KernelConfig) {
	h.kcfg = cfg
	if h.synthetic {
		h.kernels = nil
		h.stale = h.disc != nil
	}
}

func (h *Hydrodynamics) KernelConfig() KernelConfig { return h.kcfg }

// Heading is the configured incident wave heading in radians.
func (h *Hydrodynamics) Heading() float64 { return h.heading }

// LoadFrequencyDomain installs frequency tables. exc may be nil when no
// incident wave is modelled.
func (h *Hydrodynamics) LoadFrequencyDomain(rad *FrequencyTable, exc *ExcitationTable) error {
	store, err := NewCoefficientStore(rad, exc)
	if err != nil {
		return err
	}
	store.SetHeading(h.heading)
	h.store = store
	h.kernels = nil
	h.synthetic = true
	h.prepared = false

	log.WithFields(log.Fields{
		"frequencies": len(rad.Omega),
		"excitation":  exc != nil,
		"inf":         rad.HasInf,
	}).Info("loaded frequency-domain coefficients")
	return nil
}

// LoadTimeDomain installs impulse responses verbatim, skipping synthesis.
// aInf is the infinite-frequency added mass, which the kernels cannot
// supply. Frequency tables loaded earlier are kept for response queries.
func (h *Hydrodynamics) LoadTimeDomain(k *Kernels, aInf Mat6) error {
	if k == nil {
		return ErrNoCoefficients
	}
	if err := k.Validate(); err != nil {
		return err
	}
	h.kernels = k
	h.tdAInf = aInf
	h.synthetic = false
	h.prepared = false

	log.WithFields(log.Fields{
		"samples":    len(k.Tau),
		"duration":   k.Duration(),
		"excitation": k.HasExcitation(),
	}).Info("loaded time-domain kernels")
	return nil
}

// SynthesizeKernels builds impulse responses from the loaded tables.
func (h *Hydrodynamics) SynthesizeKernels() (*Kernels, error) {
	k, err := Synthesize(h.store, h.kcfg)
	if err != nil {
		return nil, err
	}
	h.kernels = k
	h.synthetic = true

	log.WithFields(log.Fields{
		"tau_max":    k.Duration(),
		"samples":    len(k.Tau),
		"excitation": len(k.TauExc),
		"quadrature": h.kcfg.Quadrature,
	}).Debug("synthesized kernels")
	return k, nil
}

// AddedMassInf is the infinite-frequency added mass used as extra inertia.
func (h *Hydrodynamics) AddedMassInf() Mat6 {
	if !h.synthetic || h.store == nil {
		return h.tdAInf
	}
	return h.store.rad.InfiniteFrequencyAddedMass()
}

// MassMatrix is the rigid-body mass matrix: mass on the translations and the
// inertia tensor on the rotations.
func (h *Hydrodynamics) MassMatrix() Mat6 {
	var m Mat6
	for i := 0; i < 3; i++ {
		m[i][i] = h.mass
		for j := 0; j < 3; j++ {
			m[3+i][3+j] = h.inertia[i][j]
		}
	}
	return m
}

// Prepare synthesizes kernels if needed, samples them at the current
// timesteps, inverts M + A∞ and clears the history. It must run after
// configuration and after every timestep change.
func (h *Hydrodynamics) Prepare() error {
	if h.kernels == nil && h.store == nil {
		return ErrNoCoefficients
	}
	if h.dt <= 0 {
		return ErrBadTimestep
	}
	if h.mass <= 0 {
		return fmt.Errorf("%w: mass must be positive, got %g", ErrNotConfigured, h.mass)
	}
	if h.kernels == nil {
		if _, err := h.SynthesizeKernels(); err != nil {
			return err
		}
	}
	if h.wave != nil && !h.kernels.HasExcitation() {
		return ErrNoExcitation
	}

	total := h.MassMatrix().Add(h.AddedMassInf())
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(NumDOF, NumDOF, total.flat())); err != nil {
		return fmt.Errorf("%w: %v", ErrSingularMass, err)
	}

	disc, err := h.kernels.Discretize(h.dt, h.excitationStep())
	if err != nil {
		return err
	}
	if h.disc != nil && h.stale {
		log.WithFields(log.Fields{"old_dt": h.disc.Dt, "dt": h.dt}).Info("re-discretizing kernels")
	}

	h.massInv = &inv
	h.disc = disc
	h.hist = NewHistory(disc)
	h.pendingIdx = -1
	h.lastWave = -1
	h.prepared = true
	h.stale = false

	log.WithFields(log.Fields{
		"dt":    disc.Dt,
		"n_rad": disc.NRad,
		"n_exc": disc.NExc,
		"t_exc": disc.TExc,
	}).Info("hydrodynamics prepared")
	return nil
}

// Ready reports whether the model can be stepped.
func (h *Hydrodynamics) Ready() error {
	switch {
	case h.kernels == nil && h.store == nil:
		return ErrNoCoefficients
	case h.dt <= 0:
		return ErrBadTimestep
	case h.stale:
		return ErrKernelsStale
	case !h.prepared:
		return ErrNotPrepared
	}
	return nil
}

// Reset clears the motion and wave history while keeping the kernels.
func (h *Hydrodynamics) Reset() {
	if h.hist != nil {
		h.hist.Reset()
	}
	h.pendingIdx = -1
	h.lastWave = -1
}

// History exposes the convolution buffers, or nil before Prepare.
func (h *Hydrodynamics) History() *History { return h.hist }
