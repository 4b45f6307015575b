package hydro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/buoydyn/internal/dynamo"
)

// Quadrature selects the rule used for the frequency integrals.
type Quadrature int

const (
	Trapezoidal Quadrature = iota
	Simpson
)

func (q Quadrature) String() string {
	if q == Simpson {
		return "simpson"
	}
	return "trapezoidal"
}

// ParseQuadrature maps a config name to a Quadrature.
func ParseQuadrature(name string) (Quadrature, error) {
	switch name {
	case "", "trapezoidal", "trapz":
		return Trapezoidal, nil
	case "simpson", "simpsons":
		return Simpson, nil
	}
	return Trapezoidal, fmt.Errorf("%w: unknown quadrature %q", ErrNotConfigured, name)
}

// integrate applies the rule to samples f over increasing x. Fewer than two
// samples span no interval and integrate to zero.
func (q Quadrature) integrate(x, f []float64) float64 {
	switch {
	case len(x) < 2:
		return 0
	case q == Simpson && len(x) >= 3:
		return integrate.Simpsons(x, f)
	default:
		return integrate.Trapezoidal(x, f)
	}
}

// KernelConfig tunes impulse-response synthesis.
type KernelConfig struct {
	// DTau is the spacing of the synthesized kernels.
	DTau float64
	// TauMax caps the radiation memory duration.
	TauMax float64
	// ExcTauMax caps the half-width of the non-causal excitation kernel.
	ExcTauMax float64
	// DecayTol is the fraction of a kernel's peak below which it counts as
	// decayed.
	DecayTol float64
	// MinCycles floors the kernel duration at this many periods of the
	// dominant damping (or excitation) frequency.
	MinCycles  float64
	Quadrature Quadrature
}

func DefaultKernelConfig() KernelConfig {
	return KernelConfig{
		DTau:       0.05,
		TauMax:     30,
		ExcTauMax:  20,
		DecayTol:   1e-3,
		MinCycles:  1,
		Quadrature: Trapezoidal,
	}
}

func (c KernelConfig) validate() error {
	if c.DTau <= 0 || c.TauMax < c.DTau || c.ExcTauMax < 0 || c.DecayTol < 0 || c.MinCycles < 0 {
		return fmt.Errorf("%w: invalid kernel config %+v", ErrNotConfigured, c)
	}
	return nil
}

// Kernels are impulse-response functions sampled on their own τ grids.
type Kernels struct {
	// Tau starts at 0 and is shared by IRCos and IRSin.
	Tau []float64
	// IRCos is the radiation impulse response (2/π)∫B(ω)cos(ωτ)dω. It is
	// the kernel the radiation force is built from.
	IRCos [NumDOF][NumDOF][]float64
	// IRSin is −(2/π)∫ω(A(ω)−A∞)sin(ωτ)dω. By Kramers–Kronig it equals
	// IRCos for consistent tables; it is kept as a cross-check and is nil
	// for kernels loaded from time-domain files.
	IRSin [NumDOF][NumDOF][]float64

	// TauExc is symmetric about zero; the excitation kernel is non-causal.
	TauExc []float64
	IRExc  [NumDOF][]float64
}

func (k *Kernels) HasExcitation() bool { return len(k.TauExc) > 0 }

// Duration is the radiation memory length in seconds.
func (k *Kernels) Duration() float64 { return k.Tau[len(k.Tau)-1] }

// Validate checks kernels loaded verbatim from a time-domain source.
func (k *Kernels) Validate() error {
	if len(k.Tau) < 2 {
		return dataErrorf("radiation kernel needs at least two samples, got %d", len(k.Tau))
	}
	if math.Abs(k.Tau[0]) > 1e-9 {
		return dataErrorf("radiation kernel must start at tau=0, starts at %g", k.Tau[0])
	}
	if err := checkIncreasing(k.Tau, "tau"); err != nil {
		return err
	}
	for i := 0; i < NumDOF; i++ {
		for j := 0; j < NumDOF; j++ {
			if n := len(k.IRCos[i][j]); n != 0 && n != len(k.Tau) {
				return dataErrorf("radiation kernel %d%d has %d samples, want %d", i+1, j+1, n, len(k.Tau))
			}
		}
	}
	if !k.HasExcitation() {
		return nil
	}
	if err := checkIncreasing(k.TauExc, "excitation tau"); err != nil {
		return err
	}
	for i := 0; i < NumDOF; i++ {
		if n := len(k.IRExc[i]); n != 0 && n != len(k.TauExc) {
			return dataErrorf("excitation kernel %d has %d samples, want %d", i+1, n, len(k.TauExc))
		}
	}
	return nil
}

// Synthesize converts the frequency tables of store into impulse-response
// kernels. The result depends only on the tables, the heading and cfg.
func Synthesize(store *CoefficientStore, cfg KernelConfig) (*Kernels, error) {
	if store == nil || store.rad == nil {
		return nil, ErrNoCoefficients
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	k := &Kernels{}
	synthesizeRadiation(k, store.rad, cfg)
	if store.HasExcitation() {
		synthesizeExcitation(k, store, cfg)
	}
	return k, nil
}

func synthesizeRadiation(k *Kernels, rad *FrequencyTable, cfg KernelConfig) {
	n := int(math.Floor(cfg.TauMax/cfg.DTau+1e-9)) + 1
	tau := make([]float64, n)
	for q := range tau {
		tau[q] = float64(q) * cfg.DTau
	}

	omega := rad.Omega
	aInf := rad.InfiniteFrequencyAddedMass()

	dynamo.ParallelFor(NumDOF*NumDOF, 1, func(start, end int) {
		b := make([]float64, len(omega))
		a := make([]float64, len(omega))
		f := make([]float64, len(omega))
		for p := start; p < end; p++ {
			i, j := p/NumDOF, p%NumDOF
			for s := range omega {
				b[s] = rad.B[s][i][j]
				a[s] = omega[s] * (rad.A[s][i][j] - aInf[i][j])
			}
			k.IRCos[i][j] = transform(cfg.Quadrature, omega, b, tau, f, 2/math.Pi, math.Cos)
			k.IRSin[i][j] = transform(cfg.Quadrature, omega, a, tau, f, -2/math.Pi, math.Sin)
		}
	})

	cut := 1
	for i := 0; i < NumDOF; i++ {
		for j := 0; j < NumDOF; j++ {
			cut = max(cut, decayIndex(k.IRCos[i][j], cfg.DecayTol))
		}
	}
	if w := dominantRadiationFrequency(rad); w > 0 {
		cut = max(cut, int(math.Ceil(cfg.MinCycles*2*math.Pi/w/cfg.DTau)))
	}
	cut = min(cut, n-1)

	k.Tau = tau[:cut+1]
	for i := 0; i < NumDOF; i++ {
		for j := 0; j < NumDOF; j++ {
			k.IRCos[i][j] = k.IRCos[i][j][:cut+1]
			k.IRSin[i][j] = k.IRSin[i][j][:cut+1]
		}
	}
}

func synthesizeExcitation(k *Kernels, store *CoefficientStore, cfg KernelConfig) {
	exc := store.exc
	half := int(math.Floor(cfg.ExcTauMax/cfg.DTau + 1e-9))
	tau := make([]float64, 2*half+1)
	for q := range tau {
		tau[q] = float64(q-half) * cfg.DTau
	}

	omega := exc.Omega
	dynamo.ParallelFor(NumDOF, 1, func(start, end int) {
		re := make([]float64, len(omega))
		im := make([]float64, len(omega))
		f := make([]float64, len(omega))
		for i := start; i < end; i++ {
			for s := range omega {
				x := store.atHeading(s, i)
				re[s], im[s] = real(x), imag(x)
			}
			out := transform(cfg.Quadrature, omega, re, tau, f, 1/math.Pi, math.Cos)
			sin := transform(cfg.Quadrature, omega, im, tau, f, 1/math.Pi, math.Sin)
			floats.Sub(out, sin)
			k.IRExc[i] = out
		}
	})

	reach := 1
	for i := 0; i < NumDOF; i++ {
		if last := decayIndex(k.IRExc[i], cfg.DecayTol); last >= 0 {
			first := firstAbove(k.IRExc[i], cfg.DecayTol)
			reach = max(reach, last-half, half-first)
		}
	}
	if w := dominantExcitationFrequency(store); w > 0 {
		reach = max(reach, int(math.Ceil(cfg.MinCycles*2*math.Pi/w/cfg.DTau)))
	}
	reach = min(reach, half)

	k.TauExc = tau[half-reach : half+reach+1]
	for i := 0; i < NumDOF; i++ {
		k.IRExc[i] = k.IRExc[i][half-reach : half+reach+1]
	}
}

// transform evaluates scale·∫g(ω)·trig(ωτ)dω at every τ. f is scratch space
// of len(omega). A zero g yields a zero kernel without integrating.
func transform(q Quadrature, omega, g, tau, f []float64, scale float64, trig func(float64) float64) []float64 {
	out := make([]float64, len(tau))
	if floats.Norm(g, math.Inf(1)) == 0 {
		return out
	}
	for t, tv := range tau {
		for s, w := range omega {
			f[s] = g[s] * trig(w*tv)
		}
		out[t] = scale * q.integrate(omega, f)
	}
	return out
}

// decayIndex is the last index where |v| exceeds tol·max|v|, or -1 for an
// all-zero kernel.
func decayIndex(v []float64, tol float64) int {
	peak := floats.Norm(v, math.Inf(1))
	if peak == 0 {
		return -1
	}
	for q := len(v) - 1; q >= 0; q-- {
		if math.Abs(v[q]) > tol*peak {
			return q
		}
	}
	return -1
}

func firstAbove(v []float64, tol float64) int {
	peak := floats.Norm(v, math.Inf(1))
	for q := range v {
		if math.Abs(v[q]) > tol*peak {
			return q
		}
	}
	return len(v) - 1
}

// dominantRadiationFrequency is the sampled ω where the summed diagonal
// damping peaks, or 0 when there is no damping.
func dominantRadiationFrequency(rad *FrequencyTable) float64 {
	best, at := 0.0, 0.0
	for s, w := range rad.Omega {
		sum := 0.0
		for i := 0; i < NumDOF; i++ {
			sum += math.Abs(rad.B[s][i][i])
		}
		if sum > best {
			best, at = sum, w
		}
	}
	return at
}

func dominantExcitationFrequency(store *CoefficientStore) float64 {
	best, at := 0.0, 0.0
	for s, w := range store.exc.Omega {
		sum := 0.0
		for i := 0; i < NumDOF; i++ {
			x := store.atHeading(s, i)
			sum += math.Hypot(real(x), imag(x))
		}
		if sum > best {
			best, at = sum, w
		}
	}
	return at
}

// Discretized holds kernels resampled at the simulation timestep, ready for
// convolution against the history buffers.
type Discretized struct {
	Dt   float64
	NRad int
	// LRad[i][j][k] is the running integral of IRCos up to τ = k·dt. It
	// multiplies accelerations, so ∫L ẍ dτ reproduces ∫K ẋ dτ.
	LRad [NumDOF][NumDOF][]float64

	DtExc float64
	NExc  int
	// TExc is the excitation look-ahead: LExc[i][m] sits at τ = m·DtExc − TExc.
	TExc float64
	LExc [NumDOF][]float64

	radRev [NumDOF][NumDOF][]float64
	excRev [NumDOF][]float64
}

// Discretize samples the kernels at the radiation step dt and the
// excitation step dtExc.
func (k *Kernels) Discretize(dt, dtExc float64) (*Discretized, error) {
	if dt <= 0 || dtExc <= 0 {
		return nil, ErrBadTimestep
	}
	d := &Discretized{Dt: dt, DtExc: dtExc}

	d.NRad = int(math.Floor(k.Duration()/dt+1e-9)) + 1
	running := make([]float64, len(k.Tau))
	for i := 0; i < NumDOF; i++ {
		for j := 0; j < NumDOF; j++ {
			l := make([]float64, d.NRad)
			if ir := k.IRCos[i][j]; len(ir) > 0 {
				cumulativeTrapezoid(k.Tau, ir, running)
				for s := range l {
					l[s] = sampleAt(k.Tau, running, float64(s)*dt)
				}
			}
			d.LRad[i][j] = l
			d.radRev[i][j] = reversed(l)
		}
	}

	if !k.HasExcitation() {
		return d, nil
	}
	reach := math.Max(math.Abs(k.TauExc[0]), math.Abs(k.TauExc[len(k.TauExc)-1]))
	half := int(math.Floor(reach/dtExc + 1e-9))
	d.TExc = float64(half) * dtExc
	d.NExc = 2*half + 1
	for i := 0; i < NumDOF; i++ {
		l := make([]float64, d.NExc)
		if ir := k.IRExc[i]; len(ir) > 0 {
			for m := range l {
				l[m] = sampleAt(k.TauExc, ir, float64(m)*dtExc-d.TExc)
			}
		}
		d.LExc[i] = l
		d.excRev[i] = reversed(l)
	}
	return d, nil
}

func cumulativeTrapezoid(x, f, out []float64) {
	out[0] = 0
	for q := 1; q < len(x); q++ {
		out[q] = out[q-1] + 0.5*(f[q]+f[q-1])*(x[q]-x[q-1])
	}
}

// sampleAt interpolates ys linearly at x and returns 0 outside xs.
func sampleAt(xs, ys []float64, x float64) float64 {
	const eps = 1e-9
	n := len(xs)
	if x < xs[0]-eps || x > xs[n-1]+eps {
		return 0
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i, w := segment(xs, x)
	if i < 0 {
		return ys[0]
	}
	if w == 0 {
		return ys[i]
	}
	return (1-w)*ys[i] + w*ys[i+1]
}

func reversed(v []float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[len(v)-1-i] = v[i]
	}
	return out
}
