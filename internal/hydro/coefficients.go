package hydro

import (
	"math"
	"math/cmplx"
	"sort"
)

// FrequencyTable holds added mass A(ω) and radiation damping B(ω) sampled at
// strictly increasing frequencies, plus the infinite-frequency limits.
type FrequencyTable struct {
	Omega []float64
	A     []Mat6
	B     []Mat6

	AInf Mat6
	BInf Mat6
	// HasInf is set when AInf/BInf were supplied by the source data.
	HasInf bool
}

// Validate checks the table invariants.
func (ft *FrequencyTable) Validate() error {
	if len(ft.Omega) == 0 {
		return dataErrorf("frequency table is empty")
	}
	if len(ft.A) != len(ft.Omega) || len(ft.B) != len(ft.Omega) {
		return dataErrorf("frequency table has %d frequencies but %d added-mass and %d damping matrices",
			len(ft.Omega), len(ft.A), len(ft.B))
	}
	return checkIncreasing(ft.Omega, "frequency")
}

// InfiniteFrequencyAddedMass returns A(∞), falling back to the highest
// sampled frequency when the source did not provide it.
func (ft *FrequencyTable) InfiniteFrequencyAddedMass() Mat6 {
	if ft.HasInf {
		return ft.AInf
	}
	return ft.A[len(ft.A)-1]
}

// ExcitationTable holds complex wave-exciting force coefficients per unit
// wave amplitude, indexed [frequency][heading][dof].
type ExcitationTable struct {
	Omega []float64
	Beta  []float64
	X     [][][NumDOF]complex128
}

// Validate checks the table invariants.
func (et *ExcitationTable) Validate() error {
	if len(et.Omega) == 0 || len(et.Beta) == 0 {
		return dataErrorf("excitation table has %d frequencies and %d headings", len(et.Omega), len(et.Beta))
	}
	if len(et.X) != len(et.Omega) {
		return dataErrorf("excitation table has %d frequencies but %d coefficient rows", len(et.Omega), len(et.X))
	}
	for k, row := range et.X {
		if len(row) != len(et.Beta) {
			return dataErrorf("excitation row %d has %d headings, want %d", k, len(row), len(et.Beta))
		}
	}
	if err := checkIncreasing(et.Omega, "excitation frequency"); err != nil {
		return err
	}
	return checkIncreasing(et.Beta, "heading")
}

// Mod, Phase, Re and Im give the redundant forms of one coefficient.
func (et *ExcitationTable) Mod(k, b, dof int) float64   { return cmplx.Abs(et.X[k][b][dof]) }
func (et *ExcitationTable) Phase(k, b, dof int) float64 { return cmplx.Phase(et.X[k][b][dof]) }
func (et *ExcitationTable) Re(k, b, dof int) float64    { return real(et.X[k][b][dof]) }
func (et *ExcitationTable) Im(k, b, dof int) float64    { return imag(et.X[k][b][dof]) }

func checkIncreasing(xs []float64, what string) error {
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) {
			return dataErrorf("%s %d is not finite", what, i)
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return dataErrorf("%s samples not strictly increasing at index %d (%g after %g)", what, i, xs[i], xs[i-1])
		}
	}
	return nil
}

// CoefficientStore answers interpolated coefficient lookups. Inside the
// sampled range values are linear in ω; below it the lowest sample is
// returned and above it the infinite-frequency value (or the highest sample
// when none was loaded). Excitation vanishes above the sampled range.
type CoefficientStore struct {
	rad     *FrequencyTable
	exc     *ExcitationTable
	heading float64
}

// NewCoefficientStore validates and wraps the tables. exc may be nil.
func NewCoefficientStore(rad *FrequencyTable, exc *ExcitationTable) (*CoefficientStore, error) {
	if rad == nil {
		return nil, ErrNoCoefficients
	}
	if err := rad.Validate(); err != nil {
		return nil, err
	}
	if exc != nil {
		if err := exc.Validate(); err != nil {
			return nil, err
		}
	}
	return &CoefficientStore{rad: rad, exc: exc}, nil
}

func (s *CoefficientStore) Radiation() *FrequencyTable   { return s.rad }
func (s *CoefficientStore) Excitation() *ExcitationTable { return s.exc }
func (s *CoefficientStore) HasExcitation() bool          { return s != nil && s.exc != nil }

// SetHeading selects the incident wave heading in radians.
func (s *CoefficientStore) SetHeading(beta float64) { s.heading = beta }
func (s *CoefficientStore) Heading() float64        { return s.heading }

// AddedMass returns A_ij(ω).
func (s *CoefficientStore) AddedMass(omega float64, i, j int) (float64, error) {
	if s == nil || s.rad == nil {
		return 0, ErrNoCoefficients
	}
	return s.lookup(omega, s.rad.A, s.rad.InfiniteFrequencyAddedMass(), i, j), nil
}

// RadiationDamping returns B_ij(ω).
func (s *CoefficientStore) RadiationDamping(omega float64, i, j int) (float64, error) {
	if s == nil || s.rad == nil {
		return 0, ErrNoCoefficients
	}
	inf := s.rad.B[len(s.rad.B)-1]
	if s.rad.HasInf {
		inf = s.rad.BInf
	}
	return s.lookup(omega, s.rad.B, inf, i, j), nil
}

// AddedMassMatrix returns the full A(ω).
func (s *CoefficientStore) AddedMassMatrix(omega float64) (Mat6, error) {
	return s.matrix(omega, s.AddedMass)
}

// RadiationDampingMatrix returns the full B(ω).
func (s *CoefficientStore) RadiationDampingMatrix(omega float64) (Mat6, error) {
	return s.matrix(omega, s.RadiationDamping)
}

func (s *CoefficientStore) matrix(omega float64, entry func(float64, int, int) (float64, error)) (Mat6, error) {
	var m Mat6
	for i := 0; i < NumDOF; i++ {
		for j := 0; j < NumDOF; j++ {
			v, err := entry(omega, i, j)
			if err != nil {
				return Mat6{}, err
			}
			m[i][j] = v
		}
	}
	return m, nil
}

func (s *CoefficientStore) lookup(omega float64, samples []Mat6, inf Mat6, i, j int) float64 {
	xs := s.rad.Omega
	if omega > xs[len(xs)-1] {
		return inf[i][j]
	}
	k, w := segment(xs, omega)
	if k < 0 {
		return samples[0][i][j]
	}
	if w == 0 {
		return samples[k][i][j]
	}
	return (1-w)*samples[k][i][j] + w*samples[k+1][i][j]
}

// WaveExcitingForceComponents returns X_j(ω) at the configured heading.
func (s *CoefficientStore) WaveExcitingForceComponents(omega float64, j int) (complex128, error) {
	if s == nil || s.exc == nil {
		return 0, ErrNoExcitation
	}
	xs := s.exc.Omega
	if omega > xs[len(xs)-1] {
		return 0, nil
	}
	k, w := segment(xs, omega)
	if k < 0 {
		return s.atHeading(0, j), nil
	}
	if w == 0 {
		return s.atHeading(k, j), nil
	}
	lo, hi := s.atHeading(k, j), s.atHeading(k+1, j)
	return complex(1-w, 0)*lo + complex(w, 0)*hi, nil
}

// WaveExcitingForce returns X(ω) for all six DOFs.
func (s *CoefficientStore) WaveExcitingForce(omega float64) ([NumDOF]complex128, error) {
	var out [NumDOF]complex128
	for j := range out {
		v, err := s.WaveExcitingForceComponents(omega, j)
		if err != nil {
			return out, err
		}
		out[j] = v
	}
	return out, nil
}

// atHeading interpolates frequency row k linearly in heading, clamped at the
// ends of the heading range.
func (s *CoefficientStore) atHeading(k, j int) complex128 {
	row := s.exc.X[k]
	betas := s.exc.Beta
	if s.heading >= betas[len(betas)-1] {
		return row[len(betas)-1][j]
	}
	b, w := segment(betas, s.heading)
	if b < 0 {
		return row[0][j]
	}
	if w == 0 {
		return row[b][j]
	}
	return complex(1-w, 0)*row[b][j] + complex(w, 0)*row[b+1][j]
}

// segment locates x in the increasing slice xs. The interpolated value is
// (1-w)*v[i] + w*v[i+1]; w is 0 when x coincides with xs[i]. i is -1 below
// the range and len(xs)-1 at or above the last sample.
func segment(xs []float64, x float64) (int, float64) {
	n := len(xs)
	if n == 0 || x < xs[0] {
		return -1, 0
	}
	if x >= xs[n-1] {
		return n - 1, 0
	}
	k := sort.SearchFloat64s(xs, x)
	if xs[k] == x {
		return k, 0
	}
	i := k - 1
	return i, (x - xs[i]) / (xs[k] - xs[i])
}
