package hydro_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/hydro"
	"github.com/san-kum/buoydyn/internal/integrators"
)

func diag(v float64) hydro.Mat6 {
	return hydro.Diag6(hydro.Vec6{v, v, v, v, v, v})
}

// newBuoy returns a body of mass 500 floating in equilibrium with heave,
// roll and pitch stiffness 1000.
func newBuoy(rad *hydro.FrequencyTable) *hydro.Hydrodynamics {
	h := hydro.New(nil)
	rg := h.Density() * h.Gravity()
	h.SetMass(500)
	h.SetI([3][3]float64{{500, 0, 0}, {0, 500, 0}, {0, 0, 500}})
	h.SetVolume(500 / h.Density())
	h.SetWaterplane(1000/rg, 1000/rg, 1000/rg)
	Expect(h.LoadFrequencyDomain(rad, nil)).To(Succeed())
	return h
}

// poleTable gives heave a radiation kernel α·exp(−βτ).
func poleTable(alpha, beta, aInf float64) *hydro.FrequencyTable {
	ft := &hydro.FrequencyTable{HasInf: true}
	ft.AInf[hydro.Heave][hydro.Heave] = aInf
	for w := 0.0; w <= 20.0001; w += 0.01 {
		den := beta*beta + w*w
		var a, b hydro.Mat6
		a[hydro.Heave][hydro.Heave] = aInf - alpha/den
		b[hydro.Heave][hydro.Heave] = alpha * beta / den
		ft.Omega = append(ft.Omega, w)
		ft.A = append(ft.A, a)
		ft.B = append(ft.B, b)
	}
	return ft
}

type accelRecorder struct {
	h     *hydro.Hydrodynamics
	heave []float64
}

func (r *accelRecorder) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	a, err := r.h.Accelerations(x, u, t)
	Expect(err).NotTo(HaveOccurred())
	r.heave = append(r.heave, a[hydro.Heave])
}

func run(h *hydro.Hydrodynamics, x0 dynamo.State, dt, duration float64, obs ...dynamo.Observer) *dynamo.Result {
	Expect(h.SetTimestepSize(dt)).To(Succeed())
	Expect(h.Prepare()).To(Succeed())
	sim := dynamo.New(h, integrators.NewRK4(), nil)
	for _, o := range obs {
		sim.AddObserver(o)
	}
	res, err := sim.Run(context.Background(), x0, dynamo.Config{Dt: dt, Duration: duration, ValidateState: true})
	Expect(err).NotTo(HaveOccurred())
	Expect(res.Errors).To(BeEmpty())
	return res
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}

var _ = Describe("Hydrodynamics", func() {
	var singleSample *hydro.FrequencyTable

	BeforeEach(func() {
		singleSample = &hydro.FrequencyTable{
			Omega: []float64{1.0},
			A:     []hydro.Mat6{diag(1)},
			B:     []hydro.Mat6{diag(0.1)},
		}
	})

	Context("with a single frequency sample", func() {
		It("stays at rest from a zero state without diverging", func() {
			h := newBuoy(singleSample)
			rec := &accelRecorder{h: h}
			res := run(h, make(dynamo.State, 12), 0.01, 10, rec)

			Expect(res.StepsTaken).To(Equal(1000))
			Expect(rec.heave).To(HaveLen(1000))
			for _, a := range rec.heave {
				Expect(math.IsNaN(a)).To(BeFalse())
				Expect(math.Abs(a)).To(BeNumerically("<", 1e-9))
			}
			for _, x := range res.States {
				Expect(x.IsValid()).To(BeTrue())
			}
		})

		It("decays the heave acceleration with linear damping", func() {
			h := newBuoy(singleSample)
			h.SetDampingCoeffs(hydro.Vec6{hydro.Heave: 100})
			rec := &accelRecorder{h: h}
			x0 := make(dynamo.State, 12)
			x0[hydro.Heave] = 0.05
			run(h, x0, 0.01, 10, rec)

			first := maxAbs(rec.heave[:450])
			last := maxAbs(rec.heave[len(rec.heave)-450:])
			Expect(first).To(BeNumerically("~", 1000*0.05/501, 1e-6))
			Expect(last).To(BeNumerically("<", 0.75*first))
		})
	})

	Context("without radiation damping", func() {
		It("never gains energy under linear and quadratic damping", func() {
			h := newBuoy(&hydro.FrequencyTable{
				Omega: []float64{0.5, 1, 2},
				A:     []hydro.Mat6{diag(1), diag(1), diag(1)},
				B:     []hydro.Mat6{{}, {}, {}},
			})
			h.SetDampingCoeffs(hydro.Vec6{hydro.Heave: 40})
			h.SetDragCoeffs(hydro.Vec6{hydro.Heave: 1})
			h.SetAreas(hydro.Vec6{hydro.Heave: 0.5})
			x0 := make(dynamo.State, 12)
			x0[hydro.Heave] = 0.1
			res := run(h, x0, 0.01, 10)

			e0 := h.Energy(res.States[0])
			prev := e0
			for _, x := range res.States[1:] {
				e := h.Energy(x)
				Expect(e).To(BeNumerically("<=", prev+1e-9*e0))
				prev = e
			}
			Expect(prev).To(BeNumerically("<", 0.5*e0))
		})
	})

	Context("with a radiation memory kernel", func() {
		It("damps free heave oscillation through the convolution alone", func() {
			h := newBuoy(poleTable(200, 0.5, 1000))
			x0 := make(dynamo.State, 12)
			x0[hydro.Heave] = 0.1
			res := run(h, x0, 0.02, 40)

			heave := make([]float64, len(res.States))
			for i, x := range res.States {
				heave[i] = x[hydro.Heave]
			}
			window := 400
			first := maxAbs(heave[:window])
			last := maxAbs(heave[len(heave)-window:])
			Expect(first).To(BeNumerically(">=", 0.1))
			Expect(last).To(BeNumerically("<", 0.6*first))
			Expect(h.History().Steps()).To(Equal(res.StepsTaken))
		})
	})

	Context("when the timestep changes after setup", func() {
		It("refuses to step until kernels are prepared again", func() {
			h := newBuoy(poleTable(10, 0.5, 10))
			Expect(h.SetTimestepSize(0.01)).To(Succeed())
			Expect(h.Prepare()).To(Succeed())
			Expect(h.SetTimestepSize(0.02)).To(Succeed())

			sim := dynamo.New(h, integrators.NewRK4(), nil)
			_, err := sim.Run(context.Background(), make(dynamo.State, 12), dynamo.Config{Dt: 0.02, Duration: 1})
			Expect(err).To(MatchError(dynamo.ErrNotReady))
			Expect(err).To(MatchError(hydro.ErrKernelsStale))

			Expect(h.Prepare()).To(Succeed())
			res, err := sim.Run(context.Background(), make(dynamo.State, 12), dynamo.Config{Dt: 0.02, Duration: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(50))
		})
	})
})
