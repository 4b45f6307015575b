package hydro

import "gonum.org/v1/gonum/floats"

// StorageMultiplier sets window capacity as a multiple of its logical
// length. Larger values compact less often.
const StorageMultiplier = 5

// Window is a growing buffer of capacity StorageMultiplier·n that keeps at
// least the last n samples. When the cursor reaches capacity the last n
// samples are copied to the front.
type Window struct {
	buf    []float64
	n      int
	cursor int
}

// NewWindow returns a window whose logical length is n (at least 1).
func NewWindow(n int) *Window {
	n = max(n, 1)
	return &Window{buf: make([]float64, StorageMultiplier*n), n: n}
}

// Size is the logical window length.
func (w *Window) Size() int { return w.n }

// Cap is the backing capacity.
func (w *Window) Cap() int { return len(w.buf) }

// Cursor is the index the next sample will be written to.
func (w *Window) Cursor() int { return w.cursor }

// Available is the number of samples reachable behind the cursor. It never
// drops below Size once that many have been pushed.
func (w *Window) Available() int { return w.cursor }

func (w *Window) Push(v float64) {
	w.buf[w.cursor] = v
	w.advance()
}

func (w *Window) set(v float64) { w.buf[w.cursor] = v }

func (w *Window) advance() {
	w.cursor++
	if w.cursor == len(w.buf) {
		w.cursor = compact(w.buf, w.n, w.cursor)
	}
}

// Recent returns up to m of the newest samples, oldest first, skipping the
// lag newest ones. The slice aliases the buffer.
func (w *Window) Recent(m, lag int) []float64 {
	end := w.cursor - lag
	if end <= 0 || m <= 0 {
		return nil
	}
	return w.buf[max(end-m, 0):end]
}

func (w *Window) Reset() {
	clear(w.buf)
	w.cursor = 0
}

// compact moves the n samples preceding cursor to the front of buf and
// returns the new cursor.
func compact(buf []float64, n, cursor int) int {
	if cursor <= n {
		return cursor
	}
	copy(buf[:n], buf[cursor-n:cursor])
	return n
}

// History keeps the acceleration history of all six DOFs, which advance
// together, and the incident wave elevation history. The velocity of each
// step is kept alongside its acceleration for the window edge term of the
// radiation integral.
type History struct {
	acc    [NumDOF]*Window
	vel    [NumDOF]*Window
	pushed [NumDOF]bool
	steps  int

	wave *Window
}

// NewHistory sizes the buffers for discretized kernels d. The wave window
// holds one extra sample so evaluations one excitation step behind the
// newest sample still see a full window.
func NewHistory(d *Discretized) *History {
	h := &History{}
	for i := range h.acc {
		h.acc[i] = NewWindow(d.NRad - 1)
		h.vel[i] = NewWindow(d.NRad - 1)
	}
	if d.NExc > 0 {
		h.wave = NewWindow(d.NExc + 1)
	}
	return h
}

// PushAcceleration stores the acceleration of one DOF for the current step.
// The shared cursor advances once all six DOFs have been pushed. The step's
// velocity is zero unless set through PushStep.
func (h *History) PushAcceleration(dof int, v float64) {
	h.acc[dof].set(v)
	h.pushed[dof] = true
	for _, ok := range h.pushed {
		if !ok {
			return
		}
	}
	for i, w := range h.acc {
		w.advance()
		h.vel[i].advance()
		h.vel[i].set(0)
		h.pushed[i] = false
	}
	h.steps++
}

// PushStep records the velocity and acceleration of all six DOFs for one
// step.
func (h *History) PushStep(v, a Vec6) {
	for i := range a {
		h.vel[i].set(v[i])
		h.PushAcceleration(i, a[i])
	}
}

// PushWaveElevation appends one wave elevation sample.
func (h *History) PushWaveElevation(v float64) {
	if h.wave != nil {
		h.wave.Push(v)
	}
}

// Steps is the number of committed acceleration steps since the last reset.
func (h *History) Steps() int { return h.steps }

// RadiationForce evaluates the memory integral −∫₀ᵀ K(τ) ẋ(t−τ) dτ over the
// committed history, T = m·dt. With L the running integral of K it is
// computed as
//
//	−∫₀ᵀ L(τ) ẍ(t−τ) dτ − L(T) ẋ(t−T)
//
// The newest committed sample sits one step before t. Before the history
// spans the full kernel the window is truncated to what has been recorded,
// and ẋ(t−T) is then the first recorded velocity.
func (h *History) RadiationForce(d *Discretized) Vec6 {
	var f Vec6
	m := min(h.acc[0].Available(), d.NRad-1)
	if m < 1 {
		return f
	}
	from := d.NRad - 1 - m
	for i := 0; i < NumDOF; i++ {
		sum := 0.0
		for j := 0; j < NumDOF; j++ {
			rev := d.radRev[i][j]
			edge := d.LRad[i][j][m]
			x := h.acc[j].Recent(m, 0)
			// x[0] is the oldest sample, paired with L[m] at trapezoid weight 1/2.
			sum += floats.Dot(rev[from:from+m], x) - 0.5*edge*x[0]
			f[i] -= edge * h.vel[j].Recent(m, 0)[0]
		}
		f[i] -= d.Dt * sum
	}
	return f
}

// ExcitingForce evaluates ∫ K(τ) η(t−τ) dτ over τ ∈ [−TExc, TExc], where the
// newest wave sample is η(t+TExc) once lag newest samples are skipped. A
// truncated window with fewer than two samples yields zero.
func (h *History) ExcitingForce(d *Discretized, lag int) Vec6 {
	var f Vec6
	if h.wave == nil || d.NExc < 2 {
		return f
	}
	m := min(h.wave.Available()-lag, d.NExc)
	if m < 2 {
		return f
	}
	return excitationForce(d, h.wave.Recent(m, lag))
}

// excitationForce convolves the excitation kernels with eta, oldest sample
// first, using trapezoid end weights. len(eta) must be in [2, NExc].
func excitationForce(d *Discretized, eta []float64) Vec6 {
	var f Vec6
	m := len(eta)
	for i := 0; i < NumDOF; i++ {
		l := d.LExc[i]
		sum := floats.Dot(d.excRev[i][d.NExc-m:], eta)
		sum -= 0.5 * (l[0]*eta[m-1] + l[m-1]*eta[0])
		f[i] = d.DtExc * sum
	}
	return f
}

func (h *History) Reset() {
	for i, w := range h.acc {
		w.Reset()
		h.vel[i].Reset()
		h.pushed[i] = false
	}
	h.steps = 0
	if h.wave != nil {
		h.wave.Reset()
	}
}
