package hydro

import (
	"fmt"
	"strings"
)

// NumDOF is the number of rigid-body degrees of freedom.
const NumDOF = 6

// Degree-of-freedom indices.
const (
	Surge = iota
	Sway
	Heave
	Roll
	Pitch
	Yaw
)

var dofNames = [NumDOF]string{"surge", "sway", "heave", "roll", "pitch", "yaw"}

// DOFName returns the lower-case name of degree of freedom i.
func DOFName(i int) string {
	if i < 0 || i >= NumDOF {
		return fmt.Sprintf("dof%d", i)
	}
	return dofNames[i]
}

// Vec6 is a generalized force, velocity or acceleration.
type Vec6 [NumDOF]float64

func (v Vec6) Add(o Vec6) Vec6 {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

func (v Vec6) Scale(f float64) Vec6 {
	for i := range v {
		v[i] *= f
	}
	return v
}

// Mat6 is a 6x6 coefficient matrix indexed [row][col].
type Mat6 [NumDOF][NumDOF]float64

// Diag6 builds a diagonal matrix.
func Diag6(d Vec6) Mat6 {
	var m Mat6
	for i := range d {
		m[i][i] = d[i]
	}
	return m
}

func (m Mat6) Add(o Mat6) Mat6 {
	for i := range m {
		for j := range m[i] {
			m[i][j] += o[i][j]
		}
	}
	return m
}

func (m Mat6) Sub(o Mat6) Mat6 {
	for i := range m {
		for j := range m[i] {
			m[i][j] -= o[i][j]
		}
	}
	return m
}

func (m Mat6) MulVec(v Vec6) Vec6 {
	var out Vec6
	for i := range m {
		for j := range m[i] {
			out[i] += m[i][j] * v[j]
		}
	}
	return out
}

// flat returns the matrix in row-major order.
func (m Mat6) flat() []float64 {
	out := make([]float64, 0, NumDOF*NumDOF)
	for i := range m {
		out = append(out, m[i][:]...)
	}
	return out
}

func (m Mat6) String() string {
	var sb strings.Builder
	for i := range m {
		for j := range m[i] {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%12.4g", m[i][j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
