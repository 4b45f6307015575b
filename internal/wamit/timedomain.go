package wamit

import (
	"fmt"
	"sort"

	"github.com/phil-mansfield/table"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/buoydyn/internal/hydro"
)

// ReadTimeDomain loads impulse responses verbatim. excPath may be empty when
// there is no excitation kernel.
func ReadTimeDomain(radPath, excPath string) (*hydro.Kernels, error) {
	cols, err := table.ReadTable(radPath, []int{0, 1, 2, 3}, nil)
	if err != nil {
		return nil, fmt.Errorf("wamit: reading %s: %w", radPath, err)
	}
	k := &hydro.Kernels{}
	if err := BuildRadiationKernels(k, radPath, cols[0], cols[1], cols[2], cols[3]); err != nil {
		return nil, err
	}

	if excPath != "" {
		cols, err := table.ReadTable(excPath, []int{0, 1, 2}, nil)
		if err != nil {
			return nil, fmt.Errorf("wamit: reading %s: %w", excPath, err)
		}
		if err := BuildExcitationKernels(k, excPath, cols[0], cols[1], cols[2]); err != nil {
			return nil, err
		}
	}

	if err := k.Validate(); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"file":       radPath,
		"samples":    len(k.Tau),
		"excitation": k.HasExcitation(),
	}).Info("read time-domain kernels")
	return k, nil
}

// BuildRadiationKernels fills k.Tau and k.IRCos from "tau i j K" columns.
// A pair either has a value at every tau or is absent.
func BuildRadiationKernels(k *hydro.Kernels, source string, tau, mi, mj, val []float64) error {
	n := len(tau)
	if len(mi) != n || len(mj) != n || len(val) != n {
		return &hydro.DataError{Source: source, Reason: "columns have different lengths"}
	}
	k.Tau = uniqueSorted(tau)
	idx := indexOf(k.Tau)

	var count [hydro.NumDOF][hydro.NumDOF]int
	for r := 0; r < n; r++ {
		i, j, err := dofPair(mi[r], mj[r])
		if err != nil {
			return &hydro.DataError{Source: source, Reason: fmt.Sprintf("row %d: %v", r+1, err)}
		}
		if k.IRCos[i][j] == nil {
			k.IRCos[i][j] = make([]float64, len(k.Tau))
		}
		k.IRCos[i][j][idx[tau[r]]] = val[r]
		count[i][j]++
	}
	for i := range count {
		for j, c := range count[i] {
			if c != 0 && c != len(k.Tau) {
				return &hydro.DataError{Source: source,
					Reason: fmt.Sprintf("kernel %d%d has %d samples, want %d", i+1, j+1, c, len(k.Tau))}
			}
		}
	}
	return nil
}

// BuildExcitationKernels fills k.TauExc and k.IRExc from "tau i K" columns.
func BuildExcitationKernels(k *hydro.Kernels, source string, tau, mi, val []float64) error {
	n := len(tau)
	if len(mi) != n || len(val) != n {
		return &hydro.DataError{Source: source, Reason: "columns have different lengths"}
	}
	k.TauExc = uniqueSorted(tau)
	idx := indexOf(k.TauExc)

	var count [hydro.NumDOF]int
	for r := 0; r < n; r++ {
		i, err := dofIndex(mi[r])
		if err != nil {
			return &hydro.DataError{Source: source, Reason: fmt.Sprintf("row %d: %v", r+1, err)}
		}
		if k.IRExc[i] == nil {
			k.IRExc[i] = make([]float64, len(k.TauExc))
		}
		k.IRExc[i][idx[tau[r]]] = val[r]
		count[i]++
	}
	for i, c := range count {
		if c != 0 && c != len(k.TauExc) {
			return &hydro.DataError{Source: source,
				Reason: fmt.Sprintf("excitation kernel %d has %d samples, want %d", i+1, c, len(k.TauExc))}
		}
	}
	return nil
}

func uniqueSorted(v []float64) []float64 {
	out := append([]float64(nil), v...)
	sort.Float64s(out)
	w := 0
	for i, x := range out {
		if i == 0 || x != out[w-1] {
			out[w] = x
			w++
		}
	}
	return out[:w]
}
