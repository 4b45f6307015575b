package wamit

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/table"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/buoydyn/internal/hydro"
)

// ReadExcitation parses a ".3" file. Only the period, heading, mode and the
// real and imaginary columns are read; modulus and phase are redundant.
func ReadExcitation(path string, s Scale) (*hydro.ExcitationTable, error) {
	cols, err := table.ReadTable(path, []int{0, 1, 2, 5, 6}, nil)
	if err != nil {
		return nil, fmt.Errorf("wamit: reading %s: %w", path, err)
	}
	et, err := BuildExcitation(path, cols[0], cols[1], cols[2], cols[3], cols[4], s)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"file":        path,
		"frequencies": len(et.Omega),
		"headings":    len(et.Beta),
	}).Info("read excitation coefficients")
	return et, nil
}

// BuildExcitation assembles an excitation table from column data. Headings
// are in degrees. Rows with a non-positive period are skipped. Every
// frequency must have every heading.
func BuildExcitation(source string, per, beta, mode, re, im []float64, s Scale) (*hydro.ExcitationTable, error) {
	n := len(per)
	if len(beta) != n || len(mode) != n || len(re) != n || len(im) != n {
		return nil, &hydro.DataError{Source: source, Reason: "columns have different lengths"}
	}

	var omegas, betas []float64
	seenW := map[float64]bool{}
	seenB := map[float64]bool{}
	for r := 0; r < n; r++ {
		if per[r] <= 0 {
			continue
		}
		w := 2 * math.Pi / per[r]
		b := beta[r] * math.Pi / 180
		if !seenW[w] {
			seenW[w] = true
			omegas = append(omegas, w)
		}
		if !seenB[b] {
			seenB[b] = true
			betas = append(betas, b)
		}
	}
	if len(omegas) == 0 {
		return nil, &hydro.DataError{Source: source, Reason: "no positive-period rows"}
	}
	sort.Float64s(omegas)
	sort.Float64s(betas)
	wIdx := indexOf(omegas)
	bIdx := indexOf(betas)

	et := &hydro.ExcitationTable{
		Omega: omegas,
		Beta:  betas,
		X:     make([][][hydro.NumDOF]complex128, len(omegas)),
	}
	filled := make([][]bool, len(omegas))
	for k := range et.X {
		et.X[k] = make([][hydro.NumDOF]complex128, len(betas))
		filled[k] = make([]bool, len(betas))
	}

	for r := 0; r < n; r++ {
		if per[r] <= 0 {
			continue
		}
		i, err := dofIndex(mode[r])
		if err != nil {
			return nil, &hydro.DataError{Source: source, Reason: fmt.Sprintf("row %d: %v", r+1, err)}
		}
		w := 2 * math.Pi / per[r]
		k, b := wIdx[w], bIdx[beta[r]*math.Pi/180]
		scale := s.Density * s.Gravity * math.Pow(s.Length, excitationExponent(i))
		et.X[k][b][i] = complex(scale*re[r], scale*im[r])
		filled[k][b] = true
	}
	for k := range filled {
		for b, ok := range filled[k] {
			if !ok {
				return nil, &hydro.DataError{Source: source,
					Reason: fmt.Sprintf("no rows for omega=%g heading=%g", omegas[k], betas[b])}
			}
		}
	}
	if err := et.Validate(); err != nil {
		return nil, err
	}
	return et, nil
}

func indexOf(sorted []float64) map[float64]int {
	m := make(map[float64]int, len(sorted))
	for i, v := range sorted {
		m[v] = i
	}
	return m
}
