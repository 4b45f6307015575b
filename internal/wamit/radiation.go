package wamit

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/buoydyn/internal/hydro"
)

// Scale holds the constants used to dimensionalise coefficients.
type Scale struct {
	Length  float64
	Gravity float64
	Density float64
}

// DefaultScale is sea water under standard gravity with unit length.
func DefaultScale() Scale {
	return Scale{Length: 1, Gravity: hydro.DefaultGravity, Density: hydro.DefaultDensity}
}

// radiationExponent is k in ρL^k for the pair (i, j), zero-based.
func radiationExponent(i, j int) float64 {
	rot := 0
	if i >= 3 {
		rot++
	}
	if j >= 3 {
		rot++
	}
	return float64(3 + rot)
}

// excitationExponent is m in ρgL^m for DOF i, zero-based.
func excitationExponent(i int) float64 {
	if i >= 3 {
		return 3
	}
	return 2
}

type radiationRow struct {
	per  float64
	i, j int
	a, b float64
	line int
}

// ReadRadiation parses a ".1" file and dimensionalises it with s.
func ReadRadiation(path string, s Scale) (*hydro.FrequencyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ft, err := ParseRadiation(f, path, s)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"file":        path,
		"frequencies": len(ft.Omega),
		"inf":         ft.HasInf,
	}).Info("read radiation coefficients")
	return ft, nil
}

// ParseRadiation reads ".1" rows from r. source names the input in errors.
// Rows have four columns when the damping is absent, which WAMIT writes for
// the zero and infinite frequency limits.
func ParseRadiation(r io.Reader, source string, s Scale) (*hydro.FrequencyTable, error) {
	var rows []radiationRow
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 4 && len(fields) != 5 {
			return nil, &hydro.DataError{Source: source, Line: line,
				Reason: fmt.Sprintf("want 4 or 5 columns, got %d", len(fields))}
		}
		vals, err := parseFloats(fields)
		if err != nil {
			return nil, &hydro.DataError{Source: source, Line: line, Reason: err.Error()}
		}
		row := radiationRow{per: vals[0], a: vals[3], line: line}
		if len(vals) == 5 {
			row.b = vals[4]
		}
		if row.i, row.j, err = dofPair(vals[1], vals[2]); err != nil {
			return nil, &hydro.DataError{Source: source, Line: line, Reason: err.Error()}
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return buildRadiation(rows, source, s)
}

func buildRadiation(rows []radiationRow, source string, s Scale) (*hydro.FrequencyTable, error) {
	index := map[float64]int{}
	var omegas []float64
	for _, r := range rows {
		if r.per <= 0 {
			continue
		}
		w := 2 * math.Pi / r.per
		if _, ok := index[w]; !ok {
			index[w] = 0
			omegas = append(omegas, w)
		}
	}
	if len(omegas) == 0 {
		return nil, &hydro.DataError{Source: source, Reason: "no positive-period rows"}
	}
	sort.Float64s(omegas)
	for k, w := range omegas {
		index[w] = k
	}

	ft := &hydro.FrequencyTable{
		Omega: omegas,
		A:     make([]hydro.Mat6, len(omegas)),
		B:     make([]hydro.Mat6, len(omegas)),
	}
	for _, r := range rows {
		scale := s.Density * math.Pow(s.Length, radiationExponent(r.i, r.j))
		switch {
		case r.per < 0:
			continue
		case r.per == 0:
			ft.HasInf = true
			ft.AInf[r.i][r.j] = scale * r.a
			ft.BInf[r.i][r.j] = 0
		default:
			w := 2 * math.Pi / r.per
			k := index[w]
			ft.A[k][r.i][r.j] = scale * r.a
			ft.B[k][r.i][r.j] = scale * w * r.b
		}
	}
	if err := ft.Validate(); err != nil {
		return nil, err
	}
	return ft, nil
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %q is not a number", i+1, f)
		}
		vals[i] = v
	}
	return vals, nil
}

// dofIndex converts a one-based WAMIT mode number to a zero-based DOF.
func dofIndex(v float64) (int, error) {
	i := int(v)
	if float64(i) != v || i < 1 || i > hydro.NumDOF {
		return 0, fmt.Errorf("mode %g out of range 1..%d", v, hydro.NumDOF)
	}
	return i - 1, nil
}

func dofPair(a, b float64) (int, int, error) {
	i, err := dofIndex(a)
	if err != nil {
		return 0, 0, err
	}
	j, err := dofIndex(b)
	if err != nil {
		return 0, 0, err
	}
	return i, j, nil
}
