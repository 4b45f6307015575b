package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/hydro"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	configFile   = "config.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Wave       string             `json:"wave"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the resolved
// configuration and the sampled trajectory. It returns the run id.
func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	now := time.Now()
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	wave := cfg.Wave.Type
	if wave == "" {
		wave = "still"
	}
	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Wave:       wave,
		Steps:      len(result.States),
		Metrics:    result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), absolutePaths(cfg)); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{"run": runID, "steps": meta.Steps}).Info("run saved")
	return runID, nil
}

// absolutePaths returns a copy of cfg whose coefficient files still resolve
// when the copy is read back from the run directory.
func absolutePaths(cfg *config.Config) *config.Config {
	c := *cfg
	for _, p := range []*string{&c.Hydro.Radiation, &c.Hydro.Excitation, &c.Hydro.TimeDomain, &c.Hydro.TimeDomainExcitation} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}
	return &c
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(result.States) == 0 {
		return nil
	}

	numControls := 0
	if len(result.Controls) > 0 {
		numControls = len(result.Controls[0])
	}
	if err := w.Write(Header(len(result.States[0]), numControls)); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{formatFloat(result.Times[i])}
		for _, val := range result.States[i] {
			row = append(row, formatFloat(val))
		}
		for j := 0; j < numControls; j++ {
			val := 0.0
			if i < len(result.Controls) && j < len(result.Controls[i]) {
				val = result.Controls[i][j]
			}
			row = append(row, formatFloat(val))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// Header names the CSV columns: time, the six positions, the six
// velocities prefixed v_ and the controls prefixed u_. States that are not
// position/velocity pairs fall back to x0, x1, ...
func Header(numStates, numControls int) []string {
	header := []string{"time"}
	if numStates == 2*hydro.NumDOF {
		for i := 0; i < hydro.NumDOF; i++ {
			header = append(header, hydro.DOFName(i))
		}
		for i := 0; i < hydro.NumDOF; i++ {
			header = append(header, "v_"+hydro.DOFName(i))
		}
	} else {
		for i := 0; i < numStates; i++ {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	for i := 0; i < numControls; i++ {
		header = append(header, "u_"+hydro.DOFName(i))
	}
	return header
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			log.WithError(err).WithField("dir", entry.Name()).Debug("skipping run directory")
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadConfig returns the configuration the run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadResult reads the trajectory back. Columns prefixed u_ become
// controls; every other column after time is part of the state.
func (s *Store) LoadResult(runID string) (*dynamo.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	result := &dynamo.Result{Metrics: map[string]float64{}}
	if len(records) < 2 {
		return result, nil
	}

	header := records[0]
	isControl := make([]bool, len(header))
	for j, name := range header {
		isControl[j] = strings.HasPrefix(name, "u_")
	}

	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s row %d: %w", runID, i+1, err)
		}
		var x dynamo.State
		var u dynamo.Control
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s row %d column %s: %w", runID, i+1, header[j], err)
			}
			if isControl[j] {
				u = append(u, val)
			} else {
				x = append(x, val)
			}
		}
		result.Times = append(result.Times, t)
		result.States = append(result.States, x)
		result.Controls = append(result.Controls, u)
	}
	// The last row carries padding, the simulator records one control per step.
	if hasControls(isControl) {
		result.Controls = result.Controls[:len(result.Controls)-1]
	} else {
		result.Controls = nil
	}
	result.StepsTaken = len(result.States) - 1

	if meta, err := s.Load(runID); err == nil && meta.Metrics != nil {
		result.Metrics = meta.Metrics
	}
	return result, nil
}

func hasControls(isControl []bool) bool {
	for _, c := range isControl {
		if c {
			return true
		}
	}
	return false
}

// LoadStates returns the state rows and their times.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	result, err := s.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	states := make([][]float64, len(result.States))
	for i, x := range result.States {
		states[i] = x
	}
	return states, result.Times, nil
}

// Column extracts one state component over time.
func Column(states [][]float64, idx int) []float64 {
	out := make([]float64, len(states))
	for i := range states {
		if idx < len(states[i]) {
			out[i] = states[i][idx]
		}
	}
	return out
}
