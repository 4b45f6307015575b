package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/dynamo"
)

func testResult() *dynamo.Result {
	x0 := make(dynamo.State, 12)
	x0[2] = 0.2
	x1 := make(dynamo.State, 12)
	x1[2] = 0.19
	x1[8] = -0.5
	return &dynamo.Result{
		States:   []dynamo.State{x0, x1},
		Controls: []dynamo.Control{{0, 0, -250, 0, 0, 0}},
		Times:    []float64{0.0, 0.01},
		Metrics:  map[string]float64{"energy": 1.5},
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Name = "test"
	cfg.Seed = 42
	return cfg
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", meta.Name)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Wave != "still" {
		t.Errorf("expected wave 'still', got '%s'", meta.Wave)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}

	result, err := st.LoadResult(runID)
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}
	if len(result.States) != 2 || len(result.Times) != 2 {
		t.Fatalf("expected 2 rows, got %d states and %d times", len(result.States), len(result.Times))
	}
	if len(result.States[1]) != 12 {
		t.Fatalf("expected 12 state columns, got %d", len(result.States[1]))
	}
	if result.States[1][2] != 0.19 || result.States[1][8] != -0.5 {
		t.Errorf("state values not preserved: %v", result.States[1])
	}
	if len(result.Controls) != 1 || result.Controls[0][2] != -250 {
		t.Errorf("controls not preserved: %v", result.Controls)
	}
	if result.Metrics["energy"] != 1.5 {
		t.Errorf("metrics not attached to loaded result")
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 || times[1] != 0.01 {
		t.Errorf("unexpected states %v times %v", states, times)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(testConfig(), testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "stray"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "states.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if !strings.HasPrefix(header, "time,surge,sway,heave") || !strings.Contains(header, "v_yaw,u_surge") {
		t.Errorf("unexpected header %q", header)
	}

	cfg, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Name != "test" || cfg.Body.Mass != config.DefaultMass {
		t.Errorf("config not round-tripped: %+v", cfg)
	}
}

func TestHeaderFallback(t *testing.T) {
	got := Header(3, 1)
	want := []string{"time", "x0", "x1", "x2", "u_surge"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExport(t *testing.T) {
	meta := &RunMetadata{ID: "r1", Name: "test", Wave: "regular", Dt: 0.01}
	result := testResult()

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, result); err != nil {
		t.Fatalf("export json failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Steps != 2 || data.Wave != "regular" || len(data.Columns) != 12 || data.Columns[0] != "surge" {
		t.Errorf("unexpected export %+v", data)
	}

	buf.Reset()
	if err := ExportCSV(&buf, result); err != nil {
		t.Fatalf("export csv failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if strings.Contains(lines[0], "u_") {
		t.Errorf("csv export should not carry controls: %q", lines[0])
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSONFile(path, meta, result); err != nil {
		t.Fatalf("export file failed: %v", err)
	}
}
