package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/buoydyn/internal/dynamo"
)

type ExportData struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Wave       string             `json:"wave"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Columns    []string           `json:"columns"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Controls   [][]float64        `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(meta *RunMetadata, result *dynamo.Result) ExportData {
	data := ExportData{
		ID:         meta.ID,
		Name:       meta.Name,
		Integrator: meta.Integrator,
		Controller: meta.Controller,
		Wave:       meta.Wave,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      len(result.Times),
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Controls:   make([][]float64, len(result.Controls)),
		Metrics:    result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Controls[i] = c
	}
	if len(result.States) > 0 {
		data.Columns = Header(len(result.States[0]), 0)[1:]
	}
	return data
}

// ExportJSON writes the run as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}

func ExportJSONFile(path string, meta *RunMetadata, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, result)
}

// ExportCSV writes time and state columns, without controls.
func ExportCSV(w io.Writer, result *dynamo.Result) error {
	cw := csv.NewWriter(w)
	if len(result.States) == 0 {
		return nil
	}
	if err := cw.Write(Header(len(result.States[0]), 0)); err != nil {
		return err
	}
	for i := range result.States {
		row := []string{formatFloat(result.Times[i])}
		for _, val := range result.States[i] {
			row = append(row, formatFloat(val))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
