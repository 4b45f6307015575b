package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/buoydyn/internal/analysis"
	"github.com/san-kum/buoydyn/internal/export"
	"github.com/san-kum/buoydyn/internal/hydro"
	"github.com/san-kum/buoydyn/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tWAVE\tDURATION\tDT\tINTEG\tCTRL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Wave,
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(states))

	plotted := 0
	for dof := 0; dof < hydro.NumDOF && dof < len(states[0]); dof++ {
		data := storage.Column(states, dof)
		if !moves(data) {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(hydro.DOFName(dof)+" vs time"),
		))
		fmt.Println()
		plotted++
	}
	if plotted == 0 {
		fmt.Println("body stayed at rest")
	}
	return nil
}

func moves(data []float64) bool {
	for _, v := range data {
		if v != data[0] {
			return true
		}
	}
	return false
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	dof, err := parseDOF(dofName)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 || len(states[0]) <= dof {
		return fmt.Errorf("no data")
	}

	data := storage.Column(states, dof)
	sp := analysis.NewSpectrum(data, meta.Dt)

	fmt.Printf("frequency analysis: %s (%s)\n\n", meta.ID, hydro.DOFName(dof))

	// Motions of interest sit well below the Nyquist frequency.
	plotData := sp.Amplitude
	if len(plotData) > 8 {
		plotData = plotData[:len(plotData)/4]
	}
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("amplitude spectrum ("+hydro.DOFName(dof)+")"),
	))
	fmt.Println()

	w := sp.Dominant()
	fmt.Printf("dominant frequency: %.3f rad/s\n", w)
	if p := sp.Period(); p > 0 {
		fmt.Printf("period: %.3f s\n", p)
	}
	fmt.Printf("significant height: %.4f\n", analysis.SignificantHeight(data))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	dof, err := parseDOF(dofName)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return export.WriteSeries(out, times, storage.Column(states, dof), 800, 300, "#00d7af")
}
