package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/buoydyn/internal/automation"
	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/experiment"
	"github.com/san-kum/buoydyn/internal/optim"
	"github.com/san-kum/buoydyn/internal/storage"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	metricName string
	stiffness  []float64
	damping    []float64
	trials     int
)

func addBatchCommands(root *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report a metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "wave.period", "parameter, see config.ListParams")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 3, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 12, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "peak_heave", "metric to report")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search PTO stiffness and damping for absorbed power",
		Args:  cobra.NoArgs,
		RunE:  tunePTO,
	}
	addModelFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&stiffness, "stiffness", []float64{0}, "PTO stiffness values (N/m)")
	tuneCmd.Flags().Float64SliceVar(&damping, "damping", []float64{5e3, 1e4, 2e4, 4e4}, "PTO damping values (N·s/m)")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat an irregular sea with successive seeds",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addModelFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 10, "number of trials")
	mcCmd.Flags().StringVar(&metricName, "metric", "peak_heave", "metric to summarise")

	root.AddCommand(scenarioCmd, sweepCmd, tuneCmd, mcCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	_, err = automation.RunScenario(context.Background(), sc, experiment.NewRegistry(), func(cfg *config.Config, result *dynamo.Result) error {
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("  %-20s %s\n", cfg.Name, runID)
		return nil
	})
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", sweepParam, metricName)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.6g\n", r.ParamValue, r.Metrics[metricName])
	}
	return w.Flush()
}

func tunePTO(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Controller = "pto"

	g := optim.NewGridSearch([]string{"pto.stiffness", "pto.damping"}, [][]float64{stiffness, damping})
	g.Maximize = true
	best, val, points, err := g.Search(context.Background(), cfg, experiment.NewRegistry(), "absorbed_power")
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STIFFNESS\tDAMPING\tPOWER (W)")
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%.4g\t%.4g\terror: %v\n", p.Params["pto.stiffness"], p.Params["pto.damping"], p.Err)
			continue
		}
		fmt.Fprintf(w, "%.4g\t%.4g\t%.6g\n", p.Params["pto.stiffness"], p.Params["pto.damping"], p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: stiffness %.4g damping %.4g -> %.6g W\n", best["pto.stiffness"], best["pto.damping"], val)
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("wave") && cfg.Wave.Type != "irregular" {
		cfg.Wave.Type = "irregular"
	}

	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Seed:      cfg.Seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	mean, std := automation.MetricStats(results, metricName)
	fmt.Printf("trials: %d (stable %d, unstable %d)\n", len(results), stable, unstable)
	fmt.Printf("%s: mean %.6g, std %.6g\n", metricName, mean, std)

	return nil
}
