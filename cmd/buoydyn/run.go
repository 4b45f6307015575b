package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/buoydyn/internal/experiment"
	"github.com/san-kum/buoydyn/internal/hydro"
	"github.com/san-kum/buoydyn/internal/storage"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%s, %s wave)...\n", cfg.Name, cfg.Integrator, waveLabel(cfg.Wave.Type))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %.6g\n", name, result.Metrics[name])
	}
	return nil
}

func waveLabel(t string) string {
	if t == "" {
		return "still"
	}
	return t
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	fmt.Printf("%-14s  %-12s  %-12s  %-12s\n", "integrator", "final_heave", "energy_decay", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, name := range args {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Integrator = name

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		final := 0.0
		if n := len(result.States); n > 0 {
			final = result.States[n-1][hydro.Heave]
		}
		fmt.Printf("%-14s  %12.6f  %12.4f  %12.2f\n", name, final, result.Metrics["energy_decay"], float64(elapsed.Microseconds())/1000)
	}
	return nil
}
