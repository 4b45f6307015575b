package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/hydro"
)

var (
	dataDir string
	verbose bool

	// Model selection, shared by every command that builds a model.
	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	controller string
	waveType   string
	amplitude  float64
	period     float64
	heading    float64
	hs         float64
	tp         float64
	heave      float64

	// Inspection flags.
	dofName string
	omegaLo float64
	omegaHi float64
	points  int
	svgPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "buoydyn",
		Short: "time-domain hydrodynamics of a floating buoy",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			if verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".buoydyn", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a time-domain simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addModelFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "show the prepared model",
		Args:  cobra.NoArgs,
		RunE:  showInfo,
	}
	addModelFlags(infoCmd)

	kernelsCmd := &cobra.Command{
		Use:   "kernels",
		Short: "plot radiation and excitation impulse responses",
		Args:  cobra.NoArgs,
		RunE:  plotKernels,
	}
	addModelFlags(kernelsCmd)
	kernelsCmd.Flags().StringVar(&dofName, "dof", "heave", "degree of freedom")

	raoCmd := &cobra.Command{
		Use:   "rao",
		Short: "frequency-domain response amplitude operator",
		Args:  cobra.NoArgs,
		RunE:  plotRAO,
	}
	addModelFlags(raoCmd)
	raoCmd.Flags().StringVar(&dofName, "dof", "heave", "degree of freedom")
	raoCmd.Flags().Float64Var(&omegaLo, "wmin", 0.2, "lowest angular frequency (rad/s)")
	raoCmd.Flags().Float64Var(&omegaHi, "wmax", 4.0, "highest angular frequency (rad/s)")
	raoCmd.Flags().IntVar(&points, "points", 80, "number of frequencies")

	forcesCmd := &cobra.Command{
		Use:   "forces",
		Short: "force breakdown at the initial state",
		Args:  cobra.NoArgs,
		RunE:  showForces,
	}
	addModelFlags(forcesCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := config.ListGroups()
			if len(args) > 0 {
				groups = args
			}
			for _, g := range groups {
				names := config.ListPresets(g)
				if len(names) == 0 {
					return fmt.Errorf("no presets in group %q (available: %v)", g, config.ListGroups())
				}
				fmt.Printf("%s:\n", g)
				for _, n := range names {
					fmt.Printf("  %s/%s\n", g, n)
				}
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored positions",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&dofName, "dof", "heave", "degree of freedom")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run states to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render one degree of freedom of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&dofName, "dof", "heave", "degree of freedom")
	exportSVGCmd.Flags().StringVarP(&svgPath, "out", "o", "", "output file, stdout when empty")

	rootCmd.AddCommand(runCmd, compareCmd, liveCmd, infoCmd, kernelsCmd, raoCmd, forcesCmd,
		presetsCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	addBatchCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	f.StringVar(&preset, "preset", "", "preset as group/name, see 'presets'")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.Int64Var(&seed, "seed", 0, "random seed for irregular seas")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.StringVar(&controller, "controller", "none", "controller")
	f.StringVar(&waveType, "wave", "still", "wave type: still, regular or irregular")
	f.Float64Var(&amplitude, "amplitude", 0.5, "regular wave amplitude (m)")
	f.Float64Var(&period, "period", 6, "regular wave period (s)")
	f.Float64Var(&heading, "heading", 0, "wave heading (deg)")
	f.Float64Var(&hs, "hs", 1, "significant wave height (m)")
	f.Float64Var(&tp, "tp", 8, "peak period (s)")
	f.Float64Var(&heave, "heave", 0.2, "initial heave offset (m)")
}

// loadConfig layers defaults, the preset, the config file and explicitly
// set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		group, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be group/name, got %q", preset)
		}
		cfg = config.GetPreset(group, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available in %s: %v)", preset, group, config.ListPresets(group))
		}
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("wave") {
		cfg.Wave.Type = waveType
	}
	if flags.Changed("amplitude") {
		cfg.Wave.Amplitude = amplitude
	}
	if flags.Changed("period") {
		cfg.Wave.Period = period
	}
	if flags.Changed("heading") {
		cfg.Wave.Heading = heading
	}
	if flags.Changed("hs") {
		cfg.Wave.Hs = hs
	}
	if flags.Changed("tp") {
		cfg.Wave.Tp = tp
	}
	if flags.Changed("heave") {
		cfg.InitState.Position[hydro.Heave] = heave
	}
	return cfg, nil
}

func parseDOF(name string) (int, error) {
	for i := 0; i < hydro.NumDOF; i++ {
		if strings.EqualFold(name, hydro.DOFName(i)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown degree of freedom %q", name)
}
