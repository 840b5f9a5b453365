package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/treedrift/internal/automation"
	"github.com/san-kum/treedrift/internal/config"
	"github.com/san-kum/treedrift/internal/experiment"
	"github.com/san-kum/treedrift/internal/export"
	"github.com/san-kum/treedrift/internal/grove"
	"github.com/san-kum/treedrift/internal/session"
	"github.com/san-kum/treedrift/internal/storage"
	"github.com/san-kum/treedrift/internal/sweep"
	"github.com/san-kum/treedrift/internal/viz"
)

var (
	dataDir string
	verbose bool

	configFile  string
	preset      string
	side        int
	numSpecies  int
	seed        int64
	batchSize   int
	sampleEvery int
	interval    int
	split       float64
	poaching    float64
	maxSteps    int

	steps          int
	stopOnFixation bool
	frameRate      int
	numRuns        int
	workers        int
	outFile        string
	scale          float64
	sweepParam     string
	sweepValues    []float64
)

// main registers commands and flags and executes the root command. With no
// subcommand it opens the live terminal view of plain drift.
func main() {
	rootCmd := &cobra.Command{
		Use:   "treedrift",
		Short: "ecological drift lab on a grid of trees",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".treedrift", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "run a headless simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addWorldFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 100000, "step limit (0 defers to the competition ceiling)")
	runCmd.Flags().BoolVar(&stopOnFixation, "stop-on-fixation", true, "stop once a single species remains")

	liveCmd := &cobra.Command{
		Use:   "live [variant]",
		Short: "run a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addWorldFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "batches per second")
	addWorldFlags(rootCmd)
	rootCmd.Flags().IntVar(&frameRate, "fps", 30, "batches per second")

	guiCmd := &cobra.Command{
		Use:   "gui [variant]",
		Short: "run a simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args)
			if err != nil {
				return err
			}
			return runGUI(s)
		},
	}
	addWorldFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's census",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and census to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's census to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's final grid as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().Float64Var(&scale, "scale", 20, "pixels per cell")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "chart a run's census as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.png)")

	presetsCmd := &cobra.Command{
		Use:   "presets [variant]",
		Short: "list available presets for a variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for variant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [variant]",
		Short: "run seeded replicates in parallel and summarize time to fixation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addWorldFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&steps, "steps", 100000, "step limit per replicate")
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 20, "number of replicates")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 uses GOMAXPROCS)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [variant]",
		Short: "run an ensemble at each value of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addWorldFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "split", fmt.Sprintf("parameter to sweep %v", sweep.Params()))
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", []float64{10, 30, 50, 70, 90}, "parameter values")
	sweepCmd.Flags().IntVar(&steps, "steps", 100000, "step limit per replicate")
	sweepCmd.Flags().IntVar(&numRuns, "runs", 10, "replicates per value")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 uses GOMAXPROCS)")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "replay a scripted session scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, exportPNGCmd, presetsCmd, ensembleCmd, sweepCmd, scriptCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addWorldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&side, "side", config.DefaultSide, "grid side length")
	cmd.Flags().IntVar(&numSpecies, "species", 0, "number of species (0 uses the variant default)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&batchSize, "batch", config.DefaultBatchSize, "steps per batch")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "census sample period in steps (0 samples once per batch)")
	cmd.Flags().IntVar(&interval, "interval", grove.DefaultImmigrationInterval, "immigration interval")
	cmd.Flags().Float64Var(&split, "split", grove.DefaultResourceSplit, "resource split percent for species A")
	cmd.Flags().Float64Var(&poaching, "poaching", grove.DefaultPoaching, "poaching coefficient")
	cmd.Flags().IntVar(&maxSteps, "max-steps", grove.DefaultMaxSteps, "competition step ceiling")
}

// buildConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Variant = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Variant, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Variant))
		}
		copied := *p
		cfg = &copied
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Variant = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("side") {
		cfg.Side = side
	}
	if flags.Changed("species") {
		cfg.NumSpecies = numSpecies
	}
	if flags.Changed("batch") {
		cfg.BatchSize = batchSize
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("interval") {
		cfg.Immigration.Interval = interval
	}
	if flags.Changed("split") {
		cfg.Competition.ResourceSplit = split
	}
	if flags.Changed("poaching") {
		cfg.Competition.Poaching = poaching
	}
	if flags.Changed("max-steps") {
		cfg.Competition.MaxSteps = maxSteps
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

func newSession(cmd *cobra.Command, args []string) (*session.Session, error) {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	return session.New(*cfg, experiment.NewRegistry())
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(*cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	exp.StopOnFixation = stopOnFixation

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s on a %dx%d grid...\n", cfg.Variant, cfg.Side, cfg.Side)
	result, err := exp.Run(ctx, steps)
	if err != nil {
		return err
	}

	runID, err := st.Save(result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("stop: %s\n", result.Stop)
	fmt.Printf("survivors: %s\n", strings.Join(result.Survivors(), " "))
	if cfg.Variant == "distancing" {
		fmt.Printf("vacant: %d\n", result.Vacant)
	}
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(s, frameRate))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	ens := experiment.NewEnsemble(experiment.NewRegistry(), *cfg, numRuns, cfg.Seed, steps)
	if workers > 0 {
		ens.Workers = workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}
	sum := experiment.Summarize(results)

	fmt.Printf("%s: %d replicates in %v\n", cfg.Variant, sum.Runs, time.Since(start).Round(time.Millisecond))
	fmt.Printf("fixed: %d/%d\n", sum.Fixed, sum.Runs)
	fmt.Printf("steps: mean %.0f  min %d  max %d\n", sum.MeanSteps, sum.MinSteps, sum.MaxSteps)
	if len(sum.Wins) > 0 {
		fmt.Println("\nwins:")
		for _, sp := range cfg.SpeciesSet() {
			if n := sum.Wins[sp.Name]; n > 0 {
				fmt.Printf("  %-6s %d\n", sp.Name, n)
			}
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	sw, err := sweep.New(sweepParam, sweepValues)
	if err != nil {
		return err
	}
	sw.Runs = numRuns
	sw.MaxSteps = steps
	sw.Workers = workers

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := sw.Run(ctx, experiment.NewRegistry(), *cfg)
	if err != nil {
		return err
	}

	species := cfg.SpeciesSet()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{strings.ToUpper(sweepParam), "FIXED", "MEAN STEPS"}
	for _, sp := range species {
		header = append(header, "WINS "+sp.Name)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, p := range points {
		row := []string{
			fmt.Sprintf("%g", p.Value),
			fmt.Sprintf("%d/%d", p.Summary.Fixed, p.Summary.Runs),
			fmt.Sprintf("%.0f", p.Summary.MeanSteps),
		}
		for _, sp := range species {
			row = append(row, fmt.Sprintf("%d", p.Summary.Wins[sp.Name]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if scenario.Name != "" {
		fmt.Printf("scenario: %s\n", scenario.Name)
	}
	snaps, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tACTION\tSTATE\tSTEP\tSTOP\tCENSUS")
	for i, snap := range snaps {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%v\n", i+1, snap.Action, snap.State, snap.Clock, snap.Stop, snap.Counts)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

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
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tSIDE\tSTEPS\tSTOP\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Side,
			run.Steps,
			run.Stop,
			run.Seed,
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

	tl, err := st.LoadTimeline(runID)
	if err != nil {
		return err
	}

	if len(tl.Samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", len(tl.Samples))

	species := meta.SpeciesSet()
	series := make([][]float64, 0, species.Len())
	names := make([]string, 0, species.Len())
	for i, sp := range species {
		series = append(series, tl.Series(grove.SpeciesID(i)))
		names = append(names, sp.Name)
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("census: "+strings.Join(names, " ")),
	)
	fmt.Println(graph)
	fmt.Println()
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tl, err := st.LoadTimeline(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, tl)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tl, err := st.LoadTimeline(runID)
	if err != nil {
		return err
	}

	if len(tl.Samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteCensusCSV(csv.NewWriter(os.Stdout), meta.SpeciesSet(), tl)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	g, species, err := st.LoadGrid(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.GridSVG(f, g, species, scale); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tl, err := st.LoadTimeline(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".png"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	title := fmt.Sprintf("%s %dx%d seed %d", meta.Variant, meta.Side, meta.Side, meta.Seed)
	if err := export.TimelinePNG(f, tl, meta.SpeciesSet(), title); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
