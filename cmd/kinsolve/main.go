package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/kinsolve/internal/config"
	"github.com/san-kum/kinsolve/internal/kinematics"
	"github.com/san-kum/kinsolve/internal/storage"
	"github.com/san-kum/kinsolve/internal/tui"
	"github.com/san-kum/kinsolve/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const demoPreset = "light-speed"

var (
	dataDir string
	verbose bool
	logger  = zap.NewNop()

	initialVals string
	finalVals   string
	findVars    string
	configFile  string
	preset      string
	name        string
	samples     int
	tolerance   float64
	checkRun    bool
	saveRun     bool
	plotRun     bool
)

type solveOptions struct {
	check   bool
	plot    bool
	save    bool
	dataDir string
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "kinsolve",
		Short:        "constant-acceleration kinematics solver",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without a subcommand, solve the demonstration problem.
			return solve(cmd.OutOrStdout(), config.GetPreset(demoPreset), solveOptions{})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinsolve", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve for unknown variables",
		Example: "  kinsolve solve --initial s=0,t=0,v=0,a=9.8 --final v=3e8 --find t1,s1\n" +
			"  kinsolve solve --preset braking --check --plot",
		Args: cobra.NoArgs,
		RunE: runSolve,
	}
	solveCmd.Flags().StringVar(&initialVals, "initial", "", "known initial values, e.g. s=0,t=0,v=0,a=9.8")
	solveCmd.Flags().StringVar(&finalVals, "final", "", "known final values, e.g. v=3e8")
	solveCmd.Flags().StringVar(&findVars, "find", "", "targets in solve order, e.g. t1,s1")
	solveCmd.Flags().StringVar(&configFile, "config", "", "problem file path (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "use a built-in problem")
	solveCmd.Flags().StringVar(&name, "name", "", "problem name for saved runs")
	solveCmd.Flags().IntVar(&samples, "samples", kinematics.DefaultSamples, "profile samples")
	solveCmd.Flags().Float64Var(&tolerance, "tol", kinematics.DefaultTolerance, "relative tolerance for --check")
	solveCmd.Flags().BoolVar(&checkRun, "check", false, "check the solved state against the equations")
	solveCmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")
	solveCmd.Flags().BoolVar(&plotRun, "plot", false, "plot s(t) and v(t)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPresets(cmd.OutOrStdout())
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd.OutOrStdout(), storage.New(dataDir))
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(cmd.OutOrStdout(), storage.New(dataDir), args[0])
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return plotSaved(cmd.OutOrStdout(), storage.New(dataDir), args[0])
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run profile to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := storage.New(dataDir).LoadProfile(args[0])
			if err != nil {
				return err
			}
			return storage.ExportCSV(cmd.OutOrStdout(), p)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			p, err := st.LoadProfile(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(cmd.OutOrStdout(), meta, p)
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive solver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive(logger)
		},
	}

	rootCmd.AddCommand(solveCmd, presetsCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return solve(cmd.OutOrStdout(), cfg, solveOptions{
		check:   checkRun,
		plot:    plotRun,
		save:    saveRun,
		dataDir: dataDir,
	})
}

// buildConfig layers defaults, the preset, the problem file and explicit
// flags, later ones winning.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Merge(p)
	}

	if configFile != "" {
		file, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.Merge(file)
	}

	flags := &config.Config{}
	if cmd.Flags().Changed("initial") {
		vals, err := parseAssignments(initialVals)
		if err != nil {
			return nil, fmt.Errorf("--initial: %w", err)
		}
		flags.Initial = vals
	}
	if cmd.Flags().Changed("final") {
		vals, err := parseAssignments(finalVals)
		if err != nil {
			return nil, fmt.Errorf("--final: %w", err)
		}
		flags.Final = vals
	}
	if cmd.Flags().Changed("find") {
		flags.Find = parseList(findVars)
	}
	if cmd.Flags().Changed("name") {
		flags.Name = name
	}
	if cmd.Flags().Changed("samples") {
		flags.Samples = samples
	}
	if cmd.Flags().Changed("tol") {
		flags.Tolerance = tolerance
	}
	cfg.Merge(flags)

	return cfg, nil
}

// solve runs cfg and prints the states, the solutions and whatever opts ask for.
func solve(w io.Writer, cfg *config.Config, opts solveOptions) error {
	problem, err := cfg.Problem()
	if err != nil {
		return err
	}

	logger.Debug("solving",
		zap.String("name", cfg.Name),
		zap.Any("initial", cfg.Initial),
		zap.Any("final", cfg.Final),
		zap.Strings("find", cfg.Find))

	res, err := kinematics.NewSolver(logger).Run(problem)
	if res != nil {
		fmt.Fprintln(w, viz.Title(cfg.Name))
		fmt.Fprintln(w, viz.StateTable(res.Initial, res.Final, res.Solutions))
		if len(res.Solutions) > 0 {
			fmt.Fprintln(w, viz.SolutionTable(res.Solutions))
		}
	}
	if err != nil {
		var rerr *kinematics.ResolveError
		if errors.As(err, &rerr) {
			logger.Warn("unresolved", zap.Stringer("target", rerr.Target), zap.Int("index", rerr.Index))
		}
		return err
	}

	profile, perr := kinematics.NewProfile(res.Initial, res.Final, cfg.Samples)
	if perr != nil {
		logger.Debug("no profile", zap.Error(perr))
	}

	if opts.check {
		residuals := kinematics.Check(res.Initial, res.Final, cfg.Tolerance)
		fmt.Fprintln(w, viz.ResidualTable(residuals))
		if !kinematics.Consistent(residuals) {
			fmt.Fprintln(w, viz.WarnText.Render("state is inconsistent"))
		}
	}

	if opts.plot {
		if profile == nil {
			fmt.Fprintln(w, viz.Subtle.Render("no plot: "+perr.Error()))
		} else {
			fmt.Fprintln(w, viz.PlotProfile(profile, 0, 0))
		}
	}

	if opts.save {
		st := storage.New(opts.dataDir)
		if err := st.Init(); err != nil {
			return fmt.Errorf("failed to init storage: %w", err)
		}
		runID, err := st.Save(cfg.Name, res, profile)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("run saved", zap.String("id", runID), zap.String("dir", opts.dataDir))
		fmt.Fprintf(w, "saved: %s\n", runID)
	}

	return nil
}

func listPresets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tINITIAL\tFINAL\tFIND")
	for _, n := range config.ListPresets() {
		p := config.GetPreset(n)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			n, formatAssignments(p.Initial), formatAssignments(p.Final), strings.Join(p.Find, ","))
	}
	return tw.Flush()
}

func listRuns(w io.Writer, st *storage.Store) error {
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTIME\tFIND\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			strings.Join(run.Find, ","),
			run.Samples,
		)
	}

	return tw.Flush()
}

func showRun(w io.Writer, st *storage.Store, runID string) error {
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	res, err := meta.Result()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, viz.Title(meta.Name))
	fmt.Fprintf(w, "run: %s\n", meta.ID)
	fmt.Fprintf(w, "time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, viz.StateTable(res.Initial, res.Final, res.Solutions))
	if len(res.Solutions) > 0 {
		fmt.Fprintln(w, viz.SolutionTable(res.Solutions))
	}
	return nil
}

func plotSaved(w io.Writer, st *storage.Store, runID string) error {
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	p, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}
	if p.Len() == 0 {
		return fmt.Errorf("run %s has no profile to plot", runID)
	}

	fmt.Fprintf(w, "run: %s\n", meta.ID)
	fmt.Fprintf(w, "samples: %d\n\n", p.Len())
	fmt.Fprintln(w, viz.PlotProfile(p, 0, 0))
	return nil
}

// parseAssignments reads "s=0,t=0,v=0" into a value map.
func parseAssignments(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, part := range parseList(s) {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", part)
		}
		key = strings.TrimSpace(key)
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatAssignments(m map[string]float64) string {
	parts := make([]string, 0, len(m))
	for _, n := range kinematics.Names {
		if v, ok := m[n.String()]; ok {
			parts = append(parts, n.String()+"="+viz.FormatValue(v))
		}
	}
	return strings.Join(parts, ",")
}
