package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/iskawarran/lessonplay/internal/catalog"
	"github.com/iskawarran/lessonplay/internal/config"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/iskawarran/lessonplay/internal/logging"
	"github.com/iskawarran/lessonplay/internal/play"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type RunnerConfig struct {
	ConfigPath string
	Catalog    []string
	Seed       uint64
	Verbose    bool
	Accuracy   float64
	FailKinds  []string
	Write      bool
	ReportDir  string
	Strict     bool
}

// runner holds what every command needs once flags and config are resolved.
type runner struct {
	flags   RunnerConfig
	cfg     *config.Config
	log     *zap.Logger
	catalog *catalog.Catalog
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	r := &runner{}

	root := &cobra.Command{
		Use:          "lessonplay",
		Short:        "Play and simulate language lessons",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if r.log != nil {
				_ = r.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&r.flags.ConfigPath, "config", config.DefaultPath, "config file")
	root.PersistentFlags().StringSliceVar(&r.flags.Catalog, "catalog", nil, "lesson files or directories (default: embedded catalog)")
	root.PersistentFlags().Uint64Var(&r.flags.Seed, "seed", 0, "random seed (0 = random)")
	root.PersistentFlags().BoolVarP(&r.flags.Verbose, "verbose", "v", false, "debug logging")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play lessons in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.play(cmd.Context())
		},
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate <lesson>",
		Short: "Run a lesson with a scripted player and report the sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := r.simulate(cmd.Context(), args[0])
			printSummary(formatSimulationLines(result), err)
			return err
		},
	}
	simulateCmd.Flags().Float64Var(&r.flags.Accuracy, "accuracy", 1, "chance that the scripted player passes a round (0-1)")
	simulateCmd.Flags().StringSliceVar(&r.flags.FailKinds, "fail-kind", nil, "game kinds the scripted player always fails")
	simulateCmd.Flags().BoolVar(&r.flags.Write, "write", false, "write JSON, YAML and markdown reports")
	simulateCmd.Flags().StringVar(&r.flags.ReportDir, "report-dir", "", "report directory (default from config)")

	lessonsCmd := &cobra.Command{
		Use:   "lessons",
		Short: "List the catalog's lessons by section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := r.builder()
			if err != nil {
				return err
			}
			printSummary(formatLessonLines(r.catalog, builder), nil)
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the lesson catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runCheck(r.catalog, r.flags.Strict)
			printSummary(formatCheckLines(result), err)
			return err
		},
	}
	checkCmd.Flags().BoolVar(&r.flags.Strict, "strict", false, "fail on rejects and missing optional fields")

	root.AddCommand(playCmd, simulateCmd, lessonsCmd, checkCmd)
	return root
}

// setup loads the config, applies flag overrides and builds the logger and
// the catalog.
func (r *runner) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(r.flags.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog = r.flags.Catalog
	}
	if flags.Changed("seed") {
		cfg.Seed = r.flags.Seed
	}
	if r.flags.Verbose {
		cfg.Logging.Level = "debug"
	}
	if r.flags.ReportDir != "" {
		cfg.ReportDir = r.flags.ReportDir
	}
	r.cfg = cfg

	// The player draws on the terminal, so it only logs to a file.
	newLogger := logging.New
	if cmd.Name() == "play" {
		newLogger = logging.NewFileOnly
	}
	if r.log, err = newLogger(cfg.Logging); err != nil {
		return err
	}

	if r.catalog, err = catalog.Load(cfg.Catalog...); err != nil {
		return err
	}
	r.log.Debug("catalog loaded",
		zap.Int("lessons", r.catalog.Len()),
		zap.Int("rejects", len(r.catalog.Rejects())))
	return nil
}

func (r *runner) builder(opts ...lesson.Option) (*lesson.Builder, error) {
	registry, err := r.cfg.Registry()
	if err != nil {
		return nil, err
	}
	base := []lesson.Option{
		lesson.WithRegistry(registry),
		lesson.WithRand(r.cfg.Rand()),
		lesson.WithLogger(r.log),
	}
	return lesson.NewBuilder(append(base, opts...)...), nil
}

func (r *runner) play(ctx context.Context) error {
	if r.catalog.Len() == 0 {
		return errors.New("no lessons to play")
	}
	builder, err := r.builder()
	if err != nil {
		return err
	}
	m := play.New(r.catalog, builder, play.WithLogger(r.log), play.WithRand(r.cfg.Rand()))
	return play.Run(ctx, m)
}

func (r *runner) simulate(ctx context.Context, key string) (SimulationResult, error) {
	d, err := r.catalog.Lesson(key)
	if err != nil {
		return SimulationResult{}, err
	}
	kinds, err := parseKinds(r.flags.FailKinds)
	if err != nil {
		return SimulationResult{}, err
	}
	registry, err := r.cfg.Registry()
	if err != nil {
		return SimulationResult{}, err
	}
	result, err := runSimulation(ctx, SimulationConfig{
		Lesson:    d,
		Seed:      r.cfg.Seed,
		Accuracy:  r.flags.Accuracy,
		FailKinds: kinds,
		Registry:  registry,
		Log:       r.log,
	})
	if err != nil {
		return result, err
	}
	if r.flags.Write {
		if err := writeReports(r.cfg.ReportDir, &result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func parseKinds(names []string) ([]lesson.Kind, error) {
	kinds := make([]lesson.Kind, 0, len(names))
	for _, name := range names {
		k := lesson.Kind(strings.TrimSpace(name))
		if !k.Known() {
			return nil, fmt.Errorf("--fail-kind %q: %w", name, lesson.ErrUnknownKind)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func printSummary(lines []string, runErr error) {
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "❌"):
			color.New(color.FgHiRed).Println(line)
		case strings.HasPrefix(line, "⚠️"):
			color.New(color.FgYellow).Println(line)
		case strings.HasPrefix(line, "✅"):
			color.New(color.FgGreen).Println(line)
		case strings.HasPrefix(line, "🚫"):
			color.New(color.FgRed).Println(line)
		case strings.HasPrefix(line, "✨"):
			color.New(color.FgHiCyan).Println(line)
		case strings.HasPrefix(line, "📚"):
			color.New(color.FgHiYellow, color.Bold).Println(line)
		default:
			color.New(color.FgWhite).Println(line)
		}
	}
	if runErr != nil {
		color.New(color.FgHiRed).Printf("error: %v\n", runErr)
	}
}
