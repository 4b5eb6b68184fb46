// Package main provides the command-line interface for the matchmaking
// simulator. It parses flags, loads a run configuration, executes a
// single full run (it has no parameter-probe mode), exports a report, and
// optionally shows a live tview/tcell convergence dashboard.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/engine"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/journal"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/player"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/runconfig"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simulation"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/tui"
)

// Version information, set by the build process.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// ErrorCode is a CLI exit code.
type ErrorCode int

const (
	ExitSuccess ErrorCode = iota
	ExitUsageError
	ExitConfigError
	ExitSimulationError
	ExitExportError
)

// CLIError is an error with an associated exit code.
type CLIError struct {
	Code    ErrorCode
	Message string
}

func (e *CLIError) Error() string { return e.Message }

func formatErrorJSON(err *CLIError) string {
	obj := map[string]any{
		"error": map[string]any{
			"code":    err.Code,
			"message": err.Message,
		},
	}
	b, _ := json.MarshalIndent(obj, "", "  ")
	return string(b)
}

// Options are the CLI flags.
type Options struct {
	ConfigFile string `long:"config" short:"c" description:"YAML run configuration file"`

	N        int    `long:"n" description:"Population size"`
	Games    int    `long:"games" description:"Number of matches to simulate"`
	Seed     uint64 `long:"seed" description:"RNG seed"`
	Strategy string `long:"strategy" description:"Strategy: naive|elo|tweaked_elo|tweaked2_elo|gaussian"`

	KFactor       float64 `long:"k-factor" description:"Elo K factor"`
	KBase         float64 `long:"k-base" description:"TweakedElo/Tweaked2Elo base K"`
	KMin          float64 `long:"k-min" description:"TweakedElo/Tweaked2Elo minimum K"`
	GamesDivisor  float64 `long:"games-divisor" description:"TweakedElo/Tweaked2Elo games divisor"`
	Coefficient   float64 `long:"coefficient" description:"Tweaked2Elo loser-delta coefficient"`
	WindowPerSide int     `long:"window" description:"Rating-index window half-width"`

	OutputFile   string `long:"output" short:"o" description:"Report output file path"`
	OutputFormat string `long:"format" description:"Report output format: csv|json"`
	PlayersFile  string `long:"players-output" description:"Optional per-player table output file path"`
	LogFile      string `long:"log" description:"Optional durable diagnostic event log path"`

	UI      bool `long:"ui" description:"Show a live convergence dashboard"`
	Verbose bool `long:"verbose" short:"v" description:"Enable verbose logging"`
	Version bool `long:"version" description:"Show version information"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if cliErr, ok := err.(*CLIError); ok {
			fmt.Fprintln(os.Stderr, formatErrorJSON(cliErr))
			os.Exit(int(cliErr.Code))
		}
		log.Fatal(err)
	}
}

func run(args []string) error {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS]"

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return &CLIError{Code: ExitUsageError, Message: fmt.Sprintf("invalid arguments: %v", err)}
	}

	if opts.Version {
		fmt.Printf("matchsim %s (built %s, commit %s)\n", Version, BuildDate, GitCommit)
		return nil
	}

	if opts.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return &CLIError{Code: ExitConfigError, Message: err.Error()}
	}

	if opts.UI {
		return runWithDashboard(cfg, opts)
	}
	return runHeadless(cfg, opts)
}

func loadConfig(opts Options) (runconfig.RunConfig, error) {
	cfg := runconfig.Default()
	if opts.ConfigFile != "" {
		fileCfg, err := runconfig.LoadFile(opts.ConfigFile)
		if err != nil {
			return runconfig.RunConfig{}, err
		}
		cfg = fileCfg
	}

	overrides := runconfig.CLIOverrides{}
	if opts.N != 0 {
		overrides.N = &opts.N
	}
	if opts.Games != 0 {
		overrides.Games = &opts.Games
	}
	if opts.Seed != 0 {
		overrides.Seed = &opts.Seed
	}
	if opts.Strategy != "" {
		overrides.Strategy = &opts.Strategy
	}
	if opts.KFactor != 0 {
		overrides.KFactor = &opts.KFactor
	}
	if opts.KBase != 0 {
		overrides.KBase = &opts.KBase
	}
	if opts.KMin != 0 {
		overrides.KMin = &opts.KMin
	}
	if opts.GamesDivisor != 0 {
		overrides.GamesDivisor = &opts.GamesDivisor
	}
	if opts.Coefficient != 0 {
		overrides.Coefficient = &opts.Coefficient
	}
	if opts.WindowPerSide != 0 {
		overrides.WindowPerSide = &opts.WindowPerSide
	}
	if opts.OutputFile != "" {
		overrides.OutputFile = &opts.OutputFile
	}
	if opts.OutputFormat != "" {
		overrides.OutputFormat = &opts.OutputFormat
	}
	cfg = runconfig.ApplyCLIOverrides(cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return runconfig.RunConfig{}, err
	}
	return cfg, nil
}

func runHeadless(cfg runconfig.RunConfig, opts Options) error {
	sink, closeSink, err := buildSink(opts)
	if err != nil {
		return &CLIError{Code: ExitSimulationError, Message: err.Error()}
	}
	defer closeSink()

	result, err := engine.Run(cfg, engine.RunOptions{Sink: sink})
	if err != nil {
		return &CLIError{Code: ExitSimulationError, Message: err.Error()}
	}

	return exportResult(result, cfg, opts)
}

// buildSink returns the diagnostic sink a run should use: a LogrusSink
// alone, or one teed into a durable event log when --log was passed.
func buildSink(opts Options) (simerr.DiagnosticSink, func(), error) {
	logrusSink := journal.NewLogrusSink(nil, "")
	if opts.LogFile == "" {
		return logrusSink, func() {}, nil
	}
	events, err := journal.NewEventLog("", opts.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return dualSink{events, logrusSink}, func() { events.Close() }, nil
}

type dualSink struct {
	a, b simerr.DiagnosticSink
}

func (d dualSink) NumericFailure(matchIndex int, strategy string, err error) {
	d.a.NumericFailure(matchIndex, strategy, err)
	d.b.NumericFailure(matchIndex, strategy, err)
}

func (d dualSink) PairingFallback(matchIndex int, playerID int) {
	d.a.PairingFallback(matchIndex, playerID)
	d.b.PairingFallback(matchIndex, playerID)
}

func runWithDashboard(cfg runconfig.RunConfig, opts Options) error {
	progress := make(chan simulation.Progress, 64)
	storeReady := make(chan *player.Store, 1)

	type runOutcome struct {
		result engine.RunResult
		err    error
	}
	done := make(chan runOutcome, 1)

	sink, closeSink, err := buildSink(opts)
	if err != nil {
		return &CLIError{Code: ExitSimulationError, Message: err.Error()}
	}
	defer closeSink()

	go func() {
		result, err := engine.Run(cfg, engine.RunOptions{Sink: sink, Progress: progress, StoreReady: storeReady})
		close(progress)
		done <- runOutcome{result, err}
	}()

	store := <-storeReady
	app := tui.New()
	if err := app.Run(store, progress); err != nil {
		return &CLIError{Code: ExitSimulationError, Message: err.Error()}
	}

	outcome := <-done
	if outcome.err != nil {
		return &CLIError{Code: ExitSimulationError, Message: outcome.err.Error()}
	}
	return exportResult(outcome.result, cfg, opts)
}

func exportResult(result engine.RunResult, cfg runconfig.RunConfig, opts Options) error {
	fmt.Printf("run %s: strategy=%s n=%d games=%d spearman=%.4f numeric_failures=%d fallbacks=%d\n",
		result.Report.RunID, cfg.Strategy, cfg.N, cfg.Games,
		result.Report.SpearmanCorrelation, result.Report.NumericFailureCount, result.Report.PairingFallbackCount)

	format := journal.ExportFormat(cfg.OutputFormat)
	if cfg.OutputFile != "" {
		if err := journal.ExportReport(result.Report, format, cfg.OutputFile); err != nil {
			return &CLIError{Code: ExitExportError, Message: err.Error()}
		}
	}
	if opts.PlayersFile != "" {
		if err := journal.ExportPlayerTable(result.Store, format, opts.PlayersFile); err != nil {
			return &CLIError{Code: ExitExportError, Message: err.Error()}
		}
	}
	return nil
}
