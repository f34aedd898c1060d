package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"digital.vasic.cliassert/pkg/logging"
	"digital.vasic.cliassert/pkg/monitor"
	"digital.vasic.cliassert/pkg/report"
	"digital.vasic.cliassert/pkg/script"
)

var runCmd = &cobra.Command{
	Use:   "run <suite>...",
	Short: "Run assertion suites",
	Long: `Runs one or more assertion suites and reports the results.

Each argument is a suite file or a directory of suite files. Cases
run sequentially unless --parallel raises the fan-out per suite.

Exit codes:
  0  every case passed
  1  at least one case failed or errored
  2  a suite could not be loaded, or the usage was wrong

Examples:
  cliassert run smoke.yaml
  cliassert run suites/ --parallel 4
  cliassert run smoke.yaml --json > result.json
  cliassert run nightly.yaml --serve :8080 --history runs.jsonl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

// Command flags
var (
	runParallel int
	runJSON     bool
	runHistory  string
	runServe    string
	runVerbose  bool
	runNoColor  bool
)

func init() {
	runCmd.Flags().IntVar(&runParallel, "parallel", 1,
		"Number of cases to run concurrently within a suite")
	runCmd.Flags().BoolVar(&runJSON, "json", false,
		"Emit a JSON summary on stdout instead of console output")
	runCmd.Flags().StringVar(&runHistory, "history", "",
		"Append one JSON line per suite run to this file")
	runCmd.Flags().StringVar(&runServe, "serve", "",
		"Serve live run events over WebSocket on this address")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false,
		"Show the command line of every case")
	runCmd.Flags().BoolVar(&runNoColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if runNoColor {
		color.NoColor = true
	}

	suites, err := loadSuites(args)
	if err != nil {
		return err
	}

	// Structured logs would corrupt the JSON summary, so
	// verbose logging only applies to console output.
	var logger logging.Logger = logging.NullLogger{}
	if runVerbose && !runJSON {
		logger = logging.NewConsoleLogger(false)
	}

	opts := []script.RunnerOption{
		script.WithLogger(logger),
		script.WithParallelism(runParallel),
	}

	ctx := cmd.Context()
	if runServe != "" {
		collector := monitor.NewEventCollector()
		dashboard := monitor.NewDashboardData(
			uuid.New().String(),
		)
		server := monitor.NewWebSocketServer(
			runServe, collector, dashboard,
		)
		go func() {
			if err := server.Start(ctx); err != nil {
				fmt.Fprintf(
					cmd.ErrOrStderr(),
					"monitor: %v\n", err,
				)
			}
		}()
		defer func() {
			stopCtx, cancel := context.WithTimeout(
				context.Background(), time.Second,
			)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
		opts = append(opts, script.WithCollector(collector))
	}

	runner := script.NewRunner(opts...)

	var results []*script.SuiteResult
	if runJSON {
		var runErr error
		results, runErr = runner.RunAll(ctx, suites)
		if len(results) > 0 {
			reporter := report.NewJSONReporter("", true)
			data, err := reporter.GenerateMasterSummary(
				results,
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
		if runErr != nil {
			return runErr
		}
	} else {
		renderer := report.NewConsoleRenderer(
			cmd.OutOrStdout(), runVerbose,
		)
		for _, suite := range suites {
			result, err := runner.Run(ctx, suite)
			if result != nil {
				results = append(results, result)
				renderer.RenderSuite(result)
			}
			if err != nil {
				return err
			}
		}
		if len(results) > 1 {
			renderer.RenderTotals(results)
		}
	}

	if runHistory != "" {
		for _, result := range results {
			if err := report.AppendToHistory(
				runHistory, result, "",
			); err != nil {
				return err
			}
		}
	}

	for _, result := range results {
		if !result.AllPassed() {
			return NewSilentExit(1)
		}
	}
	return nil
}

// loadSuites resolves each argument to one or more suites. A
// directory argument loads every suite file directly inside it.
func loadSuites(args []string) ([]*script.Suite, error) {
	var suites []*script.Suite
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to read %s: %w", arg, err,
			)
		}

		if info.IsDir() {
			loaded, err := script.LoadDir(arg)
			if err != nil {
				return nil, err
			}
			if len(loaded) == 0 {
				return nil, fmt.Errorf(
					"no suite files in %s", arg,
				)
			}
			suites = append(suites, loaded...)
			continue
		}

		suite, err := script.LoadFile(arg)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return suites, nil
}
