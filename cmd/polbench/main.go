// Package main provides the CLI entry point for polbench, a micro-benchmark
// driver that measures how policy compilation time scales with policy size.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/weiihann/polbench/bench"
	"github.com/weiihann/polbench/policy"
	"github.com/weiihann/polbench/profile"
	"github.com/weiihann/polbench/report"
	"github.com/weiihann/polbench/sweep"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "polbench",
		Short: "Benchmark how policy compilation time scales with policy size",
		Long: `Polbench generates synthetic RBAC policy documents of increasing size,
invokes an external policy compiler once per size, and reports the wall-clock
duration of each invocation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

type runConfig struct {
	maxRoles     int
	compilerPath string
	fixturePath  string
	timeout      time.Duration
	showOutput   bool
	format       string
	catalog      []policy.ObjectRule
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		compilerPath string
		fixturePath  string
		timeout      time.Duration
		showOutput   bool
		format       string
		profilePath  string
	)

	cmd := &cobra.Command{
		Use:   "run <max-roles>",
		Short: "Run an ascending policy-size sweep against the compiler",
		Long: `Run a sweep of role counts 0, 10, 20, ... up to but excluding <max-roles>.
Each step regenerates the fixture document, times one compiler invocation
against it, and emits one sample. The compiler's own exit status is recorded
but never treated as a harness failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxRoles, err := parseMaxRoles(args[0])
			if err != nil {
				return err
			}

			cfg := runConfig{
				maxRoles:     maxRoles,
				compilerPath: compilerPath,
				fixturePath:  fixturePath,
				timeout:      timeout,
				showOutput:   showOutput,
				format:       format,
			}

			if profilePath != "" {
				prof, err := profile.Load(profilePath)
				if err != nil {
					return err
				}

				mergeProfile(&cfg, prof, cmd.Flags().Changed)
			}

			return runSweep(cmd.Context(), logger, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&compilerPath, "compiler", sweep.DefaultCompilerPath,
		"Path to the policy compiler under test")
	flags.StringVar(&fixturePath, "fixture", sweep.DefaultFixturePath,
		"Path of the reusable fixture document")
	flags.DurationVar(&timeout, "timeout", 0,
		"Per-invocation timeout (0 waits indefinitely)")
	flags.BoolVar(&showOutput, "show-output", false,
		"Forward compiler output to stderr instead of discarding it")
	flags.StringVar(&format, "format", report.FormatPlain,
		"Output format: plain, table or json")
	flags.StringVar(&profilePath, "profile", "",
		"Path to a YAML sweep profile")

	return cmd
}

func parseMaxRoles(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("sweep parameter %q is not an integer", arg)
	}

	if n < 1 {
		return 0, fmt.Errorf("sweep parameter must be a positive integer, got %d", n)
	}

	return n, nil
}

// mergeProfile fills cfg with profile values for settings not set explicitly
// on the command line.
func mergeProfile(cfg *runConfig, p *profile.Profile, changed func(string) bool) {
	if p.Compiler != "" && !changed("compiler") {
		cfg.compilerPath = p.Compiler
	}

	if p.Fixture != "" && !changed("fixture") {
		cfg.fixturePath = p.Fixture
	}

	if p.Timeout != 0 && !changed("timeout") {
		cfg.timeout = time.Duration(p.Timeout)
	}

	if p.ShowOutput && !changed("show-output") {
		cfg.showOutput = true
	}

	if p.Format != "" && !changed("format") {
		cfg.format = p.Format
	}

	cfg.catalog = p.Catalog
}

func runSweep(ctx context.Context, logger *slog.Logger, cfg runConfig) error {
	compilerPath, err := bench.ResolveCompiler(cfg.compilerPath)
	if err != nil {
		return err
	}

	meta := report.NewMeta(compilerPath, cfg.maxRoles)

	emitter, err := report.NewEmitter(cfg.format, os.Stdout, meta)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting sweep",
		slog.String("run_id", meta.RunID),
		slog.String("compiler", compilerPath),
		slog.Int("max_roles", cfg.maxRoles),
		slog.String("format", cfg.format),
	)

	if err := sweep.Run(ctx, logger, sweep.Config{
		MaxRoles:     cfg.maxRoles,
		CompilerPath: compilerPath,
		FixturePath:  cfg.fixturePath,
		Timeout:      cfg.timeout,
		ShowOutput:   cfg.showOutput,
		Catalog:      cfg.catalog,
	}, emitter); err != nil {
		return err
	}

	logger.InfoContext(ctx, "sweep complete", slog.String("run_id", meta.RunID))

	return nil
}
