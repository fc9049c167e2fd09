// Package sweep drives the benchmark: an ascending sequence of policy sizes,
// one fixture and one timed compiler invocation per size, one emitted sample
// per step.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/weiihann/polbench/bench"
	"github.com/weiihann/polbench/policy"
	"github.com/weiihann/polbench/report"
)

// Role counts advance from stepStart by stepSize, up to but excluding the
// sweep parameter. Every run walks the same fixed sequence.
const (
	stepStart = 0
	stepSize  = 10
)

const (
	// DefaultCompilerPath is where the policy compiler under test is
	// expected, relative to the working directory.
	DefaultCompilerPath = "../gran"

	// DefaultFixturePath is the canonical fixture slot, overwritten at each
	// step and removed when the sweep ends.
	DefaultFixturePath = "policy"
)

// Config holds the parameters of one sweep run.
type Config struct {
	// MaxRoles is the exclusive upper bound on synthetic role counts.
	MaxRoles int

	// CompilerPath is the external executable to time.
	CompilerPath string

	// FixturePath is the single reusable fixture slot. It doubles as the one
	// argument passed to the compiler.
	FixturePath string

	// Timeout bounds each invocation. Zero means wait indefinitely.
	Timeout time.Duration

	// ShowOutput forwards compiler output to stderr instead of discarding it.
	ShowOutput bool

	// Catalog overrides the object catalog replicated into each role section.
	Catalog []policy.ObjectRule
}

func (c *Config) applyDefaults() {
	if c.CompilerPath == "" {
		c.CompilerPath = DefaultCompilerPath
	}

	if c.FixturePath == "" {
		c.FixturePath = DefaultFixturePath
	}
}

func (c *Config) validate() error {
	if c.MaxRoles < 1 {
		return fmt.Errorf("sweep parameter must be a positive integer, got %d", c.MaxRoles)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	return nil
}

// Run executes the sweep described by cfg, handing each sample to em as it
// is measured and flushing em after the final step. The fixture slot is owned
// by the sweep: it is released on every exit path, aborts included.
func Run(ctx context.Context, logger *slog.Logger, cfg Config, em report.Emitter) error {
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return err
	}

	gen := policy.NewGenerator(cfg.Catalog)
	runner := bench.NewRunner(cfg.CompilerPath, cfg.ShowOutput, cfg.Timeout, logger)

	defer func() {
		if err := os.Remove(cfg.FixturePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove fixture",
				slog.String("path", cfg.FixturePath),
				slog.String("error", err.Error()),
			)
		}
	}()

	for roles := stepStart; roles < cfg.MaxRoles; roles += stepSize {
		stats, err := gen.WriteFile(cfg.FixturePath, roles)
		if err != nil {
			return fmt.Errorf("generate fixture for %d roles: %w", roles, err)
		}

		sample, err := runner.Run(ctx, cfg.FixturePath)
		if err != nil {
			return fmt.Errorf("step %d: %w", roles+1, err)
		}

		sample.Label = roles + 1
		sample.Roles = roles
		sample.FixtureBytes = stats.Bytes

		if err := em.Emit(*sample); err != nil {
			return fmt.Errorf("emit sample %d: %w", sample.Label, err)
		}

		logger.InfoContext(ctx, "step complete",
			slog.Int("label", sample.Label),
			slog.Int("roles", roles),
			slog.String("fixture_size", datasize.ByteSize(stats.Bytes).HumanReadable()),
			slog.Duration("wall_time", sample.Elapsed),
			slog.Int("exit_code", sample.ExitCode),
		)
	}

	if err := em.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}

	return nil
}
