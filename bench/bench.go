// Package bench launches and times single invocations of the external policy
// compiler under test.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Runner executes the policy compiler once per call and measures it.
type Runner struct {
	CompilerPath string
	ShowOutput   bool
	Timeout      time.Duration
	Logger       *slog.Logger
}

// NewRunner creates a Runner for the compiler at compilerPath. When
// showOutput is set, the child's stdout and stderr are forwarded to this
// process's stderr; otherwise both are discarded. A zero timeout means each
// invocation may run indefinitely.
func NewRunner(compilerPath string, showOutput bool, timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		CompilerPath: compilerPath,
		ShowOutput:   showOutput,
		Timeout:      timeout,
		Logger:       logger.With(slog.String("compiler", compilerPath)),
	}
}

// Run executes the compiler once against the fixture at fixturePath and
// returns the wall-clock measurement. A non-zero exit status from the
// compiler is not an error: the harness measures duration, not correctness,
// so the sample comes back with ExitCode set. Launch failures, timeouts and
// cancellation are errors.
func (r *Runner) Run(ctx context.Context, fixturePath string) (*Sample, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)

		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.CompilerPath, fixturePath)

	// Child output never goes to stdout, which is reserved for the sample
	// stream. Leaving the handles nil routes them to the null device.
	if r.ShowOutput {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
	}

	r.Logger.Debug("invoking compiler", slog.String("fixture", fixturePath))

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("compiler timed out after %s: %w", r.Timeout, ctxErr)
			}

			return nil, fmt.Errorf("compiler interrupted: %w", ctxErr)
		}

		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("launch compiler %s: %w", r.CompilerPath, runErr)
		}
	}

	state := cmd.ProcessState

	return &Sample{
		Elapsed:    elapsed,
		UserTime:   state.UserTime(),
		SystemTime: state.SystemTime(),
		ExitCode:   state.ExitCode(),
	}, nil
}
