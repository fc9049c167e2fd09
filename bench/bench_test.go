package bench

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeStub creates an executable shell script standing in for the policy
// compiler under test.
func writeStub(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub compilers require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "gran")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub compiler: %v", err)
	}

	return path
}

func TestRunMeasuresWallClock(t *testing.T) {
	stub := writeStub(t, "sleep 0.1\n")
	runner := NewRunner(stub, false, 0, testLogger())

	sample, err := runner.Run(context.Background(), "policy")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sample.Elapsed < 50*time.Millisecond {
		t.Errorf("elapsed = %s, want at least 50ms for a sleeping compiler", sample.Elapsed)
	}

	if sample.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", sample.ExitCode)
	}
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	stub := writeStub(t, "exit 3\n")
	runner := NewRunner(stub, false, 0, testLogger())

	sample, err := runner.Run(context.Background(), "policy")
	if err != nil {
		t.Fatalf("Run failed on a non-zero exit: %v", err)
	}

	if sample.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", sample.ExitCode)
	}

	if sample.Elapsed <= 0 {
		t.Errorf("elapsed = %s, want a positive duration", sample.Elapsed)
	}
}

func TestRunMissingCompiler(t *testing.T) {
	runner := NewRunner(filepath.Join(t.TempDir(), "gran"), false, 0, testLogger())

	if _, err := runner.Run(context.Background(), "policy"); err == nil {
		t.Error("expected error for a missing compiler")
	}
}

func TestRunNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "gran")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	runner := NewRunner(path, false, 0, testLogger())

	if _, err := runner.Run(context.Background(), "policy"); err == nil {
		t.Error("expected error for a non-executable compiler")
	}
}

func TestRunTimeout(t *testing.T) {
	stub := writeStub(t, "sleep 5\n")
	runner := NewRunner(stub, false, 100*time.Millisecond, testLogger())

	start := time.Now()

	_, err := runner.Run(context.Background(), "policy")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v, want a timeout", err)
	}

	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout took %s to fire", elapsed)
	}
}

func TestRunCanceledContext(t *testing.T) {
	stub := writeStub(t, "sleep 5\n")
	runner := NewRunner(stub, false, 0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Run(ctx, "policy"); err == nil {
		t.Error("expected error for a canceled context")
	}
}

func TestResolveCompiler(t *testing.T) {
	stub := writeStub(t, "exit 0\n")

	path, err := ResolveCompiler(stub)
	if err != nil {
		t.Fatalf("ResolveCompiler failed: %v", err)
	}

	if path != stub {
		t.Errorf("resolved path = %q, want %q", path, stub)
	}
}

func TestResolveCompilerMissing(t *testing.T) {
	if _, err := ResolveCompiler(filepath.Join(t.TempDir(), "gran")); err == nil {
		t.Error("expected error for a missing compiler")
	}
}

func TestResolveCompilerBareName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH resolution test relies on a POSIX sh")
	}

	resolved, err := ResolveCompiler("sh")
	if err != nil {
		t.Fatalf("ResolveCompiler failed for a PATH name: %v", err)
	}

	if !filepath.IsAbs(resolved) {
		t.Errorf("resolved path %q is not absolute", resolved)
	}
}

func TestResolveCompilerBareNameMissing(t *testing.T) {
	if _, err := ResolveCompiler("polbench-no-such-compiler"); err == nil {
		t.Error("expected error for an unknown PATH name")
	}
}

func TestResolveCompilerDirectory(t *testing.T) {
	if _, err := ResolveCompiler(t.TempDir()); err == nil {
		t.Error("expected error for a directory")
	}
}

func TestResolveCompilerNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "gran")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := ResolveCompiler(path); err == nil {
		t.Error("expected error for a non-executable file")
	}
}
