package bench

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveCompiler verifies that the compiler under test is runnable before
// the sweep starts. Bare names resolve through PATH the way exec would run
// them; anything with a path separator is checked in place as a regular
// executable file.
func ResolveCompiler(path string) (string, error) {
	if !strings.ContainsRune(path, os.PathSeparator) {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return "", fmt.Errorf("compiler %s not found in PATH: %w", path, err)
		}

		return resolved, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("compiler not found at %s: %w", path, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("compiler path %s is a directory", path)
	}

	if info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("compiler %s is not executable", path)
	}

	return path, nil
}
