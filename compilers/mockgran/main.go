// Mockgran is a stand-in policy compiler for exercising the sweep harness end
// to end when the real compiler is not installed. It reads the policy document
// named by its single argument, performs work proportional to the document
// size, and exits 0.
//
// Environment knobs:
//
//	MOCKGRAN_VERBOSE=1   print a scan summary to stderr
//	MOCKGRAN_EXIT=<n>    exit with status n after processing
package main

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"strconv"
)

func main() {
	if len(os.Args) != 2 {
		fatal("usage: mockgran <policy-file>")
	}

	path := os.Args[1]

	f, err := os.Open(path)
	if err != nil {
		fatal("open policy: %v", err)
	}
	defer f.Close()

	var (
		roles int
		lines int
		sum   [sha256.Size]byte
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	// Simulated compile cost: every line folds into one chained digest.
	for scanner.Scan() {
		line := scanner.Bytes()
		lines++

		if bytes.HasPrefix(line, []byte("role ")) {
			roles++
		}

		h := sha256.New()
		h.Write(sum[:])
		h.Write(line)
		h.Sum(sum[:0])
	}

	if err := scanner.Err(); err != nil {
		fatal("read policy: %v", err)
	}

	if os.Getenv("MOCKGRAN_VERBOSE") == "1" {
		fmt.Fprintf(os.Stderr, "mockgran: %s: %d roles, %d lines, digest %x\n",
			path, roles, lines, sum[:4])
	}

	if v := os.Getenv("MOCKGRAN_EXIT"); v != "" {
		code, err := strconv.Atoi(v)
		if err != nil {
			fatal("bad MOCKGRAN_EXIT %q: %v", v, err)
		}

		os.Exit(code)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "mockgran: "+format+"\n", args...)
	os.Exit(1)
}
