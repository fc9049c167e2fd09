// Package policy generates synthetic RBAC policy documents for benchmarking
// an external policy compiler. Each document consists of a fixed default-role
// preamble plus a requested number of replicated subject blocks, each tagged
// with a unique role label so the compiler cannot short-circuit on duplicate
// content.
package policy

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ObjectRule is a single filesystem-path-to-permission mapping inside a
// role's object list.
type ObjectRule struct {
	Path  string `yaml:"path"`
	Perms string `yaml:"perms"`
}

// Stats describes one generated document.
type Stats struct {
	Roles int
	Lines int
	Bytes int64
}

// DefaultCatalog returns the representative object list replicated into every
// synthetic role. The entries approximate a realistic access-control policy
// shape without depending on actual filesystem state.
func DefaultCatalog() []ObjectRule {
	return []ObjectRule{
		{Path: "/", Perms: "h"},
		{Path: "/bin", Perms: "x"},
		{Path: "/dev", Perms: "h"},
		{Path: "/dev/null", Perms: "w"},
		{Path: "/dev/tty", Perms: "rw"},
		{Path: "/etc", Perms: "r"},
		{Path: "/etc/grsec", Perms: "h"},
		{Path: "/etc/shadow", Perms: "h"},
		{Path: "/etc/ssh", Perms: "h"},
		{Path: "/home"},
		{Path: "/lib", Perms: "rx"},
		{Path: "/lib/modules", Perms: "h"},
		{Path: "/proc/meminfo", Perms: "r"},
		{Path: "/usr", Perms: "h"},
		{Path: "/usr/bin"},
		{Path: "/usr/lib", Perms: "rx"},
		{Path: "/usr/share", Perms: "h"},
		{Path: "/usr/share/terminfo", Perms: "r"},
	}
}

// Generator produces deterministic policy documents from a fixed object
// catalog.
type Generator struct {
	catalog []ObjectRule
}

// NewGenerator creates a Generator. A nil or empty catalog selects
// DefaultCatalog.
func NewGenerator(catalog []ObjectRule) *Generator {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}

	return &Generator{catalog: catalog}
}

// Generate writes a policy document with the given number of synthetic role
// sections to w and returns generation statistics. Output is deterministic:
// the same role count always produces a byte-identical document.
func (g *Generator) Generate(w io.Writer, roles int) (Stats, error) {
	if roles < 0 {
		return Stats{}, fmt.Errorf("role count must be non-negative, got %d", roles)
	}

	cw := &countingWriter{w: w}

	if err := writePreamble(cw); err != nil {
		return Stats{}, fmt.Errorf("write preamble: %w", err)
	}

	for i := 0; i < roles; i++ {
		if err := g.writeRole(cw, i); err != nil {
			return Stats{}, fmt.Errorf("write role %d: %w", i, err)
		}
	}

	return Stats{
		Roles: roles,
		Lines: cw.lines,
		Bytes: cw.bytes,
	}, nil
}

// WriteFile materializes the document for the given role count at path,
// truncating any previous content, so that exactly one fixture file exists
// there afterwards.
func (g *Generator) WriteFile(path string, roles int) (Stats, error) {
	f, err := os.Create(path)
	if err != nil {
		return Stats{}, fmt.Errorf("create fixture %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)

	stats, err := g.Generate(bw, roles)
	if err != nil {
		f.Close()

		return Stats{}, err
	}

	if err := bw.Flush(); err != nil {
		f.Close()

		return Stats{}, fmt.Errorf("flush fixture %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return Stats{}, fmt.Errorf("close fixture %s: %w", path, err)
	}

	return stats, nil
}

// The preamble grants the default role minimal rights; only the synthetic
// roles replicate the full object catalog.
func writePreamble(w io.Writer) error {
	_, err := io.WriteString(w, "role default\nsubject /\n\t/\th\n\t-CAP_ALL\n")

	return err
}

func (g *Generator) writeRole(w io.Writer, index int) error {
	if _, err := fmt.Fprintf(w, "\nrole tmpuser%d u\nsubject /\n", index); err != nil {
		return err
	}

	for _, obj := range g.catalog {
		if err := writeObject(w, obj); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\t-CAP_ALL\n")

	return err
}

func writeObject(w io.Writer, obj ObjectRule) error {
	if obj.Perms == "" {
		_, err := fmt.Fprintf(w, "\t%s\n", obj.Path)

		return err
	}

	_, err := fmt.Fprintf(w, "\t%s\t%s\n", obj.Path, obj.Perms)

	return err
}

// countingWriter tracks bytes and newlines written through it.
type countingWriter struct {
	w     io.Writer
	bytes int64
	lines int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.bytes += int64(n)

	for _, b := range p[:n] {
		if b == '\n' {
			cw.lines++
		}
	}

	return n, err
}
