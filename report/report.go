// Package report emits sweep samples in plain, table and JSON formats.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/google/uuid"

	"github.com/weiihann/polbench/bench"
)

// Output formats selectable for a sweep.
const (
	FormatPlain = "plain"
	FormatTable = "table"
	FormatJSON  = "json"
)

// Emitter consumes measurement samples as the sweep produces them. Flush is
// called once after the final step; buffered formats render their output
// there.
type Emitter interface {
	Emit(bench.Sample) error
	Flush() error
}

// Meta identifies one sweep run.
type Meta struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Compiler  string    `json:"compiler"`
	MaxRoles  int       `json:"max_roles"`
}

// NewMeta stamps fresh run metadata for a sweep against the given compiler.
func NewMeta(compiler string, maxRoles int) Meta {
	return Meta{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Compiler:  compiler,
		MaxRoles:  maxRoles,
	}
}

// NewEmitter returns the emitter for format, writing to w.
func NewEmitter(format string, w io.Writer, meta Meta) (Emitter, error) {
	switch format {
	case FormatPlain:
		return NewPlain(w), nil
	case FormatTable:
		return NewTable(w, meta), nil
	case FormatJSON:
		return NewJSON(w, meta), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Plain streams one "<label> <seconds>" line per sample as it arrives.
type Plain struct {
	w io.Writer
}

// NewPlain creates the unbuffered line-per-sample emitter.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

// Emit writes the sample's label and wall-clock seconds immediately.
func (p *Plain) Emit(s bench.Sample) error {
	if _, err := fmt.Fprintf(p.w, "%d %.6f\n", s.Label, s.Elapsed.Seconds()); err != nil {
		return fmt.Errorf("write sample %d: %w", s.Label, err)
	}

	return nil
}

// Flush is a no-op: plain output is already on the wire.
func (p *Plain) Flush() error {
	return nil
}

// Table buffers samples and renders a markdown table on Flush.
type Table struct {
	w       io.Writer
	meta    Meta
	samples []bench.Sample
}

// NewTable creates the markdown table emitter.
func NewTable(w io.Writer, meta Meta) *Table {
	return &Table{w: w, meta: meta}
}

// Emit records the sample for rendering.
func (t *Table) Emit(s bench.Sample) error {
	t.samples = append(t.samples, s)

	return nil
}

// Flush renders the buffered samples.
func (t *Table) Flush() error {
	if len(t.samples) == 0 {
		return fmt.Errorf("no samples to report")
	}

	// Header.
	fmt.Fprintln(t.w, "## Compiler Sweep Results")
	fmt.Fprintln(t.w)
	fmt.Fprintf(t.w, "Compiler `%s`, run `%s`\n", t.meta.Compiler, t.meta.RunID)
	fmt.Fprintln(t.w)

	// Sample rows.
	fmt.Fprintln(t.w, "| Step | Roles | Fixture | Wall | User | Sys | Exit |")
	fmt.Fprintln(t.w, "|------|-------|---------|------|------|-----|------|")

	for _, s := range t.samples {
		fmt.Fprintf(t.w, "| %d | %d | %s | %s | %s | %s | %d |\n",
			s.Label,
			s.Roles,
			datasize.ByteSize(s.FixtureBytes).HumanReadable(),
			formatDuration(s.Elapsed),
			formatDuration(s.UserTime),
			formatDuration(s.SystemTime),
			s.ExitCode,
		)
	}

	return nil
}

// JSON buffers samples and writes a single indented document on Flush.
type JSON struct {
	w       io.Writer
	meta    Meta
	samples []bench.Sample
}

// NewJSON creates the JSON document emitter.
func NewJSON(w io.Writer, meta Meta) *JSON {
	return &JSON{w: w, meta: meta}
}

// Emit records the sample for the final document.
func (j *JSON) Emit(s bench.Sample) error {
	j.samples = append(j.samples, s)

	return nil
}

// Flush writes the run metadata and all samples as one document.
func (j *JSON) Flush() error {
	doc := struct {
		Meta
		Samples []bench.Sample `json:"samples"`
	}{Meta: j.meta, Samples: j.samples}

	if doc.Samples == nil {
		doc.Samples = []bench.Sample{}
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
