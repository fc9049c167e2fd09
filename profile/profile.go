// Package profile loads optional sweep settings from YAML files, so a
// recurring benchmark setup does not have to be respelled in flags.
package profile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/polbench/policy"
	"github.com/weiihann/polbench/report"
)

// Duration wraps time.Duration so profiles can carry readable values like
// "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}

	*d = Duration(parsed)

	return nil
}

// Profile configures a sweep beyond its positional sweep parameter. Flags
// set explicitly on the command line take precedence over profile values.
type Profile struct {
	Compiler   string              `yaml:"compiler"`
	Fixture    string              `yaml:"fixture"`
	Timeout    Duration            `yaml:"timeout"`
	ShowOutput bool                `yaml:"show_output"`
	Format     string              `yaml:"format"`
	Catalog    []policy.ObjectRule `yaml:"catalog"`
}

// Load reads and validates the profile at path. An empty file is a valid
// profile with no overrides; unknown keys are rejected.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile %s: %w", path, err)
	}
	defer f.Close()

	var p Profile

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}

	return &p, nil
}

func (p *Profile) validate() error {
	switch p.Format {
	case "", report.FormatPlain, report.FormatTable, report.FormatJSON:
	default:
		return fmt.Errorf("unknown format %q", p.Format)
	}

	if p.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", time.Duration(p.Timeout))
	}

	for i, rule := range p.Catalog {
		if rule.Path == "" {
			return fmt.Errorf("catalog entry %d: path is empty", i)
		}

		if !strings.HasPrefix(rule.Path, "/") {
			return fmt.Errorf("catalog entry %d: path %q is not absolute", i, rule.Path)
		}
	}

	return nil
}
