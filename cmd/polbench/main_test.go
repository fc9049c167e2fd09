package main

import (
	"testing"
	"time"

	"github.com/weiihann/polbench/policy"
	"github.com/weiihann/polbench/profile"
)

func TestParseMaxRoles(t *testing.T) {
	valid := map[string]int{
		"1":   1,
		"25":  25,
		"100": 100,
	}

	for arg, want := range valid {
		got, err := parseMaxRoles(arg)
		if err != nil {
			t.Errorf("parseMaxRoles(%q) failed: %v", arg, err)

			continue
		}

		if got != want {
			t.Errorf("parseMaxRoles(%q) = %d, want %d", arg, got, want)
		}
	}

	for _, arg := range []string{"", "abc", "2.5", "0", "-10"} {
		if _, err := parseMaxRoles(arg); err == nil {
			t.Errorf("parseMaxRoles(%q) succeeded, want error", arg)
		}
	}
}

func TestMergeProfileFillsUnsetFlags(t *testing.T) {
	prof := &profile.Profile{
		Compiler:   "./other-gran",
		Fixture:    "bench-policy",
		Timeout:    profile.Duration(30 * time.Second),
		ShowOutput: true,
		Format:     "table",
		Catalog:    []policy.ObjectRule{{Path: "/etc", Perms: "r"}},
	}

	cfg := runConfig{
		compilerPath: "../gran",
		fixturePath:  "policy",
		format:       "plain",
	}

	mergeProfile(&cfg, prof, func(string) bool { return false })

	if cfg.compilerPath != "./other-gran" {
		t.Errorf("compiler = %q, want the profile value", cfg.compilerPath)
	}

	if cfg.fixturePath != "bench-policy" {
		t.Errorf("fixture = %q, want the profile value", cfg.fixturePath)
	}

	if cfg.timeout != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", cfg.timeout)
	}

	if !cfg.showOutput {
		t.Error("show output was not taken from the profile")
	}

	if cfg.format != "table" {
		t.Errorf("format = %q, want table", cfg.format)
	}

	if len(cfg.catalog) != 1 {
		t.Errorf("catalog holds %d entries, want the profile's 1", len(cfg.catalog))
	}
}

func TestMergeProfileExplicitFlagsWin(t *testing.T) {
	prof := &profile.Profile{
		Compiler: "./other-gran",
		Fixture:  "bench-policy",
		Format:   "table",
	}

	cfg := runConfig{
		compilerPath: "./flag-gran",
		fixturePath:  "policy",
		format:       "json",
	}

	changed := map[string]bool{"compiler": true, "format": true}

	mergeProfile(&cfg, prof, func(name string) bool { return changed[name] })

	if cfg.compilerPath != "./flag-gran" {
		t.Errorf("compiler = %q, want the explicit flag value", cfg.compilerPath)
	}

	if cfg.format != "json" {
		t.Errorf("format = %q, want the explicit flag value", cfg.format)
	}

	if cfg.fixturePath != "bench-policy" {
		t.Errorf("fixture = %q, want the profile value", cfg.fixturePath)
	}
}
