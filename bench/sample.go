package bench

import "time"

// Sample holds the measurement from a single compiler invocation. Label,
// Roles and FixtureBytes describe the sweep step the invocation belongs to
// and are filled in by the caller.
type Sample struct {
	Label        int           `json:"label"`
	Roles        int           `json:"roles"`
	FixtureBytes int64         `json:"fixture_bytes"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	UserTime     time.Duration `json:"user_time_ns"`
	SystemTime   time.Duration `json:"system_time_ns"`
	ExitCode     int           `json:"exit_code"`
}
