// Package probe implements a concurrent smoke check against a running
// rosdash instance: it fetches the page shell once and hammers the data
// endpoint, verifying that concurrent responses are identical and that the
// served document round-trips the on-disk dataset.
package probe

import (
	"time"
)

// Config holds probe run configuration.
type Config struct {
	// BaseURL of the service under test, e.g. http://localhost:5000.
	BaseURL string

	// Requests is the number of GETs issued against /api/data.
	Requests int

	// Workers is the number of concurrent fetchers.
	Workers int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// DataFile optionally points at the local dataset file; when set, the
	// probe verifies the response round-trips its parsed contents.
	DataFile string

	// LogFile receives the run log; empty means a timestamped default.
	LogFile string

	// Verbose enables per-request progress logging.
	Verbose bool
}

// Stats aggregates the outcome of a probe run.
type Stats struct {
	RunID          string
	PageOK         bool
	RequestsSent   int
	RequestsOK     int
	RequestsFailed int
	BodiesDiverged int
	RoundTripOK    bool
	Elapsed        time.Duration
}
