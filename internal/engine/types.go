// Package engine implements the concurrent batch-resize pipeline: job
// enumeration, pull-based distribution across a fixed worker pool, the
// decode→resize→encode→write chain per job, and thread-safe progress
// accounting.
package engine

import (
	"fmt"
	"path/filepath"
	"time"

	"mpix/pkg/imgutil"
)

// Config holds the settings for a single run. It is validated once and
// passed by value into every worker; nothing mutates it after Run starts.
type Config struct {
	// Source is the folder to process.
	Source string
	// Recurse processes subfolders and mirrors their structure under the
	// output directory.
	Recurse bool
	// Megapixels is the target output pixel count in millions, range [2,64].
	Megapixels float64
	// Quality is the JPEG quality on a 1-12 scale.
	Quality int
	// Workers is the pool size. Zero selects DefaultWorkers.
	Workers int
	// OutputDir overrides the default <Source>/output destination.
	OutputDir string
}

const (
	DefaultWorkers    = 4
	DefaultMegapixels = 12
	DefaultQuality    = 10

	MinMegapixels = 2
	MaxMegapixels = 64

	// OutputDirName is the default destination folder inside the source.
	OutputDirName = "output"
)

// Validate checks ranges. Zero Workers is allowed and defaulted by Run.
func (c Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source folder is required")
	}
	if c.Megapixels < MinMegapixels || c.Megapixels > MaxMegapixels {
		return fmt.Errorf("megapixels must be between %d and %d, got %g", MinMegapixels, MaxMegapixels, c.Megapixels)
	}
	if c.Quality < 1 || c.Quality > 12 {
		return fmt.Errorf("quality must be between 1 and 12, got %d", c.Quality)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d (zero selects the default)", c.Workers)
	}
	return nil
}

// normalized fills defaults. Validate must have passed.
func (c Config) normalized() Config {
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.Source, OutputDirName)
	}
	return c
}

// Job is one source-file-to-output-file unit of work. Immutable once
// enumerated; consumed exactly once by exactly one worker.
type Job struct {
	// SourcePath is the absolute path of the input file.
	SourcePath string
	// RelPath is the path relative to the source folder, used for display
	// and output mirroring.
	RelPath string
	// OutputRel is the collision-resolved output path relative to the
	// output directory, always with a .jpg extension.
	OutputRel string
	// Seq is the enumeration index.
	Seq int
	// Kind selects the decoder variant, resolved once at enumeration time.
	Kind imgutil.Kind
}

// Status is the outcome of one job.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result records the outcome of one job. Every enumerated job produces
// exactly one Result.
type Result struct {
	Job        Job
	WorkerID   int
	Status     Status
	Err        error
	OutputPath string
	Elapsed    time.Duration
}

// Summary aggregates a finished run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Cancelled int
	Elapsed   time.Duration
}

// EventKind discriminates progress events.
type EventKind int

const (
	// EventRunStarted is emitted once, after enumeration. Total and
	// Workers are set.
	EventRunStarted EventKind = iota
	// EventJobStarted is emitted when a worker picks up a job.
	EventJobStarted
	// EventJobFinished is emitted for every result, including cancelled
	// jobs that were never started.
	EventJobFinished
)

// Event is one progress notification pushed to the caller's sink channel.
// Delivery is lossy: when the sink's buffer is full the event is dropped
// rather than blocking a worker. EventJobFinished therefore carries the
// absolute counters, not deltas, so a consumer that misses events still
// converges on the right totals.
type Event struct {
	Kind     EventKind
	WorkerID int
	Total    int
	Workers  int
	File     string
	Status   Status
	Err      error

	// Running totals at the time of an EventJobFinished.
	Completed int
	Failed    int
	Cancelled int
}
