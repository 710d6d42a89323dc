package engine

import (
	"errors"
	"fmt"
)

// ErrPathNotFound is the only pre-run failure: the source folder does not
// exist or is not a directory. It aborts before any job is enumerated.
var ErrPathNotFound = errors.New("source folder not found")

// Stage names the pipeline step where a job failed.
type Stage int

const (
	StageDecode Stage = iota
	StageEncode
	StageWrite
)

func (s Stage) String() string {
	switch s {
	case StageDecode:
		return "decode"
	case StageEncode:
		return "encode"
	case StageWrite:
		return "write"
	default:
		return "unknown"
	}
}

// StageError is a job-local failure. It terminates that job's pipeline at
// the failing stage and never crosses the job boundary; sibling jobs and the
// pool keep running.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
