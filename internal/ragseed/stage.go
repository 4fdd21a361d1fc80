package ragseed

import "fmt"

// Stage names one step of the seeding pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageProvision Stage = "provision"
	StageLoad      Stage = "load"
	StageEmbed     Stage = "embed"
	StageUpsert    Stage = "upsert"
	StageStats     Stage = "stats"
)

// Severity tells the pipeline whether to abort on a stage failure.
type Severity int

const (
	Recoverable Severity = iota
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "recovered"
}

// stagePolicy decides what a failure of each stage does to the run.
// Without a corpus or its vectors there is nothing to write, so those abort.
// A failed provision, write or stats read is logged and the run goes on.
var stagePolicy = map[Stage]Severity{
	StageProvision: Recoverable,
	StageLoad:      Fatal,
	StageEmbed:     Fatal,
	StageUpsert:    Recoverable,
	StageStats:     Recoverable,
}

// SeverityOf returns the severity of a failure in stage. strict makes every failure fatal.
func SeverityOf(stage Stage, strict bool) Severity {
	if strict {
		return Fatal
	}
	if s, ok := stagePolicy[stage]; ok {
		return s
	}
	return Fatal
}

// StageError is a failure attributed to a pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }
