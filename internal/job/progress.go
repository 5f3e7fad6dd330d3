package job

import "time"

// State is the lifecycle stage of one generation job. Transitions are
// strictly sequential; there is no retry between stages.
type State string

const (
	StateReceived   State = "received"
	StateParsing    State = "parsing"
	StateValidating State = "validating"
	StateRendering  State = "rendering"
	StateArchiving  State = "archiving"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// ProgressEvent is one discrete stage-completion event. Byte-level
// upload progress is a UI concern and stays out of the pipeline.
type ProgressEvent struct {
	Type      string         `json:"type"` // state/info/done/error
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(ProgressEvent)
