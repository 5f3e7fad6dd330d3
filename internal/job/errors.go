package job

import "errors"

// Job-level failure taxonomy. Parse and archive failures keep their
// package sentinels (register.ErrUnreadableFile, archive.ErrArchive);
// row-level failures are collected into the rejection summary and never
// propagate as errors.
var (
	// ErrEmptyBatch means zero usable rows: nothing was generated.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrTimeout means the job exceeded its wall-clock budget.
	ErrTimeout = errors.New("job timed out")

	// ErrInternal is the catch-all for unexpected faults.
	ErrInternal = errors.New("internal fault")
)
