// Package job orchestrates one payslip generation request:
// parse -> validate -> render -> archive, collecting per-row failures
// without aborting the batch.
package job

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/optisols/Solveit-payslip-generator/internal/archive"
	"github.com/optisols/Solveit-payslip-generator/internal/model"
	"github.com/optisols/Solveit-payslip-generator/internal/register"
	"github.com/optisols/Solveit-payslip-generator/internal/renderer"
)

// Options configures a Generator.
type Options struct {
	// Workers bounds concurrent rendering. Zero means 4.
	Workers int
	// Timeout is the wall-clock budget for one whole job. Zero means
	// no budget beyond the caller's context.
	Timeout time.Duration
}

// Request is one generation job's input. The job exclusively owns all
// intermediate data derived from it.
type Request struct {
	Metadata model.RunMetadata
	FileData []byte
	Format   register.Format
	Progress ProgressFunc
}

// Generator runs generation jobs. One instance is shared across
// requests; all per-request state lives in Run.
type Generator struct {
	parser   *register.Parser
	renderer *renderer.Renderer
	workers  int
	timeout  time.Duration
	log      zerolog.Logger
}

// NewGenerator creates a job generator.
func NewGenerator(r *renderer.Renderer, opts Options, log zerolog.Logger) *Generator {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Generator{
		parser:   register.NewParser(),
		renderer: r,
		workers:  workers,
		timeout:  opts.Timeout,
		log:      log,
	}
}

type renderResult struct {
	doc model.PayslipDocument
	err error
}

// Run executes one job to Completed or Failed. On Failed no archive is
// returned. Cancellation of ctx stops outstanding render work promptly
// and discards partial state.
func (g *Generator) Run(ctx context.Context, req Request) (*model.BatchResult, error) {
	jobID := uuid.NewString()
	log := g.log.With().Str("job_id", jobID).Str("month", req.Metadata.PayslipMonth).Logger()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	emit := func(ev ProgressEvent) {
		ev.Timestamp = time.Now()
		log.Info().Str("event", ev.Type).Interface("data", ev.Data).Msg(ev.Message)
		if req.Progress != nil {
			req.Progress(ev)
		}
	}
	fail := func(state State, err error) (*model.BatchResult, error) {
		err = g.classify(ctx, err)
		log.Error().Err(err).Str("state", string(state)).Msg("job failed")
		emit(ProgressEvent{Type: "error", Message: err.Error(),
			Data: map[string]any{"state": string(StateFailed)}})
		return nil, err
	}

	emit(ProgressEvent{Type: "state", Message: "job received",
		Data: map[string]any{"state": string(StateReceived)}})

	// Parsing: terminal on failure, a table that cannot be read leaves
	// nothing to validate.
	emit(ProgressEvent{Type: "state", Message: "parsing register",
		Data: map[string]any{"state": string(StateParsing)}})
	rows, err := g.parser.Parse(req.FileData, req.Format)
	if err != nil {
		return fail(StateParsing, err)
	}
	emit(ProgressEvent{Type: "info", Message: fmt.Sprintf("parsed %d data rows", len(rows)),
		Data: map[string]any{"rows": len(rows)}})

	// Validating: sequential so the duplicate-id tie-break follows row
	// order. Rejections collect; they never abort the batch.
	emit(ProgressEvent{Type: "state", Message: "validating rows",
		Data: map[string]any{"state": string(StateValidating)}})
	validator := register.NewValidator()
	var accepted []*model.EmployeeRecord
	var rejections []model.Rejection
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return fail(StateValidating, err)
		}
		outcome := validator.Validate(row)
		if outcome.Accepted() {
			accepted = append(accepted, outcome.Record)
		} else {
			rejections = append(rejections, *outcome.Rejected)
			log.Warn().Int("row", outcome.Rejected.RowIndex).
				Str("reason", outcome.Rejected.Reason).Msg("row rejected")
		}
	}
	if len(accepted) == 0 {
		return fail(StateValidating, fmt.Errorf("%w: no usable rows in register", ErrEmptyBatch))
	}

	// Rendering: bounded fan-out, results reordered by row before
	// archiving. One row's failure never cancels sibling rows.
	emit(ProgressEvent{Type: "state", Message: "rendering payslips",
		Data: map[string]any{"state": string(StateRendering), "rows": len(accepted)}})
	results := make([]renderResult, len(accepted))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, rec := range accepted {
		i, rec := i, rec
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := g.renderer.Render(*rec, req.Metadata)
			results[i] = renderResult{doc: doc, err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fail(StateRendering, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(StateRendering, err)
	}

	// Render failures are late rejections: the row moves from accepted
	// to rejected and the job continues.
	var docs []model.PayslipDocument
	for i, res := range results {
		if res.err != nil {
			rej := model.Rejection{
				RowIndex: accepted[i].RowIndex,
				Reason:   fmt.Sprintf("render failed: %v", res.err),
			}
			rejections = append(rejections, rej)
			log.Warn().Int("row", rej.RowIndex).Str("reason", rej.Reason).Msg("row rejected")
			continue
		}
		docs = append(docs, res.doc)
	}
	sort.Slice(rejections, func(i, j int) bool {
		return rejections[i].RowIndex < rejections[j].RowIndex
	})
	if len(docs) == 0 {
		return fail(StateRendering, fmt.Errorf("%w: every accepted row failed to render", ErrEmptyBatch))
	}
	emit(ProgressEvent{Type: "info",
		Message: fmt.Sprintf("rendered %d/%d payslips", len(docs), len(accepted)),
		Data:    map[string]any{"rendered": len(docs), "accepted": len(accepted)}})

	// Archiving: single writer, insertion order equals accepted order.
	emit(ProgressEvent{Type: "state", Message: "building archive",
		Data: map[string]any{"state": string(StateArchiving)}})
	var buf bytes.Buffer
	builder := archive.NewBuilder(&buf)
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return fail(StateArchiving, err)
		}
		if err := builder.Add(doc); err != nil {
			return fail(StateArchiving, err)
		}
	}
	if err := builder.AddRejectionSummary(rejections); err != nil {
		return fail(StateArchiving, err)
	}
	if err := builder.Close(); err != nil {
		return fail(StateArchiving, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(StateArchiving, err)
	}

	emit(ProgressEvent{Type: "done", Message: "job completed",
		Data: map[string]any{
			"state":     string(StateCompleted),
			"generated": builder.Count(),
			"rejected":  len(rejections),
		}})
	log.Info().Int("generated", builder.Count()).Int("rejected", len(rejections)).
		Int("archive_bytes", buf.Len()).Msg("batch complete")

	return &model.BatchResult{
		Archive:    buf.Bytes(),
		Generated:  builder.Count(),
		Rejections: rejections,
	}, nil
}

// classify maps context errors onto the job taxonomy and wraps anything
// unrecognized as an internal fault so callers never see a raw trace.
func (g *Generator) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		// The deadline may come from the caller's context, in which
		// case there is no budget to report.
		if g.timeout > 0 {
			return fmt.Errorf("%w after %s", ErrTimeout, g.timeout)
		}
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, register.ErrUnreadableFile),
		errors.Is(err, archive.ErrArchive),
		errors.Is(err, ErrEmptyBatch):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
