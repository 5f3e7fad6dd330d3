package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/optisols/Solveit-payslip-generator/internal/model"
	"github.com/optisols/Solveit-payslip-generator/internal/register"
)

// ErrRenderFailed marks a payslip that could not be rendered. The job
// treats it as a late, per-row rejection.
var ErrRenderFailed = errors.New("render failed")

// Output bytes must be reproducible, so every document carries the same
// pinned creation date instead of wall-clock time.
var pinnedCreationDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const fallbackFont = "Helvetica"

// Options configures a Renderer.
type Options struct {
	// FontPath points at an optional UTF-8 TTF. Empty means the built-in
	// Helvetica, which covers the Latin register content.
	FontPath string
}

// Renderer converts validated records into PDF payslips. Safe for
// concurrent use; each Render builds its own document.
type Renderer struct {
	fontPath string
}

// NewRenderer creates a payslip renderer.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{fontPath: opts.FontPath}
}

// Render produces one payslip document. Identical (record, metadata)
// pairs render byte-identical output.
func (r *Renderer) Render(rec model.EmployeeRecord, meta model.RunMetadata) (model.PayslipDocument, error) {
	for _, key := range register.EarningFields {
		if _, ok := rec.Earnings[key]; !ok {
			return model.PayslipDocument{}, fmt.Errorf("%w: record missing earning component %s", ErrRenderFailed, key)
		}
	}
	for _, key := range register.DeductionFields {
		if _, ok := rec.Deductions[key]; !ok {
			return model.PayslipDocument{}, fmt.Errorf("%w: record missing deduction component %s", ErrRenderFailed, key)
		}
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(pinnedCreationDate)
	pdf.SetModificationDate(pinnedCreationDate)

	font := fallbackFont
	if r.fontPath != "" {
		pdf.AddUTF8Font("register", "", r.fontPath)
		font = "register"
	}

	sheet := &payslipSheet{pdf: pdf, font: font}
	sheet.draw(rec, meta)

	if pdf.Err() {
		return model.PayslipDocument{}, fmt.Errorf("%w: %v", ErrRenderFailed, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return model.PayslipDocument{}, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return model.PayslipDocument{
		EmployeeID: rec.EmployeeID,
		Filename:   DocumentFilename(rec.EmployeeID, meta.PayslipMonth),
		Content:    buf.Bytes(),
	}, nil
}

// DocumentFilename derives the archive entry name for one payslip:
// <employeeId>_<payslipMonth>.pdf, sanitized. Uniqueness within a batch
// follows from employee-id uniqueness enforced by the validator.
func DocumentFilename(employeeID, month string) string {
	return fmt.Sprintf("%s_%s.pdf", sanitizeFilenamePart(employeeID), sanitizeFilenamePart(month))
}

// sanitizeFilenamePart replaces path separators, control characters and
// archive-hostile punctuation with underscores.
func sanitizeFilenamePart(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 0x20 || r == 0x7F:
			b.WriteRune('_')
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "_"
	}
	return out
}

// FormatAmount renders a pay amount with thousands separators and two
// decimals, the fixed convention of the sheet.
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
