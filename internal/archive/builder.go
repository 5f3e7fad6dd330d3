// Package archive packs rendered payslips into a single zip, one entry
// per document, in insertion order.
package archive

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/optisols/Solveit-payslip-generator/internal/model"
)

// ErrArchive marks an infrastructure-level failure of the archive writer
// itself. Fatal for the whole batch; never raised for document content.
var ErrArchive = errors.New("archive error")

// rejectionEntryName is the summary file carried inside the archive so
// operators can see which rows were skipped and why. The underscore
// sorts it ahead of the payslips in extracted listings.
const rejectionEntryName = "_rejected_rows.csv"

// Builder streams documents into a zip as they become available. Memory
// use scales with one document plus the zip writer's buffer. Not safe
// for concurrent use; the job serializes writes.
type Builder struct {
	zw    *zip.Writer
	count int
}

// NewBuilder creates a zip builder over w.
func NewBuilder(w io.Writer) *Builder {
	return &Builder{zw: zip.NewWriter(w)}
}

// Add appends one payslip entry. Entry metadata is fixed so identical
// input produces identical archive bytes.
func (b *Builder) Add(doc model.PayslipDocument) error {
	header := &zip.FileHeader{
		Name:   doc.Filename,
		Method: zip.Deflate,
	}
	w, err := b.zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%w: create entry %s: %v", ErrArchive, doc.Filename, err)
	}
	if _, err := w.Write(doc.Content); err != nil {
		return fmt.Errorf("%w: write entry %s: %v", ErrArchive, doc.Filename, err)
	}
	b.count++
	return nil
}

// AddRejectionSummary appends the row/reason summary as a CSV entry.
// No entry is written for an empty rejection list.
func (b *Builder) AddRejectionSummary(rejections []model.Rejection) error {
	if len(rejections) == 0 {
		return nil
	}
	w, err := b.zw.CreateHeader(&zip.FileHeader{
		Name:   rejectionEntryName,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("%w: create rejection summary: %v", ErrArchive, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row", "reason"}); err != nil {
		return fmt.Errorf("%w: write rejection summary: %v", ErrArchive, err)
	}
	for _, r := range rejections {
		if err := cw.Write([]string{strconv.Itoa(r.RowIndex), r.Reason}); err != nil {
			return fmt.Errorf("%w: write rejection summary: %v", ErrArchive, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flush rejection summary: %v", ErrArchive, err)
	}
	return nil
}

// Count returns the number of payslip entries added so far.
func (b *Builder) Count() int {
	return b.count
}

// Close finalizes the zip central directory.
func (b *Builder) Close() error {
	if err := b.zw.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrArchive, err)
	}
	return nil
}
