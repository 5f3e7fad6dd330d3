package register

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/optisols/Solveit-payslip-generator/internal/model"
)

// ErrUnreadableFile marks a byte stream that cannot be decoded as any
// supported tabular format. Fatal for the whole batch.
var ErrUnreadableFile = errors.New("unreadable file")

// Parser turns uploaded register bytes into a sequence of raw rows, all
// formats normalized to the same shape.
type Parser struct {
	mapper *FieldMapper
}

// NewParser creates a register parser.
func NewParser() *Parser {
	return &Parser{mapper: NewFieldMapper()}
}

// Parse decodes the register and returns its data rows in source order.
// The first non-empty row carrying the required columns is the header;
// fully blank rows are skipped silently. Row indices are 1-based
// ordinals over the data rows, the numbering the rejection summary
// reports.
func (p *Parser) Parse(data []byte, declared Format) ([]model.RawRow, error) {
	format, ok := sniffFormat(data, declared)
	if !ok {
		return nil, fmt.Errorf("%w: not a recognized %s stream", ErrUnreadableFile, declared)
	}

	var (
		grid [][]string
		err  error
	)
	switch format {
	case FormatXLSX, FormatXLSM:
		grid, err = readWorkbookGrid(data)
	case FormatXLS:
		grid, err = readLegacyGrid(data)
	case FormatCSV:
		grid, err = readDelimitedGrid(data)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrUnreadableFile, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	return p.gridToRows(grid), nil
}

// gridToRows locates the header row and maps the remaining rows.
func (p *Parser) gridToRows(grid [][]string) []model.RawRow {
	headerIdx := p.findHeaderRow(grid)
	if headerIdx < 0 {
		return nil
	}

	headers := p.mapper.MapHeaders(grid[headerIdx])

	var rows []model.RawRow
	for i := headerIdx + 1; i < len(grid); i++ {
		cells := grid[i]
		if IsBlankRow(cells) {
			continue
		}

		row := model.RawRow{
			Index:   len(rows) + 1,
			Headers: orderedHeaders(headers),
			Cells:   make(map[string]string, len(headers)),
		}
		for col, key := range headers {
			if key == "" {
				continue
			}
			value := ""
			if col < len(cells) {
				value = strings.TrimSpace(cells[col])
			}
			// First column with a given header wins on duplicates.
			if _, seen := row.Cells[key]; !seen {
				row.Cells[key] = value
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// findHeaderRow scans for the first non-empty row whose cells map to the
// required columns. Real registers open with title and blank rows before
// the header, so the first non-empty row alone is not trusted unless no
// row qualifies.
func (p *Parser) findHeaderRow(grid [][]string) int {
	firstNonEmpty := -1
	for i, cells := range grid {
		if IsBlankRow(cells) {
			continue
		}
		if firstNonEmpty < 0 {
			firstNonEmpty = i
		}
		seen := make(map[string]bool, len(cells))
		for _, cell := range cells {
			seen[p.mapper.MapHeader(cell)] = true
		}
		qualifies := true
		for _, req := range RequiredFields {
			if !seen[req] {
				qualifies = false
				break
			}
		}
		if qualifies {
			return i
		}
	}
	return firstNonEmpty
}

// orderedHeaders returns the non-blank canonical headers in column order.
func orderedHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// readWorkbookGrid reads the first sheet of an OOXML workbook.
func readWorkbookGrid(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %v", sheets[0], err)
	}
	return rows, nil
}
