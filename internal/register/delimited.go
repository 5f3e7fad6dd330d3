package register

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readDelimitedGrid reads a CSV register. Delimiter is sniffed between
// comma and semicolon, a UTF-8 BOM is stripped, and non-UTF-8 payloads
// are decoded as windows-1252 (the encoding old spreadsheet tools export).
func readDelimitedGrid(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var reader io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		reader = charmap.Windows1252.NewDecoder().Reader(reader)
	}

	r := csv.NewReader(reader)
	r.Comma = sniffDelimiter(data)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var grid [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %v", err)
		}
		grid = append(grid, record)
	}
	return grid, nil
}

// sniffDelimiter picks the delimiter from the first line: semicolon wins
// when it outnumbers commas, comma otherwise.
func sniffDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
