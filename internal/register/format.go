package register

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format is the declared tabular format of an uploaded register.
type Format string

const (
	FormatXLS  Format = "xls"  // legacy BIFF workbook
	FormatXLSX Format = "xlsx" // OOXML workbook
	FormatXLSM Format = "xlsm" // OOXML workbook with macros
	FormatCSV  Format = "csv"  // delimited text
)

// FormatFromFilename derives the declared format from an upload filename.
func FormatFromFilename(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xls":
		return FormatXLS, true
	case ".xlsx":
		return FormatXLSX, true
	case ".xlsm":
		return FormatXLSM, true
	case ".csv":
		return FormatCSV, true
	}
	return "", false
}

var (
	magicZip = []byte{0x50, 0x4B, 0x03, 0x04} // OOXML container
	magicOLE = []byte{0xD0, 0xCF, 0x11, 0xE0} // OLE compound file (BIFF)
)

// sniffFormat picks the decoder from the file's magic bytes, with the
// declared format as the tie-break. Spreadsheet formats are container
// formats, so mislabeled uploads (an .xlsx renamed .xls and vice versa)
// still decode; bytes that are neither container fall back to delimited
// text only when the declared format is CSV.
func sniffFormat(data []byte, declared Format) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, magicZip):
		if declared == FormatXLSM {
			return FormatXLSM, true
		}
		return FormatXLSX, true
	case bytes.HasPrefix(data, magicOLE):
		return FormatXLS, true
	case declared == FormatCSV:
		return FormatCSV, true
	}
	return "", false
}
