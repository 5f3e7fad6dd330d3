// Package logging configures the process-wide zerolog logger: a console
// writer for interactive runs plus a plain log file in the data
// directory, matching how the packaged desktop build is diagnosed.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const logFilename = "payslipgen.log"

// Setup builds the root logger. In dev mode output is the pretty console
// writer only; otherwise entries are mirrored as JSON into
// <dataDir>/payslipgen.log so packaged runs leave a trail.
func Setup(dataDir string, devMode bool) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	var out io.Writer = console
	if !devMode && dataDir != "" {
		file, err := os.OpenFile(filepath.Join(dataDir, logFilename),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			out = zerolog.MultiLevelWriter(console, file)
		}
	}

	return zerolog.New(out).With().Timestamp().Logger()
}
