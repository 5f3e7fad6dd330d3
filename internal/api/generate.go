package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/optisols/Solveit-payslip-generator/internal/job"
	"github.com/optisols/Solveit-payslip-generator/internal/model"
	"github.com/optisols/Solveit-payslip-generator/internal/register"
)

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// GeneratePayslip turns an uploaded salary register into a zip of
// payslip PDFs, one per employee. Partial success is still a 200: the
// skipped rows are listed in _rejected_rows.csv inside the archive and
// counted in the X-Rejected-Rows header.
// POST /api/generate_payslip
func (h *Handler) GeneratePayslip(c *gin.Context) {
	meta := model.RunMetadata{
		CompanyName:    c.PostForm("company_name"),
		CompanyAddress: c.PostForm("company_address"),
		PayslipMonth:   c.PostForm("payslip_month"),
		Location:       c.PostForm("location"),
	}

	fileHeader, err := c.FormFile("salary_file")
	if err != nil {
		failure(c, http.StatusBadRequest, "bad_request", "All fields are required.")
		return
	}
	if meta.CompanyName == "" || meta.CompanyAddress == "" || meta.PayslipMonth == "" || meta.Location == "" {
		failure(c, http.StatusBadRequest, "bad_request", "All fields are required.")
		return
	}
	if !monthRe.MatchString(meta.PayslipMonth) {
		failure(c, http.StatusBadRequest, "bad_request",
			"payslip_month must be in YYYY-MM format.")
		return
	}

	format, ok := register.FormatFromFilename(fileHeader.Filename)
	if !ok {
		failure(c, http.StatusBadRequest, "bad_request",
			"salary_file must be .xls, .xlsx, .xlsm or .csv.")
		return
	}
	if h.maxUpload > 0 && fileHeader.Size > h.maxUpload {
		failure(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Sprintf("salary_file exceeds the %s upload limit.", uploadLimitText(h.maxUpload)))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		failure(c, http.StatusInternalServerError, "internal_fault", "Could not read the uploaded file.")
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		failure(c, http.StatusInternalServerError, "internal_fault", "Could not read the uploaded file.")
		return
	}

	result, err := h.generator.Run(c.Request.Context(), job.Request{
		Metadata: meta,
		FileData: data,
		Format:   format,
	})
	if err != nil {
		h.respondFailure(c, err)
		return
	}

	if h.retain {
		h.retainArchive(meta.PayslipMonth, result.Archive)
	}

	downloadName := fmt.Sprintf("Payslips_%s.zip", meta.PayslipMonth)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", downloadName))
	c.Header("X-Generated-Count", strconv.Itoa(result.Generated))
	c.Header("X-Rejected-Rows", strconv.Itoa(len(result.Rejections)))
	c.Data(http.StatusOK, "application/zip", result.Archive)
}

// respondFailure maps the job taxonomy onto HTTP. Every failure body
// says explicitly that nothing was generated.
func (h *Handler) respondFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, register.ErrUnreadableFile):
		failure(c, http.StatusUnprocessableEntity, "unreadable_file",
			"The uploaded file is not a readable salary register; nothing was generated.")
	case errors.Is(err, job.ErrEmptyBatch):
		failure(c, http.StatusUnprocessableEntity, "empty_batch",
			"The register contains no usable employee rows; nothing was generated.")
	case errors.Is(err, job.ErrTimeout):
		failure(c, http.StatusGatewayTimeout, "timeout",
			"Generation exceeded the time budget; nothing was generated.")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		c.Abort()
	default:
		h.log.Error().Err(err).Msg("generation failed")
		failure(c, http.StatusInternalServerError, "internal_fault",
			"An unexpected error occurred; nothing was generated.")
	}
}

// uploadLimitText renders the configured limit in whole MB, falling
// back to bytes for limits under 1 MB.
func uploadLimitText(limit int64) string {
	if limit >= 1<<20 {
		return fmt.Sprintf("%d MB", limit>>20)
	}
	return fmt.Sprintf("%d bytes", limit)
}

// retainArchive copies the archive into the retention directory. A
// retention failure never fails the request.
func (h *Handler) retainArchive(month string, archive []byte) {
	if h.archivesDir == "" {
		return
	}
	name := fmt.Sprintf("Payslips_%s_%s.zip", month, uuid.NewString())
	path := filepath.Join(h.archivesDir, name)
	if err := os.WriteFile(path, archive, 0644); err != nil {
		h.log.Warn().Err(err).Str("path", path).Msg("failed to retain archive")
		return
	}
	h.log.Info().Str("path", path).Msg("archive retained")
}
