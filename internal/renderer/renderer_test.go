package renderer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/optisols/Solveit-payslip-generator/internal/model"
	"github.com/optisols/Solveit-payslip-generator/internal/register"
)

func sampleRecord() model.EmployeeRecord {
	earnings := make(map[string]float64, len(register.EarningFields))
	for _, key := range register.EarningFields {
		earnings[key] = 0
	}
	deductions := make(map[string]float64, len(register.DeductionFields))
	for _, key := range register.DeductionFields {
		deductions[key] = 0
	}
	earnings["basic"] = 50000
	earnings["hra"] = 10000
	deductions["epf"] = 1800

	return model.EmployeeRecord{
		RowIndex:    1,
		EmployeeID:  "E100",
		Name:        "Asha Rao",
		Designation: "Engineer",
		Department:  "Platform",
		PaidDays:    "31",
		PayMode:     "NEFT",
		BankName:    "SBI",
		AccountNo:   "30012345678",
		Earnings:    earnings,
		Deductions:  deductions,
	}
}

func sampleMetadata() model.RunMetadata {
	return model.RunMetadata{
		CompanyName:    "Acme Industries Pvt Ltd",
		CompanyAddress: "12 MG Road, Pune, Maharashtra 411001",
		PayslipMonth:   "2024-03",
		Location:       "Pune",
	}
}

func TestRenderer_ProducesPDF(t *testing.T) {
	t.Parallel()

	doc, err := NewRenderer(Options{}).Render(sampleRecord(), sampleMetadata())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.Filename != "E100_2024-03.pdf" {
		t.Fatalf("filename got=%q", doc.Filename)
	}
	if doc.EmployeeID != "E100" {
		t.Fatalf("employee id got=%q", doc.EmployeeID)
	}
	if !bytes.HasPrefix(doc.Content, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF, first bytes: %q", doc.Content[:min(len(doc.Content), 8)])
	}
	if len(doc.Content) < 1024 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(doc.Content))
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	t.Parallel()

	r := NewRenderer(Options{})
	first, err := r.Render(sampleRecord(), sampleMetadata())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := r.Render(sampleRecord(), sampleMetadata())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first.Content, second.Content) {
		t.Fatalf("identical input produced different bytes: %d vs %d", len(first.Content), len(second.Content))
	}
}

func TestRenderer_MissingComponentFails(t *testing.T) {
	t.Parallel()

	rec := sampleRecord()
	delete(rec.Earnings, "basic")

	_, err := NewRenderer(Options{}).Render(rec, sampleMetadata())
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("want ErrRenderFailed got %v", err)
	}
}

func TestDocumentFilename_Sanitized(t *testing.T) {
	t.Parallel()

	cases := []struct {
		id    string
		month string
		want  string
	}{
		{"E100", "2024-03", "E100_2024-03.pdf"},
		{"E/10\\0", "2024-03", "E_10_0_2024-03.pdf"},
		{"a:b*c?", "2024-03", "a_b_c__2024-03.pdf"},
		{"..", "2024-03", ".._2024-03.pdf"},
	}
	for _, c := range cases {
		if got := DocumentFilename(c.id, c.month); got != c.want {
			t.Fatalf("DocumentFilename(%q,%q) want=%q got=%q", c.id, c.month, c.want, got)
		}
	}

	if got := DocumentFilename("E100", "2024-03"); strings.ContainsAny(got, `/\`) {
		t.Fatalf("filename carries a path separator: %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999, "999.00"},
		{1234.5, "1,234.50"},
		{123456, "123,456.00"},
		{1234567.891, "1,234,567.89"},
		{-1800, "-1,800.00"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.in); got != c.want {
			t.Fatalf("FormatAmount(%v) want=%q got=%q", c.in, c.want, got)
		}
	}
}
