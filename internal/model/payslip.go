package model

// RunMetadata is the run-level metadata supplied once per request,
// immutable for the duration of one job.
type RunMetadata struct {
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	PayslipMonth   string `json:"payslipMonth"` // YYYY-MM
	Location       string `json:"location"`
}

// RawRow is one data row of the uploaded register, keyed by canonical
// header. Index is the 1-based position among the register's data rows,
// kept for error reporting.
type RawRow struct {
	Index   int
	Headers []string          // canonical headers in source column order
	Cells   map[string]string // canonical header -> raw cell value
}

// Get returns the cell value for a canonical header, "" when absent.
func (r RawRow) Get(header string) string {
	return r.Cells[header]
}

// EmployeeRecord is one validated register row ready for rendering.
type EmployeeRecord struct {
	RowIndex   int
	EmployeeID string
	Name       string

	// Profile fields carried as text; blank when the register omits them.
	Designation string
	Department  string
	FatherName  string
	DOB         string
	DOJ         string
	UAN         string
	ESINo       string
	PANNo       string
	PaidDays    string
	LOP         string
	PayMode     string
	BankName    string
	AccountNo   string
	PL          string
	SL          string
	CL          string

	// Pay components keyed by canonical component name. Blank cells are
	// zero; presence of every known component is guaranteed post-validation.
	Earnings   map[string]float64
	Deductions map[string]float64
}

// Gross sums the earning components.
func (e EmployeeRecord) Gross() float64 {
	var sum float64
	for _, v := range e.Earnings {
		sum += v
	}
	return sum
}

// TotalDeductions sums the deduction components.
func (e EmployeeRecord) TotalDeductions() float64 {
	var sum float64
	for _, v := range e.Deductions {
		sum += v
	}
	return sum
}

// Net is gross earnings minus total deductions.
func (e EmployeeRecord) Net() float64 {
	return e.Gross() - e.TotalDeductions()
}

// Rejection names one excluded row and why it was excluded.
type Rejection struct {
	RowIndex int    `json:"rowIndex"`
	Reason   string `json:"reason"`
}

// ValidationOutcome is either an accepted record or a rejection.
// Exactly one of Record / Rejected is set.
type ValidationOutcome struct {
	Record   *EmployeeRecord
	Rejected *Rejection
}

// Accepted reports whether the row survived validation.
func (o ValidationOutcome) Accepted() bool {
	return o.Record != nil
}

// PayslipDocument is one rendered payslip.
type PayslipDocument struct {
	EmployeeID string
	Filename   string
	Content    []byte
}

// BatchResult is the final output of one generation job.
type BatchResult struct {
	Archive    []byte
	Generated  int
	Rejections []Rejection // ordered by row index
}
