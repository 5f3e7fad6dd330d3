package register

import (
	"regexp"
	"strings"
)

// Canonical column keys. The register is keyed by these downstream;
// unknown columns keep their normalized header.
const (
	FieldEmployeeID = "employee_id"
	FieldName       = "name"

	FieldDesignation = "designation"
	FieldDepartment  = "department"
	FieldFatherName  = "father_name"
	FieldDOB         = "dob"
	FieldUAN         = "uan"
	FieldESINo       = "esi_no"
	FieldPANNo       = "pan_no"
	FieldDOJ         = "doj"
	FieldPaidDays    = "paid_days"
	FieldLOP         = "lop"
	FieldPayMode     = "pay_mode"
	FieldBankName    = "bank_name"
	FieldAccountNo   = "account_no"
	FieldPL          = "pl"
	FieldSL          = "sl"
	FieldCL          = "cl"
)

// Earning component keys, in rendering order.
var EarningFields = []string{
	"basic",
	"special_allowance",
	"travel_allowance",
	"hra",
	"nh_fh",
	"reimbursement",
}

// Deduction component keys, in rendering order.
var DeductionFields = []string{
	"epf",
	"esi",
	"pt",
	"tds",
	"adv_other",
	"labour_welfare_fund",
}

// RequiredFields must be present and non-blank on every usable row.
var RequiredFields = []string{FieldEmployeeID, FieldName}

// fieldCandidates maps a canonical key to the header spellings seen in
// real salary registers. Matching is case-insensitive on the normalized
// header.
var fieldCandidates = map[string][]string{
	FieldEmployeeID:  {"E code", "Ecode", "Emp Code", "Employee Code", "id"},
	FieldName:        {"Employee Name", "EmployeeName", "Name"},
	FieldDesignation: {"Designation"},
	FieldDepartment:  {"Department"},
	FieldFatherName:  {"Father / Husband Name", "FatherName", "Father"},
	FieldDOB:         {"DOB", "Date of Birth"},
	FieldUAN:         {"UAN"},
	FieldESINo:       {"Esi No", "ESI No", "ESI_No"},
	FieldPANNo:       {"PAN No", "PAN"},
	FieldDOJ:         {"DOJ", "Date of Joining"},
	FieldPaidDays:    {"Paid Days", "PaidDays"},
	FieldLOP:         {"LOP", "Loss of Pay"},
	FieldPayMode:     {"Pay Mode", "PayMode"},
	FieldBankName:    {"Bank name", "BankName"},
	FieldAccountNo:   {"Account No", "AccountNo"},
	FieldPL:          {"PL"},
	FieldSL:          {"SL"},
	FieldCL:          {"CL"},

	"basic":               {"Basic"},
	"special_allowance":   {"Special Allowance", "Special Allownace", "SpecialAllowance"},
	"travel_allowance":    {"Travel Allowance", "TravelAllowance"},
	"hra":                 {"House Rent Allowance", "HRA"},
	"nh_fh":               {"NH/FH", "NH_FH", "NH FH"},
	"reimbursement":       {"Reimbursement"},
	"epf":                 {"EPF"},
	"esi":                 {"ESI"},
	"pt":                  {"PT"},
	"tds":                 {"TDS"},
	"adv_other":           {"Adv/Other", "Adv_Other", "Advance"},
	"labour_welfare_fund": {"Labour Welfare Fund", "LabourWelfareFund", "LWF"},
}

// componentLabels maps component keys back to printable labels for error
// messages and the rendered sheet.
var componentLabels = map[string]string{
	"basic":               "Basic",
	"special_allowance":   "Special Allowance",
	"travel_allowance":    "Travel Allowance",
	"hra":                 "House Rent Allowance",
	"nh_fh":               "NH/FH",
	"reimbursement":       "Reimbursement",
	"epf":                 "EPF",
	"esi":                 "ESI",
	"pt":                  "PT",
	"tds":                 "TDS",
	"adv_other":           "Adv/Other",
	"labour_welfare_fund": "Labour Welfare Fund",
}

// ComponentLabel returns the printable label for a pay-component key.
func ComponentLabel(key string) string {
	if label, ok := componentLabels[key]; ok {
		return label
	}
	return key
}

// IsPayComponent reports whether a canonical key is an earning or
// deduction column.
func IsPayComponent(key string) bool {
	_, ok := componentLabels[key]
	return ok
}

// FieldMapper resolves raw header cells to canonical column keys.
type FieldMapper struct {
	byNormalized map[string]string
}

// NewFieldMapper creates a mapper over the known header candidates.
func NewFieldMapper() *FieldMapper {
	m := &FieldMapper{byNormalized: make(map[string]string)}
	for key, candidates := range fieldCandidates {
		for _, cand := range candidates {
			m.byNormalized[NormalizeHeader(cand)] = key
		}
	}
	return m
}

// MapHeader returns the canonical key for a raw header cell. Unknown
// headers map to their normalized form so extra columns survive in the
// row mapping.
func (m *FieldMapper) MapHeader(raw string) string {
	norm := NormalizeHeader(raw)
	if key, ok := m.byNormalized[norm]; ok {
		return key
	}
	return norm
}

// MapHeaders maps a whole header row, preserving column order. Blank
// header cells map to "".
func (m *FieldMapper) MapHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, cell := range raw {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		headers[i] = m.MapHeader(cell)
	}
	return headers
}

var headerSpaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader lowercases a header cell and collapses internal
// whitespace so matching ignores case and spacing.
func NormalizeHeader(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = headerSpaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(name)
}
