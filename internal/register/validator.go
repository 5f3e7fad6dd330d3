package register

import (
	"fmt"

	"github.com/optisols/Solveit-payslip-generator/internal/model"
)

// Validator checks raw rows against the register rules. One validator is
// scoped to one batch; duplicate tracking depends on row order, so rows
// must be validated in source order.
type Validator struct {
	seenIDs map[string]int // employee id -> accepting row index
}

// NewValidator creates a batch-scoped validator.
func NewValidator() *Validator {
	return &Validator{seenIDs: make(map[string]int)}
}

// Validate classifies one row. A row never inspects another row's
// outcome; only the accepted-id set is shared, and only the first
// occurrence of an id is accepted.
func (v *Validator) Validate(row model.RawRow) model.ValidationOutcome {
	for _, field := range RequiredFields {
		if row.Get(field) == "" {
			return reject(row.Index, fmt.Sprintf("missing required field: %s", field))
		}
	}

	earnings := make(map[string]float64, len(EarningFields))
	deductions := make(map[string]float64, len(DeductionFields))

	for _, key := range EarningFields {
		amount, err := ParseAmount(row.Get(key))
		if err != nil {
			return reject(row.Index, fmt.Sprintf("invalid amount in column %s", key))
		}
		earnings[key] = amount
	}
	for _, key := range DeductionFields {
		amount, err := ParseAmount(row.Get(key))
		if err != nil {
			return reject(row.Index, fmt.Sprintf("invalid amount in column %s", key))
		}
		deductions[key] = amount
	}

	id := TrimNumericText(row.Get(FieldEmployeeID))
	if _, dup := v.seenIDs[id]; dup {
		return reject(row.Index, "duplicate employee id")
	}
	v.seenIDs[id] = row.Index

	rec := &model.EmployeeRecord{
		RowIndex:   row.Index,
		EmployeeID: id,
		Name:       row.Get(FieldName),

		Designation: row.Get(FieldDesignation),
		Department:  row.Get(FieldDepartment),
		FatherName:  row.Get(FieldFatherName),
		DOB:         NormalizeDate(row.Get(FieldDOB)),
		DOJ:         NormalizeDate(row.Get(FieldDOJ)),
		UAN:         TrimNumericText(row.Get(FieldUAN)),
		ESINo:       TrimNumericText(row.Get(FieldESINo)),
		PANNo:       row.Get(FieldPANNo),
		PaidDays:    row.Get(FieldPaidDays),
		LOP:         row.Get(FieldLOP),
		PayMode:     row.Get(FieldPayMode),
		BankName:    row.Get(FieldBankName),
		AccountNo:   TrimNumericText(row.Get(FieldAccountNo)),
		PL:          row.Get(FieldPL),
		SL:          row.Get(FieldSL),
		CL:          row.Get(FieldCL),

		Earnings:   earnings,
		Deductions: deductions,
	}

	return model.ValidationOutcome{Record: rec}
}

func reject(rowIndex int, reason string) model.ValidationOutcome {
	return model.ValidationOutcome{
		Rejected: &model.Rejection{RowIndex: rowIndex, Reason: reason},
	}
}
