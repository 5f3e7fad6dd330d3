package renderer

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/optisols/Solveit-payslip-generator/internal/model"
	"github.com/optisols/Solveit-payslip-generator/internal/register"
)

// The sheet is drawn in points with a bottom-left origin, the coordinate
// system the layout was tuned in; helpers flip to fpdf's top-left origin.
type payslipSheet struct {
	pdf  *fpdf.Fpdf
	font string
	w, h float64
}

const pageMargin = 34.0157 // 12 mm in points

func (s *payslipSheet) setFont(size float64) {
	s.pdf.SetFont(s.font, "", size)
}

func (s *payslipSheet) text(x, y float64, str string) {
	s.pdf.Text(x, s.h-y, str)
}

func (s *payslipSheet) textCentered(cx, y float64, str string) {
	s.pdf.Text(cx-s.pdf.GetStringWidth(str)/2, s.h-y, str)
}

func (s *payslipSheet) textRight(x, y float64, str string) {
	s.pdf.Text(x-s.pdf.GetStringWidth(str), s.h-y, str)
}

// rect takes the box's bottom-left corner, like the layout was specified.
func (s *payslipSheet) rect(x, y, w, h float64) {
	s.pdf.Rect(x, s.h-y-h, w, h, "D")
}

func (s *payslipSheet) fillRect(x, y, w, h float64) {
	s.pdf.Rect(x, s.h-y-h, w, h, "F")
}

func (s *payslipSheet) line(x1, y1, x2, y2 float64) {
	s.pdf.Line(x1, s.h-y1, x2, s.h-y2)
}

// draw lays out one payslip page.
func (s *payslipSheet) draw(rec model.EmployeeRecord, meta model.RunMetadata) {
	s.pdf.AddPage()
	s.w, s.h = s.pdf.GetPageSize()
	margin := pageMargin

	// Outer border
	s.pdf.SetLineWidth(2)
	s.pdf.SetDrawColor(0, 0, 0)
	s.rect(margin, margin, s.w-2*margin, s.h-2*margin)

	// Company name, blue, centered
	topY := s.h - margin - 26
	s.setFont(18)
	s.pdf.SetTextColor(0x00, 0x74, 0xD9)
	s.textCentered(s.w/2, topY, meta.CompanyName)

	// Wrapped, centered address
	s.setFont(9)
	s.pdf.SetTextColor(0, 0, 0)
	maxAddrWidth := s.w - 2*(margin+40)
	addrY := topY - 14
	for i, line := range s.wrapToWidth(meta.CompanyAddress, maxAddrWidth) {
		s.textCentered(s.w/2, addrY-float64(i)*11, line)
	}

	s.setFont(10)
	s.text(margin+6, topY-36, "Payslip for the Month :  "+meta.PayslipMonth)

	// Employee details box, split 61/39
	boxX := margin + 6
	boxW := s.w - 2*(margin+6)
	boxTop := topY - 46
	boxH := 80.0
	s.pdf.SetLineWidth(1)
	s.rect(boxX, boxTop-boxH, boxW, boxH)
	leftW := boxW * 0.61
	s.line(boxX+leftW, boxTop-boxH, boxX+leftW, boxTop)

	s.setFont(9)
	xLeft := boxX + 8
	y := boxTop - 14
	leftRows := [][2]string{
		{"Employee Name", rec.Name},
		{"E code", rec.EmployeeID},
		{"Designation", rec.Designation},
		{"Department", rec.Department},
		{"Father / Husband Name", rec.FatherName},
		{"DOB", rec.DOB},
	}
	for _, row := range leftRows {
		s.text(xLeft, y, row[0])
		s.text(xLeft+110, y, row[1])
		y -= 12
	}

	rx := boxX + leftW + 11
	ry := boxTop - 14
	rightRows := [][2]string{
		{"Location", meta.Location},
		{"UAN", orDefault(rec.UAN, "NIL")},
		{"Esi No", rec.ESINo},
		{"PAN No", rec.PANNo},
		{"DOJ", rec.DOJ},
	}
	for _, row := range rightRows {
		s.text(rx, ry, row[0])
		s.text(rx+70, ry, row[1])
		ry -= 12
	}

	// Payment & leave balances box
	plTop := boxTop - boxH - 8
	plH := 70.0
	s.rect(boxX, plTop-plH, boxW, plH)
	s.setFont(9)
	s.text(boxX+6, plTop-14, "PAYMENT & LEAVE BALANCES")
	s.textRight(boxX+boxW*0.80+8, plTop-14,
		fmt.Sprintf("Paid Days  %s    LOP  %s", rec.PaidDays, orDefault(rec.LOP, "0")))

	s.text(boxX+6, plTop-30, "Pay Mode")
	s.text(boxX+66, plTop-30, rec.PayMode)
	s.text(boxX+6, plTop-46, "Bank name")
	s.text(boxX+66, plTop-46, rec.BankName)
	s.text(boxX+6, plTop-62, "Account No")
	s.text(boxX+66, plTop-62, rec.AccountNo)

	s.text(boxX+boxW*0.62+8, plTop-30,
		fmt.Sprintf("PL  %s    SL  %s    CL  %s",
			orDefault(rec.PL, "0"), orDefault(rec.SL, "0"), orDefault(rec.CL, "0")))

	// Earnings & deductions table
	edTop := plTop - plH - 10
	edH := 220.0
	s.rect(boxX, edTop-edH, boxW, edH)

	headerH := 18.0
	s.pdf.SetFillColor(0x7F, 0xB0, 0xD6)
	s.fillRect(boxX, edTop-headerH, boxW, headerH)
	s.pdf.SetTextColor(0, 0, 0)
	s.setFont(10)
	s.text(boxX+8, edTop-headerH+4, "Earnings")
	s.text(boxX+boxW*0.53, edTop-headerH+4, "Amount")
	s.text(boxX+boxW*0.62+8, edTop-headerH+4, "Deduction")
	s.text(boxX+boxW-52, edTop-headerH+4, "Amount")

	leftColX := boxX + 8
	amtX := boxX + boxW*0.48 + 60
	dedColX := boxX + boxW*0.62 + 8
	dedAmtX := boxX + boxW - 20

	s.setFont(9)
	rowY := edTop - headerH - 12
	for _, key := range register.EarningFields {
		s.text(leftColX, rowY, register.ComponentLabel(key))
		s.textRight(amtX, rowY, FormatAmount(rec.Earnings[key]))
		rowY -= 14
	}

	gross := rec.Gross()
	s.setFont(10)
	s.text(leftColX, edTop-edH+12, "Gross Earnings")
	s.textRight(amtX, edTop-edH+12, FormatAmount(gross))

	s.setFont(9)
	dy := edTop - headerH - 12
	for _, key := range register.DeductionFields {
		s.text(dedColX, dy, register.ComponentLabel(key))
		s.textRight(dedAmtX, dy, FormatAmount(rec.Deductions[key]))
		dy -= 14
	}

	totalDed := rec.TotalDeductions()
	s.setFont(10)
	s.text(dedColX, edTop-edH+12, "Total Deductions")
	s.textRight(dedAmtX, edTop-edH+12, FormatAmount(totalDed))

	// Table grid: full-height verticals, header and footer rules
	s.pdf.SetLineWidth(0.5)
	s.line(boxX, edTop, boxX, edTop-edH)
	s.line(amtX+8, edTop, amtX+8, edTop-edH)
	s.line(boxX+boxW, edTop, boxX+boxW, edTop-edH)
	s.line(boxX, edTop, boxX+boxW, edTop)
	s.line(boxX, edTop-headerH, boxX+boxW, edTop-headerH)
	s.line(boxX, edTop-edH+25, boxX+boxW, edTop-edH+25)

	// Net pay footer
	net := gross - totalDed
	footerY := edTop - edH - 28
	s.pdf.SetLineWidth(1.5)
	s.line(boxX, footerY+28, boxX+boxW, footerY+28)
	s.setFont(12)
	s.text(boxX+10, footerY+8, fmt.Sprintf("Total Net Payable Rs.%s/-", FormatAmount(net)))
	s.setFont(8)
	s.textRight(boxX+boxW-10, footerY+8, "(Net Payable = Gross Earnings - Total Deductions)")

	s.setFont(8)
	s.text(boxX+10, margin+8, fmt.Sprintf("Employee: %s   Ecode: %s", rec.Name, rec.EmployeeID))
}

// wrapToWidth greedily wraps text into lines no wider than maxWidth at
// the current font.
func (s *payslipSheet) wrapToWidth(text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := make([]string, 0, 2)
	cur := words[0]
	for _, w := range words[1:] {
		test := cur + " " + w
		if s.pdf.GetStringWidth(test) <= maxWidth {
			cur = test
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	return append(lines, cur)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
