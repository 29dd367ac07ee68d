package payroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"folha/internal/platform/money"
)

// GeneratePayslipPDF renders the stored settlement for a period and returns
// the file path. Amounts are rounded to two digits here and nowhere earlier.
func (s *Service) GeneratePayslipPDF(ctx context.Context, periodID, outDir string) (string, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return "", err
	}
	result, err := s.store.GetSettlement(ctx, periodID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(outDir, periodID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Subject: %s", period.SubjectID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Competence: %s", period.Competence))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(20, 7, "Code", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Reference", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Earnings", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Deductions", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, ev := range result.Events {
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", ev.Rubrica.Code), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 7, ev.Rubrica.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, money.Format(ev.Reference), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money.Format(ev.Earning), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money.Format(ev.Deduction), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total earnings: %s", money.Format(result.TotalEarnings)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Total deductions: %s", money.Format(result.TotalDeductions)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Net: %s", money.Format(result.Net)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Contribution base: %s   Withholding base: %s   Fund deposit: %s",
		money.Format(result.ContributionBase), money.Format(result.WithholdingBase), money.Format(result.FundAmount)))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
