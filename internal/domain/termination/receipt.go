package termination

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"folha/internal/platform/money"
)

// WriteReceiptPDF renders a calculated severance statement into outDir and
// returns the file path. Amounts are rounded to two digits here and nowhere
// earlier.
func WriteReceiptPDF(in Input, result Result, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("termination-%s-%s.pdf", in.Subject.SubjectID(), in.TerminationDate.Format("2006-01-02"))
	filePath := filepath.Join(outDir, name)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Termination receipt")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Subject: %s", in.Subject.SubjectID()))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Termination date: %s", in.TerminationDate.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Reason: %s   Notice: %s", in.Reason, in.NoticeModality))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Reference", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Earnings", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Deductions", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, li := range result.Items {
		pdf.CellFormat(90, 7, li.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, money.Format(li.Reference), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money.Format(li.Earning), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money.Format(li.Deduction), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total earnings: %s", money.Format(result.TotalEarnings)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Total deductions: %s", money.Format(result.TotalDeductions)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Net: %s", money.Format(result.Net)))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
