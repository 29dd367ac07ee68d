package termination

import (
	"os"
	"strings"
	"testing"
	"time"

	"folha/internal/domain/tax"
)

func TestWriteReceiptPDF(t *testing.T) {
	emp := employee(3000, time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC))
	in := Input{
		Subject:         emp,
		TerminationDate: time.Date(2024, time.August, 20, 0, 0, 0, 0, time.UTC),
		Reason:          ReasonWithoutCause,
		NoticeModality:  NoticeIndemnified,
		FundBalance:     10000,
	}
	result, err := Calculate(in, tax.DefaultTables())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	dir := t.TempDir()
	path, err := WriteReceiptPDF(in, result, dir)
	if err != nil {
		t.Fatalf("write receipt: %v", err)
	}
	if !strings.HasSuffix(path, "termination-emp-1-2024-08-20.pdf") {
		t.Fatalf("unexpected receipt path %q", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat receipt: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("receipt file is empty")
	}
}
