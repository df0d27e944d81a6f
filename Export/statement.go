package Export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"MatirBank/Models"
)

const (
	StatementSheet = "Statement"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var statementHeaders = []string{
	"Transaction ID", "Timestamp", "Type", "Reference", "Amount", "Running Balance",
}

// StatementFilename is the attachment name for an account's statement
func StatementFilename(accountID uint, at time.Time) string {
	return fmt.Sprintf("statement_%d_%s.xlsx", accountID, at.Format("20060102"))
}

// Statement renders an account's ledger entries, oldest first, as an xlsx
// workbook. The running balance is worked back from the current balance, so
// the last row always matches the account.
func Statement(account *Models.Account, entries []Models.Transaction) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(StatementSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range statementHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(StatementSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(StatementSheet, 1, 1, headerStyle)
	}

	posted := decimal.Zero
	for _, entry := range entries {
		posted = posted.Add(entry.Amount)
	}
	running := account.CurrentBalance.Sub(posted)

	for i, entry := range entries {
		running = running.Add(entry.Amount)
		reference := ""
		if entry.ReferenceID != nil {
			reference = *entry.ReferenceID
		}
		values := []interface{}{
			entry.TransID,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Type,
			reference,
			entry.Amount.InexactFloat64(),
			running.InexactFloat64(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(StatementSheet, cell, value)
		}
	}

	summaryRow := len(entries) + 3
	f.SetCellValue(StatementSheet, fmt.Sprintf("A%d", summaryRow), "Account")
	f.SetCellValue(StatementSheet, fmt.Sprintf("B%d", summaryRow), account.AccountID)
	f.SetCellValue(StatementSheet, fmt.Sprintf("C%d", summaryRow), account.AccountType)
	f.SetCellValue(StatementSheet, fmt.Sprintf("E%d", summaryRow), "Closing Balance")
	f.SetCellValue(StatementSheet, fmt.Sprintf("F%d", summaryRow), account.CurrentBalance.InexactFloat64())

	f.SetColWidth(StatementSheet, "A", "F", 18)

	if f.GetSheetName(0) != StatementSheet {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing statement: %w", err)
	}
	return &buf, nil
}
