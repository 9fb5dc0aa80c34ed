// Package statement renders a user's transaction history as a downloadable
// XLSX workbook or PDF report.
package statement

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"

	"github.com/utsabduwadi/bank-management-system/internal/models"
)

// Format selects the statement encoding.
type Format string

const (
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

var header = []string{"Time", "Type", "Counterparty", "Amount"}

// ParseFormat accepts "xlsx" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case XLSX, PDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported statement format %q", s)
	}
}

// ContentType is the MIME type served with the statement.
func (f Format) ContentType() string {
	if f == PDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName suggests a download name for the user's statement.
func (f Format) FileName(username string) string {
	return fmt.Sprintf("%s_transactions.%s", username, f)
}

// Write renders user's history in format f.
func Write(w io.Writer, f Format, user models.User) error {
	switch f {
	case XLSX:
		return writeXLSX(w, user)
	case PDF:
		return writePDF(w, user)
	default:
		return fmt.Errorf("unsupported statement format %q", f)
	}
}

func row(tx models.Transaction) []string {
	return []string{tx.Time, string(tx.Kind), tx.Counterparty, tx.Amount.StringFixed(2)}
}

func writeXLSX(w io.Writer, user models.User) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	r := sheet.AddRow()
	for _, title := range header {
		r.AddCell().SetValue(title)
	}
	for _, tx := range user.Transactions {
		r = sheet.AddRow()
		for _, value := range row(tx) {
			r.AddCell().SetValue(value)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writePDF(w io.Writer, user models.User) error {
	widths := []float64{55, 30, 50, 35}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Transaction History")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 7, fmt.Sprintf("Account: %s (%s)", user.Username, user.AccountType))
	pdf.Ln(7)
	pdf.Cell(40, 7, fmt.Sprintf("Balance: %s", user.Balance.StringFixed(2)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	for i, title := range header {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 11)
	if len(user.Transactions) == 0 {
		pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "No transactions found.", "1", 0, "", false, 0, "")
		pdf.Ln(7)
	}
	for _, tx := range user.Transactions {
		for i, value := range row(tx) {
			align := ""
			if i == len(widths)-1 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, value, "1", 0, align, false, 0, "")
		}
		pdf.Ln(7)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
