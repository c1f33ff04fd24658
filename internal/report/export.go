package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
)

// CSVはExcelでそのまま開ける形式にする。BOM無しだと非ASCII名が化けるため
// UTF-8 BOM 付きで書き出す。
func WriteFinanceCSV(w io.Writer, rep FinanceReport) error {
	bw := unicode.UTF8BOM.NewEncoder().Writer(w)
	cw := csv.NewWriter(bw)

	if err := cw.Write([]string{"name", "class", "payment_status", "paid_at", "absences"}); err != nil {
		return err
	}
	for _, row := range rep.StudentRows {
		paidAt := ""
		if row.PaidAt != nil {
			paidAt = row.PaidAt.Format("2006-01-02")
		}
		rec := []string{
			row.FullName,
			row.ClassName,
			row.Status,
			paidAt,
			strconv.Itoa(row.Absences),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
