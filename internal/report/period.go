package report

import (
	"regexp"
	"time"

	"madrasa-backend/internal/platform/apierr"
)

// 集計期間は "YYYY-MM" の1ヶ月単位。
const PeriodLayout = "2006-01"

var periodRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidatePeriod: 形式違反は INVALID_ARGUMENT。部分計算はしない（fail fast）。
func ValidatePeriod(p string) error {
	if !periodRe.MatchString(p) {
		return apierr.Invalid("month must be YYYY-MM")
	}
	return nil
}

func CurrentPeriod(now time.Time) string {
	return now.UTC().Format(PeriodLayout)
}

// LastPeriods: now を含む直近 n ヶ月を古い順で返す（生徒レポートは直近4ヶ月）。
func LastPeriods(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	base := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := n - 1; i >= 0; i-- {
		out = append(out, base.AddDate(0, -i, 0).Format(PeriodLayout))
	}
	return out
}
