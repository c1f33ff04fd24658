package report

import (
	"math"
	"sort"
	"time"
)

// 集計コア。入力は期間で絞り済みのスナップショット（絞り込みは呼び出し側=storeの責務）。
// I/Oなしの純関数のみ。同一入力に対して常に同一出力。

const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"

	StatusPresent = "present"
	StatusAbsent  = "absent"

	// 月内の欠席がこの回数に達した生徒を要注意扱いにする
	DefaultAbsenceThreshold = 3

	// 所属クラス未設定の生徒の表示名
	UnassignedClassName = "unassigned"
)

// ===== inputs =====

type Student struct {
	ID       string
	FullName string
	ClassID  string // 空 = 未所属
}

type Class struct {
	ID   string
	Name string
}

type SubscriptionRow struct {
	StudentID string
	Status    string // paid / unpaid
	PaidAt    *time.Time
}

type AttendanceRow struct {
	StudentID     string
	MonthYear     string // YYYY-MM
	DayNumber     int
	SessionNumber int
	Status        string // present / absent
}

// ===== derived =====

type StudentFinanceRow struct {
	StudentID string     `json:"student_id"`
	FullName  string     `json:"full_name"`
	ClassName string     `json:"class_name"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	Absences  int        `json:"absences"`
}

type ClassCollectionStat struct {
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	Total     int    `json:"total"`
	Paid      int    `json:"paid"`
	Unpaid    int    `json:"unpaid"`
	Rate      int    `json:"rate"` // 徴収率 %（四捨五入）
}

type FinanceTotals struct {
	TotalStudents int `json:"total_students"`
	Paid          int `json:"paid"`
	Unpaid        int `json:"unpaid"`
	Rate          int `json:"rate"`
}

type FinanceReport struct {
	Month       string                `json:"month"`
	StudentRows []StudentFinanceRow   `json:"students"`
	ClassStats  []ClassCollectionStat `json:"class_stats"`
	Totals      FinanceTotals         `json:"totals"`
}

type MonthlyAttendanceStat struct {
	Month   string `json:"month"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Total   int    `json:"total"` // 0 = 記録なし（0%とは区別する）
	Rate    int    `json:"rate"`
}

// 「行が無い＝未納」。lookupミスのフォールスルーに埋めず、既定値は名前付きで一箇所に。
func defaultPaymentStatus() (string, *time.Time) {
	return StatusUnpaid, nil
}

// ComputeFinanceReport: 月次の徴収レポート。
// subs/absences は対象月で絞り済みであること。生徒スナップショットに居ないIDの行は無視する。
func ComputeFinanceReport(students []Student, subs []SubscriptionRow, classes []Class, absences []AttendanceRow, period string) (FinanceReport, error) {
	if err := ValidatePeriod(period); err != nil {
		return FinanceReport{}, err
	}

	// student_id → 購読。重複は入力順の後勝ち（自然キーが守られていれば起きない）。
	subMap := make(map[string]SubscriptionRow, len(subs))
	for _, s := range subs {
		subMap[s.StudentID] = s
	}

	// student_id → 欠席数。(day, session) の組で数える（同日複数コマは別カウント）。
	type absKey struct {
		student      string
		day, session int
	}
	absMap := make(map[string]int, len(absences))
	seen := make(map[absKey]struct{}, len(absences))
	for _, a := range absences {
		if a.Status != StatusAbsent {
			continue
		}
		key := absKey{a.StudentID, a.DayNumber, a.SessionNumber}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		absMap[a.StudentID]++
	}

	classMap := make(map[string]Class, len(classes))
	for _, c := range classes {
		classMap[c.ID] = c
	}

	rows := make([]StudentFinanceRow, 0, len(students))
	byClass := make(map[string]*ClassCollectionStat, len(classes))
	totals := FinanceTotals{}

	for _, st := range students {
		status, paidAt := defaultPaymentStatus()
		if sub, ok := subMap[st.ID]; ok {
			if sub.Status == StatusPaid {
				status = StatusPaid
				paidAt = sub.PaidAt
			}
		}

		className := UnassignedClassName
		if cls, ok := classMap[st.ClassID]; ok {
			className = cls.Name
		}

		rows = append(rows, StudentFinanceRow{
			StudentID: st.ID,
			FullName:  st.FullName,
			ClassName: className,
			Status:    status,
			PaidAt:    paidAt,
			Absences:  absMap[st.ID],
		})

		totals.TotalStudents++
		if status == StatusPaid {
			totals.Paid++
		} else {
			totals.Unpaid++
		}

		if cls, ok := classMap[st.ClassID]; ok {
			cs, ok := byClass[cls.ID]
			if !ok {
				cs = &ClassCollectionStat{ClassID: cls.ID, ClassName: cls.Name}
				byClass[cls.ID] = cs
			}
			cs.Total++
			if status == StatusPaid {
				cs.Paid++
			} else {
				cs.Unpaid++
			}
		}
	}

	// クラス統計: 在籍0のクラスは行を出さない。入力のクラス順を保ったまま徴収率降順。
	classStats := make([]ClassCollectionStat, 0, len(byClass))
	for _, c := range classes {
		cs, ok := byClass[c.ID]
		if !ok || cs.Total == 0 {
			continue
		}
		cs.Rate = percent(cs.Paid, cs.Total)
		classStats = append(classStats, *cs)
	}
	sort.SliceStable(classStats, func(i, j int) bool { return classStats[i].Rate > classStats[j].Rate })

	totals.Rate = percent(totals.Paid, totals.TotalStudents)

	return FinanceReport{
		Month:       period,
		StudentRows: rows,
		ClassStats:  classStats,
		Totals:      totals,
	}, nil
}

// ComputeMonthlyAttendance: 1人の生徒の出欠を月別に集計する。
// months の順序どおりに1件ずつ返す。記録の無い月も Total=0 で返す（欠落させない）。
func ComputeMonthlyAttendance(rows []AttendanceRow, months []string) ([]MonthlyAttendanceStat, error) {
	for _, m := range months {
		if err := ValidatePeriod(m); err != nil {
			return nil, err
		}
	}

	type bucket struct{ present, absent int }
	buckets := make(map[string]*bucket, len(months))
	for _, r := range rows {
		b, ok := buckets[r.MonthYear]
		if !ok {
			b = &bucket{}
			buckets[r.MonthYear] = b
		}
		switch r.Status {
		case StatusPresent:
			b.present++
		case StatusAbsent:
			b.absent++
		}
	}

	out := make([]MonthlyAttendanceStat, 0, len(months))
	for _, m := range months {
		b := buckets[m]
		if b == nil {
			b = &bucket{}
		}
		total := b.present + b.absent
		out = append(out, MonthlyAttendanceStat{
			Month:   m,
			Present: b.present,
			Absent:  b.absent,
			Total:   total,
			Rate:    percent(b.present, total),
		})
	}
	return out, nil
}

// ComputeOverallRate: 全期間の出席率。
// 月ごとの率の平均ではなく、分子和/分母和で出す（月によって母数が違うため）。
func ComputeOverallRate(stats []MonthlyAttendanceStat) int {
	present, total := 0, 0
	for _, s := range stats {
		present += s.Present
		total += s.Total
	}
	return percent(present, total)
}

// ComputeRepeatAbsentees: スコープ内で欠席が threshold 回以上の生徒ID集合（昇順）。
// ダッシュボードのアラートと出欠入力画面の警告の両方がこの1関数を通る。
// 数え方は (day_number, session_number) の異なり数。別々に数え始めると画面間で数字がずれる。
func ComputeRepeatAbsentees(rows []AttendanceRow, threshold int) []string {
	if threshold <= 0 {
		threshold = DefaultAbsenceThreshold
	}

	type slot struct {
		day, session int
	}
	counted := make(map[string]map[slot]struct{})
	for _, r := range rows {
		if r.Status != StatusAbsent {
			continue
		}
		slots, ok := counted[r.StudentID]
		if !ok {
			slots = make(map[slot]struct{})
			counted[r.StudentID] = slots
		}
		slots[slot{r.DayNumber, r.SessionNumber}] = struct{}{}
	}

	out := make([]string, 0, len(counted))
	for id, slots := range counted {
		if len(slots) >= threshold {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// 率は常に 0..100。分母0は0%（ゼロ除算禁止）。
func percent(num, den int) int {
	if den <= 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}
