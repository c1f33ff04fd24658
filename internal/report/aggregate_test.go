package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa-backend/internal/platform/apierr"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestValidatePeriod(t *testing.T) {
	for _, ok := range []string{"2026-01", "2026-12", "1999-09"} {
		assert.NoError(t, ValidatePeriod(ok), ok)
	}
	for _, bad := range []string{"", "2026-1", "2026-13", "2026-00", "26-01", "2026/01", "2026-01-15", "abcd-ef"} {
		err := ValidatePeriod(bad)
		require.Error(t, err, bad)
		assert.Equal(t, 400, apierr.ToHTTPStatus(err))
	}
}

func TestLastPeriods(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2025-12", "2026-01", "2026-02", "2026-03"}, LastPeriods(now, 4))
	assert.Equal(t, []string{"2026-03"}, LastPeriods(now, 1))
	assert.Nil(t, LastPeriods(now, 0))
}

func TestFinanceReport_MissingSubscriptionDefaultsToUnpaid(t *testing.T) {
	students := []Student{{ID: "s1", FullName: "A", ClassID: "c1"}}
	classes := []Class{{ID: "c1", Name: "1-A"}}

	rep, err := ComputeFinanceReport(students, nil, classes, nil, "2026-01")
	require.NoError(t, err)
	require.Len(t, rep.StudentRows, 1)
	assert.Equal(t, StatusUnpaid, rep.StudentRows[0].Status)
	assert.Nil(t, rep.StudentRows[0].PaidAt)
}

func TestFinanceReport_BadPeriodFailsFast(t *testing.T) {
	_, err := ComputeFinanceReport(nil, nil, nil, nil, "2026-1")
	require.Error(t, err)
}

func TestFinanceReport_Scenario(t *testing.T) {
	students := []Student{
		{ID: "s1", FullName: "S1", ClassID: "a"},
		{ID: "s2", FullName: "S2", ClassID: "a"},
		{ID: "s3", FullName: "S3", ClassID: "b"},
	}
	classes := []Class{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	subs := []SubscriptionRow{
		{StudentID: "s1", Status: StatusPaid, PaidAt: ts("2026-01-05T10:00:00Z")},
		// s2 は行なし → unpaid
		{StudentID: "s3", Status: StatusPaid, PaidAt: ts("2026-01-06T10:00:00Z")},
	}

	rep, err := ComputeFinanceReport(students, subs, classes, nil, "2026-01")
	require.NoError(t, err)

	require.Len(t, rep.ClassStats, 2)
	// 徴収率降順: B(1/1=100%) が A(1/2=50%) より先
	assert.Equal(t, "b", rep.ClassStats[0].ClassID)
	assert.Equal(t, 100, rep.ClassStats[0].Rate)
	assert.Equal(t, "a", rep.ClassStats[1].ClassID)
	assert.Equal(t, 50, rep.ClassStats[1].Rate)
	assert.Equal(t, 1, rep.ClassStats[1].Paid)
	assert.Equal(t, 1, rep.ClassStats[1].Unpaid)

	assert.Equal(t, FinanceTotals{TotalStudents: 3, Paid: 2, Unpaid: 1, Rate: 67}, rep.Totals)
}

func TestFinanceReport_EmptyClassOmitted(t *testing.T) {
	students := []Student{{ID: "s1", FullName: "S1", ClassID: "a"}}
	classes := []Class{{ID: "a", Name: "A"}, {ID: "empty", Name: "Empty"}}

	rep, err := ComputeFinanceReport(students, nil, classes, nil, "2026-01")
	require.NoError(t, err)
	require.Len(t, rep.ClassStats, 1)
	assert.Equal(t, "a", rep.ClassStats[0].ClassID)
}

func TestFinanceReport_OrphanRowsExcluded(t *testing.T) {
	students := []Student{{ID: "s1", FullName: "S1", ClassID: "a"}}
	classes := []Class{{ID: "a", Name: "A"}}
	subs := []SubscriptionRow{
		{StudentID: "ghost", Status: StatusPaid, PaidAt: ts("2026-01-05T10:00:00Z")},
	}
	absences := []AttendanceRow{
		{StudentID: "ghost", MonthYear: "2026-01", DayNumber: 1, SessionNumber: 1, Status: StatusAbsent},
	}

	rep, err := ComputeFinanceReport(students, subs, classes, absences, "2026-01")
	require.NoError(t, err)
	require.Len(t, rep.StudentRows, 1)
	assert.Equal(t, StatusUnpaid, rep.StudentRows[0].Status)
	assert.Equal(t, 0, rep.StudentRows[0].Absences)
	assert.Equal(t, FinanceTotals{TotalStudents: 1, Paid: 0, Unpaid: 1, Rate: 0}, rep.Totals)
}

// 退学後に残った paid 行が未納者数を目減りさせないこと。
// ダッシュボードの未納アラートはこの Totals.Unpaid をそのまま使う。
func TestFinanceReport_UnpaidCountIgnoresOrphanPaidRows(t *testing.T) {
	students := []Student{
		{ID: "s1", FullName: "S1", ClassID: "a"},
		{ID: "s2", FullName: "S2", ClassID: "a"},
	}
	classes := []Class{{ID: "a", Name: "A"}}
	subs := []SubscriptionRow{
		{StudentID: "s1", Status: StatusPaid, PaidAt: ts("2026-01-05T10:00:00Z")},
		{StudentID: "ghost1", Status: StatusPaid, PaidAt: ts("2026-01-06T10:00:00Z")},
		{StudentID: "ghost2", Status: StatusPaid, PaidAt: ts("2026-01-07T10:00:00Z")},
		{StudentID: "ghost3", Status: StatusPaid, PaidAt: ts("2026-01-08T10:00:00Z")},
	}

	rep, err := ComputeFinanceReport(students, subs, classes, nil, "2026-01")
	require.NoError(t, err)
	// 名簿2人のうち paid は s1 のみ。ghost の paid 行は数に入らない。
	assert.Equal(t, FinanceTotals{TotalStudents: 2, Paid: 1, Unpaid: 1, Rate: 50}, rep.Totals)
}

func TestFinanceReport_DuplicateSubscriptionLastWins(t *testing.T) {
	students := []Student{{ID: "s1", FullName: "S1", ClassID: "a"}}
	classes := []Class{{ID: "a", Name: "A"}}
	subs := []SubscriptionRow{
		{StudentID: "s1", Status: StatusPaid, PaidAt: ts("2026-01-05T10:00:00Z")},
		{StudentID: "s1", Status: StatusUnpaid},
	}

	rep, err := ComputeFinanceReport(students, subs, classes, nil, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, StatusUnpaid, rep.StudentRows[0].Status)
	assert.Nil(t, rep.StudentRows[0].PaidAt)
}

func TestFinanceReport_AbsenceCountPerDaySession(t *testing.T) {
	students := []Student{{ID: "s1", FullName: "S1", ClassID: "a"}}
	classes := []Class{{ID: "a", Name: "A"}}
	absences := []AttendanceRow{
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 1, SessionNumber: 1, Status: StatusAbsent},
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 1, SessionNumber: 2, Status: StatusAbsent},
		// 同一コマの重複行は1回だけ数える
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 1, SessionNumber: 2, Status: StatusAbsent},
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 3, SessionNumber: 1, Status: StatusPresent},
	}

	rep, err := ComputeFinanceReport(students, nil, classes, absences, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.StudentRows[0].Absences)
}

func TestFinanceReport_RateBounds(t *testing.T) {
	students := []Student{
		{ID: "s1", FullName: "S1", ClassID: "a"},
		{ID: "s2", FullName: "S2", ClassID: "a"},
		{ID: "s3", FullName: "S3"},
	}
	classes := []Class{{ID: "a", Name: "A"}}
	subs := []SubscriptionRow{
		{StudentID: "s1", Status: StatusPaid, PaidAt: ts("2026-01-05T10:00:00Z")},
		{StudentID: "s2", Status: StatusPaid, PaidAt: ts("2026-01-05T11:00:00Z")},
		{StudentID: "s3", Status: StatusPaid, PaidAt: ts("2026-01-05T12:00:00Z")},
	}

	rep, err := ComputeFinanceReport(students, subs, classes, nil, "2026-01")
	require.NoError(t, err)
	for _, cs := range rep.ClassStats {
		assert.GreaterOrEqual(t, cs.Rate, 0)
		assert.LessOrEqual(t, cs.Rate, 100)
	}
	assert.Equal(t, 100, rep.Totals.Rate)

	empty, err := ComputeFinanceReport(nil, nil, nil, nil, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Totals.Rate) // 分母0は0%
}

func TestMonthlyAttendance(t *testing.T) {
	months := []string{"2025-12", "2026-01", "2026-02"}
	rows := []AttendanceRow{
		{StudentID: "s1", MonthYear: "2025-12", DayNumber: 1, SessionNumber: 1, Status: StatusPresent},
		{StudentID: "s1", MonthYear: "2025-12", DayNumber: 2, SessionNumber: 1, Status: StatusAbsent},
		{StudentID: "s1", MonthYear: "2026-02", DayNumber: 1, SessionNumber: 1, Status: StatusPresent},
		// 対象外の月は無視
		{StudentID: "s1", MonthYear: "2026-03", DayNumber: 1, SessionNumber: 1, Status: StatusPresent},
	}

	stats, err := ComputeMonthlyAttendance(rows, months)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, MonthlyAttendanceStat{Month: "2025-12", Present: 1, Absent: 1, Total: 2, Rate: 50}, stats[0])
	// 記録なしの月は Total=0 で返す（0%の月と区別できるように）
	assert.Equal(t, MonthlyAttendanceStat{Month: "2026-01", Total: 0, Rate: 0}, stats[1])
	assert.Equal(t, MonthlyAttendanceStat{Month: "2026-02", Present: 1, Total: 1, Rate: 100}, stats[2])
}

func TestMonthlyAttendance_BadMonth(t *testing.T) {
	_, err := ComputeMonthlyAttendance(nil, []string{"2026-1"})
	require.Error(t, err)
}

func TestOverallRate_SumOfRatiosNotMean(t *testing.T) {
	// totals [10,0,5,20], present [8,0,5,10] → round(23/35*100)=66（率の平均だと違う値になる）
	stats := []MonthlyAttendanceStat{
		{Month: "2025-11", Present: 8, Absent: 2, Total: 10, Rate: 80},
		{Month: "2025-12", Total: 0, Rate: 0},
		{Month: "2026-01", Present: 5, Total: 5, Rate: 100},
		{Month: "2026-02", Present: 10, Absent: 10, Total: 20, Rate: 50},
	}
	assert.Equal(t, 66, ComputeOverallRate(stats))
	assert.Equal(t, 0, ComputeOverallRate(nil))
}

func TestRepeatAbsentees(t *testing.T) {
	rows := []AttendanceRow{
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 1, SessionNumber: 1, Status: StatusAbsent},
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 1, SessionNumber: 2, Status: StatusAbsent},
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 2, SessionNumber: 1, Status: StatusAbsent},
		{StudentID: "s2", MonthYear: "2026-01", DayNumber: 1, SessionNumber: 1, Status: StatusAbsent},
		{StudentID: "s2", MonthYear: "2026-01", DayNumber: 2, SessionNumber: 1, Status: StatusAbsent},
		{StudentID: "s3", MonthYear: "2026-01", DayNumber: 5, SessionNumber: 3, Status: StatusPresent},
	}

	// 同日2コマの欠席は2回（日数ではなくコマ数で数える）
	assert.Equal(t, []string{"s1"}, ComputeRepeatAbsentees(rows, 3))
	assert.Equal(t, []string{"s1", "s2"}, ComputeRepeatAbsentees(rows, 2))
	assert.Empty(t, ComputeRepeatAbsentees(rows, 4))

	// threshold未指定(0以下)は既定の3
	assert.Equal(t, []string{"s1"}, ComputeRepeatAbsentees(rows, 0))
}

// ダッシュボードと出欠入力画面が同じ行に対して同じ集合を見ることの確認
func TestRepeatAbsentees_ConsistentAcrossCallSites(t *testing.T) {
	rows := []AttendanceRow{
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 1, SessionNumber: 1, Status: StatusAbsent},
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 2, SessionNumber: 1, Status: StatusAbsent},
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 3, SessionNumber: 1, Status: StatusAbsent},
	}
	dashboard := ComputeRepeatAbsentees(rows, DefaultAbsenceThreshold)
	quickEntry := ComputeRepeatAbsentees(rows, DefaultAbsenceThreshold)
	assert.Equal(t, dashboard, quickEntry)
}

func TestAggregation_Idempotent(t *testing.T) {
	students := []Student{
		{ID: "s1", FullName: "S1", ClassID: "a"},
		{ID: "s2", FullName: "S2", ClassID: "b"},
	}
	classes := []Class{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	subs := []SubscriptionRow{{StudentID: "s2", Status: StatusPaid, PaidAt: ts("2026-01-03T09:00:00Z")}}
	absences := []AttendanceRow{
		{StudentID: "s1", MonthYear: "2026-01", DayNumber: 4, SessionNumber: 2, Status: StatusAbsent},
	}

	first, err := ComputeFinanceReport(students, subs, classes, absences, "2026-01")
	require.NoError(t, err)
	second, err := ComputeFinanceReport(students, subs, classes, absences, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// 同率クラスは入力順を保つ（安定ソート）
func TestFinanceReport_StableTieOrder(t *testing.T) {
	students := []Student{
		{ID: "s1", FullName: "S1", ClassID: "a"},
		{ID: "s2", FullName: "S2", ClassID: "b"},
		{ID: "s3", FullName: "S3", ClassID: "c"},
	}
	classes := []Class{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}

	rep, err := ComputeFinanceReport(students, nil, classes, nil, "2026-01")
	require.NoError(t, err)
	require.Len(t, rep.ClassStats, 3)
	assert.Equal(t, "a", rep.ClassStats[0].ClassID)
	assert.Equal(t, "b", rep.ClassStats[1].ClassID)
	assert.Equal(t, "c", rep.ClassStats[2].ClassID)
}
