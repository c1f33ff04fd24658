package report

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"madrasa-backend/internal/platform/apierr"
	"madrasa-backend/internal/platform/db"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn)}
}

// Finance: 月次徴収レポート。
// 4スナップショットは独立なので並列に取得し、揃ってから集計コアに渡す。
func (s *Service) Finance(ctx context.Context, month string) (FinanceReport, error) {
	if err := ValidatePeriod(month); err != nil {
		return FinanceReport{}, err
	}

	var (
		students []Student
		classes  []Class
		subs     []SubscriptionRow
		absences []AttendanceRow
	)

	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(4)
	go func() { defer wg.Done(); students, errs[0] = s.store.Students(ctx) }()
	go func() { defer wg.Done(); classes, errs[1] = s.store.Classes(ctx) }()
	go func() { defer wg.Done(); subs, errs[2] = s.store.SubscriptionsForMonth(ctx, month) }()
	go func() { defer wg.Done(); absences, errs[3] = s.store.AbsencesForMonth(ctx, month, "") }()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return FinanceReport{}, err
		}
	}

	return ComputeFinanceReport(students, subs, classes, absences, month)
}

// StudentReport: 直近 months ヶ月の生徒レポート（出欠・購読・評価ノート）。
// 複数クエリを同一視点で読むため読み取り専用Txでまとめる。
func (s *Service) StudentReport(ctx context.Context, studentID string, months int, now time.Time) (StudentReportResponse, error) {
	if studentID == "" {
		return StudentReportResponse{}, apierr.Invalid("student id is required")
	}
	if months <= 0 {
		months = DefaultReportMonths
	}
	if months > MaxReportMonths {
		months = MaxReportMonths
	}
	periods := LastPeriods(now, months)

	var resp StudentReportResponse
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)

		info, err := st.StudentInfo(ctx, studentID)
		if err != nil {
			return err
		}
		if info == nil {
			return apierr.NotFound("student not found")
		}
		resp.Student = StudentSummary{
			ID:          info.ID,
			FullName:    info.FullName,
			ClassName:   info.ClassName,
			ParentName:  info.ParentName,
			ParentPhone: info.ParentPhone,
		}

		attRows, err := st.AttendanceForStudent(ctx, studentID, periods)
		if err != nil {
			return err
		}
		stats, err := ComputeMonthlyAttendance(attRows, periods)
		if err != nil {
			return err
		}
		resp.Months = stats
		resp.OverallRate = ComputeOverallRate(stats)

		subs, err := st.SubscriptionsForStudent(ctx, studentID, periods)
		if err != nil {
			return err
		}
		subMap := make(map[string]monthSubscription, len(subs))
		for _, sub := range subs {
			subMap[sub.MonthYear] = sub
		}
		resp.Subscriptions = make([]MonthSubscriptionDTO, 0, len(periods))
		for _, p := range periods {
			status, paidAt := defaultPaymentStatus()
			if sub, ok := subMap[p]; ok && sub.Status == StatusPaid {
				status, paidAt = StatusPaid, sub.PaidAt
			}
			resp.Subscriptions = append(resp.Subscriptions, MonthSubscriptionDTO{Month: p, Status: status, PaidAt: paidAt})
		}

		evals, err := st.LatestEvaluations(ctx, studentID, EvaluationLimit)
		if err != nil {
			return err
		}
		resp.Evaluations = make([]EvaluationDTO, 0, len(evals))
		for _, e := range evals {
			resp.Evaluations = append(resp.Evaluations, EvaluationDTO{
				Note:        e.Note,
				TeacherName: e.TeacherName,
				CreatedAt:   e.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return StudentReportResponse{}, err
	}
	return resp, nil
}

func (s *Service) Stats(ctx context.Context) (DashboardStats, error) {
	c, err := s.store.Counts(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{
		Students:    c.Students,
		Teachers:    c.Teachers,
		Classes:     c.Classes,
		Evaluations: c.Evaluations,
	}, nil
}

// Alerts: 管理者ダッシュボードの注意喚起。今月分のみ。
func (s *Service) Alerts(ctx context.Context, now time.Time) (DashboardAlerts, error) {
	month := CurrentPeriod(now)

	// 未納数は財務レポートと同じ集計経路で出す。
	// 名簿に居ない生徒の購読行（退学後の残骸）を数えないため。
	rep, err := s.Finance(ctx, month)
	if err != nil {
		return DashboardAlerts{}, err
	}
	unpaid := int64(rep.Totals.Unpaid)

	absences, err := s.store.AbsencesForMonth(ctx, month, "")
	if err != nil {
		return DashboardAlerts{}, err
	}
	flagged := ComputeRepeatAbsentees(absences, DefaultAbsenceThreshold)

	return DashboardAlerts{
		Month:           month,
		UnpaidStudents:  unpaid,
		RepeatAbsentees: len(flagged),
		Threshold:       DefaultAbsenceThreshold,
	}, nil
}
