package subscriptions

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"madrasa-backend/internal/platform/apierr"
	"madrasa-backend/internal/platform/db"
	"madrasa-backend/internal/report"
)

type Service struct {
	db    *sql.DB
	store *Store
	now   func() time.Time
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn), now: time.Now}
}

// PUT /subscriptions/:student_id/:month
// paid への切替で支払日時と領収番号を確定。unpaid に戻すと両方クリア。
func (s *Service) SetPayment(ctx context.Context, studentID, month string, req SetPaymentRequest) (SubscriptionResponse, error) {
	if studentID == "" {
		return SubscriptionResponse{}, apierr.Invalid("student_id is required")
	}
	if err := report.ValidatePeriod(month); err != nil {
		return SubscriptionResponse{}, err
	}
	if req.Status != report.StatusPaid && req.Status != report.StatusUnpaid {
		return SubscriptionResponse{}, apierr.Invalid("status must be paid or unpaid")
	}

	exists, err := s.store.StudentExists(ctx, studentID)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	if !exists {
		return SubscriptionResponse{}, apierr.NotFound("student not found")
	}

	var paidAt *time.Time
	var receipt *string
	if req.Status == report.StatusPaid {
		t := s.now().UTC()
		paidAt = &t
		r := newReceiptNumber()
		receipt = &r
	}

	if err := s.store.Upsert(ctx, uuid.NewString(), studentID, month, req.Status, paidAt, receipt); err != nil {
		return SubscriptionResponse{}, err
	}

	// 確定行を取り直す（既存行更新時はidが変わらないので INSERT 値は当てにしない）
	sub, err := s.store.Get(ctx, studentID, month)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	if sub == nil {
		return SubscriptionResponse{}, apierr.Internal("upserted but not found")
	}
	return *sub, nil
}

// GET /subscriptions?month=
// 生徒一覧＋当月の支払状況＋コマ別出欠マーク。3クエリを同一視点で読む。
func (s *Service) MonthOverview(ctx context.Context, month string) ([]MonthOverviewRow, error) {
	if err := report.ValidatePeriod(month); err != nil {
		return nil, err
	}

	var out []MonthOverviewRow
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)

		students, err := st.OverviewStudents(ctx)
		if err != nil {
			return err
		}
		subs, err := st.SubsForMonth(ctx, month)
		if err != nil {
			return err
		}
		marks, err := st.SessionMarks(ctx, month)
		if err != nil {
			return err
		}

		// 後勝ち（自然キーが守られていれば重複しない）
		subMap := make(map[string]monthSub, len(subs))
		for _, sub := range subs {
			subMap[sub.StudentID] = sub
		}
		markMap := make(map[string]map[int]string)
		for _, m := range marks {
			mm, ok := markMap[m.StudentID]
			if !ok {
				mm = make(map[int]string)
				markMap[m.StudentID] = mm
			}
			mm[m.SessionNumber] = m.Status
		}

		out = make([]MonthOverviewRow, 0, len(students))
		for _, stu := range students {
			row := MonthOverviewRow{
				StudentID: stu.ID,
				FullName:  stu.FullName,
				ClassName: stu.ClassName,
				Status:    report.StatusUnpaid,
				Sessions:  map[int]string{},
			}
			if sub, ok := subMap[stu.ID]; ok && sub.Status == report.StatusPaid {
				row.Status = report.StatusPaid
				row.PaidAt = sub.PaidAt
			}
			if mm, ok := markMap[stu.ID]; ok {
				row.Sessions = mm
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// 領収番号。ULIDなので時系列ソート可能。
func newReceiptNumber() string {
	return "RCP-" + ulid.Make().String()
}
