package attendance

import (
	"context"
	"database/sql"

	"madrasa-backend/internal/platform/apierr"
	"madrasa-backend/internal/platform/db"
	"madrasa-backend/internal/report"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn)}
}

// POST /attendance/sessions
// 1シートを1トランザクションで保存。途中で失敗したら全ロールバック。
func (s *Service) SaveSession(ctx context.Context, req SaveSessionRequest) (SaveSessionResponse, error) {
	if err := validateSaveSession(req); err != nil {
		return SaveSessionResponse{}, err
	}

	var resp SaveSessionResponse
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)
		for _, rec := range req.Records {
			created, err := st.Upsert(ctx, req, rec)
			if err != nil {
				return err
			}
			resp.Saved++
			if created {
				resp.Created++
			} else {
				resp.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return SaveSessionResponse{}, err
	}
	return resp, nil
}

// GET /attendance/sessions
func (s *Service) Session(ctx context.Context, q SessionQuery) ([]AttendanceResponse, error) {
	if q.ClassID == "" {
		return nil, apierr.Invalid("class_id is required")
	}
	if err := report.ValidatePeriod(q.MonthYear); err != nil {
		return nil, err
	}
	if q.DayNumber < MinDayNumber || q.DayNumber > MaxDayNumber {
		return nil, apierr.Invalid("day_number must be 1..31")
	}
	if q.SessionNumber < MinSessionNumber || q.SessionNumber > MaxSessionNumber {
		return nil, apierr.Invalid("session_number must be 1..8")
	}

	rows, err := s.store.SessionRecords(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]AttendanceResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return out, nil
}

// GET /attendance
func (s *Service) List(ctx context.Context, q ListQuery) ([]AttendanceResponse, int64, error) {
	if q.MonthYear != nil && *q.MonthYear != "" {
		if err := report.ValidatePeriod(*q.MonthYear); err != nil {
			return nil, 0, err
		}
	}
	if q.Status != nil && *q.Status != "" &&
		*q.Status != report.StatusPresent && *q.Status != report.StatusAbsent {
		return nil, 0, apierr.Invalid("status must be present or absent")
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AttendanceResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}

// GET /attendance/absentees
// 出欠入力画面の警告バナー。ダッシュボードと同じ report.ComputeRepeatAbsentees を通すこと。
// ここで独自に数え始めると管理者と教師で違う数字が見える。
func (s *Service) Absentees(ctx context.Context, classID, month string, threshold int) ([]AbsenteeResponse, error) {
	if classID == "" {
		return nil, apierr.Invalid("class_id is required")
	}
	if err := report.ValidatePeriod(month); err != nil {
		return nil, err
	}

	rows, err := s.store.AbsentRows(ctx, classID, month)
	if err != nil {
		return nil, err
	}
	flagged := report.ComputeRepeatAbsentees(rows, threshold)
	if len(flagged) == 0 {
		return []AbsenteeResponse{}, nil
	}

	names, err := s.store.StudentNames(ctx, flagged)
	if err != nil {
		return nil, err
	}
	out := make([]AbsenteeResponse, 0, len(flagged))
	for _, id := range flagged {
		name, ok := names[id]
		if !ok {
			// 集計後に削除された生徒はスキップ
			continue
		}
		out = append(out, AbsenteeResponse{StudentID: id, FullName: name})
	}
	return out, nil
}

func validateSaveSession(req SaveSessionRequest) error {
	if err := report.ValidatePeriod(req.MonthYear); err != nil {
		return err
	}
	if req.DayNumber < MinDayNumber || req.DayNumber > MaxDayNumber {
		return apierr.Invalid("day_number must be 1..31")
	}
	if req.SessionNumber < MinSessionNumber || req.SessionNumber > MaxSessionNumber {
		return apierr.Invalid("session_number must be 1..8")
	}
	if len(req.Records) == 0 {
		return apierr.Invalid("records must not be empty")
	}
	seen := make(map[string]struct{}, len(req.Records))
	for _, r := range req.Records {
		if r.StudentID == "" {
			return apierr.Invalid("student_id is required")
		}
		if r.Status != report.StatusPresent && r.Status != report.StatusAbsent {
			return apierr.Invalid("status must be present or absent")
		}
		if _, dup := seen[r.StudentID]; dup {
			return apierr.Invalid("duplicate student in records: " + r.StudentID)
		}
		seen[r.StudentID] = struct{}{}
	}
	return nil
}
