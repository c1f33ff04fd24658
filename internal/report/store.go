package report

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

// 集計への入力スナップショットを取る層。期間での絞り込みはここで済ませる
// （集計コアは絞り済み前提の純関数なので、再フィルタはしない）。
type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

func (s *Store) Students(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, full_name, COALESCE(class_id, '')
	FROM students
	ORDER BY full_name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.FullName, &st.ClassID); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) Classes(ctx context.Context) ([]Class, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, name FROM classes ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) SubscriptionsForMonth(ctx context.Context, month string) ([]SubscriptionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT student_id, status, paid_at
	FROM subscriptions
	WHERE month_year = ?
	ORDER BY id ASC`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SubscriptionRow
	for rows.Next() {
		var r SubscriptionRow
		var paidAt sql.NullTime
		if err := rows.Scan(&r.StudentID, &r.Status, &paidAt); err != nil {
			return nil, err
		}
		if paidAt.Valid {
			t := paidAt.Time.UTC()
			r.PaidAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AbsencesForMonth: 対象月の欠席行のみ。classID が空なら全クラス。
func (s *Store) AbsencesForMonth(ctx context.Context, month, classID string) ([]AttendanceRow, error) {
	q := `
	SELECT student_id, month_year, day_number, session_number, status
	FROM attendances
	WHERE month_year = ? AND status = 'absent'`
	args := []any{month}
	if classID != "" {
		q += ` AND class_id = ?`
		args = append(args, classID)
	}
	q += ` ORDER BY student_id ASC, day_number ASC, session_number ASC`

	return s.scanAttendance(ctx, q, args...)
}

func (s *Store) AttendanceForStudent(ctx context.Context, studentID string, months []string) ([]AttendanceRow, error) {
	if len(months) == 0 {
		return nil, nil
	}
	ph := strings.Repeat("?,", len(months))
	ph = ph[:len(ph)-1]
	args := make([]any, 0, len(months)+1)
	args = append(args, studentID)
	for _, m := range months {
		args = append(args, m)
	}
	q := `
	SELECT student_id, month_year, day_number, session_number, status
	FROM attendances
	WHERE student_id = ? AND month_year IN (` + ph + `)
	ORDER BY month_year ASC, day_number ASC, session_number ASC`

	return s.scanAttendance(ctx, q, args...)
}

func (s *Store) scanAttendance(ctx context.Context, q string, args ...any) ([]AttendanceRow, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceRow
	for rows.Next() {
		var r AttendanceRow
		if err := rows.Scan(&r.StudentID, &r.MonthYear, &r.DayNumber, &r.SessionNumber, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type studentInfo struct {
	ID          string
	FullName    string
	ClassName   string
	ParentName  string
	ParentPhone string
}

func (s *Store) StudentInfo(ctx context.Context, id string) (*studentInfo, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT s.id, s.full_name, COALESCE(c.name, ''), COALESCE(s.parent_name, ''), COALESCE(s.parent_phone, '')
	FROM students s
	LEFT JOIN classes c ON c.id = s.class_id
	WHERE s.id = ?`, id)

	var si studentInfo
	err := row.Scan(&si.ID, &si.FullName, &si.ClassName, &si.ParentName, &si.ParentPhone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &si, nil
}

type monthSubscription struct {
	MonthYear string
	Status    string
	PaidAt    *time.Time
}

func (s *Store) SubscriptionsForStudent(ctx context.Context, studentID string, months []string) ([]monthSubscription, error) {
	if len(months) == 0 {
		return nil, nil
	}
	ph := strings.Repeat("?,", len(months))
	ph = ph[:len(ph)-1]
	args := make([]any, 0, len(months)+1)
	args = append(args, studentID)
	for _, m := range months {
		args = append(args, m)
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT month_year, status, paid_at
	FROM subscriptions
	WHERE student_id = ? AND month_year IN (`+ph+`)
	ORDER BY month_year ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []monthSubscription
	for rows.Next() {
		var r monthSubscription
		var paidAt sql.NullTime
		if err := rows.Scan(&r.MonthYear, &r.Status, &paidAt); err != nil {
			return nil, err
		}
		if paidAt.Valid {
			t := paidAt.Time.UTC()
			r.PaidAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type evaluationNote struct {
	Note        string
	TeacherName string
	CreatedAt   time.Time
}

func (s *Store) LatestEvaluations(ctx context.Context, studentID string, limit int) ([]evaluationNote, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT e.note, COALESCE(t.full_name, ''), e.created_at
	FROM evaluations e
	LEFT JOIN teachers t ON t.id = e.teacher_id
	WHERE e.student_id = ?
	ORDER BY e.created_at DESC, e.id DESC
	LIMIT ?`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []evaluationNote
	for rows.Next() {
		var r evaluationNote
		if err := rows.Scan(&r.Note, &r.TeacherName, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

type entityCounts struct {
	Students    int64
	Teachers    int64
	Classes     int64
	Evaluations int64
}

func (s *Store) Counts(ctx context.Context) (entityCounts, error) {
	var c entityCounts
	row := s.db.QueryRowContext(ctx, `
	SELECT
	  (SELECT COUNT(*) FROM students),
	  (SELECT COUNT(*) FROM teachers),
	  (SELECT COUNT(*) FROM classes),
	  (SELECT COUNT(*) FROM evaluations)`)
	if err := row.Scan(&c.Students, &c.Teachers, &c.Classes, &c.Evaluations); err != nil {
		return entityCounts{}, err
	}
	return c, nil
}
