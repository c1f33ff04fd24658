package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"madrasa-backend/internal/report"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

const selectCols = `id, student_id, class_id, teacher_id, month_year, day_number, session_number, status, recorded_at`

// Upsert: 自然キー (student, class, teacher, month, day, session) でINSERTまたはUPDATE。
// - 新規: RowsAffected = 1
// - 既存更新: RowsAffected = 2
// 返り値 created=true（新規）/false（更新）
func (s *Store) Upsert(ctx context.Context, req SaveSessionRequest, rec SessionRecord) (bool, error) {
	const q = `
	INSERT INTO attendances (student_id, class_id, teacher_id, month_year, day_number, session_number, status, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())
	ON DUPLICATE KEY UPDATE
	status      = VALUES(status),
	recorded_at = VALUES(recorded_at)`

	res, err := s.db.ExecContext(ctx, q,
		rec.StudentID, req.ClassID, req.TeacherID,
		req.MonthYear, req.DayNumber, req.SessionNumber, rec.Status,
	)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

// SessionRecords: 1シート分の既存レコード
func (s *Store) SessionRecords(ctx context.Context, q SessionQuery) ([]attendanceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+selectCols+`
	FROM attendances
	WHERE class_id = ? AND month_year = ? AND day_number = ? AND session_number = ?
	ORDER BY student_id ASC`,
		q.ClassID, q.MonthYear, q.DayNumber, q.SessionNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET
func (s *Store) List(ctx context.Context, q ListQuery) ([]attendanceRow, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`
	SELECT ` + selectCols + `
	FROM attendances
	`)
	if q.StudentID != nil && *q.StudentID != "" {
		wheres = append(wheres, "student_id = ?")
		args = append(args, *q.StudentID)
	}
	if q.ClassID != nil && *q.ClassID != "" {
		wheres = append(wheres, "class_id = ?")
		args = append(args, *q.ClassID)
	}
	if q.MonthYear != nil && *q.MonthYear != "" {
		wheres = append(wheres, "month_year = ?")
		args = append(args, *q.MonthYear)
	}
	if q.Status != nil && *q.Status != "" {
		wheres = append(wheres, "status = ?")
		args = append(args, *q.Status)
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}

	buf.WriteString(" ORDER BY month_year DESC, day_number DESC, session_number DESC, student_id ASC")

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, q.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, 0, err
	}

	// COUNT（ORDER BY より前までを再構築）
	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM attendances")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AbsentRows: 集計コアに渡す形でクラス×月の欠席行を返す
func (s *Store) AbsentRows(ctx context.Context, classID, month string) ([]report.AttendanceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT student_id, month_year, day_number, session_number, status
	FROM attendances
	WHERE class_id = ? AND month_year = ? AND status = 'absent'
	ORDER BY student_id ASC, day_number ASC, session_number ASC`, classID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.AttendanceRow
	for rows.Next() {
		var r report.AttendanceRow
		if err := rows.Scan(&r.StudentID, &r.MonthYear, &r.DayNumber, &r.SessionNumber, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// StudentNames: id → full_name（警告バナーの表示用）
func (s *Store) StudentNames(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	ph := strings.Repeat("?,", len(ids))
	ph = ph[:len(ph)-1]
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, full_name FROM students WHERE id IN (`+ph+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

func scanRows(rows *sql.Rows) ([]attendanceRow, error) {
	var out []attendanceRow
	for rows.Next() {
		var r attendanceRow
		if err := rows.Scan(
			&r.AttendanceID, &r.StudentID, &r.ClassID, &r.TeacherID,
			&r.MonthYear, &r.DayNumber, &r.SessionNumber, &r.Status, &r.RecordedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
