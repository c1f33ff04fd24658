package evaluations

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

func (s *Store) StudentExists(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM students WHERE id = ? LIMIT 1`, id)
}

func (s *Store) TeacherExists(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM teachers WHERE id = ? LIMIT 1`, id)
}

func (s *Store) exists(ctx context.Context, q, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert: 追記のみ。更新・削除のクエリはこの層に存在しない。
func (s *Store) Insert(ctx context.Context, id, studentID, teacherID, note string) (time.Time, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO evaluations (id, student_id, teacher_id, note, created_at)
	VALUES (?, ?, ?, ?, ?)`, id, studentID, teacherID, note, now)
	return now, err
}

func (s *Store) ListByStudent(ctx context.Context, studentID string, limit int) ([]EvaluationResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT e.id, e.student_id, e.teacher_id, COALESCE(t.full_name, ''), e.note, e.created_at
	FROM evaluations e
	LEFT JOIN teachers t ON t.id = e.teacher_id
	WHERE e.student_id = ?
	ORDER BY e.created_at DESC, e.id DESC
	LIMIT ?`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EvaluationResponse
	for rows.Next() {
		var r EvaluationResponse
		if err := rows.Scan(&r.ID, &r.StudentID, &r.TeacherID, &r.TeacherName, &r.Note, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
