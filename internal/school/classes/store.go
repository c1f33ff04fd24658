package classes

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

type classRow struct {
	ID        string
	Name      string
	Level     sql.NullString
	Capacity  sql.NullInt64
	CreatedAt time.Time
}

func (r classRow) toDTO(count int64, teachers []TeacherRef) ClassResponse {
	res := ClassResponse{
		ID:           r.ID,
		Name:         r.Name,
		StudentCount: count,
		Teachers:     teachers,
		CreatedAt:    r.CreatedAt,
	}
	if r.Level.Valid {
		v := r.Level.String
		res.Level = &v
	}
	if r.Capacity.Valid {
		v := int(r.Capacity.Int64)
		res.Capacity = &v
	}
	if res.Teachers == nil {
		res.Teachers = []TeacherRef{}
	}
	return res
}

func (s *Store) Insert(ctx context.Context, id string, req CreateClassRequest) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO classes (id, name, level, capacity, created_at)
	VALUES (?, ?, ?, ?, UTC_TIMESTAMP())`,
		id, req.Name, strOrNil(req.Level), intOrNil(req.Capacity))
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*classRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, level, capacity, created_at FROM classes WHERE id = ?`, id)

	var r classRow
	err := row.Scan(&r.ID, &r.Name, &r.Level, &r.Capacity, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context, p Page) ([]classRow, int64, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
	SELECT id, name, level, capacity, created_at
	FROM classes
	ORDER BY name ASC, id ASC
	LIMIT %d OFFSET %d`, p.Limit, p.Offset))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []classRow
	for rows.Next() {
		var r classRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Level, &r.Capacity, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update: 渡されたフィールドだけ動的SET
func (s *Store) Update(ctx context.Context, id string, req UpdateClassRequest) error {
	var (
		sets []string
		args []any
	)
	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Level != nil {
		sets = append(sets, "level = ?")
		args = append(args, strOrNil(req.Level))
	}
	if req.Capacity != nil {
		sets = append(sets, "capacity = ?")
		args = append(args, intOrNil(req.Capacity))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	_, err := s.db.ExecContext(ctx,
		"UPDATE classes SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StudentCount: 在籍数。削除可否の判定にも使う。
func (s *Store) StudentCount(ctx context.Context, classID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM students WHERE class_id = ?`, classID).Scan(&n)
	return n, err
}

// ReplaceTeachers: 担当教師を全消し＋再登録。呼び出し側でTxに包むこと。
func (s *Store) ReplaceTeachers(ctx context.Context, classID string, teacherIDs []string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM class_teachers WHERE class_id = ?`, classID); err != nil {
		return err
	}
	for _, tid := range teacherIDs {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO class_teachers (class_id, teacher_id) VALUES (?, ?)`,
			classID, tid); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) AssignedTeachers(ctx context.Context, classID string) ([]TeacherRef, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT t.id, t.full_name
	FROM class_teachers ct
	JOIN teachers t ON t.id = ct.teacher_id
	WHERE ct.class_id = ?
	ORDER BY t.full_name ASC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeacherRef
	for rows.Next() {
		var r TeacherRef
		if err := rows.Scan(&r.ID, &r.FullName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ===== helpers =====

func strOrNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func intOrNil(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
