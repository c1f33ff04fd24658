package teachers

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

// DB行に対応（スキャン用）
type teacherRow struct {
	ID             string
	FullName       string
	Email          sql.NullString
	Phone          sql.NullString
	Specialization sql.NullString
	CreatedAt      time.Time
}

func (r teacherRow) toDTO(classes []ClassRef) TeacherResponse {
	out := TeacherResponse{
		ID:        r.ID,
		FullName:  r.FullName,
		Classes:   classes,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.Email.Valid {
		out.Email = &r.Email.String
	}
	if r.Phone.Valid {
		out.Phone = &r.Phone.String
	}
	if r.Specialization.Valid {
		out.Specialization = &r.Specialization.String
	}
	return out
}

func (s *Store) Insert(ctx context.Context, id string, req CreateTeacherRequest) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO teachers (id, full_name, email, phone, specialization, created_at)
	VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP())`,
		id, req.FullName, strOrNil(req.Email), strOrNil(req.Phone), strOrNil(req.Specialization))
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*teacherRow, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, full_name, email, phone, specialization, created_at
	FROM teachers WHERE id = ?`, id)

	var r teacherRow
	err := row.Scan(&r.ID, &r.FullName, &r.Email, &r.Phone, &r.Specialization, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context, p Page) ([]teacherRow, int64, error) {
	q := fmt.Sprintf(`
	SELECT id, full_name, email, phone, specialization, created_at
	FROM teachers
	ORDER BY full_name ASC, id ASC
	LIMIT %d OFFSET %d`, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []teacherRow
	for rows.Next() {
		var r teacherRow
		if err := rows.Scan(&r.ID, &r.FullName, &r.Email, &r.Phone, &r.Specialization, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teachers`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Update(ctx context.Context, id string, req UpdateTeacherRequest) error {
	var (
		sets []string
		args []any
	)
	if req.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *req.FullName)
	}
	if req.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strOrNil(req.Email))
	}
	if req.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, strOrNil(req.Phone))
	}
	if req.Specialization != nil {
		sets = append(sets, "specialization = ?")
		args = append(args, strOrNil(req.Specialization))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := s.db.ExecContext(ctx,
		"UPDATE teachers SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ===== class assignments =====

// ReplaceAssignments: 担当クラスを全消し＋再登録。呼び出し側でTxに包むこと。
func (s *Store) ReplaceAssignments(ctx context.Context, teacherID string, classIDs []string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM class_teachers WHERE teacher_id = ?`, teacherID); err != nil {
		return err
	}
	for _, cid := range classIDs {
		if _, err := s.db.ExecContext(ctx, `
		INSERT INTO class_teachers (class_id, teacher_id) VALUES (?, ?)`, cid, teacherID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) AssignedClasses(ctx context.Context, teacherID string) ([]ClassRef, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT c.id, c.name
	FROM class_teachers ct
	JOIN classes c ON c.id = ct.class_id
	WHERE ct.teacher_id = ?
	ORDER BY c.name ASC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ClassRef{}
	for rows.Next() {
		var c ClassRef
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func strOrNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
