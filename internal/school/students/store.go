package students

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

const selectCols = `
	s.id, s.full_name, s.parent_name, s.parent_phone, s.class_id, c.name, s.created_at
	FROM students s
	LEFT JOIN classes c ON c.id = s.class_id`

func (s *Store) Insert(ctx context.Context, id string, req CreateStudentRequest) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO students (id, full_name, parent_name, parent_phone, class_id, created_at)
	VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP())`,
		id, req.FullName, req.ParentName, strOrNil(req.ParentPhone), strOrNil(req.ClassID))
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*studentRow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+selectCols+` WHERE s.id = ?`, id)

	var r studentRow
	err := row.Scan(&r.ID, &r.FullName, &r.ParentName, &r.ParentPhone, &r.ClassID, &r.ClassName, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET
func (s *Store) List(ctx context.Context, q SearchQuery, p Page) ([]studentRow, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`SELECT` + selectCols)
	if q.ClassID != nil && *q.ClassID != "" {
		wheres = append(wheres, "s.class_id = ?")
		args = append(args, *q.ClassID)
	}
	if q.Name != nil && *q.Name != "" {
		wheres = append(wheres, "s.full_name LIKE ?")
		args = append(args, "%"+*q.Name+"%")
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	buf.WriteString(" ORDER BY s.full_name ASC, s.id ASC")
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []studentRow
	for rows.Next() {
		var r studentRow
		if err := rows.Scan(&r.ID, &r.FullName, &r.ParentName, &r.ParentPhone, &r.ClassID, &r.ClassName, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// COUNT（ORDER BY より前までを再構築）
	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM students s")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update: 渡されたフィールドだけ動的SET
func (s *Store) Update(ctx context.Context, id string, req UpdateStudentRequest) (int64, error) {
	var (
		sets []string
		args []any
	)
	if req.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *req.FullName)
	}
	if req.ParentName != nil {
		sets = append(sets, "parent_name = ?")
		args = append(args, *req.ParentName)
	}
	if req.ParentPhone != nil {
		sets = append(sets, "parent_phone = ?")
		args = append(args, strOrNil(req.ParentPhone))
	}
	if req.ClassID != nil {
		sets = append(sets, "class_id = ?")
		args = append(args, strOrNil(req.ClassID))
	}
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE students SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ===== helpers =====

func strOrNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
