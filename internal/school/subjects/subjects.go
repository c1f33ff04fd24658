// Package subjects は教科マスタの最小CRUD。
package subjects

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"madrasa-backend/internal/platform/apierr"
	"madrasa-backend/internal/platform/db"
)

type SubjectRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

type SubjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct{ db *sql.DB }

func NewService(conn *sql.DB) *Service { return &Service{db: conn} }

func (s *Service) Create(ctx context.Context, req SubjectRequest) (SubjectResponse, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subjects (id, name, created_at) VALUES (?, ?, UTC_TIMESTAMP())`,
		id, req.Name)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return SubjectResponse{}, apierr.Conflict("subject already exists")
		}
		return SubjectResponse{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (SubjectResponse, error) {
	var res SubjectResponse
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM subjects WHERE id = ?`, id).
		Scan(&res.ID, &res.Name, &res.CreatedAt)
	if err == sql.ErrNoRows {
		return SubjectResponse{}, apierr.NotFound("subject not found")
	}
	if err != nil {
		return SubjectResponse{}, err
	}
	return res, nil
}

func (s *Service) List(ctx context.Context) ([]SubjectResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM subjects ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SubjectResponse{}
	for rows.Next() {
		var r SubjectResponse
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Service) Update(ctx context.Context, id string, req SubjectRequest) (SubjectResponse, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE subjects SET name = ? WHERE id = ?`, req.Name, id)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return SubjectResponse{}, apierr.Conflict("subject already exists")
		}
		return SubjectResponse{}, err
	}
	// 同名更新だとRowsAffectedが0になるので、存在確認はGetに任せる
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apierr.NotFound("subject not found")
	}
	return nil
}
