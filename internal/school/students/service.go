package students

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

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

func (s *Service) Create(ctx context.Context, req CreateStudentRequest) (StudentResponse, error) {
	id := uuid.NewString()
	if err := s.store.Insert(ctx, id, req); err != nil {
		if db.IsMissingReference(err) {
			return StudentResponse{}, apierr.Invalid("class not found")
		}
		return StudentResponse{}, err
	}

	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return StudentResponse{}, err
	}
	if row == nil {
		return StudentResponse{}, apierr.Internal("inserted but not found")
	}
	return row.toDTO(), nil
}

func (s *Service) Get(ctx context.Context, id string) (StudentResponse, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return StudentResponse{}, err
	}
	if row == nil {
		return StudentResponse{}, apierr.NotFound("student not found")
	}
	return row.toDTO(), nil
}

func (s *Service) List(ctx context.Context, q SearchQuery, p Page) ([]StudentResponse, int64, error) {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}

	rows, total, err := s.store.List(ctx, q, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]StudentResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateStudentRequest) (StudentResponse, error) {
	if _, err := s.store.Update(ctx, id, req); err != nil {
		if db.IsMissingReference(err) {
			return StudentResponse{}, apierr.Invalid("class not found")
		}
		return StudentResponse{}, err
	}
	// RowsAffected=0 は「変更なし」と「存在しない」の区別がつかないので取り直す
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return StudentResponse{}, err
	}
	if row == nil {
		return StudentResponse{}, apierr.NotFound("student not found")
	}
	return row.toDTO(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("student not found")
	}
	return nil
}
