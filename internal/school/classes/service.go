package classes

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

func (s *Service) Create(ctx context.Context, req CreateClassRequest) (ClassResponse, error) {
	id := uuid.NewString()

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)
		if err := st.Insert(ctx, id, req); err != nil {
			return err
		}
		if len(req.TeacherIDs) > 0 {
			if err := st.ReplaceTeachers(ctx, id, req.TeacherIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return ClassResponse{}, apierr.Conflict("class name already exists")
		}
		if db.IsMissingReference(err) {
			return ClassResponse{}, apierr.Invalid("teacher not found")
		}
		return ClassResponse{}, err
	}

	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (ClassResponse, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ClassResponse{}, err
	}
	if row == nil {
		return ClassResponse{}, apierr.NotFound("class not found")
	}
	count, err := s.store.StudentCount(ctx, id)
	if err != nil {
		return ClassResponse{}, err
	}
	teachers, err := s.store.AssignedTeachers(ctx, id)
	if err != nil {
		return ClassResponse{}, err
	}
	return row.toDTO(count, teachers), nil
}

func (s *Service) List(ctx context.Context, p Page) ([]ClassResponse, int64, error) {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}

	rows, total, err := s.store.List(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ClassResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		count, err := s.store.StudentCount(ctx, rows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		teachers, err := s.store.AssignedTeachers(ctx, rows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rows[i].toDTO(count, teachers))
	}
	return out, total, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateClassRequest) (ClassResponse, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ClassResponse{}, err
	}
	if row == nil {
		return ClassResponse{}, apierr.NotFound("class not found")
	}

	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)
		if err := st.Update(ctx, id, req); err != nil {
			return err
		}
		if req.TeacherIDs != nil {
			if err := st.ReplaceTeachers(ctx, id, *req.TeacherIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return ClassResponse{}, apierr.Conflict("class name already exists")
		}
		if db.IsMissingReference(err) {
			return ClassResponse{}, apierr.Invalid("teacher not found")
		}
		return ClassResponse{}, err
	}

	return s.Get(ctx, id)
}

// Delete: 在籍生徒がいる間は削除を拒否する。先に転籍させること。
func (s *Service) Delete(ctx context.Context, id string) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)
		n, err := st.StudentCount(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apierr.Conflict("class still has enrolled students")
		}
		if err := st.ReplaceTeachers(ctx, id, nil); err != nil {
			return err
		}
		deleted, err := st.Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return apierr.NotFound("class not found")
		}
		return nil
	})
}
