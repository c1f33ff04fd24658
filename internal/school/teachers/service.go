package teachers

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

// Create: 本体INSERTと担当クラス登録を1トランザクションで。
func (s *Service) Create(ctx context.Context, req CreateTeacherRequest) (TeacherResponse, error) {
	id := uuid.NewString()

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)
		if err := st.Insert(ctx, id, req); err != nil {
			return err
		}
		if len(req.ClassIDs) > 0 {
			if err := st.ReplaceAssignments(ctx, id, req.ClassIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsMissingReference(err) {
			return TeacherResponse{}, apierr.Invalid("class not found")
		}
		return TeacherResponse{}, err
	}

	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (TeacherResponse, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return TeacherResponse{}, err
	}
	if row == nil {
		return TeacherResponse{}, apierr.NotFound("teacher not found")
	}
	classes, err := s.store.AssignedClasses(ctx, id)
	if err != nil {
		return TeacherResponse{}, err
	}
	return row.toDTO(classes), nil
}

func (s *Service) List(ctx context.Context, p Page) ([]TeacherResponse, int64, error) {
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
	out := make([]TeacherResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		classes, err := s.store.AssignedClasses(ctx, rows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rows[i].toDTO(classes))
	}
	return out, total, nil
}

// Update: 本体の部分更新＋（指定があれば）担当クラスの入れ替えを1トランザクションで。
func (s *Service) Update(ctx context.Context, id string, req UpdateTeacherRequest) (TeacherResponse, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		return TeacherResponse{}, err
	}
	if row == nil {
		return TeacherResponse{}, apierr.NotFound("teacher not found")
	}

	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)
		if err := st.Update(ctx, id, req); err != nil {
			return err
		}
		if req.ClassIDs != nil {
			if err := st.ReplaceAssignments(ctx, id, *req.ClassIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsMissingReference(err) {
			return TeacherResponse{}, apierr.Invalid("class not found")
		}
		return TeacherResponse{}, err
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx)
		// 担当を先に外す
		if err := st.ReplaceAssignments(ctx, id, nil); err != nil {
			return err
		}
		n, err := st.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return apierr.NotFound("teacher not found")
		}
		return nil
	})
	return err
}
