package evaluations

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"madrasa-backend/internal/platform/apierr"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn)}
}

// POST /evaluations
func (s *Service) Create(ctx context.Context, req CreateEvaluationRequest) (EvaluationResponse, error) {
	note := strings.TrimSpace(req.Note)
	if len([]rune(note)) < MinNoteLen {
		return EvaluationResponse{}, apierr.Invalid("note must be at least 10 characters")
	}
	if len([]rune(note)) > MaxNoteLen {
		return EvaluationResponse{}, apierr.Invalid("note must be at most 1000 characters")
	}
	if req.TeacherID == "" {
		return EvaluationResponse{}, apierr.Invalid("teacher_id is required")
	}

	ok, err := s.store.StudentExists(ctx, req.StudentID)
	if err != nil {
		return EvaluationResponse{}, err
	}
	if !ok {
		return EvaluationResponse{}, apierr.NotFound("student not found")
	}
	ok, err = s.store.TeacherExists(ctx, req.TeacherID)
	if err != nil {
		return EvaluationResponse{}, err
	}
	if !ok {
		return EvaluationResponse{}, apierr.NotFound("teacher not found")
	}

	id := uuid.NewString()
	createdAt, err := s.store.Insert(ctx, id, req.StudentID, req.TeacherID, note)
	if err != nil {
		return EvaluationResponse{}, err
	}
	return EvaluationResponse{
		ID:        id,
		StudentID: req.StudentID,
		TeacherID: req.TeacherID,
		Note:      note,
		CreatedAt: createdAt,
	}, nil
}

// GET /evaluations?student_id=&limit=
func (s *Service) ListByStudent(ctx context.Context, studentID string, limit int) ([]EvaluationResponse, error) {
	if studentID == "" {
		return nil, apierr.Invalid("student_id is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.store.ListByStudent(ctx, studentID, limit)
}
