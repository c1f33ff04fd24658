package evaluations

import "time"

const (
	MinNoteLen   = 10
	MaxNoteLen   = 1000
	DefaultLimit = 10
	MaxLimit     = 100
)

type CreateEvaluationRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	TeacherID string `json:"teacher_id"` // 教師ロールの場合はトークンのsubで上書き
	Note      string `json:"note" binding:"required,min=10,max=1000"`
}

type EvaluationResponse struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	TeacherID   string    `json:"teacher_id"`
	TeacherName string    `json:"teacher_name,omitempty"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}
