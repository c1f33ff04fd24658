package classes

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200

	// 教室の物理上限。これを超える定員は登録させない。
	MaxCapacity = 100
)

// ===== Requests =====

type CreateClassRequest struct {
	Name       string   `json:"name" binding:"required,min=2,max=50"`
	Level      *string  `json:"level,omitempty" binding:"omitempty,min=1,max=50"`
	Capacity   *int     `json:"capacity,omitempty" binding:"omitempty,min=1,max=100"`
	TeacherIDs []string `json:"teacher_ids,omitempty" binding:"omitempty,dive,uuid"`
}

type UpdateClassRequest struct {
	Name       *string   `json:"name,omitempty" binding:"omitempty,min=2,max=50"`
	Level      *string   `json:"level,omitempty" binding:"omitempty,min=1,max=50"`
	Capacity   *int      `json:"capacity,omitempty" binding:"omitempty,min=1,max=100"`
	TeacherIDs *[]string `json:"teacher_ids,omitempty" binding:"omitempty,dive,uuid"` // nil = 担当変更なし
}

type Page struct {
	Limit  int
	Offset int
}

// ===== Responses =====

type TeacherRef struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type ClassResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Level        *string      `json:"level,omitempty"`
	Capacity     *int         `json:"capacity,omitempty"`
	StudentCount int64        `json:"student_count"`
	Teachers     []TeacherRef `json:"teachers"`
	CreatedAt    time.Time    `json:"created_at"`
}
