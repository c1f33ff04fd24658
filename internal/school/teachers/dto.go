package teachers

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// ===== Requests =====

type CreateTeacherRequest struct {
	FullName       string   `json:"full_name" binding:"required,min=3,max=100"`
	Email          *string  `json:"email,omitempty" binding:"omitempty,email"`
	Phone          *string  `json:"phone,omitempty" binding:"omitempty,dzphone"`
	Specialization *string  `json:"specialization,omitempty" binding:"omitempty,min=2,max=100"`
	ClassIDs       []string `json:"class_ids,omitempty" binding:"omitempty,dive,uuid"`
}

type UpdateTeacherRequest struct {
	FullName       *string   `json:"full_name,omitempty" binding:"omitempty,min=3,max=100"`
	Email          *string   `json:"email,omitempty" binding:"omitempty,email"`
	Phone          *string   `json:"phone,omitempty" binding:"omitempty,dzphone"`
	Specialization *string   `json:"specialization,omitempty" binding:"omitempty,min=2,max=100"`
	ClassIDs       *[]string `json:"class_ids,omitempty" binding:"omitempty,dive,uuid"` // nil = 担当変更なし
}

type Page struct {
	Limit  int
	Offset int
}

// ===== Responses =====

type ClassRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TeacherResponse struct {
	ID             string     `json:"id"`
	FullName       string     `json:"full_name"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	Specialization *string    `json:"specialization,omitempty"`
	Classes        []ClassRef `json:"classes"`
	CreatedAt      time.Time  `json:"created_at"`
}
