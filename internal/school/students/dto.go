package students

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// ===== Requests =====

type CreateStudentRequest struct {
	FullName    string  `json:"full_name" binding:"required,min=3,max=100"`
	ParentName  string  `json:"parent_name" binding:"required,min=3,max=100"`
	ParentPhone *string `json:"parent_phone,omitempty" binding:"omitempty,dzphone"`
	ClassID     *string `json:"class_id,omitempty" binding:"omitempty,uuid"`
}

type UpdateStudentRequest struct {
	FullName    *string `json:"full_name,omitempty" binding:"omitempty,min=3,max=100"`
	ParentName  *string `json:"parent_name,omitempty" binding:"omitempty,min=3,max=100"`
	ParentPhone *string `json:"parent_phone,omitempty" binding:"omitempty,dzphone"`
	ClassID     *string `json:"class_id,omitempty" binding:"omitempty,uuid"`
}

type SearchQuery struct {
	ClassID *string
	Name    *string // 部分一致
}

type Page struct {
	Limit  int
	Offset int
}

// ===== Responses =====

type StudentResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	ParentName  string    `json:"parent_name"`
	ParentPhone *string   `json:"parent_phone,omitempty"`
	ClassID     *string   `json:"class_id,omitempty"`
	ClassName   *string   `json:"class_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
