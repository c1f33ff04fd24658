package students

import (
	"database/sql"
	"time"
)

// DB行に対応（スキャン用）
type studentRow struct {
	ID          string
	FullName    string
	ParentName  string
	ParentPhone sql.NullString
	ClassID     sql.NullString
	ClassName   sql.NullString
	CreatedAt   time.Time
}

func (r studentRow) toDTO() StudentResponse {
	out := StudentResponse{
		ID:         r.ID,
		FullName:   r.FullName,
		ParentName: r.ParentName,
		CreatedAt:  r.CreatedAt.UTC(),
	}
	if r.ParentPhone.Valid {
		out.ParentPhone = &r.ParentPhone.String
	}
	if r.ClassID.Valid {
		out.ClassID = &r.ClassID.String
	}
	if r.ClassName.Valid {
		out.ClassName = &r.ClassName.String
	}
	return out
}
