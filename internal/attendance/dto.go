package attendance

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200

	MinDayNumber     = 1
	MaxDayNumber     = 31
	MinSessionNumber = 1
	MaxSessionNumber = 8 // 1日は最大8コマ
)

// 1コマ分の出欠シート保存。(class, teacher, month, day, session) で1シート。
type SaveSessionRequest struct {
	ClassID       string          `json:"class_id" binding:"required"`
	TeacherID     string          `json:"teacher_id" binding:"required"`
	MonthYear     string          `json:"month_year" binding:"required,monthyear"`
	DayNumber     int             `json:"day_number" binding:"required,min=1,max=31"`
	SessionNumber int             `json:"session_number" binding:"required,min=1,max=8"`
	Records       []SessionRecord `json:"records" binding:"required,min=1,dive"`
}

type SessionRecord struct {
	StudentID string `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present absent"`
}

type SaveSessionResponse struct {
	Saved   int `json:"saved"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type SessionQuery struct {
	ClassID       string
	MonthYear     string
	DayNumber     int
	SessionNumber int
}

type AttendanceResponse struct {
	AttendanceID  uint64    `json:"attendance_id"`
	StudentID     string    `json:"student_id"`
	ClassID       string    `json:"class_id"`
	TeacherID     string    `json:"teacher_id"`
	MonthYear     string    `json:"month_year"`
	DayNumber     int       `json:"day_number"`
	SessionNumber int       `json:"session_number"`
	Status        string    `json:"status"`
	RecordedAt    time.Time `json:"recorded_at"`
}

type ListQuery struct {
	StudentID *string
	ClassID   *string
	MonthYear *string
	Status    *string
	Limit     int
	Offset    int
}

type AbsenteeResponse struct {
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
}
