package attendance

import "time"

// DB行に対応（スキャン用）
type attendanceRow struct {
	AttendanceID  uint64
	StudentID     string
	ClassID       string
	TeacherID     string
	MonthYear     string // "YYYY-MM"
	DayNumber     int
	SessionNumber int
	Status        string
	RecordedAt    time.Time
}

func (r attendanceRow) toDTO() AttendanceResponse {
	return AttendanceResponse{
		AttendanceID:  r.AttendanceID,
		StudentID:     r.StudentID,
		ClassID:       r.ClassID,
		TeacherID:     r.TeacherID,
		MonthYear:     r.MonthYear,
		DayNumber:     r.DayNumber,
		SessionNumber: r.SessionNumber,
		Status:        r.Status,
		RecordedAt:    r.RecordedAt.UTC(),
	}
}
