package report

import "time"

const (
	DefaultReportMonths = 4
	MaxReportMonths     = 12
	EvaluationLimit     = 10
)

// ===== student report =====

type StudentSummary struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	ClassName   string `json:"class_name"`
	ParentName  string `json:"parent_name,omitempty"`
	ParentPhone string `json:"parent_phone,omitempty"`
}

type MonthSubscriptionDTO struct {
	Month  string     `json:"month"`
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

type EvaluationDTO struct {
	Note        string    `json:"note"`
	TeacherName string    `json:"teacher_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type StudentReportResponse struct {
	Student       StudentSummary          `json:"student"`
	Months        []MonthlyAttendanceStat `json:"months"`
	OverallRate   int                     `json:"overall_rate"`
	Subscriptions []MonthSubscriptionDTO  `json:"subscriptions"`
	Evaluations   []EvaluationDTO         `json:"evaluations"`
}

// ===== dashboard =====

type DashboardStats struct {
	Students    int64 `json:"students"`
	Teachers    int64 `json:"teachers"`
	Classes     int64 `json:"classes"`
	Evaluations int64 `json:"evaluations"`
}

type DashboardAlerts struct {
	Month           string `json:"month"`
	UnpaidStudents  int64  `json:"unpaid_students"`  // 今月 paid でない生徒の数
	RepeatAbsentees int    `json:"repeat_absentees"` // 今月の欠席が閾値以上の生徒の数
	Threshold       int    `json:"threshold"`
}
