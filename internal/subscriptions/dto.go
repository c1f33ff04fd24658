package subscriptions

import "time"

type SetPaymentRequest struct {
	Status string `json:"status" binding:"required,oneof=paid unpaid"`
}

type SubscriptionResponse struct {
	StudentID     string     `json:"student_id"`
	MonthYear     string     `json:"month_year"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	ReceiptNumber *string    `json:"receipt_number,omitempty"`
}

// 月次一覧の1行。出欠マーク（コマ番号→present/absent）も一緒に返す。
type MonthOverviewRow struct {
	StudentID string         `json:"student_id"`
	FullName  string         `json:"full_name"`
	ClassName string         `json:"class_name"`
	Status    string         `json:"status"`
	PaidAt    *time.Time     `json:"paid_at,omitempty"`
	Sessions  map[int]string `json:"sessions"`
}
