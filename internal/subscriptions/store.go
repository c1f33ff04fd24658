package subscriptions

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

func (s *Store) StudentExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM students WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert: 自然キー (student_id, month_year) でINSERTまたはUPDATE。
func (s *Store) Upsert(ctx context.Context, rowID, studentID, month, status string, paidAt *time.Time, receipt *string) error {
	const q = `
	INSERT INTO subscriptions (id, student_id, month_year, status, paid_at, receipt_number)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
	status         = VALUES(status),
	paid_at        = VALUES(paid_at),
	receipt_number = VALUES(receipt_number)`

	var paidAtArg any
	if paidAt != nil {
		paidAtArg = paidAt.UTC()
	}
	var receiptArg any
	if receipt != nil {
		receiptArg = *receipt
	}
	_, err := s.db.ExecContext(ctx, q, rowID, studentID, month, status, paidAtArg, receiptArg)
	return err
}

func (s *Store) Get(ctx context.Context, studentID, month string) (*SubscriptionResponse, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT student_id, month_year, status, paid_at, receipt_number
	FROM subscriptions
	WHERE student_id = ? AND month_year = ?`, studentID, month)

	var r SubscriptionResponse
	var paidAt sql.NullTime
	var receipt sql.NullString
	err := row.Scan(&r.StudentID, &r.MonthYear, &r.Status, &paidAt, &receipt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := paidAt.Time.UTC()
		r.PaidAt = &t
	}
	if receipt.Valid {
		r.ReceiptNumber = &receipt.String
	}
	return &r, nil
}

type overviewStudent struct {
	ID        string
	FullName  string
	ClassName string
}

func (s *Store) OverviewStudents(ctx context.Context) ([]overviewStudent, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT s.id, s.full_name, COALESCE(c.name, '')
	FROM students s
	LEFT JOIN classes c ON c.id = s.class_id
	ORDER BY s.full_name ASC, s.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []overviewStudent
	for rows.Next() {
		var r overviewStudent
		if err := rows.Scan(&r.ID, &r.FullName, &r.ClassName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type monthSub struct {
	StudentID string
	Status    string
	PaidAt    *time.Time
}

func (s *Store) SubsForMonth(ctx context.Context, month string) ([]monthSub, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT student_id, status, paid_at
	FROM subscriptions
	WHERE month_year = ?
	ORDER BY id ASC`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []monthSub
	for rows.Next() {
		var r monthSub
		var paidAt sql.NullTime
		if err := rows.Scan(&r.StudentID, &r.Status, &paidAt); err != nil {
			return nil, err
		}
		if paidAt.Valid {
			t := paidAt.Time.UTC()
			r.PaidAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type sessionMark struct {
	StudentID     string
	SessionNumber int
	Status        string
}

const sessionMarksQuery = `
	SELECT student_id, session_number, status
	FROM attendances
	WHERE month_year = ?
	ORDER BY recorded_at ASC, id ASC`

// SessionMarks: 月内のコマ別出欠（recorded_at昇順 → 同一コマ重複時は後勝ち）
func (s *Store) SessionMarks(ctx context.Context, month string) ([]sessionMark, error) {
	rows, err := s.db.QueryContext(ctx, sessionMarksQuery, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sessionMark
	for rows.Next() {
		var r sessionMark
		if err := rows.Scan(&r.StudentID, &r.SessionNumber, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
