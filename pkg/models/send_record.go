package models

import "time"

// Send record statuses.
const (
	SendStatusPending = "pending"
	SendStatusSuccess = "success"
	SendStatusFailed  = "failed"
)

// SendRecord is an immutable log entry for one attempted delivery to one
// contact. Subject and content hold the rendered text actually sent (or the
// best available fallback on failure); rows are never updated after insert.
type SendRecord struct {
	ID           int64     `db:"id" json:"id"`
	ContactID    int64     `db:"contact_id" json:"contact_id"`
	TemplateID   int64     `db:"template_id" json:"template_id"`
	Subject      string    `db:"subject" json:"email_subject"`
	Content      string    `db:"content" json:"email_content"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	SentAt       time.Time `db:"sent_at" json:"sent_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Populated by joined list queries only.
	ContactName  *string `db:"contact_name" json:"customer_name,omitempty"`
	ContactEmail *string `db:"contact_email" json:"customer_email,omitempty"`
	TemplateName *string `db:"template_name" json:"template_name,omitempty"`
}

// DailyStat is one day's send counts.
type DailyStat struct {
	Date    string `db:"date" json:"date"`
	Total   int    `db:"total" json:"total"`
	Success int    `db:"success" json:"success"`
	Failed  int    `db:"failed" json:"failed"`
}

// TemplateStat aggregates send counts per template.
type TemplateStat struct {
	TemplateName *string `db:"template_name" json:"template_name"`
	Total        int     `db:"total" json:"total"`
	Success      int     `db:"success" json:"success"`
	Failed       int     `db:"failed" json:"failed"`
}

// StatsOverview summarizes all sends in a range.
type StatsOverview struct {
	Total       int `db:"total" json:"total"`
	Success     int `db:"success" json:"success"`
	Failed      int `db:"failed" json:"failed"`
	SuccessRate int `json:"successRate"` // whole percent
}

// SendStatistics is the payload of the statistics endpoint.
type SendStatistics struct {
	Overview      StatsOverview  `json:"overview"`
	DailyStats    []DailyStat    `json:"dailyStats"`
	TemplateStats []TemplateStat `json:"templateStats"`
}

// DashboardStats is the payload of the dashboard counters endpoint.
type DashboardStats struct {
	TotalSent   int `json:"totalSent"`
	TotalFailed int `json:"totalFailed"`
	TodaySent   int `json:"todaySent"`
}
