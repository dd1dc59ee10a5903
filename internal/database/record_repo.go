package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Celestebz/sendemail/pkg/models"
)

// RecordFilter narrows send-history queries. Dates are inclusive
// YYYY-MM-DD bounds; both must be set for the range to apply.
type RecordFilter struct {
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
}

// CreateRecord appends one delivery attempt to the history. Records are
// never updated afterwards.
func (db *DB) CreateRecord(ctx context.Context, record *models.SendRecord) error {
	query := `
		INSERT INTO send_records (contact_id, template_id, subject, content, status, error_message, sent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	if record.SentAt.IsZero() {
		record.SentAt = now
	}
	result, err := db.ExecContext(ctx, query,
		record.ContactID,
		record.TemplateID,
		record.Subject,
		record.Content,
		record.Status,
		record.ErrorMessage,
		record.SentAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create send record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	record.ID = id
	record.CreatedAt = now
	return nil
}

// ListRecords returns one page of send history, newest first, with contact
// and template names joined in, plus the total row count for the filter.
func (db *DB) ListRecords(ctx context.Context, filter RecordFilter) ([]*models.SendRecord, int, error) {
	where := ""
	var args []interface{}
	if filter.StartDate != "" && filter.EndDate != "" {
		where = `WHERE DATE(sr.sent_at) BETWEEN ? AND ?`
		args = append(args, filter.StartDate, filter.EndDate)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM send_records sr ` + where
	if err := db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count send records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 100
	}

	query := `
		SELECT sr.id, sr.contact_id, sr.template_id, sr.subject, sr.content,
			sr.status, sr.error_message, sr.sent_at, sr.created_at,
			c.name AS contact_name, c.email AS contact_email, t.name AS template_name
		FROM send_records sr
		LEFT JOIN contacts c ON sr.contact_id = c.id
		LEFT JOIN email_templates t ON sr.template_id = t.id
		` + where + `
		ORDER BY sr.sent_at DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, pageSize, (page-1)*pageSize)

	var records []*models.SendRecord
	if err := db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list send records: %w", err)
	}
	return records, total, nil
}

// Statistics aggregates send history into an overview, daily buckets (most
// recent 30 days with activity) and per-template counts.
func (db *DB) Statistics(ctx context.Context, startDate, endDate string) (*models.SendStatistics, error) {
	where := ""
	var args []interface{}
	if startDate != "" && endDate != "" {
		where = `WHERE DATE(sent_at) BETWEEN ? AND ?`
		args = append(args, startDate, endDate)
	}

	var overview models.StatsOverview
	query := `
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0) AS success,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) AS failed
		FROM send_records ` + where
	if err := db.GetContext(ctx, &overview, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get send overview: %w", err)
	}
	if overview.Total > 0 {
		overview.SuccessRate = overview.Success * 100 / overview.Total
	}

	var daily []models.DailyStat
	query = `
		SELECT DATE(sent_at) AS date,
			COUNT(*) AS total,
			SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END) AS success,
			SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failed
		FROM send_records
		` + where + `
		GROUP BY DATE(sent_at)
		ORDER BY date DESC
		LIMIT 30
	`
	if err := db.SelectContext(ctx, &daily, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	var byTemplate []models.TemplateStat
	whereSR := where
	if whereSR != "" {
		whereSR = `WHERE DATE(sr.sent_at) BETWEEN ? AND ?`
	}
	query = `
		SELECT t.name AS template_name,
			COUNT(*) AS total,
			SUM(CASE WHEN sr.status = 'success' THEN 1 ELSE 0 END) AS success,
			SUM(CASE WHEN sr.status = 'failed' THEN 1 ELSE 0 END) AS failed
		FROM send_records sr
		LEFT JOIN email_templates t ON sr.template_id = t.id
		` + whereSR + `
		GROUP BY sr.template_id, t.name
		ORDER BY total DESC
	`
	if err := db.SelectContext(ctx, &byTemplate, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get template stats: %w", err)
	}

	stats := &models.SendStatistics{
		Overview:      overview,
		DailyStats:    daily,
		TemplateStats: byTemplate,
	}
	if stats.DailyStats == nil {
		stats.DailyStats = []models.DailyStat{}
	}
	if stats.TemplateStats == nil {
		stats.TemplateStats = []models.TemplateStat{}
	}
	return stats, nil
}

// DashboardStats returns the dashboard counters.
func (db *DB) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := db.GetContext(ctx, &stats.TotalSent,
		`SELECT COUNT(*) FROM send_records WHERE status = 'success'`)
	if err != nil {
		return nil, fmt.Errorf("failed to count sent records: %w", err)
	}
	err = db.GetContext(ctx, &stats.TotalFailed,
		`SELECT COUNT(*) FROM send_records WHERE status = 'failed'`)
	if err != nil {
		return nil, fmt.Errorf("failed to count failed records: %w", err)
	}
	err = db.GetContext(ctx, &stats.TodaySent,
		`SELECT COUNT(*) FROM send_records WHERE status = 'success' AND DATE(sent_at) = DATE('now')`)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's records: %w", err)
	}
	return &stats, nil
}
