package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Celestebz/sendemail/pkg/models"
)

// CreateTemplate inserts a new template.
func (db *DB) CreateTemplate(ctx context.Context, tmpl *models.Template) error {
	query := `
		INSERT INTO email_templates (name, subject, content, attachments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	attachments := tmpl.Attachments
	if attachments == "" {
		attachments = "[]"
	}
	result, err := db.ExecContext(ctx, query, tmpl.Name, tmpl.Subject, tmpl.Content, attachments, now, now)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	tmpl.ID = id
	tmpl.Attachments = attachments
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	return nil
}

// GetTemplateByID returns a template by ID
func (db *DB) GetTemplateByID(ctx context.Context, id int64) (*models.Template, error) {
	var tmpl models.Template
	query := `SELECT id, name, subject, content, attachments, created_at, updated_at
		FROM email_templates WHERE id = ?`
	err := db.GetContext(ctx, &tmpl, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &tmpl, nil
}

// ListTemplates returns all templates, newest first.
func (db *DB) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	var templates []*models.Template
	query := `SELECT id, name, subject, content, attachments, created_at, updated_at
		FROM email_templates ORDER BY created_at DESC`
	if err := db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate rewrites a template row.
func (db *DB) UpdateTemplate(ctx context.Context, tmpl *models.Template) error {
	query := `
		UPDATE email_templates SET
			name = ?, subject = ?, content = ?, attachments = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, tmpl.Name, tmpl.Subject, tmpl.Content, tmpl.Attachments, now, tmpl.ID)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	tmpl.UpdatedAt = now
	return nil
}

// DeleteTemplate deletes a template. Send history referencing it is kept.
func (db *DB) DeleteTemplate(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM email_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
