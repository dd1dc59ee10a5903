package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Celestebz/sendemail/pkg/models"
)

// GetSettings returns the settings singleton, or ErrNotFound when transport
// has never been configured.
func (db *DB) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	query := `SELECT id, smtp_host, smtp_port, imap_host, imap_port, email, username,
		password, secure, default_cc, created_at, updated_at
		FROM email_settings ORDER BY id DESC LIMIT 1`
	err := db.GetContext(ctx, &settings, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings creates or overwrites the settings singleton.
func (db *DB) SaveSettings(ctx context.Context, settings *models.Settings) error {
	now := time.Now()

	existing, err := db.GetSettings(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if existing != nil {
		query := `
			UPDATE email_settings SET
				smtp_host = ?, smtp_port = ?, imap_host = ?, imap_port = ?,
				email = ?, username = ?, password = ?, secure = ?, default_cc = ?,
				updated_at = ?
			WHERE id = ?
		`
		_, err := db.ExecContext(ctx, query,
			settings.SMTPHost, settings.SMTPPort, settings.IMAPHost, settings.IMAPPort,
			settings.Email, settings.Username, settings.Password, settings.Secure,
			settings.DefaultCC, now, existing.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
		settings.UpdatedAt = now
		return nil
	}

	query := `
		INSERT INTO email_settings (smtp_host, smtp_port, imap_host, imap_port, email,
			username, password, secure, default_cc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := db.ExecContext(ctx, query,
		settings.SMTPHost, settings.SMTPPort, settings.IMAPHost, settings.IMAPPort,
		settings.Email, settings.Username, settings.Password, settings.Secure,
		settings.DefaultCC, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settings: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	settings.ID = id
	settings.CreatedAt = now
	settings.UpdatedAt = now
	return nil
}
