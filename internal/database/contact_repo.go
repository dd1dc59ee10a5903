package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/Celestebz/sendemail/pkg/models"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when an insert or update violates a unique
// constraint. The schema constraint is the sole duplicate check; callers
// must not pre-check and should match this error instead.
var ErrAlreadyExists = errors.New("record already exists")

// isUniqueViolation reports whether err is a sqlite unique-constraint error.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// ContactFilter narrows ListContacts.
type ContactFilter struct {
	GroupID *int64
	Status  string
	Search  string // matches name, email or company
}

const contactColumns = `c.id, c.name, c.first_name, c.last_name, c.email, c.company,
	c.phone, c.group_id, c.notes, c.status, c.created_at, c.updated_at,
	g.name AS group_name`

// CreateContact inserts a new contact. A duplicate email yields
// ErrAlreadyExists.
func (db *DB) CreateContact(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (name, first_name, last_name, email, company, phone, group_id, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	status := contact.Status
	if status == "" {
		status = models.ContactStatusActive
	}
	result, err := db.ExecContext(ctx, query,
		contact.Name,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Company,
		contact.Phone,
		contact.GroupID,
		contact.Notes,
		status,
		now,
		now,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	contact.ID = id
	contact.Status = status
	contact.CreatedAt = now
	contact.UpdatedAt = now
	return nil
}

// GetContactByID returns a contact with its group name joined in.
func (db *DB) GetContactByID(ctx context.Context, id int64) (*models.Contact, error) {
	var contact models.Contact
	query := `SELECT ` + contactColumns + `
		FROM contacts c
		LEFT JOIN contact_groups g ON c.group_id = g.id
		WHERE c.id = ?`
	err := db.GetContext(ctx, &contact, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &contact, nil
}

// ListContacts returns contacts matching the filter, newest first.
func (db *DB) ListContacts(ctx context.Context, filter ContactFilter) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + `
		FROM contacts c
		LEFT JOIN contact_groups g ON c.group_id = g.id
		WHERE 1=1`
	var args []interface{}

	if filter.GroupID != nil {
		query += ` AND c.group_id = ?`
		args = append(args, *filter.GroupID)
	}
	if filter.Status != "" {
		query += ` AND c.status = ?`
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		query += ` AND (c.name LIKE ? OR c.email LIKE ? OR c.company LIKE ?)`
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}
	query += ` ORDER BY c.created_at DESC`

	var contacts []*models.Contact
	if err := db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// ListContactsByIDs returns the contacts whose ids appear in ids, in store
// order. Unknown ids are silently absent from the result.
func (db *DB) ListContactsByIDs(ctx context.Context, ids []int64) ([]*models.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, name, first_name, last_name, email, company,
		phone, group_id, notes, status, created_at, updated_at
		FROM contacts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build contact query: %w", err)
	}
	var contacts []*models.Contact
	if err := db.SelectContext(ctx, &contacts, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list contacts by ids: %w", err)
	}
	return contacts, nil
}

// UpdateContact rewrites a contact row. An email belonging to another
// contact yields ErrAlreadyExists.
func (db *DB) UpdateContact(ctx context.Context, contact *models.Contact) error {
	query := `
		UPDATE contacts SET
			name = ?, first_name = ?, last_name = ?, email = ?, company = ?,
			phone = ?, group_id = ?, notes = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		contact.Name,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Company,
		contact.Phone,
		contact.GroupID,
		contact.Notes,
		contact.Status,
		now,
		contact.ID,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	contact.UpdatedAt = now
	return nil
}

// DeleteContact deletes a contact. Send history referencing it is kept.
func (db *DB) DeleteContact(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
