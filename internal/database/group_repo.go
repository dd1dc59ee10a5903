package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Celestebz/sendemail/pkg/models"
)

// CreateGroup creates a group. A duplicate name yields ErrAlreadyExists.
func (db *DB) CreateGroup(ctx context.Context, group *models.Group) error {
	result, err := db.ExecContext(ctx, `INSERT INTO contact_groups (name) VALUES (?)`, group.Name)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	group.ID = id
	return nil
}

// GetGroupByName returns a group by its unique name.
func (db *DB) GetGroupByName(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group
	err := db.GetContext(ctx, &group, `SELECT id, name FROM contact_groups WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

// ListGroups returns all groups ordered by name.
func (db *DB) ListGroups(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := db.SelectContext(ctx, &groups, `SELECT id, name FROM contact_groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// DeleteGroup removes a group, first detaching its member contacts by
// nulling their group reference. The contacts themselves are kept.
func (db *DB) DeleteGroup(ctx context.Context, id int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE contacts SET group_id = NULL WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach group members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM contact_groups WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group delete: %w", err)
	}
	return nil
}
