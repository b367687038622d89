package repository

import (
	"context"
	"fmt"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// CreateUpdate inserts an announcement.
func (s *Storage) CreateUpdate(ctx context.Context, u models.Update) error {
	const op = "storage.CreateUpdate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO updates (id, title, description, type, link, is_pinned, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.DB.ExecContext(ctx, query,
		u.ID, u.Title, u.Description, u.Type, u.Link, u.IsPinned, u.IsActive); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateUpdate overwrites an announcement's fields and returns the affected count.
func (s *Storage) UpdateUpdate(ctx context.Context, u models.Update) (int, error) {
	const op = "storage.UpdateUpdate"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE updates
			  SET title = $2, description = $3, type = $4, link = $5, is_pinned = $6
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query,
		u.ID, u.Title, u.Description, u.Type, u.Link, u.IsPinned)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ToggleUpdate flips the active flag and returns the affected count.
func (s *Storage) ToggleUpdate(ctx context.Context, id string) (int, error) {
	const op = "storage.ToggleUpdate"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE updates SET is_active = NOT is_active WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveUpdate deletes an announcement and returns the affected count.
func (s *Storage) RemoveUpdate(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveUpdate"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM updates WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListUpdates returns announcements pinned-first then newest-first. With
// activeOnly the disabled ones are filtered out (student view).
func (s *Storage) ListUpdates(ctx context.Context, activeOnly bool) ([]models.Update, error) {
	const op = "storage.ListUpdates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, type, link, is_pinned, is_active, created_at
			  FROM updates
			  WHERE ($1 = false OR is_active)
			  ORDER BY is_pinned DESC, created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Update
	for rows.Next() {
		var u models.Update
		if err := rows.Scan(&u.ID, &u.Title, &u.Description, &u.Type, &u.Link,
			&u.IsPinned, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
