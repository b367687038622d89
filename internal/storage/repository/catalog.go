package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// CreateBoard inserts a board.
func (s *Storage) CreateBoard(ctx context.Context, board models.Board) error {
	const op = "storage.CreateBoard"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO boards (id, name, full_name) VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, board.ID, board.Name, board.FullName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateBoard updates a board's names and returns the affected row count.
func (s *Storage) UpdateBoard(ctx context.Context, board models.Board) (int, error) {
	const op = "storage.UpdateBoard"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE boards SET name = $2, full_name = $3 WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, board.ID, board.Name, board.FullName)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveBoard deletes a board and returns the affected row count.
func (s *Storage) RemoveBoard(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveBoard"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListBoards returns all boards ordered by name.
func (s *Storage) ListBoards(ctx context.Context) ([]*models.Board, error) {
	const op = "storage.ListBoards"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, full_name, created_at FROM boards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.FullName, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateSubject inserts a subject.
func (s *Storage) CreateSubject(ctx context.Context, subject models.Subject) error {
	const op = "storage.CreateSubject"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subjects (id, board, class_name, subject_name, price,
			      duration_months, is_visible)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.DB.ExecContext(ctx, query,
		subject.ID, subject.Board, subject.ClassName, subject.SubjectName,
		subject.Price, subject.DurationMonths, subject.IsVisible); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubject overwrites a subject's fields and returns the affected count.
func (s *Storage) UpdateSubject(ctx context.Context, subject models.Subject) (int, error) {
	const op = "storage.UpdateSubject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subjects
			  SET board = $2, class_name = $3, subject_name = $4, price = $5,
			      duration_months = $6
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query,
		subject.ID, subject.Board, subject.ClassName, subject.SubjectName,
		subject.Price, subject.DurationMonths)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetSubjectVisibility flips the catalog visibility flag.
func (s *Storage) SetSubjectVisibility(ctx context.Context, id string, visible bool) (int, error) {
	const op = "storage.SetSubjectVisibility"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE subjects SET is_visible = $2 WHERE id = $1`, id, visible)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubject deletes a subject and returns the affected count. Materials
// are removed by cascade; subscriptions keep their frozen subject name.
func (s *Storage) RemoveSubject(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveSubject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReadSubject returns one subject regardless of visibility, or ErrNotFound.
func (s *Storage) ReadSubject(ctx context.Context, id string) (*models.Subject, error) {
	const op = "storage.ReadSubject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, board, class_name, subject_name, price, duration_months, is_visible
			  FROM subjects WHERE id = $1`
	var subject models.Subject
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&subject.ID, &subject.Board, &subject.ClassName,
		&subject.SubjectName, &subject.Price, &subject.DurationMonths,
		&subject.IsVisible); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &subject, nil
}

// ListSubjects returns subjects for the student catalog. With visibleOnly the
// hidden ones are filtered out.
func (s *Storage) ListSubjects(ctx context.Context, visibleOnly bool) ([]models.Subject, error) {
	const op = "storage.ListSubjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, board, class_name, subject_name, price, duration_months, is_visible
			  FROM subjects
			  WHERE ($1 = false OR is_visible)
			  ORDER BY board, class_name, subject_name`
	rows, err := s.DB.QueryContext(ctx, query, visibleOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Board, &subject.ClassName,
			&subject.SubjectName, &subject.Price, &subject.DurationMonths,
			&subject.IsVisible); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
