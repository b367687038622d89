package repository

import (
	"context"
	"fmt"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// CreateMaterial inserts a material.
func (s *Storage) CreateMaterial(ctx context.Context, m models.Material) error {
	const op = "storage.CreateMaterial"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO materials (id, subject_id, title, type, link, description)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.DB.ExecContext(ctx, query,
		m.ID, m.SubjectID, m.Title, m.Type, m.Link, m.Description); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateMaterial overwrites a material's fields and returns the affected count.
func (s *Storage) UpdateMaterial(ctx context.Context, m models.Material) (int, error) {
	const op = "storage.UpdateMaterial"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE materials
			  SET subject_id = $2, title = $3, type = $4, link = $5, description = $6
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query,
		m.ID, m.SubjectID, m.Title, m.Type, m.Link, m.Description)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveMaterial deletes a material and returns the affected count.
func (s *Storage) RemoveMaterial(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveMaterial"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListMaterialsBySubject returns a subject's materials.
func (s *Storage) ListMaterialsBySubject(ctx context.Context, subjectID string) ([]models.Material, error) {
	const op = "storage.ListMaterialsBySubject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subject_id, title, type, link, description
			  FROM materials
			  WHERE subject_id = $1
			  ORDER BY title`
	rows, err := s.DB.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Material
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.SubjectID, &m.Title, &m.Type, &m.Link,
			&m.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllMaterials returns every material for the back-office.
func (s *Storage) ListAllMaterials(ctx context.Context) ([]models.Material, error) {
	const op = "storage.ListAllMaterials"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subject_id, title, type, link, description
			  FROM materials
			  ORDER BY subject_id, title`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Material
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.SubjectID, &m.Title, &m.Type, &m.Link,
			&m.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
