package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// CreatePayment inserts a gateway order record with status "created".
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) error {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (order_id, user_email, subject_id, amount, currency, status)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.DB.ExecContext(ctx, query,
		p.OrderID, p.UserEmail, p.SubjectID, p.Amount, p.Currency, p.Status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadPayment returns a payment by gateway order id, or ErrNotFound.
func (s *Storage) ReadPayment(ctx context.Context, orderID string) (*models.Payment, error) {
	const op = "storage.ReadPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT order_id, user_email, subject_id, amount, currency, status,
			      payment_id, created_at
			  FROM payments
			  WHERE order_id = $1`
	var p models.Payment
	row := s.DB.QueryRowContext(ctx, query, orderID)
	if err := row.Scan(&p.OrderID, &p.UserEmail, &p.SubjectID, &p.Amount,
		&p.Currency, &p.Status, &p.PaymentID, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// UpdatePaymentStatus sets the status and gateway payment id of an order.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, orderID, status, paymentID string) (int, error) {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments SET status = $2, payment_id = $3 WHERE order_id = $1`
	result, err := s.DB.ExecContext(ctx, query, orderID, status, paymentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListAllPayments returns payment orders for the back-office, newest first.
func (s *Storage) ListAllPayments(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	const op = "storage.ListAllPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT order_id, user_email, subject_id, amount, currency, status,
			      payment_id, created_at
			  FROM payments
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.OrderID, &p.UserEmail, &p.SubjectID, &p.Amount,
			&p.Currency, &p.Status, &p.PaymentID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
