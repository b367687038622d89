package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// CreateSubscription inserts a subscription row. Rows are immutable after
// creation; there is no update method on purpose.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_email, subject_id, subject_name,
			      price, duration_months, start_date, end_date, payment_status, order_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.UserEmail, sub.SubjectID, sub.SubjectName, sub.Price,
		sub.DurationMonths, sub.StartDate, sub.EndDate, sub.PaymentStatus,
		sub.OrderID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListSubscriptionsByUser returns all of one user's subscriptions, every
// payment status included.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, email string) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_email, subject_id, subject_name, price, duration_months,
			      start_date, end_date, payment_status, order_id, created_at
			  FROM subscriptions
			  WHERE user_email = $1`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserEmail, &sub.SubjectID, &sub.SubjectName,
			&sub.Price, &sub.DurationMonths, &sub.StartDate, &sub.EndDate,
			&sub.PaymentStatus, &sub.OrderID, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindSubscriptionByOrder returns the subscription created for a gateway
// order, or ErrNotFound. Used for idempotent verify/webhook handling.
func (s *Storage) FindSubscriptionByOrder(ctx context.Context, orderID string) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_email, subject_id, subject_name, price, duration_months,
			      start_date, end_date, payment_status, order_id, created_at
			  FROM subscriptions
			  WHERE order_id = $1`
	var sub models.Subscription
	row := s.DB.QueryRowContext(ctx, query, orderID)
	if err := row.Scan(&sub.ID, &sub.UserEmail, &sub.SubjectID, &sub.SubjectName,
		&sub.Price, &sub.DurationMonths, &sub.StartDate, &sub.EndDate,
		&sub.PaymentStatus, &sub.OrderID, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ListAllSubscriptions returns every subscription for the back-office,
// newest first, with pagination.
func (s *Storage) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_email, subject_id, subject_name, price, duration_months,
			      start_date, end_date, payment_status, order_id, created_at
			  FROM subscriptions
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserEmail, &sub.SubjectID, &sub.SubjectName,
			&sub.Price, &sub.DurationMonths, &sub.StartDate, &sub.EndDate,
			&sub.PaymentStatus, &sub.OrderID, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountSubscriptions returns the number of subscriptions with the given
// payment status that are still running at time now, and the revenue summed
// over all rows with that status, expired ones included.
func (s *Storage) CountSubscriptions(ctx context.Context, paymentStatus string, now time.Time) (int, int, error) {
	const op = "storage.CountSubscriptions"
	var active, revenue int
	query := `SELECT COUNT(*) FILTER (WHERE end_date > $2), COALESCE(SUM(price), 0)
			  FROM subscriptions WHERE payment_status = $1`
	if err := s.DB.QueryRowContext(ctx, query, paymentStatus, now).Scan(&active, &revenue); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return active, revenue, nil
}
