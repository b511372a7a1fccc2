package postgres

import (
	"context"
	"errors"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, bill_id, amount, payment_date, notes, created_at, updated_at`

// Create inserts a new payment
func (r *PaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	ctx := context.Background()

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (id, bill_id, amount, payment_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+paymentColumns,
		payment.ID, payment.BillID, payment.Amount, payment.PaymentDate, payment.Notes,
	)

	return scanPayment(row)
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(id uuid.UUID) (*domain.Payment, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// List retrieves payments newest first, optionally filtered by bill
func (r *PaymentRepository) List(billID *uuid.UUID) ([]*domain.Payment, error) {
	ctx := context.Background()

	var rows pgx.Rows
	var err error
	if billID != nil {
		rows, err = r.pool.Query(ctx,
			`SELECT `+paymentColumns+` FROM payments WHERE bill_id = $1 ORDER BY payment_date DESC`, *billID)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT `+paymentColumns+` FROM payments ORDER BY payment_date DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// Update updates a payment's amount, date and notes
func (r *PaymentRepository) Update(payment *domain.Payment) (*domain.Payment, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE payments
		SET amount = $2, payment_date = $3, notes = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+paymentColumns,
		payment.ID, payment.Amount, payment.PaymentDate, payment.Notes,
	)

	updated, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a payment
func (r *PaymentRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// scanPayment scans a payment row into a domain model
func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	err := row.Scan(
		&payment.ID, &payment.BillID, &payment.Amount, &payment.PaymentDate,
		&payment.Notes, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
