package postgres

import (
	"context"
	"errors"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BillRepository implements domain.BillRepository using PostgreSQL
type BillRepository struct {
	pool *pgxpool.Pool
}

// NewBillRepository creates a new BillRepository
func NewBillRepository(pool *pgxpool.Pool) *BillRepository {
	return &BillRepository{pool: pool}
}

const billColumns = `id, name, logo_path, payment_url, notes, due_day, recurrence, next_due_date, is_archived, created_at, updated_at`

// Create inserts a new bill
func (r *BillRepository) Create(bill *domain.Bill) (*domain.Bill, error) {
	ctx := context.Background()

	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO bills (id, name, logo_path, payment_url, notes, due_day, recurrence, next_due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+billColumns,
		bill.ID, bill.Name, bill.LogoPath, bill.PaymentURL, bill.Notes,
		bill.DueDay, recurrenceToText(bill.Recurrence), bill.NextDueDate,
	)

	created, err := scanBill(row)
	if err != nil {
		return nil, err
	}
	created.Tags = []domain.Tag{}
	return created, nil
}

// GetByID retrieves a bill with its tags attached
func (r *BillRepository) GetByID(id uuid.UUID) (*domain.Bill, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
	bill, err := scanBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, err
	}

	tags, err := r.tagsForBills(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	bill.Tags = tags[id]
	if bill.Tags == nil {
		bill.Tags = []domain.Tag{}
	}

	return bill, nil
}

// List retrieves all bills ordered by name, optionally including archived ones,
// with tags attached
func (r *BillRepository) List(includeArchived bool) ([]*domain.Bill, error) {
	ctx := context.Background()

	query := `SELECT ` + billColumns + ` FROM bills WHERE is_archived = FALSE ORDER BY name`
	if includeArchived {
		query = `SELECT ` + billColumns + ` FROM bills ORDER BY name`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*domain.Bill
	var ids []uuid.UUID
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bill.Tags = []domain.Tag{}
		bills = append(bills, bill)
		ids = append(ids, bill.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		tagsByBill, err := r.tagsForBills(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, bill := range bills {
			if tags, ok := tagsByBill[bill.ID]; ok {
				bill.Tags = tags
			}
		}
	}

	return bills, nil
}

// Update updates a bill's fields (tags are managed through ReplaceTags)
func (r *BillRepository) Update(bill *domain.Bill) (*domain.Bill, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE bills
		SET name = $2, logo_path = $3, payment_url = $4, notes = $5,
		    due_day = $6, recurrence = $7, next_due_date = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+billColumns,
		bill.ID, bill.Name, bill.LogoPath, bill.PaymentURL, bill.Notes,
		bill.DueDay, recurrenceToText(bill.Recurrence), bill.NextDueDate,
	)

	updated, err := scanBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, err
	}
	updated.Tags = bill.Tags
	return updated, nil
}

// Delete removes a bill; payments and tag links go with it via FK cascade
func (r *BillRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}

// Archive flips the archived flag without touching payments or tags
func (r *BillRepository) Archive(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `UPDATE bills SET is_archived = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}

// ReplaceTags replaces the bill's entire tag set in one transaction
func (r *BillRepository) ReplaceTags(billID uuid.UUID, tagIDs []uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bill_tags WHERE bill_id = $1`, billID); err != nil {
		return err
	}

	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO bill_tags (bill_id, tag_id) VALUES ($1, $2)`, billID, tagID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// tagsForBills loads the tags for a set of bills in a single query
func (r *BillRepository) tagsForBills(ctx context.Context, billIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT bt.bill_id, t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN bill_tags bt ON t.id = bt.tag_id
		WHERE bt.bill_id = ANY($1)
		ORDER BY t.name`, billIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.Tag)
	for rows.Next() {
		var billID uuid.UUID
		var tag domain.Tag
		if err := rows.Scan(&billID, &tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, err
		}
		result[billID] = append(result[billID], tag)
	}
	return result, rows.Err()
}

// scanBill scans a bill row into a domain model
func scanBill(row pgx.Row) (*domain.Bill, error) {
	var bill domain.Bill
	var recurrence *string

	err := row.Scan(
		&bill.ID, &bill.Name, &bill.LogoPath, &bill.PaymentURL, &bill.Notes,
		&bill.DueDay, &recurrence, &bill.NextDueDate, &bill.IsArchived,
		&bill.CreatedAt, &bill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if recurrence != nil {
		r := domain.Recurrence(*recurrence)
		bill.Recurrence = &r
	}

	return &bill, nil
}

func recurrenceToText(r *domain.Recurrence) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}
