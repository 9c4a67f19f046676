package payment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("payment not found")

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*Payment, error)
	// TransitionFromPending atomically moves the payment keyed by the
	// intent id from PENDING to newStatus. applied is false when the
	// payment exists but already left PENDING (duplicate delivery).
	TransitionFromPending(ctx context.Context, intentID, newStatus string) (applied bool, p *Payment, err error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const cols = `id, order_id, amount::text, status, provider, payment_intent_id, created_at, updated_at`

func scanPayment(scan func(dest ...any) error) (*Payment, error) {
	var p Payment
	if err := scan(&p.ID, &p.OrderID, &p.Amount, &p.Status, &p.Provider, &p.PaymentIntentID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
    INSERT INTO payments (id, order_id, amount, status, provider, payment_intent_id, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
  `, p.ID, p.OrderID, p.Amount, p.Status, p.Provider, p.PaymentIntentID)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+cols+` FROM payments WHERE id=$1`, id).Scan)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *PGRepo) GetByIntentID(ctx context.Context, intentID string) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+cols+` FROM payments WHERE payment_intent_id=$1`, intentID).Scan)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *PGRepo) TransitionFromPending(ctx context.Context, intentID, newStatus string) (bool, *Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Conditional update doubles as the idempotency guard: concurrent
	// duplicate deliveries race on the WHERE clause, only one wins.
	p, err := scanPayment(r.db.QueryRow(ctx, `
    UPDATE payments
    SET status=$2, updated_at=NOW()
    WHERE payment_intent_id=$1 AND status='PENDING'
    RETURNING `+cols+`
  `, intentID, newStatus).Scan)
	if err == nil {
		return true, p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, nil, err
	}
	p, err = r.GetByIntentID(ctx, intentID)
	if err != nil {
		return false, nil, ErrNotFound
	}
	return false, p, nil
}
