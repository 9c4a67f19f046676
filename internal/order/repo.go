package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	Create(ctx context.Context, o *Order, items []Item, addr *Address) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Create persists the order, its item snapshots and the shipping
// address in one transaction so none of them can be orphaned.
func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item, addr *Address) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID any
	if o.UserID != "" {
		userID = o.UserID
	}
	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, user_id, status, total, delivery_fee, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
  `, o.ID, userID, o.Status, o.Total, o.DeliveryFee); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (id, order_id, perfume_id, quantity, price)
      VALUES ($1,$2,$3,$4,$5)
    `, it.ID, o.ID, it.PerfumeID, it.Quantity, it.Price); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO addresses (id, order_id, street, city, state, postal_code, country)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, addr.ID, o.ID, addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	var userID *string
	if err := r.db.QueryRow(ctx, `
    SELECT id, user_id, status, total::text, delivery_fee::text, created_at, updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &userID, &o.Status, &o.Total, &o.DeliveryFee, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	if userID != nil {
		o.UserID = *userID
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items

	var a Address
	if err := r.db.QueryRow(ctx, `
    SELECT id, order_id, street, city, state, postal_code, country
    FROM addresses WHERE order_id=$1
  `, id).Scan(&a.ID, &a.OrderID, &a.Street, &a.City, &a.State, &a.PostalCode, &a.Country); err == nil {
		o.Address = &a
	}

	var p PaymentInfo
	if err := r.db.QueryRow(ctx, `
    SELECT id, amount::text, status, provider, payment_intent_id
    FROM payments WHERE order_id=$1
  `, id).Scan(&p.ID, &p.Amount, &p.Status, &p.Provider, &p.PaymentIntentID); err == nil {
		o.Payment = &p
	}
	return &o, nil
}

func (r *PGRepo) getItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
    SELECT i.id, i.order_id, i.perfume_id, i.quantity, i.price::text,
           p.id, p.name, p.brand, p.image_url
    FROM order_items i
    JOIN perfumes p ON p.id = i.perfume_id
    WHERE i.order_id=$1
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		var pf PerfumeSummary
		if err := rows.Scan(&it.ID, &it.OrderID, &it.PerfumeID, &it.Quantity, &it.Price,
			&pf.ID, &pf.Name, &pf.Brand, &pf.ImageURL); err != nil {
			return nil, err
		}
		it.Perfume = &pf
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Order, error) {
	return r.list(ctx, ``, nil, limit, offset)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	return r.list(ctx, `WHERE user_id=$3`, []any{userID}, limit, offset)
}

func (r *PGRepo) list(ctx context.Context, where string, extra []any, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	args := append([]any{limit, offset}, extra...)
	rows, err := r.db.Query(ctx, `
    SELECT id, user_id, status, total::text, delivery_fee::text, created_at, updated_at
    FROM orders `+where+`
    ORDER BY created_at DESC LIMIT $1 OFFSET $2
  `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		var userID *string
		if err := rows.Scan(&o.ID, &userID, &o.Status, &o.Total, &o.DeliveryFee, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if userID != nil {
			o.UserID = *userID
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2, updated_at = NOW()
    WHERE id = $1
  `, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
