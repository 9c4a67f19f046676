package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("perfume not found")

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Perfume, error)
	GetByID(ctx context.Context, id string) (*Perfume, error)
	Create(ctx context.Context, p *Perfume) error
	Update(ctx context.Context, p *Perfume) error
	Delete(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const perfumeCols = `
    p.id, p.name, p.description, p.price::text, p.image_url, p.brand,
    p.stock, p.active, p.category_id,
    c.id, c.name, c.description, c.created_at,
    p.created_at, p.updated_at`

func scanPerfume(scan func(dest ...any) error) (*Perfume, error) {
	var p Perfume
	var cat Category
	if err := scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Brand,
		&p.Stock, &p.Active, &p.CategoryID,
		&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Category = &cat
	return &p, nil
}

func (r *PGRepo) List(ctx context.Context, f ListFilter) ([]Perfume, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT `+perfumeCols+`
    FROM perfumes p
    JOIN categories c ON c.id = p.category_id
    WHERE ($1 = '' OR p.name ILIKE '%'||$1||'%' OR p.description ILIKE '%'||$1||'%')
      AND ($2 = '' OR p.category_id::text = $2)
    ORDER BY p.created_at DESC
    LIMIT $3 OFFSET $4
  `, f.Search, f.CategoryID, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Perfume
	for rows.Next() {
		p, err := scanPerfume(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Perfume, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
    SELECT `+perfumeCols+`
    FROM perfumes p
    JOIN categories c ON c.id = p.category_id
    WHERE p.id=$1
  `, id)
	p, err := scanPerfume(row.Scan)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Perfume) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
    INSERT INTO perfumes (id, name, description, price, image_url, brand, stock, active, category_id, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
  `, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Brand, p.Stock, p.Active, p.CategoryID)
	return err
}

func (r *PGRepo) Update(ctx context.Context, p *Perfume) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE perfumes
    SET name=$2, description=$3, price=$4, image_url=$5, brand=$6,
        stock=$7, active=$8, category_id=$9, updated_at=NOW()
    WHERE id=$1
  `, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Brand, p.Stock, p.Active, p.CategoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM perfumes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListCategories(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT id, name, description, created_at FROM categories ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
    INSERT INTO categories (id, name, description, created_at)
    VALUES ($1,$2,$3,NOW())
  `, c.ID, c.Name, c.Description)
	return err
}
