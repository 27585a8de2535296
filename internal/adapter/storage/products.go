package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogRepository = (*ProductsRepository)(nil)

const productColumns = `
	id, name, description, price, original_price, discount,
	image, images, category, stock, rating, reviews_count,
	brand, slug, created_at, updated_at`

type ProductsRepository struct {
	sqldb sqldb
	now   func() time.Time
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb: sqldb, now: time.Now}
}

func (r ProductsRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductsRepository.ListProducts"
	log := slog.With("op", op)

	query := `SELECT` + productColumns + `
		FROM products ORDER BY created_at DESC, id;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	const op = "ProductsRepository.ProductByID"

	query := `SELECT` + productColumns + ` FROM products WHERE id = $1;`
	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, notFound(err, domain.ErrProductNotFound))
	}
	return p, nil
}

func (r ProductsRepository) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	const op = "ProductsRepository.ProductBySlug"

	query := `SELECT` + productColumns + ` FROM products WHERE slug = $1;`
	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, slug))
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, notFound(err, domain.ErrProductNotFound))
	}
	return p, nil
}

func (r ProductsRepository) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	const op = "ProductsRepository.AddProduct"

	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	now := r.now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	imagesB, err := json.Marshal(p.Images)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

	_, err = r.sqldb.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Discount,
		p.Image, string(imagesB), p.Category, p.Stock, p.Rating, p.ReviewsCount,
		p.Brand, p.Slug, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, conflict(err, domain.ErrInvalidProduct))
	}

	slog.Info("product added", "op", op, "id", p.ID, "slug", p.Slug)
	return p, nil
}

func (r ProductsRepository) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (p domain.Product, updateErr error) {
	const op = "ProductsRepository.UpdateProduct"

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer finishTx(tx, op, &updateErr)

	query := `SELECT` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE;`
	current, err := scanProduct(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, notFound(err, domain.ErrProductNotFound))
	}

	p = patch.Apply(current, r.now().UTC())
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	imagesB, err := json.Marshal(p.Images)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	update := `
		UPDATE products SET
			name = $2, description = $3, price = $4, original_price = $5,
			discount = $6, image = $7, images = $8, category = $9, stock = $10,
			rating = $11, reviews_count = $12, brand = $13, slug = $14,
			updated_at = $15
		WHERE id = $1;`

	_, err = tx.ExecContext(ctx, update,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice,
		p.Discount, p.Image, string(imagesB), p.Category, p.Stock,
		p.Rating, p.ReviewsCount, p.Brand, p.Slug, p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, conflict(err, domain.ErrInvalidProduct))
	}
	return p, nil
}

func (r ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductsRepository.DeleteProduct"

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := expectOneRow(res, domain.ErrProductNotFound); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p             domain.Product
		originalPrice sql.NullFloat64
		discount      sql.NullInt64
		imagesS       string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &originalPrice, &discount,
		&p.Image, &imagesS, &p.Category, &p.Stock, &p.Rating, &p.ReviewsCount,
		&p.Brand, &p.Slug, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if originalPrice.Valid {
		v := originalPrice.Float64
		p.OriginalPrice = &v
	}
	if discount.Valid {
		v := int(discount.Int64)
		p.Discount = &v
	}
	if err := json.Unmarshal([]byte(imagesS), &p.Images); err != nil {
		return domain.Product{}, fmt.Errorf("malformed images: %w", err)
	}
	return p, nil
}

// finishTx commits when *txErr is nil and rolls back otherwise.
func finishTx(tx *sql.Tx, op string, txErr *error) {
	if *txErr == nil {
		if err := tx.Commit(); err != nil {
			*txErr = fmt.Errorf("%s: failed to commit %w", op, err)
		}
		return
	}
	if err := tx.Rollback(); err != nil {
		slog.Error("failed to rollback tx", "op", op, "err", err)
	}
}

func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}

// conflict maps a unique violation (duplicate slug) to target.
func conflict(err, target error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", target, pgErr.ConstraintName)
	}
	return err
}

func expectOneRow(res sql.Result, target error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return target
	}
	return nil
}
