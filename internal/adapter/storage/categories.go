package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
)

const categoryColumns = ` id, name, slug, description, image`

func (r ProductsRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "ProductsRepository.ListCategories"
	log := slog.With("op", op)

	query := `SELECT` + categoryColumns + ` FROM categories ORDER BY position, name;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	var cs []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (r ProductsRepository) AddCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	const op = "ProductsRepository.AddCategory"

	if err := c.Validate(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	c.ID = uuid.NewString()
	c.ProductsCount = 0

	query := `
		INSERT INTO categories (id, name, slug, description, image, position)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM categories));`

	_, err := r.sqldb.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.Image)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, conflict(err, domain.ErrInvalidCategory))
	}

	slog.Info("category added", "op", op, "id", c.ID, "slug", c.Slug)
	return c, nil
}

func (r ProductsRepository) UpdateCategory(
	ctx context.Context, id string, patch domain.CategoryPatch,
) (c domain.Category, updateErr error) {
	const op = "ProductsRepository.UpdateCategory"

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer finishTx(tx, op, &updateErr)

	query := `SELECT` + categoryColumns + ` FROM categories WHERE id = $1 FOR UPDATE;`
	err = tx.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image,
	)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, notFound(err, domain.ErrCategoryNotFound))
	}

	c = patch.Apply(c)
	if err := c.Validate(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	update := `
		UPDATE categories SET name = $2, slug = $3, description = $4, image = $5
		WHERE id = $1;`
	_, err = tx.ExecContext(ctx, update, c.ID, c.Name, c.Slug, c.Description, c.Image)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, conflict(err, domain.ErrInvalidCategory))
	}
	return c, nil
}

func (r ProductsRepository) DeleteCategory(ctx context.Context, id string) error {
	const op = "ProductsRepository.DeleteCategory"

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := expectOneRow(res, domain.ErrCategoryNotFound); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
