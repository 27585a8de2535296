package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
)

func (r ProductsRepository) ReviewsByProduct(
	ctx context.Context, productID string,
) ([]domain.Review, error) {
	const op = "ProductsRepository.ReviewsByProduct"
	log := slog.With("op", op)

	query := `
		SELECT id, user_id, user_name, user_avatar, product_id, rating, comment, created_at
		FROM reviews WHERE product_id = $1 ORDER BY created_at DESC, id;`

	rows, err := r.sqldb.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	var rs []domain.Review
	for rows.Next() {
		var rv domain.Review
		err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.UserName, &rv.UserAvatar,
			&rv.ProductID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rs = append(rs, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rs, nil
}
