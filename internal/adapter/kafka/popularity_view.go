package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/storefront/internal/core/port"
)

// A PopularityViewConfig used for setup [PopularityView].
//
// Group must match the [PopularityProcessor] group.
type PopularityViewConfig struct {
	SeedBrokers []string
	Group       string
	Opts        []goka.ViewOption
}

var _ port.PopularityReader = (*PopularityView)(nil)

// A PopularityView serves the popularity group table locally.
type PopularityView struct {
	gv *goka.View
}

func NewPopularityView(
	config PopularityViewConfig,
) (*PopularityView, error) {
	const op = "NewPopularityView"

	if config.Group == "" {
		return nil, opErr(ErrTooFewOpts, op)
	}

	gv, err := goka.NewView(
		config.SeedBrokers,
		goka.GroupTable(goka.Group(config.Group)),
		new(codec.Int64),
		config.Opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &PopularityView{gv}, nil
}

func (v *PopularityView) Run(ctx context.Context) {
	const op = "PopularityView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// CartAdds returns the units of the product added to carts so far. An
// unknown product has zero.
func (v *PopularityView) CartAdds(ctx context.Context, productID string) (int64, error) {
	const op = "PopularityView.CartAdds"

	if err := ctx.Err(); err != nil {
		return 0, opErr(err, op)
	}

	value, err := v.gv.Get(productID)
	if err != nil {
		return 0, opErr(err, op)
	}
	if value == nil {
		return 0, nil
	}

	n, ok := value.(int64)
	if !ok {
		return 0, opErr(fmt.Errorf("%w: %T", ErrInvalidValueType, value), op)
	}
	return n, nil
}
