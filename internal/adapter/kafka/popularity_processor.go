package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/storefront/internal/core/domain"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A PopularityProcessorConfig used for setup [PopularityProcessor].
//
// SeedBrokers, ActivityTopic and Group are required.
type PopularityProcessorConfig struct {
	SeedBrokers   []string
	ActivityTopic string
	Group         string
	Opts          []goka.ProcessorOption
}

// A PopularityProcessor counts units added to carts per product.
//
// Activity arrives keyed by session, so cart additions are re-keyed by
// product ID through the loopback before they reach the group table.
type PopularityProcessor struct {
	opPrefix string
	proc     processor
}

func NewPopularityProcessor(
	config PopularityProcessorConfig,
) (*PopularityProcessor, error) {
	const op = "NewPopularityProcessor"

	if config.ActivityTopic == "" || config.Group == "" {
		return nil, opErr(ErrTooFewOpts, op)
	}

	p := PopularityProcessor{opPrefix: "PopularityProcessor"}

	gg := goka.DefineGroup(goka.Group(config.Group),
		goka.Input(goka.Stream(config.ActivityTopic), activityCodec{}, p.rekeyFn),
		goka.Loop(new(codec.Int64), p.countFn),
		goka.Persist(new(codec.Int64)),
	)

	opts := append([]goka.ProcessorOption{withNonlogProcOpt()}, config.Opts...)
	gp, err := goka.NewProcessor(config.SeedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}
	p.proc = processor{opPrefix: p.opPrefix, gp: gp}

	return &p, nil
}

func (p *PopularityProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *PopularityProcessor) Close() {
	p.proc.close()
}

func (p *PopularityProcessor) rekeyFn(ctx goka.Context, msg any) {
	a, ok := msg.(domain.Activity)
	if !ok || a.Kind != domain.ActivityCartAdd || a.ProductID == "" {
		return
	}
	if a.Quantity <= 0 {
		return
	}
	ctx.Loopback(a.ProductID, int64(a.Quantity))
}

func (p *PopularityProcessor) countFn(ctx goka.Context, msg any) {
	const op = "countFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	delta, ok := msg.(int64)
	if !ok {
		log.Error("unexpected message type", "key", ctx.Key())
		return
	}
	current, _ := ctx.Value().(int64)
	ctx.SetValue(current + delta)
	log.Debug("cart additions counted", "productID", ctx.Key(), "total", current+delta)
}
