package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// An activityCodec used for serde [domain.Activity] as JSON.
type activityCodec struct{}

func (activityCodec) Encode(v any) ([]byte, error) {
	const op = "activityCodec.Encode"
	a, ok := v.(domain.Activity)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return json.Marshal(a)
}

func (activityCodec) Decode(data []byte) (any, error) {
	const op = "activityCodec.Decode"
	var a domain.Activity
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, opErr(err, op)
	}
	return a, nil
}

// An ActivityEmitterConfig used for setup [ActivityEmitter].
//
// SeedBrokers and Topic are required.
type ActivityEmitterConfig struct {
	SeedBrokers []string
	Topic       string
	Opts        []goka.EmitterOption
}

var _ port.ActivityEmitter = (*ActivityEmitter)(nil)

// An ActivityEmitter streams shopper activity keyed by session ID.
// Delivery is asynchronous: failures are logged, never returned to the
// mutation that produced the activity.
type ActivityEmitter struct {
	ge *goka.Emitter
}

func NewActivityEmitter(config ActivityEmitterConfig) (*ActivityEmitter, error) {
	const op = "NewActivityEmitter"

	if config.Topic == "" {
		return nil, opErr(errors.New("topic is empty string"), op)
	}

	ge, err := goka.NewEmitter(
		config.SeedBrokers,
		goka.Stream(config.Topic),
		activityCodec{},
		config.Opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}
	return &ActivityEmitter{ge}, nil
}

func (e *ActivityEmitter) EmitActivity(ctx context.Context, a domain.Activity) error {
	const op = "ActivityEmitter.EmitActivity"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}
	if a.SessionID == "" {
		return opErr(errors.New("activity without session"), op)
	}

	promise, err := e.ge.Emit(a.SessionID, a)
	if err != nil {
		return opErr(err, op)
	}
	promise.Then(func(err error) {
		if err != nil {
			slog.Warn(
				"activity is not delivered",
				"op", op, "sessionID", a.SessionID, "kind", a.Kind, "err", err,
			)
		}
	})
	return nil
}

// Listener adapts the emitter to a session activity listener.
func (e *ActivityEmitter) Listener() func(domain.Activity) {
	return func(a domain.Activity) {
		if err := e.EmitActivity(context.Background(), a); err != nil {
			slog.Warn("failed to emit activity", "err", err)
		}
	}
}

func (e *ActivityEmitter) Close() {
	const op = "ActivityEmitter.Close"
	log := slog.With("op", op)

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
