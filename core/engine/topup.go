package engine

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/streamvest/engine-go/core/types"
)

// TopupStream deposits additional funds into the escrow without altering
// the schedule. TotalDeposited and the escrow balance move by the same
// amount in the same step, never one without the other.
//
// Top-ups after EndTime are rejected: everything vests instantly at the
// end of the window, so a late top-up would be a pass-through transfer
// rather than a stream.
func (e *Engine) TopupStream(ctx context.Context, in types.TopupStreamInput, now int64) (*types.Stream, error) {
	if err := e.checkInput(in); err != nil {
		return nil, err
	}
	stream, err := e.loadOpen(ctx, in.StreamID)
	if err != nil {
		return nil, err
	}
	if err := requireSender(stream, in.Actor); err != nil {
		return nil, err
	}
	if !stream.Flags.CanTopup {
		return nil, errors.Wrap(types.ErrorCapabilityDenied, "stream does not accept top-ups")
	}
	if now-stream.EffectivePause(now) >= stream.EndTime {
		return nil, errors.Wrap(types.ErrorInvalidSchedule, "stream has fully vested")
	}
	if stream.TotalDeposited > math.MaxUint64-in.Amount {
		return nil, errors.Wrap(types.ErrorArithmeticOverflow, "top-up would overflow total deposited")
	}

	updated := stream.Clone()
	updated.TotalDeposited += in.Amount

	if err := e.custody.Fund(ctx, stream, stream.Sender, in.Amount); err != nil {
		return nil, err
	}
	if err := e.store.Update(ctx, updated); err != nil {
		if releaseErr := e.custody.Release(ctx, stream, stream.Sender, in.Amount); releaseErr != nil {
			e.logger.Error("failed to release top-up after record write failure",
				zap.String("stream", stream.ID.String()),
				zap.Uint64("amount", in.Amount),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}

	e.logger.Info("stream topped up",
		zap.String("stream", updated.ID.String()),
		zap.Uint64("amount", in.Amount),
		zap.Uint64("total_deposited", updated.TotalDeposited),
	)
	return updated, nil
}
