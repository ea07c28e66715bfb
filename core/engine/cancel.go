package engine

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/vesting"
)

// CancelResult reports the settlement split of a cancellation.
type CancelResult struct {
	Stream *types.Stream
	// RecipientAmount is the vested-but-unwithdrawn portion paid to the
	// recipient.
	RecipientAmount uint64
	// SenderAmount is the unvested remainder returned to the sender.
	SenderAmount uint64
}

// CancelStream terminates a stream before its natural completion. The
// remaining escrow balance is partitioned at the cancellation instant
// using the same vesting formula as withdrawals: vested-but-unwithdrawn
// goes to the recipient, the rest returns to the sender, and the escrow
// drains to zero. Terminal.
func (e *Engine) CancelStream(ctx context.Context, in types.CancelStreamInput, now int64) (*CancelResult, error) {
	if err := e.checkInput(in); err != nil {
		return nil, err
	}
	stream, err := e.loadOpen(ctx, in.StreamID)
	if err != nil {
		return nil, err
	}
	if err := requireCancelAuthority(stream, in.Actor); err != nil {
		return nil, err
	}

	vested := vesting.VestedAmount(scheduleOf(stream), stream.EffectivePause(now), now)
	var toRecipient uint64
	if vested > stream.WithdrawnAmount {
		toRecipient = vested - stream.WithdrawnAmount
	}

	escrowBalance, err := e.custody.Balance(ctx, stream)
	if err != nil {
		return nil, err
	}
	if toRecipient > escrowBalance {
		return nil, errors.Wrapf(types.ErrorInsufficientFunds,
			"escrow holds %d, vested payout is %d", escrowBalance, toRecipient)
	}
	toSender := escrowBalance - toRecipient

	updated := stream.Clone()
	updated.WithdrawnAmount += toRecipient
	updated.ReturnedAmount = toSender
	updated.ClosedAt = now
	updated.CanceledAt = now
	updated.CanceledBy = in.Actor
	if updated.Paused() {
		// Freeze the pause bookkeeping at the terminal instant.
		updated.PauseCumulative = updated.EffectivePause(now)
		updated.CurrentPauseStart = 0
	}

	if err := e.custody.Settle(ctx, stream, toRecipient, toSender); err != nil {
		return nil, err
	}
	if err := e.store.Update(ctx, updated); err != nil {
		if reclaimErr := e.custody.ReclaimSettlement(ctx, stream, toRecipient, toSender); reclaimErr != nil {
			e.logger.Error("failed to reclaim settlement after record write failure",
				zap.String("stream", stream.ID.String()),
				zap.Uint64("to_recipient", toRecipient),
				zap.Uint64("to_sender", toSender),
				zap.Error(reclaimErr),
			)
		}
		return nil, err
	}

	e.logger.Info("stream cancelled",
		zap.String("stream", updated.ID.String()),
		zap.String("canceled_by", in.Actor.String()),
		zap.Uint64("to_recipient", toRecipient),
		zap.Uint64("to_sender", toSender),
	)
	return &CancelResult{Stream: updated, RecipientAmount: toRecipient, SenderAmount: toSender}, nil
}
