package engine

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/vesting"
)

// WithdrawResult reports a completed withdrawal.
type WithdrawResult struct {
	Stream *types.Stream
	// Amount actually paid out.
	Amount uint64
}

// Withdraw pays vested funds out of escrow to the recipient. A nil
// requested amount withdraws the full withdrawable balance. The vesting
// clock keeps running while paused funds that vested before the pause
// remain withdrawable; pausing freezes accrual, not custody.
//
// A withdrawal that exhausts TotalDeposited closes the stream as
// Completed.
func (e *Engine) Withdraw(ctx context.Context, in types.WithdrawInput, now int64) (*WithdrawResult, error) {
	if err := e.checkInput(in); err != nil {
		return nil, err
	}
	stream, err := e.loadOpen(ctx, in.StreamID)
	if err != nil {
		return nil, err
	}
	if err := e.requireWithdrawAuthority(stream, in.Actor); err != nil {
		return nil, err
	}

	if stream.CliffTime != 0 && now < stream.CliffTime {
		return nil, errors.Wrapf(types.ErrorCliffNotReached,
			"cliff at %d, now %d", stream.CliffTime, now)
	}

	withdrawable := vesting.WithdrawableAmount(
		scheduleOf(stream), stream.EffectivePause(now), stream.WithdrawnAmount, now)

	amount := withdrawable
	if in.Amount != nil {
		if *in.Amount > withdrawable {
			return nil, errors.Wrapf(types.ErrorInsufficientFunds,
				"requested %d, withdrawable %d", *in.Amount, withdrawable)
		}
		amount = *in.Amount
	}
	if amount == 0 {
		return nil, errors.Wrap(types.ErrorNothingToWithdraw, "withdrawable amount is zero")
	}

	// Conservation: the escrow must hold at least the payout.
	escrowBalance, err := e.custody.Balance(ctx, stream)
	if err != nil {
		return nil, err
	}
	if escrowBalance < amount {
		return nil, errors.Wrapf(types.ErrorInsufficientFunds,
			"escrow holds %d, payout is %d", escrowBalance, amount)
	}

	updated := stream.Clone()
	updated.WithdrawnAmount += amount
	updated.LastWithdrawnAt = now
	if updated.WithdrawnAmount == updated.TotalDeposited {
		updated.ClosedAt = now
	}

	if err := e.custody.PayOut(ctx, stream, amount); err != nil {
		return nil, err
	}
	if err := e.store.Update(ctx, updated); err != nil {
		if reclaimErr := e.custody.Reclaim(ctx, stream, stream.Recipient, amount); reclaimErr != nil {
			e.logger.Error("failed to reclaim payout after record write failure",
				zap.String("stream", stream.ID.String()),
				zap.Uint64("amount", amount),
				zap.Error(reclaimErr),
			)
		}
		return nil, err
	}

	e.logger.Info("withdrawal",
		zap.String("stream", updated.ID.String()),
		zap.Uint64("amount", amount),
		zap.Uint64("withdrawn_total", updated.WithdrawnAmount),
		zap.Bool("completed", updated.Closed()),
	)
	return &WithdrawResult{Stream: updated, Amount: amount}, nil
}
