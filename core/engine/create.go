package engine

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/streamvest/engine-go/core/escrow"
	"github.com/streamvest/engine-go/core/types"
)

// CreateStream validates the schedule, derives the stream and escrow
// addresses, moves the deposit into custody and persists the record. The
// record becomes visible only after the escrow is funded; if either step
// fails the stream does not exist.
func (e *Engine) CreateStream(ctx context.Context, in types.CreateStreamInput, now int64) (*types.Stream, error) {
	if err := e.checkInput(in); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id := escrow.DeriveStreamAddress(in.Sender, in.Recipient, in.Mint, in.StartTime)
	if _, err := e.store.Get(ctx, id); err == nil {
		return nil, errors.Wrapf(types.ErrorStreamExists, "stream %s", id)
	} else if !errors.Is(err, types.ErrorStreamNotFound) {
		return nil, err
	}

	stream := &types.Stream{
		ID:            id,
		Sender:        in.Sender,
		Recipient:     in.Recipient,
		Mint:          in.Mint,
		EscrowAddress: escrow.DeriveEscrowAddress(id),

		Name: in.Name,

		DepositedAmount:   in.DepositedAmount,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		CliffTime:         in.CliffTime,
		WithdrawFrequency: in.WithdrawFrequency,
		AmountPerPeriod:   in.AmountPerPeriod,

		Flags: in.Flags,

		TotalDeposited: in.DepositedAmount,
		CreatedAt:      now,
	}

	if err := e.custody.Fund(ctx, stream, in.Sender, in.DepositedAmount); err != nil {
		return nil, err
	}
	if err := e.store.Put(ctx, stream); err != nil {
		if releaseErr := e.custody.Release(ctx, stream, in.Sender, in.DepositedAmount); releaseErr != nil {
			e.logger.Error("failed to release deposit after record write failure",
				zap.String("stream", stream.ID.String()),
				zap.Uint64("amount", in.DepositedAmount),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}

	e.logger.Info("stream created",
		zap.String("stream", stream.ID.String()),
		zap.String("sender", stream.Sender.String()),
		zap.String("recipient", stream.Recipient.String()),
		zap.Uint64("deposited", stream.DepositedAmount),
		zap.Int64("start", stream.StartTime),
		zap.Int64("end", stream.EndTime),
	)
	return stream, nil
}
