package engine

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/streamvest/engine-go/core/types"
)

// TransferStream reassigns the beneficiary. No funds move: the escrow
// address is derived from the immutable stream ID, so custody is
// untouched and future withdrawals simply pay the new recipient.
func (e *Engine) TransferStream(ctx context.Context, in types.TransferStreamInput, now int64) (*types.Stream, error) {
	if err := e.checkInput(in); err != nil {
		return nil, err
	}
	stream, err := e.loadOpen(ctx, in.StreamID)
	if err != nil {
		return nil, err
	}
	if err := requireTransferAuthority(stream, in.Actor); err != nil {
		return nil, err
	}
	if in.NewRecipient == stream.Recipient {
		return nil, errors.Wrap(types.ErrorInvalidSchedule, "new recipient is already the recipient")
	}
	if in.NewRecipient == stream.Sender {
		return nil, errors.Wrap(types.ErrorInvalidSchedule, "sender cannot be the recipient")
	}

	updated := stream.Clone()
	oldRecipient := updated.Recipient
	updated.Recipient = in.NewRecipient

	if err := e.store.Update(ctx, updated); err != nil {
		return nil, err
	}
	e.logger.Info("stream transferred",
		zap.String("stream", updated.ID.String()),
		zap.String("old_recipient", oldRecipient.String()),
		zap.String("new_recipient", updated.Recipient.String()),
		zap.Int64("at", now),
	)
	return updated, nil
}
