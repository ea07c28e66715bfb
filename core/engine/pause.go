package engine

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/streamvest/engine-go/core/types"
)

// PauseStream freezes the vesting clock. Only the sender may pause, and
// only on streams that carry the CanPause capability.
func (e *Engine) PauseStream(ctx context.Context, in types.PauseStreamInput, now int64) (*types.Stream, error) {
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
	if !stream.Flags.CanPause {
		return nil, errors.Wrap(types.ErrorCapabilityDenied, "stream is not pausable")
	}
	if stream.Paused() {
		return nil, errors.Wrapf(types.ErrorStreamAlreadyPaused, "paused since %d", stream.CurrentPauseStart)
	}

	updated := stream.Clone()
	updated.CurrentPauseStart = now

	if err := e.store.Update(ctx, updated); err != nil {
		return nil, err
	}
	e.logger.Info("stream paused",
		zap.String("stream", updated.ID.String()),
		zap.Int64("at", now),
	)
	return updated, nil
}

// ResumeStream unfreezes the vesting clock, folding the completed pause
// interval into the cumulative pause total.
func (e *Engine) ResumeStream(ctx context.Context, in types.ResumeStreamInput, now int64) (*types.Stream, error) {
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
	if !stream.Paused() {
		return nil, errors.Wrap(types.ErrorStreamNotPaused, "stream is not paused")
	}

	updated := stream.Clone()
	if now > updated.CurrentPauseStart {
		updated.PauseCumulative += now - updated.CurrentPauseStart
	}
	updated.CurrentPauseStart = 0

	if err := e.store.Update(ctx, updated); err != nil {
		return nil, err
	}
	e.logger.Info("stream resumed",
		zap.String("stream", updated.ID.String()),
		zap.Int64("pause_cumulative", updated.PauseCumulative),
	)
	return updated, nil
}
