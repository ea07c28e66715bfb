package engine

import (
	"context"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/golang-sql/civil"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
	"github.com/streamvest/engine-go/core/vesting"
)

// StreamView is the read model returned to queries: the record plus every
// amount derived from time, evaluated at a single instant. Display
// collaborators render it as-is; nothing in a view ever feeds back into
// state.
type StreamView struct {
	Stream *types.Stream

	Status types.StreamStatus
	Paused bool

	// VestedAmount is the cumulative unlocked amount at the query instant.
	VestedAmount uint64
	// WithdrawableAmount is the spendable balance: vested minus withdrawn.
	WithdrawableAmount uint64
	// EscrowBalance is the custody balance at the query instant.
	EscrowBalance uint64

	// CompletionPercent is release-window progress in [0, 100], two
	// decimal places.
	CompletionPercent apd.Decimal
	// TimeRemaining is the effective seconds until fully vested.
	TimeRemaining int64

	// NextUnlockAt and NextUnlockAmount project the next period boundary
	// for stepped streams. Zero for continuous or fully vested streams.
	NextUnlockAt     int64
	NextUnlockAmount uint64

	// StartDate and EndDate are calendar (UTC) projections of the
	// schedule bounds for display.
	StartDate civil.DateTime
	EndDate   civil.DateTime
}

// GetStream returns the record and its derived amounts at the given
// instant. Reads are legal in every state, including closed.
func (e *Engine) GetStream(ctx context.Context, id util.Address, now int64) (*StreamView, error) {
	stream, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.buildView(ctx, stream, now)
}

// ListStreamsBySender returns views of all streams funded by the sender.
func (e *Engine) ListStreamsBySender(ctx context.Context, sender util.Address, now int64) ([]*StreamView, error) {
	streams, err := e.store.ListBySender(ctx, sender)
	if err != nil {
		return nil, err
	}
	return e.buildViews(ctx, streams, now)
}

// ListStreamsByRecipient returns views of all streams benefiting the
// recipient.
func (e *Engine) ListStreamsByRecipient(ctx context.Context, recipient util.Address, now int64) ([]*StreamView, error) {
	streams, err := e.store.ListByRecipient(ctx, recipient)
	if err != nil {
		return nil, err
	}
	return e.buildViews(ctx, streams, now)
}

func (e *Engine) buildViews(ctx context.Context, streams []*types.Stream, now int64) ([]*StreamView, error) {
	views := make([]*StreamView, 0, len(streams))
	for _, stream := range streams {
		view, err := e.buildView(ctx, stream, now)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (e *Engine) buildView(ctx context.Context, stream *types.Stream, now int64) (*StreamView, error) {
	escrowBalance, err := e.custody.Balance(ctx, stream)
	if err != nil {
		return nil, err
	}

	schedule := scheduleOf(stream)
	pause := stream.EffectivePause(now)

	view := &StreamView{
		Stream:        stream,
		Status:        stream.Status(now),
		Paused:        stream.Paused(),
		EscrowBalance: escrowBalance,
		TimeRemaining: vesting.TimeRemaining(schedule, pause, now),
		StartDate:     civilDateTime(stream.StartTime),
		EndDate:       civilDateTime(stream.EndTime),
	}

	if stream.Closed() {
		// Terminal records are frozen: vesting stopped at closure and the
		// escrow has been drained.
		view.VestedAmount = stream.WithdrawnAmount
		view.WithdrawableAmount = 0
		view.TimeRemaining = 0
	} else {
		view.VestedAmount = vesting.VestedAmount(schedule, pause, now)
		view.WithdrawableAmount = vesting.WithdrawableAmount(schedule, pause, stream.WithdrawnAmount, now)
		if at, amount, ok := vesting.NextUnlock(schedule, pause, stream.WithdrawnAmount, now); ok {
			view.NextUnlockAt = at
			view.NextUnlockAmount = amount
		}
	}

	view.CompletionPercent = completionPercent(stream, schedule, pause, now)
	return view, nil
}

// completionPercent renders release progress as a decimal percentage in
// [0, 100]. Closed streams report according to their terminal state: a
// completed stream is 100% done, a cancelled one froze where it stopped.
func completionPercent(stream *types.Stream, schedule vesting.Schedule, pause int64, now int64) apd.Decimal {
	at := now
	if stream.Closed() {
		at = stream.ClosedAt
		pause = stream.PauseCumulative
		if stream.CanceledAt == 0 {
			return *apd.New(100, 0)
		}
	}
	bps := vesting.ProgressBasisPoints(schedule, pause, at)
	return *apd.New(int64(bps), -2)
}

func civilDateTime(ts int64) civil.DateTime {
	return civil.DateTimeOf(time.Unix(ts, 0).UTC())
}
