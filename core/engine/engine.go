// Package engine implements the custody state machine: one operation at a
// time is validated, applied to the stream record and reflected in the
// escrow, all-or-nothing. The hosting runtime guarantees that no two
// operations touch the same stream concurrently; operations against
// different streams may run in parallel.
//
// Time is an explicit input: every operation takes the instant it executes
// at and uses it for all arithmetic within that operation, so results are
// reproducible and never depend on mid-operation clock reads.
package engine

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/streamvest/engine-go/core/escrow"
	"github.com/streamvest/engine-go/core/logging"
	"github.com/streamvest/engine-go/core/store"
	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
	"github.com/streamvest/engine-go/core/vesting"
)

// Engine executes stream operations against an injected record store and
// token ledger.
type Engine struct {
	store    store.StreamStore
	ledger   escrow.TokenLedger
	custody  *escrow.Custody
	logger   *zap.Logger
	validate *validator.Validate

	// withdrawalAgent may withdraw on behalf of recipients of streams
	// that carry the AutomaticWithdrawal flag. Zero when unset.
	withdrawalAgent util.Address
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the package-global logger for this engine.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWithdrawalAgent designates the identity allowed to act as the
// recipient on streams with AutomaticWithdrawal set.
func WithWithdrawalAgent(agent util.Address) Option {
	return func(e *Engine) {
		e.withdrawalAgent = agent
	}
}

// NewEngine builds an engine around the given store and ledger.
func NewEngine(streams store.StreamStore, ledger escrow.TokenLedger, options ...Option) (*Engine, error) {
	if streams == nil {
		return nil, errors.New("engine: stream store is required")
	}
	if ledger == nil {
		return nil, errors.New("engine: token ledger is required")
	}

	e := &Engine{
		store:    streams,
		ledger:   ledger,
		custody:  escrow.NewCustody(ledger),
		logger:   logging.Logger,
		validate: validator.New(),
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// checkInput validates the shape of an operation input (required
// identities and amounts) before the operation looks at any state.
func (e *Engine) checkInput(in any) error {
	if err := e.validate.Struct(in); err != nil {
		return errors.Wrap(types.ErrorInvalidInput, err.Error())
	}
	return nil
}

// loadOpen fetches a stream and rejects the operation if the record has
// already been terminated. Every mutating operation except create goes
// through this.
func (e *Engine) loadOpen(ctx context.Context, id util.Address) (*types.Stream, error) {
	stream, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stream.Closed() {
		return nil, errors.Wrapf(types.ErrorStreamClosed, "stream %s closed at %d", stream.ID, stream.ClosedAt)
	}
	return stream, nil
}

// scheduleOf maps the record's immutable timing fields into the
// calculator's schedule.
func scheduleOf(stream *types.Stream) vesting.Schedule {
	return vesting.Schedule{
		Total:             stream.TotalDeposited,
		Start:             stream.StartTime,
		End:               stream.EndTime,
		Cliff:             stream.CliffTime,
		WithdrawFrequency: stream.WithdrawFrequency,
		AmountPerPeriod:   stream.AmountPerPeriod,
	}
}
