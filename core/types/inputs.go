package types

import (
	"github.com/pkg/errors"

	"github.com/streamvest/engine-go/core/util"
)

// CreateStreamInput carries everything the sender supplies at creation.
// The stream and escrow addresses are derived, never supplied.
type CreateStreamInput struct {
	Sender    util.Address `validate:"required"`
	Recipient util.Address `validate:"required"`
	Mint      util.Address `validate:"required"`

	DepositedAmount uint64 `validate:"required"`
	StartTime       int64  `validate:"required"`
	EndTime         int64  `validate:"required"`
	// CliffTime is optional; zero means no cliff.
	CliffTime int64
	// WithdrawFrequency and AmountPerPeriod select stepped release when
	// both are set; both zero means continuous linear release.
	WithdrawFrequency int64
	AmountPerPeriod   uint64

	Name  string
	Flags StreamFlags
}

// Validate checks the schedule invariants. Address presence is covered by
// the struct tags; everything here is timing/amount bounds.
func (in *CreateStreamInput) Validate() error {
	if in.DepositedAmount == 0 {
		return errors.Wrap(ErrorInvalidSchedule, "deposited amount must be positive")
	}
	if in.EndTime <= in.StartTime {
		return errors.Wrap(ErrorInvalidSchedule, "end time must be after start time")
	}
	if in.EndTime-in.StartTime < MinStreamDuration {
		return errors.Wrapf(ErrorInvalidSchedule, "duration must be at least %d seconds", MinStreamDuration)
	}
	if in.CliffTime != 0 && (in.CliffTime < in.StartTime || in.CliffTime > in.EndTime) {
		return errors.Wrap(ErrorInvalidSchedule, "cliff time must be within [start, end]")
	}
	if (in.WithdrawFrequency == 0) != (in.AmountPerPeriod == 0) {
		return errors.Wrap(ErrorInvalidSchedule, "withdraw frequency and amount per period must be set together")
	}
	if in.WithdrawFrequency < 0 {
		return errors.Wrap(ErrorInvalidSchedule, "withdraw frequency must not be negative")
	}
	if in.AmountPerPeriod > in.DepositedAmount {
		return errors.Wrap(ErrorInvalidSchedule, "amount per period exceeds deposited amount")
	}
	if in.Recipient == in.Sender {
		return errors.Wrap(ErrorInvalidSchedule, "sender and recipient must differ")
	}
	return nil
}

// WithdrawInput requests a payout of vested funds.
type WithdrawInput struct {
	// Actor is the identity submitting the operation.
	Actor    util.Address `validate:"required"`
	StreamID util.Address `validate:"required"`
	// Amount is optional; nil withdraws the full withdrawable amount.
	Amount *uint64
}

// CancelStreamInput terminates a stream and settles the escrow.
type CancelStreamInput struct {
	Actor    util.Address `validate:"required"`
	StreamID util.Address `validate:"required"`
}

// PauseStreamInput freezes the vesting clock.
type PauseStreamInput struct {
	Actor    util.Address `validate:"required"`
	StreamID util.Address `validate:"required"`
}

// ResumeStreamInput unfreezes the vesting clock and accumulates the pause.
type ResumeStreamInput struct {
	Actor    util.Address `validate:"required"`
	StreamID util.Address `validate:"required"`
}

// TransferStreamInput reassigns the beneficiary. No funds move.
type TransferStreamInput struct {
	Actor        util.Address `validate:"required"`
	StreamID     util.Address `validate:"required"`
	NewRecipient util.Address `validate:"required"`
}

// TopupStreamInput deposits additional funds into the escrow.
type TopupStreamInput struct {
	Actor    util.Address `validate:"required"`
	StreamID util.Address `validate:"required"`
	Amount   uint64       `validate:"required"`
}
