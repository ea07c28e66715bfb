package types

import (
	"github.com/streamvest/engine-go/core/util"
)

// MinStreamDuration is the minimum allowed distance between a stream's
// start and end time, in seconds.
const MinStreamDuration int64 = 60

// StreamStatus is the primary lifecycle state of a stream.
type StreamStatus string

const (
	// StreamStatusScheduled means the stream exists but has not started.
	StreamStatusScheduled StreamStatus = "scheduled"
	// StreamStatusStreaming means the stream is actively vesting.
	StreamStatusStreaming StreamStatus = "streaming"
	// StreamStatusCompleted means the stream ran to its natural end.
	StreamStatusCompleted StreamStatus = "completed"
	// StreamStatusCancelled means the stream was terminated before its
	// natural end and the escrow was settled.
	StreamStatusCancelled StreamStatus = "cancelled"
)

func (s StreamStatus) String() string {
	return string(s)
}

// StreamFlags are the immutable capability flags fixed at creation.
type StreamFlags struct {
	// CancelableBySender permits the sender to cancel the stream.
	CancelableBySender bool
	// CancelableByRecipient permits the recipient to cancel the stream.
	CancelableByRecipient bool
	// TransferableBySender permits the sender to reassign the recipient.
	TransferableBySender bool
	// TransferableByRecipient permits the recipient to reassign themselves.
	TransferableByRecipient bool
	// CanTopup permits the sender to deposit additional funds.
	CanTopup bool
	// CanPause permits the sender to freeze the vesting clock.
	CanPause bool
	// AutomaticWithdrawal permits a configured agent to withdraw on the
	// recipient's behalf.
	AutomaticWithdrawal bool
}

// Stream is the authoritative record of one custody relationship. Identity
// and schedule are immutable after creation; only the counters change, and
// only through engine operations.
//
// All timestamps are Unix seconds. All amounts are integral base units of
// the stream's mint.
type Stream struct {
	// ID identifies the stream. It is derived from the creation identity
	// (sender, recipient, mint, start time) and is never caller-chosen.
	ID util.Address
	// Sender is the depositor and schedule authority.
	Sender util.Address
	// Recipient is the beneficiary. Mutable only via TransferStream.
	Recipient util.Address
	// Mint identifies the fungible asset being streamed.
	Mint util.Address
	// EscrowAddress is the custody account, derived from ID. It holds the
	// not-yet-withdrawn balance and has no lifecycle of its own.
	EscrowAddress util.Address

	// Name is a display-only label.
	Name string

	// DepositedAmount is the amount funded at creation.
	DepositedAmount uint64
	// StartTime is when vesting begins.
	StartTime int64
	// EndTime is when vesting completes. Always after StartTime.
	EndTime int64
	// CliffTime is the earliest instant any amount is withdrawable.
	// Zero means no cliff.
	CliffTime int64
	// WithdrawFrequency is the period length in seconds for stepped
	// release. Zero means continuous linear release.
	WithdrawFrequency int64
	// AmountPerPeriod is the amount unlocked at each period boundary for
	// stepped release. Zero when release is continuous.
	AmountPerPeriod uint64

	Flags StreamFlags

	// WithdrawnAmount is the cumulative amount paid to the recipient.
	// Monotonically non-decreasing.
	WithdrawnAmount uint64
	// TotalDeposited is DepositedAmount plus all accepted top-ups.
	TotalDeposited uint64
	// ReturnedAmount is the amount refunded to the sender at cancellation.
	ReturnedAmount uint64

	// CurrentPauseStart is the timestamp the in-progress pause began, or
	// zero when not paused.
	CurrentPauseStart int64
	// PauseCumulative is the total seconds spent paused across all
	// completed pauses.
	PauseCumulative int64

	// LastWithdrawnAt is the timestamp of the most recent withdrawal.
	LastWithdrawnAt int64
	// CreatedAt is the timestamp of creation.
	CreatedAt int64
	// ClosedAt is the terminal timestamp, set exactly once by cancellation
	// or by the withdrawal that exhausts TotalDeposited. Zero while open.
	ClosedAt int64
	// CanceledAt is set when the stream is cancelled, zero otherwise.
	CanceledAt int64
	// CanceledBy records which actor cancelled the stream.
	CanceledBy util.Address
}

// Closed reports whether the stream has reached its terminal state.
// A closed record is frozen: every operation except read fails.
func (s *Stream) Closed() bool {
	return s.ClosedAt != 0
}

// Paused reports whether the vesting clock is currently frozen.
func (s *Stream) Paused() bool {
	return s.CurrentPauseStart != 0
}

// EffectivePause returns the total paused seconds as of now, including the
// in-progress pause if any. This is the value the vesting clock subtracts.
func (s *Stream) EffectivePause(now int64) int64 {
	pause := s.PauseCumulative
	if s.Paused() && now > s.CurrentPauseStart {
		pause += now - s.CurrentPauseStart
	}
	return pause
}

// Status derives the primary lifecycle state at the given instant. The
// paused sub-state is orthogonal and reported by Paused.
func (s *Stream) Status(now int64) StreamStatus {
	switch {
	case s.CanceledAt != 0:
		return StreamStatusCancelled
	case s.Closed():
		return StreamStatusCompleted
	case now < s.StartTime:
		return StreamStatusScheduled
	case now-s.EffectivePause(now) >= s.EndTime:
		return StreamStatusCompleted
	default:
		return StreamStatusStreaming
	}
}

// RemainingBalance is the amount still held in escrow for an open stream.
func (s *Stream) RemainingBalance() uint64 {
	if s.WithdrawnAmount+s.ReturnedAmount >= s.TotalDeposited {
		return 0
	}
	return s.TotalDeposited - s.WithdrawnAmount - s.ReturnedAmount
}

// Clone returns a deep copy of the record. Operations mutate a clone and
// persist it only after every step has succeeded, so a failed operation
// never leaves a partially-updated record behind.
func (s *Stream) Clone() *Stream {
	clone := *s
	return &clone
}
