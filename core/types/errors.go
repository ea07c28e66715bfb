package types

import "github.com/pkg/errors"

// Error kinds reported by engine operations. Every failure is detected
// before any mutation or fund movement, and callers receive the specific
// kind (match with errors.Is) so they can render cause-specific messaging.
var (
	// ErrorInvalidSchedule covers bad start/end/cliff/duration/period
	// parameters.
	ErrorInvalidSchedule = errors.New("invalid stream schedule")
	// ErrorInvalidInput means an operation input is malformed: a required
	// identity or amount is missing.
	ErrorInvalidInput = errors.New("invalid operation input")
	// ErrorInsufficientFunds means the depositor or custody balance cannot
	// cover the requested amount.
	ErrorInsufficientFunds = errors.New("insufficient funds")
	// ErrorUnauthorized means the acting identity is not a party the
	// operation accepts.
	ErrorUnauthorized = errors.New("unauthorized")
	// ErrorCapabilityDenied means the actor is a party to the stream but
	// the stream's flags do not permit the operation.
	ErrorCapabilityDenied = errors.New("operation not permitted by stream flags")
	// ErrorCliffNotReached means a withdrawal was attempted before the
	// cliff time.
	ErrorCliffNotReached = errors.New("cliff not reached")
	// ErrorStreamClosed means the stream has already been terminated.
	ErrorStreamClosed = errors.New("stream closed")
	// ErrorNothingToWithdraw means the withdrawable amount is zero.
	ErrorNothingToWithdraw = errors.New("nothing to withdraw")
	// ErrorArithmeticOverflow means amount or duration math would exceed
	// safe bounds.
	ErrorArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrorStreamNotFound means no record exists for the given stream ID.
	ErrorStreamNotFound = errors.New("stream not found")
	// ErrorStreamExists means a stream with the same derived identity
	// already exists.
	ErrorStreamExists = errors.New("stream already exists")
	// ErrorStreamAlreadyPaused means pause was requested while paused.
	ErrorStreamAlreadyPaused = errors.New("stream already paused")
	// ErrorStreamNotPaused means resume was requested while not paused.
	ErrorStreamNotPaused = errors.New("stream not paused")
)
