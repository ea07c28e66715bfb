package engine

import (
	"github.com/pkg/errors"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
)

// Authorization checks. Validation order for every operation is signer
// identity, then capability flag, then timing/amount bounds, then
// conservation; these helpers cover the first two steps. A non-party
// actor is Unauthorized; a party whose capability flag is off is
// CapabilityDenied.

// requireSender accepts only the stream's sender.
func requireSender(stream *types.Stream, actor util.Address) error {
	if actor != stream.Sender {
		return errors.Wrapf(types.ErrorUnauthorized, "actor %s is not the sender", actor)
	}
	return nil
}

// requireWithdrawAuthority accepts the recipient, or the engine's
// withdrawal agent when the stream opted into automatic withdrawal.
func (e *Engine) requireWithdrawAuthority(stream *types.Stream, actor util.Address) error {
	if actor == stream.Recipient {
		return nil
	}
	if stream.Flags.AutomaticWithdrawal && !e.withdrawalAgent.IsZero() && actor == e.withdrawalAgent {
		return nil
	}
	return errors.Wrapf(types.ErrorUnauthorized, "actor %s may not withdraw", actor)
}

// requireCancelAuthority accepts a party whose cancel capability is set.
func requireCancelAuthority(stream *types.Stream, actor util.Address) error {
	switch actor {
	case stream.Sender:
		if !stream.Flags.CancelableBySender {
			return errors.Wrap(types.ErrorCapabilityDenied, "stream is not cancelable by sender")
		}
	case stream.Recipient:
		if !stream.Flags.CancelableByRecipient {
			return errors.Wrap(types.ErrorCapabilityDenied, "stream is not cancelable by recipient")
		}
	default:
		return errors.Wrapf(types.ErrorUnauthorized, "actor %s is not a party to the stream", actor)
	}
	return nil
}

// requireTransferAuthority accepts a party whose transfer capability is
// set.
func requireTransferAuthority(stream *types.Stream, actor util.Address) error {
	switch actor {
	case stream.Sender:
		if !stream.Flags.TransferableBySender {
			return errors.Wrap(types.ErrorCapabilityDenied, "stream is not transferable by sender")
		}
	case stream.Recipient:
		if !stream.Flags.TransferableByRecipient {
			return errors.Wrap(types.ErrorCapabilityDenied, "stream is not transferable by recipient")
		}
	default:
		return errors.Wrapf(types.ErrorUnauthorized, "actor %s is not a party to the stream", actor)
	}
	return nil
}
