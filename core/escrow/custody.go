package escrow

import (
	"context"

	"github.com/pkg/errors"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
)

// Custody moves funds between the depositor, the escrow account and the
// beneficiary of a single stream. It has no state of its own beyond the
// ledger it wraps; the escrow account exists only as a balance tied to
// its stream's derived address.
type Custody struct {
	ledger TokenLedger
}

// NewCustody wraps a token ledger.
func NewCustody(ledger TokenLedger) *Custody {
	return &Custody{ledger: ledger}
}

// Balance returns the escrow balance of the stream.
func (c *Custody) Balance(ctx context.Context, stream *types.Stream) (uint64, error) {
	return c.ledger.Balance(ctx, stream.Mint, stream.EscrowAddress)
}

// Fund moves amount from the depositor into the stream's escrow. The
// balance is checked first so the caller sees ErrorInsufficientFunds
// before any state has moved.
func (c *Custody) Fund(ctx context.Context, stream *types.Stream, from util.Address, amount uint64) error {
	available, err := c.ledger.Balance(ctx, stream.Mint, from)
	if err != nil {
		return errors.Wrap(err, "reading depositor balance")
	}
	if available < amount {
		return errors.Wrapf(types.ErrorInsufficientFunds,
			"depositor holds %d, needs %d", available, amount)
	}
	return errors.Wrap(c.ledger.Transfer(ctx, stream.Mint, from, stream.EscrowAddress, amount),
		"funding escrow")
}

// PayOut moves amount from the escrow to the stream's recipient.
func (c *Custody) PayOut(ctx context.Context, stream *types.Stream, amount uint64) error {
	return errors.Wrap(c.ledger.Transfer(ctx, stream.Mint, stream.EscrowAddress, stream.Recipient, amount),
		"paying out from escrow")
}

// Release moves amount from the escrow back to account. Unwinds a funding
// whose record write did not land.
func (c *Custody) Release(ctx context.Context, stream *types.Stream, account util.Address, amount uint64) error {
	return errors.Wrap(c.ledger.Transfer(ctx, stream.Mint, stream.EscrowAddress, account, amount),
		"releasing escrow")
}

// Reclaim moves amount from account back into the escrow. Unwinds a payout
// whose record write did not land.
func (c *Custody) Reclaim(ctx context.Context, stream *types.Stream, account util.Address, amount uint64) error {
	return errors.Wrap(c.ledger.Transfer(ctx, stream.Mint, account, stream.EscrowAddress, amount),
		"reclaiming payout")
}

// Settle drains the escrow at cancellation: toRecipient goes to the
// beneficiary (vested but unwithdrawn) and toSender returns to the
// depositor (unvested remainder). Both legs apply atomically; afterwards
// the escrow balance is zero.
func (c *Custody) Settle(ctx context.Context, stream *types.Stream, toRecipient, toSender uint64) error {
	movements := make([]Movement, 0, 2)
	if toRecipient > 0 {
		movements = append(movements, Movement{
			From:   stream.EscrowAddress,
			To:     stream.Recipient,
			Amount: toRecipient,
		})
	}
	if toSender > 0 {
		movements = append(movements, Movement{
			From:   stream.EscrowAddress,
			To:     stream.Sender,
			Amount: toSender,
		})
	}
	if len(movements) == 0 {
		return nil
	}
	return errors.Wrap(c.ledger.TransferBatch(ctx, stream.Mint, movements),
		"settling escrow")
}

// ReclaimSettlement atomically reverses both legs of a settlement whose
// record write did not land, restoring the escrow balance.
func (c *Custody) ReclaimSettlement(ctx context.Context, stream *types.Stream, fromRecipient, fromSender uint64) error {
	movements := make([]Movement, 0, 2)
	if fromRecipient > 0 {
		movements = append(movements, Movement{
			From:   stream.Recipient,
			To:     stream.EscrowAddress,
			Amount: fromRecipient,
		})
	}
	if fromSender > 0 {
		movements = append(movements, Movement{
			From:   stream.Sender,
			To:     stream.EscrowAddress,
			Amount: fromSender,
		})
	}
	if len(movements) == 0 {
		return nil
	}
	return errors.Wrap(c.ledger.TransferBatch(ctx, stream.Mint, movements),
		"reclaiming settlement")
}
