package escrow

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
)

func balance(t *testing.T, ledger TokenLedger, mint, account util.Address) uint64 {
	t.Helper()
	bal, err := ledger.Balance(context.Background(), mint, account)
	require.NoError(t, err)
	return bal
}

func TestMemoryLedger_Transfer(t *testing.T) {
	ctx := context.Background()
	mint, alice, bob := addr(10), addr(11), addr(12)

	ledger := NewMemoryLedger()
	ledger.Credit(mint, alice, 1000)

	require.NoError(t, ledger.Transfer(ctx, mint, alice, bob, 400))
	require.Equal(t, uint64(600), balance(t, ledger, mint, alice))
	require.Equal(t, uint64(400), balance(t, ledger, mint, bob))

	err := ledger.Transfer(ctx, mint, alice, bob, 601)
	require.True(t, errors.Is(err, types.ErrorInsufficientFunds))
	require.Equal(t, uint64(600), balance(t, ledger, mint, alice))
}

func TestMemoryLedger_TransferBatchAtomic(t *testing.T) {
	ctx := context.Background()
	mint, escrowAcct, alice, bob := addr(10), addr(20), addr(11), addr(12)

	ledger := NewMemoryLedger()
	ledger.Credit(mint, escrowAcct, 500)

	// The second leg overdraws, so the first leg must not apply either.
	err := ledger.TransferBatch(ctx, mint, []Movement{
		{From: escrowAcct, To: alice, Amount: 300},
		{From: escrowAcct, To: bob, Amount: 300},
	})
	require.True(t, errors.Is(err, types.ErrorInsufficientFunds))
	require.Equal(t, uint64(500), balance(t, ledger, mint, escrowAcct))
	require.Zero(t, balance(t, ledger, mint, alice))
	require.Zero(t, balance(t, ledger, mint, bob))

	// A balanced batch drains the escrow exactly.
	require.NoError(t, ledger.TransferBatch(ctx, mint, []Movement{
		{From: escrowAcct, To: alice, Amount: 300},
		{From: escrowAcct, To: bob, Amount: 200},
	}))
	require.Zero(t, balance(t, ledger, mint, escrowAcct))
	require.Equal(t, uint64(300), balance(t, ledger, mint, alice))
	require.Equal(t, uint64(200), balance(t, ledger, mint, bob))
}

func TestCustody_FundChecksDepositorBalance(t *testing.T) {
	ctx := context.Background()
	mint, sender := addr(10), addr(11)

	ledger := NewMemoryLedger()
	ledger.Credit(mint, sender, 100)
	custody := NewCustody(ledger)

	stream := &types.Stream{
		Mint:          mint,
		Sender:        sender,
		EscrowAddress: addr(30),
	}

	err := custody.Fund(ctx, stream, sender, 200)
	require.True(t, errors.Is(err, types.ErrorInsufficientFunds))
	require.Equal(t, uint64(100), balance(t, ledger, mint, sender))

	require.NoError(t, custody.Fund(ctx, stream, sender, 100))
	got, err := custody.Balance(ctx, stream)
	require.NoError(t, err)
	require.Equal(t, uint64(100), got)
}
