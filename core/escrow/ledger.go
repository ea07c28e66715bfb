package escrow

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
)

// Movement is one leg of a batched transfer.
type Movement struct {
	From   util.Address
	To     util.Address
	Amount uint64
}

// TokenLedger is the fungible-asset collaborator the engine moves funds
// through. The hosting runtime supplies the real implementation; the
// engine only requires that Transfer and TransferBatch are atomic: a
// failed call moves nothing.
type TokenLedger interface {
	// Balance returns the balance of account for the given mint.
	Balance(ctx context.Context, mint, account util.Address) (uint64, error)
	// Transfer moves amount of mint from one account to another. Fails
	// with ErrorInsufficientFunds if the source balance is too low.
	Transfer(ctx context.Context, mint, from, to util.Address, amount uint64) error
	// TransferBatch applies all movements atomically: either every leg is
	// applied or none is.
	TransferBatch(ctx context.Context, mint util.Address, movements []Movement) error
}

// MemoryLedger is an in-memory TokenLedger for tests and embedded use.
// The mutex only protects concurrent access across different streams; the
// engine itself never runs two operations against the same stream at once.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[util.Address]map[util.Address]uint64
}

var _ TokenLedger = (*MemoryLedger)(nil)

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[util.Address]map[util.Address]uint64),
	}
}

// Credit adds amount of mint to account. Used to seed balances.
func (l *MemoryLedger) Credit(mint, account util.Address, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mintBalances(mint)[account] += amount
}

// Balance implements TokenLedger.
func (l *MemoryLedger) Balance(_ context.Context, mint, account util.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mintBalances(mint)[account], nil
}

// Transfer implements TokenLedger.
func (l *MemoryLedger) Transfer(ctx context.Context, mint, from, to util.Address, amount uint64) error {
	return l.TransferBatch(ctx, mint, []Movement{{From: from, To: to, Amount: amount}})
}

// TransferBatch implements TokenLedger. All movements are checked against
// the running balances before any of them is applied, so a batch with an
// underfunded leg changes nothing.
func (l *MemoryLedger) TransferBatch(_ context.Context, mint util.Address, movements []Movement) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balances := l.mintBalances(mint)

	staged := make(map[util.Address]uint64, len(movements)*2)
	stagedBalance := func(account util.Address) uint64 {
		if v, ok := staged[account]; ok {
			return v
		}
		return balances[account]
	}

	for _, m := range movements {
		available := stagedBalance(m.From)
		if available < m.Amount {
			return errors.Wrapf(types.ErrorInsufficientFunds,
				"account %s holds %d, needs %d", m.From, available, m.Amount)
		}
		staged[m.From] = available - m.Amount
		staged[m.To] = stagedBalance(m.To) + m.Amount
	}

	for account, balance := range staged {
		balances[account] = balance
	}
	return nil
}

func (l *MemoryLedger) mintBalances(mint util.Address) map[util.Address]uint64 {
	if l.balances[mint] == nil {
		l.balances[mint] = make(map[util.Address]uint64)
	}
	return l.balances[mint]
}
