package types

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/streamvest/engine-go/core/util"
)

func addr(b byte) util.Address {
	var a util.Address
	a[0] = b
	return a
}

func validCreateInput() CreateStreamInput {
	return CreateStreamInput{
		Sender:          addr(1),
		Recipient:       addr(2),
		Mint:            addr(3),
		DepositedAmount: 1000,
		StartTime:       1000,
		EndTime:         2000,
	}
}

func TestCreateStreamInput_Validate(t *testing.T) {
	valid := validCreateInput()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CreateStreamInput)
	}{
		{
			name:   "zero deposit",
			mutate: func(in *CreateStreamInput) { in.DepositedAmount = 0 },
		},
		{
			name:   "end before start",
			mutate: func(in *CreateStreamInput) { in.EndTime = 500 },
		},
		{
			name:   "end equals start",
			mutate: func(in *CreateStreamInput) { in.EndTime = in.StartTime },
		},
		{
			name:   "duration below floor",
			mutate: func(in *CreateStreamInput) { in.EndTime = in.StartTime + MinStreamDuration - 1 },
		},
		{
			name:   "cliff before start",
			mutate: func(in *CreateStreamInput) { in.CliffTime = 900 },
		},
		{
			name:   "cliff after end",
			mutate: func(in *CreateStreamInput) { in.CliffTime = 2100 },
		},
		{
			name:   "frequency without amount",
			mutate: func(in *CreateStreamInput) { in.WithdrawFrequency = 60 },
		},
		{
			name:   "amount without frequency",
			mutate: func(in *CreateStreamInput) { in.AmountPerPeriod = 10 },
		},
		{
			name: "negative frequency",
			mutate: func(in *CreateStreamInput) {
				in.WithdrawFrequency = -60
				in.AmountPerPeriod = 10
			},
		},
		{
			name: "period amount above deposit",
			mutate: func(in *CreateStreamInput) {
				in.WithdrawFrequency = 60
				in.AmountPerPeriod = 2000
			},
		},
		{
			name:   "self stream",
			mutate: func(in *CreateStreamInput) { in.Recipient = in.Sender },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			tt.mutate(&in)
			err := in.Validate()
			require.True(t, errors.Is(err, ErrorInvalidSchedule), "got %v", err)
		})
	}
}

func TestStream_Status(t *testing.T) {
	stream := &Stream{StartTime: 1000, EndTime: 2000}

	require.Equal(t, StreamStatusScheduled, stream.Status(500))
	require.Equal(t, StreamStatusStreaming, stream.Status(1000))
	require.Equal(t, StreamStatusStreaming, stream.Status(1999))
	require.Equal(t, StreamStatusCompleted, stream.Status(2000))

	// A pause defers natural completion on the effective clock.
	paused := &Stream{StartTime: 1000, EndTime: 2000, PauseCumulative: 300}
	require.Equal(t, StreamStatusStreaming, paused.Status(2000))
	require.Equal(t, StreamStatusCompleted, paused.Status(2300))

	cancelled := &Stream{StartTime: 1000, EndTime: 2000, ClosedAt: 1500, CanceledAt: 1500}
	require.Equal(t, StreamStatusCancelled, cancelled.Status(1600))

	closed := &Stream{StartTime: 1000, EndTime: 2000, ClosedAt: 2100}
	require.Equal(t, StreamStatusCompleted, closed.Status(2200))
}

func TestStream_EffectivePause(t *testing.T) {
	stream := &Stream{PauseCumulative: 100}
	require.Equal(t, int64(100), stream.EffectivePause(5000))

	stream.CurrentPauseStart = 4000
	require.Equal(t, int64(1100), stream.EffectivePause(5000))

	// A pause that started "now" contributes nothing yet.
	require.Equal(t, int64(100), stream.EffectivePause(4000))
}

func TestStream_RemainingBalance(t *testing.T) {
	stream := &Stream{TotalDeposited: 1000, WithdrawnAmount: 300}
	require.Equal(t, uint64(700), stream.RemainingBalance())

	stream.ReturnedAmount = 700
	require.Zero(t, stream.RemainingBalance())
}
