// Package vesting implements the pure release arithmetic: given a stream's
// schedule and pause history, how much is unlocked at a given instant. No
// storage, no side effects; every function is a deterministic computation
// over its arguments.
package vesting

import "math/bits"

// Schedule is the immutable timing and amount configuration of a stream.
type Schedule struct {
	// Total is the full amount released over the schedule.
	Total uint64
	// Start and End bound the release window. End is always after Start.
	Start int64
	End   int64
	// Cliff is the earliest instant any amount unlocks; zero means none.
	Cliff int64
	// WithdrawFrequency selects stepped release when positive: amounts
	// unlock only at period boundaries. Zero means continuous linear
	// release.
	WithdrawFrequency int64
	// AmountPerPeriod is the amount unlocked per period boundary when
	// release is stepped.
	AmountPerPeriod uint64
}

// Stepped reports whether the schedule releases at period boundaries
// rather than continuously.
func (s Schedule) Stepped() bool {
	return s.WithdrawFrequency > 0
}

// VestedAmount returns the cumulative amount unlocked at now, given the
// total seconds the stream has spent paused. Paused time does not count
// toward vesting: the effective clock is now minus pauseCumulative.
//
// The cliff gates on the wall clock: before the cliff nothing is vested
// regardless of elapsed time. From the cliff onward the amount is the
// plain proportional (or stepped) release on the effective clock.
func VestedAmount(s Schedule, pauseCumulative int64, now int64) uint64 {
	if now < s.Start {
		return 0
	}
	if s.Cliff != 0 && now < s.Cliff {
		return 0
	}

	effectiveNow := now - pauseCumulative
	if effectiveNow >= s.End {
		return s.Total
	}

	elapsed := effectiveNow - s.Start
	if elapsed <= 0 {
		return 0
	}

	if s.Stepped() {
		return steppedAmount(s, elapsed)
	}
	return linearAmount(s.Total, elapsed, s.End-s.Start)
}

// WithdrawableAmount is the vested amount minus what has already been
// withdrawn, floored at zero. This is the only function consulted for how
// much can be taken out right now.
func WithdrawableAmount(s Schedule, pauseCumulative int64, withdrawn uint64, now int64) uint64 {
	vested := VestedAmount(s, pauseCumulative, now)
	if vested <= withdrawn {
		return 0
	}
	return vested - withdrawn
}

// NextUnlock projects the next period boundary for a stepped schedule:
// the wall-clock timestamp at which the next amount unlocks and that
// amount. The final period's amount is the remainder of the total after
// all full periods and prior withdrawals, so per-period rounding never
// accumulates past the last period; the last unlock exactly zeroes the
// remaining balance.
//
// Returns ok=false for continuous schedules and for schedules that are
// already fully vested. The projection assumes no further pauses.
func NextUnlock(s Schedule, pauseCumulative int64, withdrawn uint64, now int64) (at int64, amount uint64, ok bool) {
	if !s.Stepped() {
		return 0, 0, false
	}
	if VestedAmount(s, pauseCumulative, now) >= s.Total {
		return 0, 0, false
	}

	effectiveNow := now - pauseCumulative
	var periodsElapsed int64
	if effectiveNow > s.Start {
		periodsElapsed = (effectiveNow - s.Start) / s.WithdrawFrequency
	}
	nextPeriod := periodsElapsed + 1

	// Boundary on the effective clock, shifted back to the wall clock by
	// the pause already accumulated.
	at = s.Start + nextPeriod*s.WithdrawFrequency + pauseCumulative
	if s.Cliff != 0 && at < s.Cliff {
		at = s.Cliff
	}

	releasedSoFar := saturatingMul(uint64(periodsElapsed), s.AmountPerPeriod)
	if releasedSoFar > s.Total {
		releasedSoFar = s.Total
	}
	nextCumulative := saturatingMul(uint64(nextPeriod), s.AmountPerPeriod)
	if nextCumulative >= s.Total || s.Start+nextPeriod*s.WithdrawFrequency >= s.End {
		// Final unlock: whatever is left after full periods and prior
		// withdrawals.
		amount = s.Total - releasedSoFar
		if prior := withdrawn; prior > releasedSoFar {
			amount -= prior - releasedSoFar
		}
	} else {
		amount = s.AmountPerPeriod
	}
	return at, amount, true
}

// ProgressBasisPoints returns completion of the release window on the
// effective clock in basis points, clamped to [0, 10000].
func ProgressBasisPoints(s Schedule, pauseCumulative int64, now int64) uint16 {
	if now < s.Start {
		return 0
	}
	effectiveNow := now - pauseCumulative
	if effectiveNow >= s.End {
		return 10000
	}
	elapsed := effectiveNow - s.Start
	if elapsed <= 0 {
		return 0
	}
	bps := linearAmount(10000, elapsed, s.End-s.Start)
	if bps > 10000 {
		bps = 10000
	}
	return uint16(bps)
}

// TimeRemaining returns the seconds of effective (non-paused) time left
// until the schedule fully vests, floored at zero.
func TimeRemaining(s Schedule, pauseCumulative int64, now int64) int64 {
	effectiveNow := now - pauseCumulative
	if effectiveNow >= s.End {
		return 0
	}
	return s.End - effectiveNow
}

// linearAmount computes floor(total * elapsed / duration) with a 128-bit
// intermediate product. Requires 0 < elapsed < duration, which the callers
// guarantee; under that bound the quotient is strictly less than total and
// the division cannot overflow.
func linearAmount(total uint64, elapsed, duration int64) uint64 {
	hi, lo := bits.Mul64(total, uint64(elapsed))
	quotient, _ := bits.Div64(hi, lo, uint64(duration))
	return quotient
}

// steppedAmount computes the stepped release for the elapsed effective
// time: full periods times the per-period amount, capped at the total.
func steppedAmount(s Schedule, elapsed int64) uint64 {
	periods := uint64(elapsed / s.WithdrawFrequency)
	released := saturatingMul(periods, s.AmountPerPeriod)
	if released > s.Total {
		return s.Total
	}
	return released
}

// saturatingMul multiplies two uint64 values, saturating at the maximum
// value on overflow. Callers always cap the result at a stream total, so
// saturation is equivalent to exact math here.
func saturatingMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return ^uint64(0)
	}
	return lo
}
