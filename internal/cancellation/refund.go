package cancellation

import (
	"math"
	"time"

	"railres/internal/shared/config"
)

// RefundOverride lets the caller pin one side of the refund split; the
// other side is derived as the complement against the fare.
type RefundOverride struct {
	RefundAmount        *float64
	CancellationCharges *float64
}

// ComputeRefund derives the refund/charge split from the fare, the refund
// policy and the time remaining to departure. The two sides always sum to
// the fare exactly. Once the journey has departed nothing comes back;
// overrides cannot buy that rule out.
func ComputeRefund(policy config.RefundPolicy, fareAmount float64, departureAt, now time.Time, override *RefundOverride) (refund, charges float64) {
	if !now.Before(departureAt) {
		return 0, round2(fareAmount)
	}

	if override != nil {
		if override.RefundAmount != nil {
			refund = clamp(*override.RefundAmount, 0, fareAmount)
			return round2(refund), round2(fareAmount - refund)
		}
		if override.CancellationCharges != nil {
			charges = clamp(*override.CancellationCharges, 0, fareAmount)
			return round2(fareAmount - charges), round2(charges)
		}
	}

	if departureAt.Sub(now) >= policy.FullRefundWindow {
		refund = round2(fareAmount * policy.EarlyRefundRate)
	} else {
		refund = round2(fareAmount * policy.LateRefundRate)
	}
	return refund, round2(fareAmount - refund)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
