package cancellation

import (
	"testing"
	"time"

	"railres/internal/shared/config"

	"github.com/stretchr/testify/assert"
)

var testPolicy = config.RefundPolicy{
	FullRefundWindow: 24 * time.Hour,
	EarlyRefundRate:  0.90,
	LateRefundRate:   0.50,
	ProcessingDelay:  72 * time.Hour,
}

func TestComputeRefundEarlyCancellation(t *testing.T) {
	now := time.Now()
	departure := now.Add(48 * time.Hour)

	refund, charges := ComputeRefund(testPolicy, 1000, departure, now, nil)
	assert.Equal(t, 900.0, refund)
	assert.Equal(t, 100.0, charges)
}

func TestComputeRefundLateCancellation(t *testing.T) {
	now := time.Now()
	departure := now.Add(6 * time.Hour)

	refund, charges := ComputeRefund(testPolicy, 1000, departure, now, nil)
	assert.Equal(t, 500.0, refund)
	assert.Equal(t, 500.0, charges)
}

func TestComputeRefundExactlyAtWindowBoundary(t *testing.T) {
	now := time.Now()
	departure := now.Add(24 * time.Hour)

	// Exactly 24h out still counts as early.
	refund, _ := ComputeRefund(testPolicy, 1000, departure, now, nil)
	assert.Equal(t, 900.0, refund)
}

func TestComputeRefundAfterDeparture(t *testing.T) {
	now := time.Now()
	departure := now.Add(-time.Hour)

	refund, charges := ComputeRefund(testPolicy, 1000, departure, now, nil)
	assert.Equal(t, 0.0, refund)
	assert.Equal(t, 1000.0, charges)
}

func TestComputeRefundAtDepartureInstant(t *testing.T) {
	now := time.Now()

	refund, charges := ComputeRefund(testPolicy, 750, now, now, nil)
	assert.Equal(t, 0.0, refund)
	assert.Equal(t, 750.0, charges)
}

func TestComputeRefundConservesFare(t *testing.T) {
	now := time.Now()
	fares := []float64{0, 0.01, 99.99, 433.33, 1234.56, 10000}
	offsets := []time.Duration{-time.Hour, time.Hour, 23 * time.Hour, 25 * time.Hour, 30 * 24 * time.Hour}

	for _, fare := range fares {
		for _, offset := range offsets {
			refund, charges := ComputeRefund(testPolicy, fare, now.Add(offset), now, nil)
			assert.InDelta(t, fare, refund+charges, 0.001,
				"fare %.2f at offset %s must split exactly", fare, offset)
			assert.GreaterOrEqual(t, refund, 0.0)
			assert.GreaterOrEqual(t, charges, 0.0)
		}
	}
}

func TestComputeRefundOverrideRefundAmount(t *testing.T) {
	now := time.Now()
	override := &RefundOverride{RefundAmount: ptr(600.0)}

	refund, charges := ComputeRefund(testPolicy, 1000, now.Add(time.Hour), now, override)
	assert.Equal(t, 600.0, refund)
	assert.Equal(t, 400.0, charges)
}

func TestComputeRefundOverrideCharges(t *testing.T) {
	now := time.Now()
	override := &RefundOverride{CancellationCharges: ptr(150.0)}

	refund, charges := ComputeRefund(testPolicy, 1000, now.Add(time.Hour), now, override)
	assert.Equal(t, 850.0, refund)
	assert.Equal(t, 150.0, charges)
}

func TestComputeRefundOverrideIgnoredAfterDeparture(t *testing.T) {
	now := time.Now()

	refund, charges := ComputeRefund(testPolicy, 1000,
		now.Add(-time.Hour), now, &RefundOverride{RefundAmount: ptr(1000.0)})
	assert.Equal(t, 0.0, refund)
	assert.Equal(t, 1000.0, charges)

	refund, charges = ComputeRefund(testPolicy, 1000,
		now.Add(-time.Hour), now, &RefundOverride{CancellationCharges: ptr(0.0)})
	assert.Equal(t, 0.0, refund)
	assert.Equal(t, 1000.0, charges)
}

func TestComputeRefundOverrideClampedToFare(t *testing.T) {
	now := time.Now()

	refund, charges := ComputeRefund(testPolicy, 500,
		now.Add(time.Hour), now, &RefundOverride{RefundAmount: ptr(9999.0)})
	assert.Equal(t, 500.0, refund)
	assert.Equal(t, 0.0, charges)

	refund, charges = ComputeRefund(testPolicy, 500,
		now.Add(time.Hour), now, &RefundOverride{RefundAmount: ptr(-50.0)})
	assert.Equal(t, 0.0, refund)
	assert.Equal(t, 500.0, charges)
}

func ptr(v float64) *float64 { return &v }
