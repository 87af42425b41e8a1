package fare

import (
	"math"

	"railres/internal/shared/config"
)

// Breakdown is the booking-time fare split for a whole ticket.
type Breakdown struct {
	Base          float64 `json:"base"`           // per-passenger base fare
	ServiceCharge float64 `json:"service_charge"` // flat per ticket
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
}

// LineItem is one row of an itemized bill.
type LineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// BillBreakdown is the extended line-item view used for itemized billing.
// Recomputed from persisted journey facts, so regenerating a past bill
// yields identical figures.
type BillBreakdown struct {
	Items      []LineItem `json:"items"`
	Tax        float64    `json:"tax"`
	Total      float64    `json:"total"`
	Passengers int        `json:"passengers"`
}

// Calculator prices journeys from the configured policy constants. Pure
// and deterministic: identical inputs always produce identical output.
type Calculator struct {
	cfg config.FareConfig
}

func NewCalculator(cfg config.FareConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Fare computes the booking-time fare for n passengers:
// base = rate x distance, service charge flat per ticket,
// tax over (base x n + service charge), total the exact sum.
func (c *Calculator) Fare(ratePerKm, distanceKm float64, passengers int) Breakdown {
	base := round2(ratePerKm * distanceKm)
	baseAll := round2(base * float64(passengers))
	tax := round2((baseAll + c.cfg.ServiceCharge) * c.cfg.TaxRate)

	return Breakdown{
		Base:          base,
		ServiceCharge: c.cfg.ServiceCharge,
		Tax:           tax,
		Total:         round2(baseAll + c.cfg.ServiceCharge + tax),
	}
}

// ItemizedBill computes the extended line-item set: reservation fee per
// passenger, fuel surcharge over the base, catering on long journeys,
// superfast charge per passenger on superfast trains. Tax is recomputed
// over all line items.
func (c *Calculator) ItemizedBill(ratePerKm, distanceKm float64, passengers int, superfast bool) BillBreakdown {
	base := round2(ratePerKm * distanceKm)
	baseAll := round2(base * float64(passengers))

	items := []LineItem{
		{Label: "Base fare", Amount: baseAll},
		{Label: "Reservation fee", Amount: round2(c.cfg.ReservationFee * float64(passengers))},
		{Label: "Fuel surcharge", Amount: round2(baseAll * c.cfg.FuelSurchargeRate)},
		{Label: "Service charge", Amount: c.cfg.ServiceCharge},
	}
	if distanceKm > c.cfg.CateringMinKm {
		items = append(items, LineItem{Label: "Catering charge", Amount: c.cfg.CateringCharge})
	}
	if superfast {
		items = append(items, LineItem{Label: "Superfast charge", Amount: round2(c.cfg.SuperfastCharge * float64(passengers))})
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * c.cfg.TaxRate)

	return BillBreakdown{
		Items:      items,
		Tax:        tax,
		Total:      round2(subtotal + tax),
		Passengers: passengers,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
