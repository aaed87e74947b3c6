package parking

import "math"

const (
	baseFee        = 100.0 // flat charge covering the first baseFeeHours
	baseFeeHours   = 3.0
	extraHourFee   = 50.0 // per started hour beyond baseFeeHours
	memberDiscount = 0.90 // Premium and Gold pay 90%
)

// Fee computes the charge in rupees for a single stay. The first three hours
// cost a flat 100; every started hour beyond that adds 50. Premium and Gold
// members get a 10% discount on the total.
func Fee(hours float64, m Membership) float64 {
	if hours < 0 {
		hours = 0
	}
	fee := baseFee
	if hours > baseFeeHours {
		fee += math.Ceil(hours-baseFeeHours) * extraHourFee
	}
	if m == Premium || m == Gold {
		fee *= memberDiscount
	}
	return fee
}
