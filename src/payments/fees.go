package payments

import (
	"math"

	"teesheet/src/config"
)

// RoundHalfUp rounds to the given number of decimal places with halves
// going up, so 2.675 rounds to 2.68 and -2.5 rounds to -2.
func RoundHalfUp(value float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Floor(value*shift+0.5) / shift
}

// CalculatePaymentAmount grosses up the amount due so the processor's
// percentage plus fixed fee comes out of the payer's total and the amount
// due survives intact. Returns the total to charge and the fee portion.
func CalculatePaymentAmount(amountDue float64) (float64, float64) {
	total := RoundHalfUp((amountDue+config.STRIPE_FIXED_FEE)/(1-config.STRIPE_PERCENTAGE_FEE), 2)
	fee := RoundHalfUp(total-amountDue, 2)
	return total, fee
}
