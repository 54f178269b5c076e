package domain

import "math"

// RoundMXN rounds an amount to whole centavos, the smallest payable unit.
func RoundMXN(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// IsValidAmount reports whether an amount can be charged: positive, finite
// and at least one centavo.
func IsValidAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0.01
}
