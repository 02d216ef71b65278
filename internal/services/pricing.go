package services

import "fmt"

// Pricing constants. The unit price applies to every review; the generation
// fee is added per review when Le Bon Mot writes the content.
const (
	UnitPrice     = 5.0
	GenerationFee = 0.5
	CurrencyLabel = "USDT"
)

// PaymentAddress receives order payments (crypto only for the MVP).
const PaymentAddress = "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"

// Price computes the total order price from the live draft fields.
// price = quantity*UnitPrice + (hasGeneration ? quantity*GenerationFee : 0)
func Price(quantity int, hasGeneration bool) float64 {
	total := float64(quantity) * UnitPrice
	if hasGeneration {
		total += float64(quantity) * GenerationFee
	}
	return total
}

// FormatPrice renders an amount as a fixed two-decimal value with the
// currency label, e.g. "25.00 USDT".
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f %s", amount, CurrencyLabel)
}
