// Package totals derives line-item amounts and invoice totals. All
// functions are pure; NaN and infinite inputs are treated as zero so a
// half-filled form never produces a poisoned total. Rounding is left to
// the display layer.
package totals

import (
	"math"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

// ItemAmount derives the amount of a non-service item:
// quantity*mrp reduced by discount_percent, then increased by tax.
// Callers must not use it for service items, whose amount is entered
// directly.
// The discount and tax are applied as explicit subtract/add steps, not
// as (1-d/100)*(1+t/100) factors: the two orderings round differently in
// float64 and stored invoices depend on these exact values.
func ItemAmount(item domain.LineItem) float64 {
	base := num(item.Quantity) * num(item.MRP)
	discounted := base - base*(num(item.DiscountPercent)/100)
	return discounted + discounted*(num(item.Tax)/100)
}

// InvoiceTotals computes the invoice-level figures from the current items
// and invoice discount. The two totals deliberately use different bases:
// sub_total is the raw pre-discount, pre-tax value Σ(quantity*mrp), while
// grand_total is Σ(amount) - discount.
func InvoiceTotals(items []domain.LineItem, discount float64) (subTotal, grandTotal float64) {
	var amountSum float64
	for _, item := range items {
		subTotal += num(item.Quantity) * num(item.MRP)
		amountSum += num(item.Amount)
	}
	grandTotal = amountSum - num(discount)
	return subTotal, grandTotal
}

func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
