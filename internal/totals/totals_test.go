package totals

import (
	"math"
	"testing"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

func TestItemAmount(t *testing.T) {
	item := domain.LineItem{Quantity: 3, MRP: 100, Tax: 18, DiscountPercent: 10}
	got := ItemAmount(item)
	want := 3 * 100.0 * 0.9 * 1.18
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected amount %.4f got %.4f", want, got)
	}
}

// The documented example values must come out exact, not merely close:
// the subtract/add application order makes 2*50 plus 10% tax land on
// 110.0 precisely, where a factored (1+t/100) multiply would not.
func TestItemAmountExactValues(t *testing.T) {
	if got := ItemAmount(domain.LineItem{Quantity: 2, MRP: 50, Tax: 10}); got != 110 {
		t.Fatalf("expected exactly 110 got %.17g", got)
	}
	if got := ItemAmount(domain.LineItem{Quantity: 1, MRP: 200, DiscountPercent: 50}); got != 100 {
		t.Fatalf("expected exactly 100 got %.17g", got)
	}
}

func TestItemAmountZeroFactors(t *testing.T) {
	if got := ItemAmount(domain.LineItem{Quantity: 0, MRP: 100, Tax: 18}); got != 0 {
		t.Fatalf("zero quantity should yield 0, got %.4f", got)
	}
	if got := ItemAmount(domain.LineItem{Quantity: 5, MRP: 0, DiscountPercent: 50}); got != 0 {
		t.Fatalf("zero mrp should yield 0, got %.4f", got)
	}
}

func TestItemAmountIgnoresNaN(t *testing.T) {
	item := domain.LineItem{Quantity: 2, MRP: 50, Tax: math.NaN(), DiscountPercent: math.Inf(1)}
	if got := ItemAmount(item); got != 100 {
		t.Fatalf("NaN/Inf fields should count as 0, got %.4f", got)
	}
}

func TestInvoiceTotals(t *testing.T) {
	items := []domain.LineItem{
		{Quantity: 2, MRP: 50, Tax: 10, Amount: 110},
		{Quantity: 1, MRP: 200, DiscountPercent: 50, Amount: 100},
	}
	subTotal, grandTotal := InvoiceTotals(items, 10)
	if subTotal != 300 {
		t.Fatalf("expected sub_total 300 got %.4f", subTotal)
	}
	if grandTotal != 200 {
		t.Fatalf("expected grand_total 200 got %.4f", grandTotal)
	}
}

func TestInvoiceTotalsEmpty(t *testing.T) {
	subTotal, grandTotal := InvoiceTotals(nil, 25)
	if subTotal != 0 {
		t.Fatalf("expected sub_total 0 got %.4f", subTotal)
	}
	if grandTotal != -25 {
		t.Fatalf("expected grand_total -25 got %.4f", grandTotal)
	}
}

func TestInvoiceTotalsServiceItem(t *testing.T) {
	items := []domain.LineItem{
		{IsService: true, Amount: 75},
		{Quantity: 2, MRP: 50, Amount: 100},
	}
	subTotal, grandTotal := InvoiceTotals(items, 0)
	if subTotal != 100 {
		t.Fatalf("service item must not contribute to sub_total, got %.4f", subTotal)
	}
	if grandTotal != 175 {
		t.Fatalf("expected grand_total 175 got %.4f", grandTotal)
	}
}

func TestInvoiceTotalsIdempotent(t *testing.T) {
	items := []domain.LineItem{{Quantity: 4, MRP: 12.5, Amount: 55}}
	s1, g1 := InvoiceTotals(items, 5)
	s2, g2 := InvoiceTotals(items, 5)
	if s1 != s2 || g1 != g2 {
		t.Fatalf("totals are not deterministic: (%v,%v) vs (%v,%v)", s1, g1, s2, g2)
	}
}
