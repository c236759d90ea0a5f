package extraction

import (
	"errors"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 9, 30, 45, 0, time.UTC)
}

func testNormalizer() *Normalizer {
	n := NewNormalizer(2025)
	n.Now = fixedNow
	return n
}

func TestNormalizeItemFields(t *testing.T) {
	raw := Result{
		InvoiceData: map[string]any{},
		Items: []map[string]any{{
			"quantity":         "3",
			"mrp":              "100",
			"tax":              "18",
			"discount_percent": "10",
			"expiry":           "05-04",
		}},
	}
	form, err := testNormalizer().Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(form.Items) != 1 {
		t.Fatalf("expected one item got %d", len(form.Items))
	}
	item := form.Items[0]
	if item.Quantity != 3 || item.MRP != 100 || item.Tax != 18 || item.DiscountPercent != 10 {
		t.Fatalf("unexpected numeric fields: %+v", item)
	}
	if item.Expiry != "2025-04-05" {
		t.Fatalf("expected repaired expiry 2025-04-05 got %q", item.Expiry)
	}
	if item.IsService {
		t.Fatal("imported items must never be services")
	}
}

func TestNormalizeExpiryYearConfigurable(t *testing.T) {
	n := NewNormalizer(2027)
	n.Now = fixedNow
	form, err := n.Normalize(Result{
		InvoiceData: map[string]any{},
		Items:       []map[string]any{{"expiry": "31-12"}},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if form.Items[0].Expiry != "2027-12-31" {
		t.Fatalf("expected 2027-12-31 got %q", form.Items[0].Expiry)
	}
}

func TestNormalizeExpiryPassthrough(t *testing.T) {
	for _, value := range []string{"2026-01-31", "1-2", "jan-05", ""} {
		form, err := testNormalizer().Normalize(Result{
			InvoiceData: map[string]any{},
			Items:       []map[string]any{{"expiry": value}},
		})
		if err != nil {
			t.Fatalf("Normalize returned error: %v", err)
		}
		if form.Items[0].Expiry != value {
			t.Fatalf("expiry %q should pass through, got %q", value, form.Items[0].Expiry)
		}
	}
}

func TestNormalizeMalformed(t *testing.T) {
	cases := []Result{
		{},
		{InvoiceData: map[string]any{}},
		{Items: []map[string]any{}},
	}
	for _, raw := range cases {
		if _, err := testNormalizer().Normalize(raw); !errors.Is(err, ErrMalformedExtraction) {
			t.Fatalf("expected ErrMalformedExtraction got %v", err)
		}
	}
}

func TestNormalizeHeaderDate(t *testing.T) {
	form, err := testNormalizer().Normalize(Result{
		InvoiceData: map[string]any{"invoice_date": "2025-04-05 10:30:59"},
		Items:       []map[string]any{},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if form.InvoiceDate != "2025-04-05T10:30" {
		t.Fatalf("expected minute-precision date got %q", form.InvoiceDate)
	}
}

func TestNormalizeHeaderDateDefaults(t *testing.T) {
	form, err := testNormalizer().Normalize(Result{
		InvoiceData: map[string]any{},
		Items:       []map[string]any{},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if form.InvoiceDate != "2025-06-01T09:30" {
		t.Fatalf("expected current time fallback got %q", form.InvoiceDate)
	}
}

func TestNormalizeComputesTotals(t *testing.T) {
	form, err := testNormalizer().Normalize(Result{
		InvoiceData: map[string]any{"discount": "10"},
		Items: []map[string]any{
			{"quantity": "2", "mrp": "50", "amount": "110"},
			{"quantity": 1.0, "mrp": 200.0, "amount": 100.0},
		},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if form.SubTotal != 300 {
		t.Fatalf("expected sub_total 300 got %.4f", form.SubTotal)
	}
	if form.GrandTotal != 200 {
		t.Fatalf("expected grand_total 200 got %.4f", form.GrandTotal)
	}
	if form.Discount != 10 {
		t.Fatalf("expected discount 10 got %.4f", form.Discount)
	}
}

func TestNormalizeFailSoftNumbers(t *testing.T) {
	form, err := testNormalizer().Normalize(Result{
		InvoiceData: map[string]any{"discount": "n/a"},
		Items:       []map[string]any{{"quantity": "three", "mrp": nil, "amount": ""}},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	item := form.Items[0]
	if item.Quantity != 0 || item.MRP != 0 || item.Amount != 0 || form.Discount != 0 {
		t.Fatalf("unparsable values must default to 0: %+v discount=%v", item, form.Discount)
	}
}

func TestNormalizeHeaderStrings(t *testing.T) {
	form, err := testNormalizer().Normalize(Result{
		InvoiceData: map[string]any{
			"vendor_name":     "Tech Supplies Inc",
			"invoice_number":  "INV42",
			"ewaybill_number": nil,
		},
		Items: []map[string]any{},
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if form.VendorName != "Tech Supplies Inc" || form.InvoiceNumber != "INV42" {
		t.Fatalf("unexpected header fields: %+v", form)
	}
	if form.EwaybillNumber != "" {
		t.Fatalf("nil header field should default to empty, got %q", form.EwaybillNumber)
	}
}
