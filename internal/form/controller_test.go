package form

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
	"github.com/gaurav7717/PurchaseInvoice/internal/extraction"
)

func testController() *Controller {
	norm := extraction.NewNormalizer(2025)
	norm.Now = func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }
	c := NewController(norm)
	c.now = norm.Now
	c.Reset()
	return c
}

func TestNewControllerStartsEmpty(t *testing.T) {
	c := testController()
	if c.State() != StateEmpty {
		t.Fatalf("expected empty state got %v", c.State())
	}
	inv := c.Invoice()
	if inv.InvoiceDate != "2025-06-01T09:30" {
		t.Fatalf("expected current minute-precision date got %q", inv.InvoiceDate)
	}
	if len(inv.Items) != 0 || inv.SubTotal != 0 || inv.GrandTotal != 0 {
		t.Fatalf("expected zeroed invoice got %+v", inv)
	}
}

func TestItemEditRecomputesAmountAndTotals(t *testing.T) {
	c := testController()
	c.AddItem()
	c.AddItem()

	for _, edit := range [][3]string{
		{"0", "quantity", "2"}, {"0", "mrp", "50"}, {"0", "tax", "10"},
		{"1", "quantity", "1"}, {"1", "mrp", "200"}, {"1", "discount_percent", "50"},
	} {
		index := int(edit[0][0] - '0')
		if err := c.SetItemField(index, edit[1], edit[2]); err != nil {
			t.Fatalf("SetItemField(%v) returned error: %v", edit, err)
		}
	}
	if err := c.SetHeaderField("discount", "10"); err != nil {
		t.Fatalf("SetHeaderField returned error: %v", err)
	}

	inv := c.Invoice()
	if inv.Items[0].Amount != 110 {
		t.Fatalf("expected first amount 110 got %.4f", inv.Items[0].Amount)
	}
	if inv.Items[1].Amount != 100 {
		t.Fatalf("expected second amount 100 got %.4f", inv.Items[1].Amount)
	}
	if inv.SubTotal != 300 {
		t.Fatalf("expected sub_total 300 got %.4f", inv.SubTotal)
	}
	if inv.GrandTotal != 200 {
		t.Fatalf("expected grand_total 200 got %.4f", inv.GrandTotal)
	}
	if c.State() != StateEditing {
		t.Fatalf("expected editing state got %v", c.State())
	}
}

func TestServiceItemKeepsEnteredAmount(t *testing.T) {
	c := testController()
	c.AddItem()
	mustSet := func(field, value string) {
		t.Helper()
		if err := c.SetItemField(0, field, value); err != nil {
			t.Fatalf("SetItemField(%s) returned error: %v", field, err)
		}
	}
	mustSet("isService", "true")
	mustSet("amount", "75")
	mustSet("quantity", "9")
	mustSet("tax", "18")

	inv := c.Invoice()
	if inv.Items[0].Amount != 75 {
		t.Fatalf("service amount must stay user-entered, got %.4f", inv.Items[0].Amount)
	}
	if inv.GrandTotal != 75 {
		t.Fatalf("expected grand_total 75 got %.4f", inv.GrandTotal)
	}
	// quantity edits still feed sub_total even on a service item
	if inv.SubTotal != 0 {
		t.Fatalf("expected sub_total 0 with zero mrp, got %.4f", inv.SubTotal)
	}
}

func TestAmountNotEditableOnNonServiceItem(t *testing.T) {
	c := testController()
	c.AddItem()
	_ = c.SetItemField(0, "quantity", "2")
	_ = c.SetItemField(0, "mrp", "50")

	if err := c.SetItemField(0, "amount", "999"); err == nil {
		t.Fatal("amount edit on a non-service item must be rejected")
	}
	inv := c.Invoice()
	if inv.Items[0].Amount != 100 {
		t.Fatalf("rejected edit must leave derived amount, got %.4f", inv.Items[0].Amount)
	}
	if inv.GrandTotal != 100 {
		t.Fatalf("rejected edit must leave totals, got %.4f", inv.GrandTotal)
	}
}

func TestSetItemFieldOutOfRange(t *testing.T) {
	c := testController()
	if err := c.SetItemField(0, "quantity", "1"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange got %v", err)
	}
	c.AddItem()
	if err := c.SetItemField(-1, "quantity", "1"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange got %v", err)
	}
	if err := c.SetItemField(1, "quantity", "1"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange got %v", err)
	}
}

func TestRemoveItemRecomputes(t *testing.T) {
	c := testController()
	c.AddItem()
	c.AddItem()
	_ = c.SetItemField(0, "quantity", "2")
	_ = c.SetItemField(0, "mrp", "50")
	_ = c.SetItemField(1, "quantity", "1")
	_ = c.SetItemField(1, "mrp", "200")

	if err := c.RemoveItem(1); err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	inv := c.Invoice()
	if len(inv.Items) != 1 || inv.SubTotal != 100 || inv.GrandTotal != 100 {
		t.Fatalf("totals not recomputed after removal: %+v", inv)
	}
}

func TestLoadFromPersistedDefaults(t *testing.T) {
	c := testController()
	c.LoadFromPersisted(domain.Invoice{
		InvoiceNumber: "INV9",
		VendorName:    "Tech Supplies Inc",
		Discount:      5,
		Items: []domain.InvoiceItem{
			{Description: "Widget", Quantity: 2, MRP: 50, Amount: 100},
		},
	})
	inv := c.Invoice()
	if c.State() != StateEditing {
		t.Fatalf("expected editing state got %v", c.State())
	}
	if inv.InvoiceDate == "" {
		t.Fatal("missing invoice_date must default to now")
	}
	if inv.EwaybillNumber != "" {
		t.Fatalf("nil ewaybill must default to empty, got %q", inv.EwaybillNumber)
	}
	if inv.SubTotal != 100 || inv.GrandTotal != 95 {
		t.Fatalf("totals not rebuilt on load: %+v", inv)
	}
}

func TestLoadFromPersistedNoItems(t *testing.T) {
	c := testController()
	c.LoadFromPersisted(domain.Invoice{InvoiceNumber: "INV10"})
	if items := c.Invoice().Items; len(items) != 0 {
		t.Fatalf("missing items must default to empty sequence, got %d", len(items))
	}
}

func importResult() extraction.Result {
	return extraction.Result{
		InvoiceData: map[string]any{
			"vendor_name":    "GreenLeaf Organics",
			"invoice_number": "INV1001",
			"discount":       "25",
		},
		Items: []map[string]any{
			{"description": "Syrup", "quantity": "5", "mrp": "90", "amount": "531"},
		},
	}
}

func TestImportReplacesState(t *testing.T) {
	c := testController()
	token := c.BeginImport()
	if err := c.CompleteImport(token, importResult()); err != nil {
		t.Fatalf("CompleteImport returned error: %v", err)
	}
	if c.State() != StateImported {
		t.Fatalf("expected imported state got %v", c.State())
	}
	inv := c.Invoice()
	if inv.VendorName != "GreenLeaf Organics" || inv.SubTotal != 450 || inv.GrandTotal != 506 {
		t.Fatalf("unexpected imported state: %+v", inv)
	}

	// any manual edit moves the form back to editing
	if err := c.SetHeaderField("description", "april order"); err != nil {
		t.Fatalf("SetHeaderField returned error: %v", err)
	}
	if c.State() != StateEditing {
		t.Fatalf("expected editing state after manual edit, got %v", c.State())
	}
}

func TestImportMalformedKeepsState(t *testing.T) {
	c := testController()
	c.AddItem()
	_ = c.SetItemField(0, "quantity", "2")
	before := c.Invoice()

	token := c.BeginImport()
	err := c.CompleteImport(token, extraction.Result{})
	if !errors.Is(err, extraction.ErrMalformedExtraction) {
		t.Fatalf("expected ErrMalformedExtraction got %v", err)
	}
	after := c.Invoice()
	if len(after.Items) != len(before.Items) || after.SubTotal != before.SubTotal {
		t.Fatalf("malformed import must leave form untouched: %+v", after)
	}
}

func TestStaleImportDiscarded(t *testing.T) {
	c := testController()
	token := c.BeginImport()
	c.Reset()

	if err := c.CompleteImport(token, importResult()); err != nil {
		t.Fatalf("stale completion should be a silent no-op, got %v", err)
	}
	if c.State() != StateEmpty {
		t.Fatalf("stale completion must not change state, got %v", c.State())
	}
	if len(c.Invoice().Items) != 0 {
		t.Fatal("stale completion must not apply items")
	}
}

func TestSupersededImportDiscarded(t *testing.T) {
	c := testController()
	first := c.BeginImport()
	second := c.BeginImport()

	if err := c.CompleteImport(first, importResult()); err != nil {
		t.Fatalf("superseded completion should be discarded, got %v", err)
	}
	if c.State() != StateEmpty {
		t.Fatalf("superseded completion applied: %v", c.State())
	}
	if err := c.CompleteImport(second, importResult()); err != nil {
		t.Fatalf("current completion returned error: %v", err)
	}
	if c.State() != StateImported {
		t.Fatalf("current completion not applied: %v", c.State())
	}
}

func TestCompleteImportWithNilToken(t *testing.T) {
	c := testController()
	if err := c.CompleteImport(uuid.Nil, importResult()); err != nil {
		t.Fatalf("nil-token completion should be discarded, got %v", err)
	}
	if c.State() != StateEmpty {
		t.Fatalf("nil-token completion applied: %v", c.State())
	}
}

func TestBuildSubmissionPayload(t *testing.T) {
	c := testController()
	c.AddItem()
	_ = c.SetItemField(0, "description", "Widget")
	_ = c.SetItemField(0, "quantity", "2")
	_ = c.SetItemField(0, "deal", "1")
	_ = c.SetItemField(0, "mrp", "50")
	_ = c.SetHeaderField("vendor_name", "Tech Supplies Inc")
	_ = c.SetHeaderField("invoice_number", "INV11")
	_ = c.SetHeaderField("ewaybill_number", "  ")

	payload, err := c.BuildSubmissionPayload()
	if err != nil {
		t.Fatalf("BuildSubmissionPayload returned error: %v", err)
	}
	if payload.EwaybillNumber != nil {
		t.Fatalf("blank ewaybill must serialize as null, got %q", *payload.EwaybillNumber)
	}
	if payload.Items[0].TotalQuantity != 3 {
		t.Fatalf("expected total_quantity 3 got %.4f", payload.Items[0].TotalQuantity)
	}
	if payload.SubTotal != 100 || payload.GrandTotal != 100 {
		t.Fatalf("unexpected totals in payload: %+v", payload)
	}
}

func TestBuildSubmissionPayloadEmpty(t *testing.T) {
	c := testController()
	if _, err := c.BuildSubmissionPayload(); !errors.Is(err, ErrEmptyInvoice) {
		t.Fatalf("expected ErrEmptyInvoice got %v", err)
	}
}
