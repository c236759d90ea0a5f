package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
	"github.com/gaurav7717/PurchaseInvoice/internal/extraction"
	"github.com/gaurav7717/PurchaseInvoice/internal/form"
)

func newTestController() *form.Controller {
	return form.NewController(extraction.NewNormalizer(extraction.DefaultExpiryYear))
}

func TestApplyFormDerivesAmountsAndTotals(t *testing.T) {
	ctrl := newTestController()
	err := applyForm(ctrl, domain.InvoiceForm{
		VendorName:    "Acme Pharma",
		InvoiceNumber: "INV001",
		Discount:      25,
		Items: []domain.LineItem{
			// The stored amount of 999 must be ignored for a non-service
			// item; the replay derives it from the priced fields.
			{Description: "Paracetamol", Quantity: 3, MRP: 100, Tax: 18, DiscountPercent: 10, Amount: 999},
			{IsService: true, Description: "Delivery", Amount: 75},
		},
	})
	require.NoError(t, err)

	payload, err := ctrl.BuildSubmissionPayload()
	require.NoError(t, err)
	require.Equal(t, "INV001", payload.InvoiceNumber)
	require.InDelta(t, 318.6, payload.Items[0].Amount, 1e-9)
	require.Equal(t, 75.0, payload.Items[1].Amount)
	require.Equal(t, 300.0, payload.SubTotal)
	require.InDelta(t, 368.6, payload.GrandTotal, 1e-9)
}

func TestApplyHeaderSets(t *testing.T) {
	ctrl := newTestController()
	require.NoError(t, applyHeaderSets(ctrl, []string{"vendor_name=Globex", "discount=10"}))
	inv := ctrl.Invoice()
	require.Equal(t, "Globex", inv.VendorName)
	require.Equal(t, 10.0, inv.Discount)

	require.Error(t, applyHeaderSets(ctrl, []string{"no-equals-sign"}))
	require.Error(t, applyHeaderSets(ctrl, []string{"bogus_field=1"}))
}

func TestApplyItemSets(t *testing.T) {
	ctrl := newTestController()
	ctrl.AddItem()
	require.NoError(t, applyItemSets(ctrl, []string{"0:quantity=2", "0:mrp=50"}))
	inv := ctrl.Invoice()
	require.Equal(t, 100.0, inv.Items[0].Amount)

	require.Error(t, applyItemSets(ctrl, []string{"quantity=2"}))
	require.Error(t, applyItemSets(ctrl, []string{"x:quantity=2"}))
	require.Error(t, applyItemSets(ctrl, []string{"5:quantity=2"}))
}

func TestParseInt64(t *testing.T) {
	id, err := parseInt64("7")
	require.NoError(t, err)
	require.Equal(t, int64(7), id)

	for _, raw := range []string{"", "abc", "0", "-1"} {
		_, err := parseInt64(raw)
		require.Error(t, err, "raw=%q", raw)
	}
}
