package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

func TestWriteInvoicePDF(t *testing.T) {
	ewaybill := "EWB-42"
	invoice := domain.Invoice{
		ID:             1,
		InvoiceNumber:  "INV001",
		InvoiceDate:    "2025-04-15T10:30",
		VendorName:     "Acme Pharma",
		SubTotal:       300,
		Discount:       25,
		GrandTotal:     200,
		EwaybillNumber: &ewaybill,
		Items: []domain.InvoiceItem{
			{Description: "Paracetamol 500mg", HSNSAC: "3004", Expiry: "2025-04-05", Quantity: 3, MRP: 100, Tax: 18, Amount: 225},
			{Description: "Delivery charge", Amount: 75},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInvoicePDF(&buf, invoice))
	require.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	require.Greater(t, buf.Len(), 1000)
}

func TestWriteInvoicePDFNoItems(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInvoicePDF(&buf, domain.Invoice{InvoiceNumber: "INV002"}))
	require.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}
