// Package render produces a printable PDF copy of a persisted invoice.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

var itemColumns = []struct {
	title string
	width float64
}{
	{"Description", 52},
	{"HSN/SAC", 18},
	{"Expiry", 22},
	{"Qty", 12},
	{"Deal", 12},
	{"MRP", 18},
	{"Tax %", 14},
	{"Disc %", 14},
	{"Amount", 22},
}

// WriteInvoicePDF renders the invoice with its line items to w.
func WriteInvoicePDF(w io.Writer, invoice domain.Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+invoice.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Purchase Invoice")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	writeHeaderLine(pdf, "Invoice Number", invoice.InvoiceNumber)
	writeHeaderLine(pdf, "Invoice Date", invoice.InvoiceDate)
	writeHeaderLine(pdf, "Vendor", invoice.VendorName)
	if invoice.EwaybillNumber != nil && *invoice.EwaybillNumber != "" {
		writeHeaderLine(pdf, "E-Waybill Number", *invoice.EwaybillNumber)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range itemColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range invoice.Items {
		cells := []string{
			item.Description,
			item.HSNSAC,
			item.Expiry,
			formatNumber(item.Quantity),
			formatNumber(item.Deal),
			formatNumber(item.MRP),
			formatNumber(item.Tax),
			formatNumber(item.DiscountPercent),
			formatNumber(item.Amount),
		}
		for i, col := range itemColumns {
			align := "R"
			if i < 3 {
				align = "L"
			}
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	writeTotalLine(pdf, "Sub Total", invoice.SubTotal)
	writeTotalLine(pdf, "Discount", invoice.Discount)
	writeTotalLine(pdf, "Grand Total", invoice.GrandTotal)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render invoice pdf: %w", err)
	}
	return nil
}

func writeHeaderLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(45, 6, label+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func writeTotalLine(pdf *gofpdf.Fpdf, label string, value float64) {
	pdf.CellFormat(162, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(22, 7, formatNumber(value), "", 1, "R", false, 0, "")
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
