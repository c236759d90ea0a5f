// Package export renders persisted invoices into an Excel register
// workbook with one sheet for invoice headers and one for line items.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

const (
	invoiceSheet = "Invoices"
	itemSheet    = "Items"
)

var invoiceHeader = []any{
	"ID", "Invoice Number", "Invoice Date", "Vendor Name",
	"Sub Total", "Discount", "Grand Total", "E-Waybill Number", "Created At",
}

var itemHeader = []any{
	"Invoice ID", "Invoice Number", "Description", "HSN/SAC", "Expiry",
	"Quantity", "Deal", "Total Quantity", "MRP", "Tax %", "Discount %", "Amount",
}

// WriteWorkbook writes the invoice register for the given invoices to w.
// Items are expected to be populated on each invoice.
func WriteWorkbook(w io.Writer, invoices []domain.Invoice) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), invoiceSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := file.NewSheet(itemSheet); err != nil {
		return fmt.Errorf("create items sheet: %w", err)
	}

	if err := file.SetSheetRow(invoiceSheet, "A1", &invoiceHeader); err != nil {
		return fmt.Errorf("write invoice header: %w", err)
	}
	if err := file.SetSheetRow(itemSheet, "A1", &itemHeader); err != nil {
		return fmt.Errorf("write item header: %w", err)
	}

	itemRow := 2
	for i, invoice := range invoices {
		ewaybill := ""
		if invoice.EwaybillNumber != nil {
			ewaybill = *invoice.EwaybillNumber
		}
		row := []any{
			invoice.ID, invoice.InvoiceNumber, invoice.InvoiceDate, invoice.VendorName,
			invoice.SubTotal, invoice.Discount, invoice.GrandTotal, ewaybill,
			invoice.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("invoice row cell: %w", err)
		}
		if err := file.SetSheetRow(invoiceSheet, cell, &row); err != nil {
			return fmt.Errorf("write invoice row: %w", err)
		}

		for _, item := range invoice.Items {
			row := []any{
				invoice.ID, invoice.InvoiceNumber, item.Description, item.HSNSAC, item.Expiry,
				item.Quantity, item.Deal, item.TotalQuantity, item.MRP,
				item.Tax, item.DiscountPercent, item.Amount,
			}
			cell, err := excelize.CoordinatesToCellName(1, itemRow)
			if err != nil {
				return fmt.Errorf("item row cell: %w", err)
			}
			if err := file.SetSheetRow(itemSheet, cell, &row); err != nil {
				return fmt.Errorf("write item row: %w", err)
			}
			itemRow++
		}
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
