package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gaurav7717/PurchaseInvoice/internal/api"
	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
	"github.com/gaurav7717/PurchaseInvoice/internal/export"
	"github.com/gaurav7717/PurchaseInvoice/internal/extraction"
	"github.com/gaurav7717/PurchaseInvoice/internal/form"
	"github.com/gaurav7717/PurchaseInvoice/internal/render"
)

func newInvoiceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Work with purchase invoices",
	}
	cmd.AddCommand(
		newInvoiceListCmd(app),
		newInvoiceShowCmd(app),
		newInvoiceCreateCmd(app),
		newInvoiceEditCmd(app),
		newInvoiceDeleteCmd(app),
		newInvoiceImportCmd(app),
		newInvoiceAddItemCmd(app),
		newInvoiceRemoveItemCmd(app),
		newInvoiceExportCmd(app),
		newInvoicePDFCmd(app),
	)
	return cmd
}

func (a *App) newFormController() *form.Controller {
	return form.NewController(extraction.NewNormalizer(a.cfg.ImportExpiryYear))
}

func newInvoiceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all invoices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoices, err := app.client.ListInvoices(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMBER\tDATE\tVENDOR\tITEMS\tGRAND TOTAL")
			for _, inv := range invoices {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					inv.ID, inv.InvoiceNumber, inv.InvoiceDate, inv.VendorName,
					len(inv.Items), formatFloat(inv.GrandTotal))
			}
			return w.Flush()
		},
	}
}

func newInvoiceShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one invoice with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}
			invoice, err := app.client.GetInvoice(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, invoice)
		},
	}
}

func newInvoiceCreateCmd(app *App) *cobra.Command {
	var file string
	var sets []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice from a form file and field overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := app.newFormController()
			if file != "" {
				formData, err := readFormFile(file)
				if err != nil {
					return err
				}
				if err := applyForm(ctrl, formData); err != nil {
					return err
				}
			}
			if err := applyHeaderSets(ctrl, sets); err != nil {
				return err
			}

			payload, err := ctrl.BuildSubmissionPayload()
			if err != nil {
				return err
			}
			created, err := app.client.CreateInvoice(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "invoice form JSON file")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "header field override (field=value, repeatable)")
	return cmd
}

func newInvoiceEditCmd(app *App) *cobra.Command {
	var sets, itemSets []string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit invoice header fields",
		Long: "Loads the invoice into the form, applies the given field edits with " +
			"the usual amount and total recomputation, and submits the resulting header.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}
			invoice, err := app.client.GetInvoice(cmd.Context(), id)
			if err != nil {
				return err
			}

			ctrl := app.newFormController()
			ctrl.LoadFromPersisted(invoice)
			if err := applyHeaderSets(ctrl, sets); err != nil {
				return err
			}
			if err := applyItemSets(ctrl, itemSets); err != nil {
				return err
			}

			payload, err := ctrl.BuildSubmissionPayload()
			if err != nil {
				return err
			}
			updated, err := app.client.UpdateInvoice(cmd.Context(), id, api.InvoiceUpdate{
				InvoiceNumber:  &payload.InvoiceNumber,
				InvoiceDate:    &payload.InvoiceDate,
				VendorName:     &payload.VendorName,
				SubTotal:       &payload.SubTotal,
				Discount:       &payload.Discount,
				GrandTotal:     &payload.GrandTotal,
				EwaybillNumber: payload.EwaybillNumber,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, updated)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "header field edit (field=value, repeatable)")
	cmd.Flags().StringArrayVar(&itemSets, "set-item", nil, "item field edit (index:field=value, repeatable)")
	return cmd
}

func newInvoiceDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}
			if err := app.client.DeleteInvoice(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted invoice %d.\n", id)
			return nil
		},
	}
}

func newInvoiceImportCmd(app *App) *cobra.Command {
	var submit bool

	cmd := &cobra.Command{
		Use:   "import <pdf>",
		Short: "Extract an invoice from a PDF into the form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			info, err := file.Stat()
			if err != nil {
				return err
			}

			ctrl := app.newFormController()
			token := ctrl.BeginImport()
			result, err := app.client.UploadPDF(cmd.Context(), path, file, info.Size())
			if err != nil {
				return err
			}
			if err := ctrl.CompleteImport(token, result); err != nil {
				return err
			}

			if !submit {
				return printJSON(cmd, ctrl.Invoice())
			}
			payload, err := ctrl.BuildSubmissionPayload()
			if err != nil {
				return err
			}
			created, err := app.client.CreateInvoice(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}
	cmd.Flags().BoolVar(&submit, "submit", false, "submit the imported invoice instead of printing it")
	return cmd
}

func newInvoiceAddItemCmd(app *App) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "add-item <invoice-id>",
		Short: "Append an item to an existing invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}

			// Run the fields through the form so the amount and
			// total_quantity derivations match manual entry.
			ctrl := app.newFormController()
			ctrl.AddItem()
			for _, raw := range sets {
				field, value, err := splitPair(raw)
				if err != nil {
					return err
				}
				if err := ctrl.SetItemField(0, field, value); err != nil {
					return err
				}
			}
			payload, err := ctrl.BuildSubmissionPayload()
			if err != nil {
				return err
			}

			if err := app.client.AddInvoiceItem(cmd.Context(), id, payload.Items[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item to invoice %d.\n", id)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "item field (field=value, repeatable)")
	return cmd
}

func newInvoiceRemoveItemCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <item-id>",
		Short: "Delete an invoice item and refresh the invoice totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}
			if err := app.client.DeleteInvoiceItem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %d.\n", id)
			return nil
		},
	}
}

func newInvoiceExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all invoices to an Excel register",
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoices, err := app.client.ListInvoices(cmd.Context())
			if err != nil {
				return err
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export.WriteWorkbook(file, invoices); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d invoices to %s.\n", len(invoices), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "invoices.xlsx", "output file")
	return cmd
}

func newInvoicePDFCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Render an invoice as a printable PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}
			invoice, err := app.client.GetInvoice(cmd.Context(), id)
			if err != nil {
				return err
			}

			name := output
			if name == "" {
				name = fmt.Sprintf("invoice-%d.pdf", id)
			}
			file, err := os.Create(name)
			if err != nil {
				return err
			}
			if err := render.WriteInvoicePDF(file, invoice); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default invoice-<id>.pdf)")
	return cmd
}

func readFormFile(path string) (domain.InvoiceForm, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.InvoiceForm{}, err
	}
	var formData domain.InvoiceForm
	if err := json.Unmarshal(raw, &formData); err != nil {
		return domain.InvoiceForm{}, fmt.Errorf("parse form file: %w", err)
	}
	return formData, nil
}

// applyForm replays a form file through the controller one field at a
// time, so derived amounts and totals come out of the usual recompute
// path rather than being trusted from the file.
func applyForm(ctrl *form.Controller, formData domain.InvoiceForm) error {
	headers := map[string]string{
		"vendor_name":     formData.VendorName,
		"invoice_number":  formData.InvoiceNumber,
		"ewaybill_number": formData.EwaybillNumber,
		"description":     formData.Description,
	}
	for field, value := range headers {
		if value == "" {
			continue
		}
		if err := ctrl.SetHeaderField(field, value); err != nil {
			return err
		}
	}
	if formData.InvoiceDate != "" {
		if err := ctrl.SetHeaderField("invoice_date", formData.InvoiceDate); err != nil {
			return err
		}
	}
	if formData.Discount != 0 {
		if err := ctrl.SetHeaderField("discount", formatFloat(formData.Discount)); err != nil {
			return err
		}
	}

	for i, item := range formData.Items {
		ctrl.AddItem()
		fields := []struct {
			name  string
			value string
		}{
			{"isService", strconv.FormatBool(item.IsService)},
			{"description", item.Description},
			{"hsn_sac", item.HSNSAC},
			{"expiry", item.Expiry},
			{"quantity", formatFloat(item.Quantity)},
			{"deal", formatFloat(item.Deal)},
			{"mrp", formatFloat(item.MRP)},
			{"tax", formatFloat(item.Tax)},
			{"discount_percent", formatFloat(item.DiscountPercent)},
		}
		if item.IsService {
			fields = append(fields, struct {
				name  string
				value string
			}{"amount", formatFloat(item.Amount)})
		}
		for _, f := range fields {
			if err := ctrl.SetItemField(i, f.name, f.value); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyHeaderSets(ctrl *form.Controller, sets []string) error {
	for _, raw := range sets {
		field, value, err := splitPair(raw)
		if err != nil {
			return err
		}
		if err := ctrl.SetHeaderField(field, value); err != nil {
			return err
		}
	}
	return nil
}

// applyItemSets applies index:field=value edits.
func applyItemSets(ctrl *form.Controller, sets []string) error {
	for _, raw := range sets {
		indexPart, rest, ok := strings.Cut(raw, ":")
		if !ok {
			return fmt.Errorf("expected index:field=value, got %q", raw)
		}
		index, err := strconv.Atoi(strings.TrimSpace(indexPart))
		if err != nil {
			return fmt.Errorf("invalid item index %q", indexPart)
		}
		field, value, err := splitPair(rest)
		if err != nil {
			return err
		}
		if err := ctrl.SetItemField(index, field, value); err != nil {
			return err
		}
	}
	return nil
}

func parseInt64(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
