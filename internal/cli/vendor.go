package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

func newVendorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Work with vendors",
	}
	cmd.AddCommand(
		newVendorListCmd(app),
		newVendorShowCmd(app),
		newVendorCreateCmd(app),
		newVendorEditCmd(app),
		newVendorDeleteCmd(app),
	)
	return cmd
}

func vendorFlags(cmd *cobra.Command, vendor *domain.Vendor) {
	cmd.Flags().StringVar(&vendor.VendorName, "name", "", "vendor name")
	cmd.Flags().StringVar(&vendor.PhoneNumber, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&vendor.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&vendor.Address, "address", "", "street address")
	cmd.Flags().StringVar(&vendor.City, "city", "", "city")
	cmd.Flags().StringVar(&vendor.State, "state", "", "state")
	cmd.Flags().StringVar(&vendor.StateCode, "state-code", "", "GST state code")
	cmd.Flags().StringVar(&vendor.Zipcode, "zipcode", "", "5 digit zipcode")
	cmd.Flags().StringVar(&vendor.LicenseNumber, "license", "", "drug license number")
	cmd.Flags().StringSliceVar(&vendor.AssociatedBrands, "brand", nil, "associated brand (repeatable)")
}

func newVendorListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all vendors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vendors, err := app.client.ListVendors(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCITY\tPHONE\tBRANDS")
			for _, vendor := range vendors {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					vendor.ID, vendor.VendorName, vendor.City, vendor.PhoneNumber,
					strings.Join(vendor.AssociatedBrands, ", "))
			}
			return w.Flush()
		},
	}
}

func newVendorShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}
			vendor, err := app.client.GetVendor(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, vendor)
		},
	}
}

func newVendorCreateCmd(app *App) *cobra.Command {
	var vendor domain.Vendor

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vendor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := app.client.CreateVendor(cmd.Context(), vendor)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}
	vendorFlags(cmd, &vendor)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newVendorEditCmd(app *App) *cobra.Command {
	var vendor domain.Vendor

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}

			// Unset flags keep their stored values.
			current, err := app.client.GetVendor(cmd.Context(), id)
			if err != nil {
				return err
			}
			merged := current
			if cmd.Flags().Changed("name") {
				merged.VendorName = vendor.VendorName
			}
			if cmd.Flags().Changed("phone") {
				merged.PhoneNumber = vendor.PhoneNumber
			}
			if cmd.Flags().Changed("email") {
				merged.Email = vendor.Email
			}
			if cmd.Flags().Changed("address") {
				merged.Address = vendor.Address
			}
			if cmd.Flags().Changed("city") {
				merged.City = vendor.City
			}
			if cmd.Flags().Changed("state") {
				merged.State = vendor.State
			}
			if cmd.Flags().Changed("state-code") {
				merged.StateCode = vendor.StateCode
			}
			if cmd.Flags().Changed("zipcode") {
				merged.Zipcode = vendor.Zipcode
			}
			if cmd.Flags().Changed("license") {
				merged.LicenseNumber = vendor.LicenseNumber
			}
			if cmd.Flags().Changed("brand") {
				merged.AssociatedBrands = vendor.AssociatedBrands
			}

			updated, err := app.client.UpdateVendor(cmd.Context(), id, merged)
			if err != nil {
				return err
			}
			return printJSON(cmd, updated)
		},
	}
	vendorFlags(cmd, &vendor)
	return cmd
}

func newVendorDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64(args[0])
			if err != nil {
				return err
			}
			if err := app.client.DeleteVendor(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted vendor %d.\n", id)
			return nil
		},
	}
}
