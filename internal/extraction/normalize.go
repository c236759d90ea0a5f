package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
	"github.com/gaurav7717/PurchaseInvoice/internal/totals"
)

// DefaultExpiryYear is the year assumed for expiry dates that arrive in
// the lossy DD-MM form the extraction source produces.
const DefaultExpiryYear = 2025

// DateTimeLayout is the minute-precision form used for invoice dates
// throughout the form state and submission payload.
const DateTimeLayout = "2006-01-02T15:04"

var shortExpiryPattern = regexp.MustCompile(`^(\d{2})-(\d{2})$`)

// Normalizer repairs and types raw extraction results into form state.
type Normalizer struct {
	// ExpiryYear completes DD-MM expiry values. The extraction source
	// drops the year, so it has to be supplied from configuration.
	ExpiryYear int

	// Now supplies the fallback invoice date; defaults to time.Now.
	Now func() time.Time
}

func NewNormalizer(expiryYear int) *Normalizer {
	if expiryYear <= 0 {
		expiryYear = DefaultExpiryYear
	}
	return &Normalizer{ExpiryYear: expiryYear, Now: time.Now}
}

// Normalize validates a raw extraction result and maps it into an
// InvoiceForm with totals populated. Numeric fields parse fail-soft to 0;
// the prior form state of the caller is untouched when an error is
// returned.
func (n *Normalizer) Normalize(raw Result) (domain.InvoiceForm, error) {
	if err := raw.Validate(); err != nil {
		return domain.InvoiceForm{}, err
	}

	items := make([]domain.LineItem, 0, len(raw.Items))
	for _, rawItem := range raw.Items {
		items = append(items, domain.LineItem{
			IsService:       false,
			Description:     asString(rawItem["description"]),
			HSNSAC:          asString(rawItem["hsn_sac"]),
			Expiry:          n.repairExpiry(asString(rawItem["expiry"])),
			Quantity:        asFloat(rawItem["quantity"]),
			Deal:            asFloat(rawItem["deal"]),
			MRP:             asFloat(rawItem["mrp"]),
			Tax:             asFloat(rawItem["tax"]),
			DiscountPercent: asFloat(rawItem["discount_percent"]),
			Amount:          asFloat(rawItem["amount"]),
		})
	}

	form := domain.InvoiceForm{
		VendorName:     asString(raw.InvoiceData["vendor_name"]),
		InvoiceNumber:  asString(raw.InvoiceData["invoice_number"]),
		EwaybillNumber: asString(raw.InvoiceData["ewaybill_number"]),
		InvoiceDate:    n.normalizeDate(asString(raw.InvoiceData["invoice_date"])),
		Description:    "",
		Discount:       asFloat(raw.InvoiceData["discount"]),
		Items:          items,
	}
	form.SubTotal, form.GrandTotal = totals.InvoiceTotals(form.Items, form.Discount)
	return form, nil
}

// repairExpiry rewrites DD-MM expiry values into YYYY-MM-DD using the
// configured year. Anything else passes through unchanged.
func (n *Normalizer) repairExpiry(raw string) string {
	groups := shortExpiryPattern.FindStringSubmatch(raw)
	if groups == nil {
		return raw
	}
	return fmt.Sprintf("%04d-%s-%s", n.ExpiryYear, groups[2], groups[1])
}

// normalizeDate rewrites the extraction source's space-separated
// date-time into the canonical minute-precision form, falling back to the
// current time when the field is absent.
func (n *Normalizer) normalizeDate(raw string) string {
	if raw == "" {
		now := time.Now
		if n.Now != nil {
			now = n.Now
		}
		return now().Format(DateTimeLayout)
	}
	repaired := strings.Replace(raw, " ", "T", 1)
	if len(repaired) > len(DateTimeLayout) {
		repaired = repaired[:len(DateTimeLayout)]
	}
	return repaired
}
