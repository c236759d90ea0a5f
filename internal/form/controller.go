// Package form owns the single in-progress invoice behind the create and
// edit flows. Every mutation funnels through the Controller so the
// invoice totals can never drift from the current items and discount.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
	"github.com/gaurav7717/PurchaseInvoice/internal/extraction"
	"github.com/gaurav7717/PurchaseInvoice/internal/totals"
)

// ErrIndexOutOfRange flags item mutations outside the current item count.
// It marks internal misuse rather than user error.
var ErrIndexOutOfRange = errors.New("item index out of range")

// ErrEmptyInvoice is returned when a submission payload is requested
// before any field has been set.
var ErrEmptyInvoice = errors.New("invoice form is empty")

// State tracks where the form is in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateEditing
	StateImported
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateImported:
		return "imported"
	default:
		return "empty"
	}
}

// Fields whose edits trigger an amount recompute on non-service items.
var amountFields = map[string]bool{
	"quantity":         true,
	"tax":              true,
	"discount_percent": true,
	"mrp":              true,
}

// Controller is the single writer of one in-progress invoice. It is not
// safe for concurrent use; form mutations happen one user action at a
// time.
type Controller struct {
	inv         domain.InvoiceForm
	state       State
	importToken uuid.UUID
	norm        *extraction.Normalizer
	now         func() time.Time
}

func NewController(norm *extraction.Normalizer) *Controller {
	if norm == nil {
		norm = extraction.NewNormalizer(extraction.DefaultExpiryYear)
	}
	c := &Controller{norm: norm, now: time.Now}
	c.Reset()
	return c
}

// Invoice returns a copy of the current form state.
func (c *Controller) Invoice() domain.InvoiceForm {
	inv := c.inv
	inv.Items = append([]domain.LineItem(nil), c.inv.Items...)
	return inv
}

func (c *Controller) State() State {
	return c.state
}

// Reset restores the empty-invoice default state and invalidates any
// import still in flight.
func (c *Controller) Reset() {
	c.inv = domain.InvoiceForm{
		InvoiceDate: c.now().Format(extraction.DateTimeLayout),
		Items:       []domain.LineItem{},
	}
	c.state = StateEmpty
	c.importToken = uuid.Nil
}

// SetHeaderField assigns one header field. Editing the discount is the
// only header change that touches totals.
func (c *Controller) SetHeaderField(name, value string) error {
	switch name {
	case "vendor_name":
		c.inv.VendorName = value
	case "invoice_number":
		c.inv.InvoiceNumber = value
	case "ewaybill_number":
		c.inv.EwaybillNumber = value
	case "invoice_date":
		c.inv.InvoiceDate = value
	case "description":
		c.inv.Description = value
	case "discount":
		c.inv.Discount = parseNumber(value)
		c.recomputeTotals()
	default:
		return fmt.Errorf("unknown header field %q", name)
	}
	c.markEdited()
	return nil
}

// SetItemField assigns one field on the item at index. Quantity, tax,
// discount_percent and mrp edits re-derive the item amount unless the
// item is a service; every edit re-derives the invoice totals. The
// amount field itself is only assignable on service items.
func (c *Controller) SetItemField(index int, field, value string) error {
	if index < 0 || index >= len(c.inv.Items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	item := &c.inv.Items[index]

	switch field {
	case "isService":
		item.IsService = parseBool(value)
	case "description":
		item.Description = value
	case "hsn_sac":
		item.HSNSAC = value
	case "expiry":
		item.Expiry = value
	case "quantity":
		item.Quantity = parseNumber(value)
	case "deal":
		item.Deal = parseNumber(value)
	case "mrp":
		item.MRP = parseNumber(value)
	case "tax":
		item.Tax = parseNumber(value)
	case "discount_percent":
		item.DiscountPercent = parseNumber(value)
	case "amount":
		// amount is derived for non-service items; only services take
		// the value as entered
		if !item.IsService {
			return fmt.Errorf("amount is derived for non-service items")
		}
		item.Amount = parseNumber(value)
	default:
		return fmt.Errorf("unknown item field %q", field)
	}

	if !item.IsService && amountFields[field] {
		item.Amount = totals.ItemAmount(*item)
	}
	c.recomputeTotals()
	c.markEdited()
	return nil
}

// AddItem appends a zero-valued non-service item.
func (c *Controller) AddItem() {
	c.inv.Items = append(c.inv.Items, domain.LineItem{})
	c.recomputeTotals()
	c.markEdited()
}

// RemoveItem drops the item at index.
func (c *Controller) RemoveItem(index int) error {
	if index < 0 || index >= len(c.inv.Items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.inv.Items = append(c.inv.Items[:index], c.inv.Items[index+1:]...)
	c.recomputeTotals()
	c.markEdited()
	return nil
}

// LoadFromPersisted hydrates the form for edit mode. Every field is
// defaulted so partially populated records cannot leave the form in an
// inconsistent shape.
func (c *Controller) LoadFromPersisted(inv domain.Invoice) {
	items := make([]domain.LineItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, domain.LineItem{
			Description:     item.Description,
			HSNSAC:          item.HSNSAC,
			Expiry:          item.Expiry,
			Quantity:        item.Quantity,
			Deal:            item.Deal,
			MRP:             item.MRP,
			Tax:             item.Tax,
			DiscountPercent: item.DiscountPercent,
			Amount:          item.Amount,
		})
	}

	date := inv.InvoiceDate
	if date == "" {
		date = c.now().Format(extraction.DateTimeLayout)
	}
	ewaybill := ""
	if inv.EwaybillNumber != nil {
		ewaybill = *inv.EwaybillNumber
	}

	c.inv = domain.InvoiceForm{
		VendorName:     inv.VendorName,
		InvoiceNumber:  inv.InvoiceNumber,
		EwaybillNumber: ewaybill,
		InvoiceDate:    date,
		Discount:       inv.Discount,
		Items:          items,
	}
	c.recomputeTotals()
	c.state = StateEditing
	c.importToken = uuid.Nil
}

// BeginImport registers a new PDF import and returns its identity token.
// Starting a new import supersedes any earlier one still in flight.
func (c *Controller) BeginImport() uuid.UUID {
	c.importToken = uuid.New()
	return c.importToken
}

// CompleteImport applies an extraction result to the form. A completion
// whose token no longer matches the current import (the form was reset,
// reloaded, or re-imported in the meantime) is discarded without touching
// state. A malformed extraction is surfaced and leaves the form as it
// was.
func (c *Controller) CompleteImport(token uuid.UUID, raw extraction.Result) error {
	if token == uuid.Nil || token != c.importToken {
		return nil
	}
	form, err := c.norm.Normalize(raw)
	if err != nil {
		return err
	}
	c.inv = form
	c.state = StateImported
	c.importToken = uuid.Nil
	return nil
}

// BuildSubmissionPayload converts the form into the canonical shape the
// invoice API accepts. total_quantity is derived here and nowhere else;
// an empty ewaybill number becomes null.
func (c *Controller) BuildSubmissionPayload() (domain.SubmissionPayload, error) {
	if c.state == StateEmpty {
		return domain.SubmissionPayload{}, ErrEmptyInvoice
	}

	items := make([]domain.ItemPayload, 0, len(c.inv.Items))
	for _, item := range c.inv.Items {
		items = append(items, domain.ItemPayload{
			Description:     item.Description,
			HSNSAC:          item.HSNSAC,
			Expiry:          item.Expiry,
			Quantity:        item.Quantity,
			Deal:            item.Deal,
			TotalQuantity:   item.Quantity + item.Deal,
			MRP:             item.MRP,
			Tax:             item.Tax,
			DiscountPercent: item.DiscountPercent,
			Amount:          item.Amount,
		})
	}

	var ewaybill *string
	if trimmed := strings.TrimSpace(c.inv.EwaybillNumber); trimmed != "" {
		ewaybill = &trimmed
	}

	return domain.SubmissionPayload{
		InvoiceNumber:  c.inv.InvoiceNumber,
		InvoiceDate:    c.inv.InvoiceDate,
		VendorName:     c.inv.VendorName,
		SubTotal:       c.inv.SubTotal,
		Discount:       c.inv.Discount,
		GrandTotal:     c.inv.GrandTotal,
		EwaybillNumber: ewaybill,
		Items:          items,
	}, nil
}

func (c *Controller) recomputeTotals() {
	c.inv.SubTotal, c.inv.GrandTotal = totals.InvoiceTotals(c.inv.Items, c.inv.Discount)
}

// markEdited applies the Empty→Editing and Imported→Editing transitions
// on any manual mutation.
func (c *Controller) markEdited() {
	c.state = StateEditing
}

func parseNumber(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

func parseBool(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return parsed
}
