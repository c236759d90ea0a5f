package domain

import "time"

// LineItem is one priced entry on an in-progress invoice. For service
// items the amount is entered directly; for everything else it is derived
// from quantity, mrp, tax and discount_percent.
type LineItem struct {
	IsService       bool    `json:"isService"`
	Description     string  `json:"description"`
	HSNSAC          string  `json:"hsn_sac"`
	Expiry          string  `json:"expiry"`
	Quantity        float64 `json:"quantity"`
	Deal            float64 `json:"deal"`
	MRP             float64 `json:"mrp"`
	Tax             float64 `json:"tax"`
	DiscountPercent float64 `json:"discount_percent"`
	Amount          float64 `json:"amount"`
}

// InvoiceForm is the in-progress invoice held by the form controller.
// SubTotal and GrandTotal are always recomputed from Items and Discount,
// never assigned directly.
type InvoiceForm struct {
	VendorName     string     `json:"vendor_name"`
	InvoiceNumber  string     `json:"invoice_number"`
	EwaybillNumber string     `json:"ewaybill_number"`
	InvoiceDate    string     `json:"invoice_date"`
	Description    string     `json:"description"`
	SubTotal       float64    `json:"sub_total"`
	Discount       float64    `json:"discount"`
	GrandTotal     float64    `json:"grand_total"`
	Items          []LineItem `json:"items"`
}

type ItemPayload struct {
	Description     string  `json:"description"`
	HSNSAC          string  `json:"hsn_sac"`
	Expiry          string  `json:"expiry"`
	Quantity        float64 `json:"quantity"`
	Deal            float64 `json:"deal"`
	TotalQuantity   float64 `json:"total_quantity"`
	MRP             float64 `json:"mrp"`
	Tax             float64 `json:"tax"`
	DiscountPercent float64 `json:"discount_percent"`
	Amount          float64 `json:"amount"`
}

// SubmissionPayload is the canonical shape sent to the invoice API on
// create and update.
type SubmissionPayload struct {
	InvoiceNumber  string        `json:"invoice_number"`
	InvoiceDate    string        `json:"invoice_date"`
	VendorName     string        `json:"vendor_name"`
	SubTotal       float64       `json:"sub_total"`
	Discount       float64       `json:"discount"`
	GrandTotal     float64       `json:"grand_total"`
	EwaybillNumber *string       `json:"ewaybill_number"`
	Items          []ItemPayload `json:"items"`
}

type InvoiceItem struct {
	ID              int64   `json:"id"`
	InvoiceID       int64   `json:"invoice_id"`
	Description     string  `json:"description"`
	HSNSAC          string  `json:"hsn_sac"`
	Expiry          string  `json:"expiry"`
	Quantity        float64 `json:"quantity"`
	Deal            float64 `json:"deal"`
	TotalQuantity   float64 `json:"total_quantity"`
	MRP             float64 `json:"mrp"`
	Tax             float64 `json:"tax"`
	DiscountPercent float64 `json:"discount_percent"`
	Amount          float64 `json:"amount"`
}

// Invoice is a persisted invoice as stored and returned by the API.
type Invoice struct {
	ID             int64         `json:"id"`
	InvoiceNumber  string        `json:"invoice_number"`
	InvoiceDate    string        `json:"invoice_date"`
	VendorName     string        `json:"vendor_name"`
	SubTotal       float64       `json:"sub_total"`
	Discount       float64       `json:"discount"`
	GrandTotal     float64       `json:"grand_total"`
	EwaybillNumber *string       `json:"ewaybill_number,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	Items          []InvoiceItem `json:"items,omitempty"`
}

type Vendor struct {
	ID               int64     `json:"id"`
	VendorName       string    `json:"vendor_name"`
	PhoneNumber      string    `json:"phone_number,omitempty"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	StateCode        string    `json:"state_code,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty"`
	LicenseNumber    string    `json:"license_number,omitempty"`
	AssociatedBrands []string  `json:"associated_brands,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
