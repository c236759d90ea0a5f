// Package api is the HTTP client for the purchase-invoice service:
// token login, invoice and vendor CRUD, and the PDF extraction upload.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
	"github.com/gaurav7717/PurchaseInvoice/internal/extraction"
)

// MaxUploadBytes caps PDF uploads at 5 MiB, matching the server.
const MaxUploadBytes = 5 << 20

// UpstreamError carries a rejection from the invoice service. Form state
// is never discarded on an UpstreamError so the user can retry.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invoice service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("invoice service returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken installs a previously issued bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token and installs it on the
// client.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	values := url.Values{}
	values.Set("username", username)
	values.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(values.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return "", err
	}
	c.token = tok.AccessToken
	return tok.AccessToken, nil
}

func (c *Client) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, "/invoices/", nil)
	if err != nil {
		return nil, err
	}
	var invoices []domain.Invoice
	if err := c.do(req, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

type invoiceEnvelope struct {
	Message string               `json:"message,omitempty"`
	Invoice domain.Invoice       `json:"invoice"`
	Items   []domain.InvoiceItem `json:"items"`
}

func (c *Client) GetInvoice(ctx context.Context, id int64) (domain.Invoice, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/invoices/%d", id), nil)
	if err != nil {
		return domain.Invoice{}, err
	}
	var envelope invoiceEnvelope
	if err := c.do(req, &envelope); err != nil {
		return domain.Invoice{}, err
	}
	envelope.Invoice.Items = envelope.Items
	return envelope.Invoice, nil
}

func (c *Client) CreateInvoice(ctx context.Context, payload domain.SubmissionPayload) (domain.Invoice, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/invoices/", payload)
	if err != nil {
		return domain.Invoice{}, err
	}
	var envelope invoiceEnvelope
	if err := c.do(req, &envelope); err != nil {
		return domain.Invoice{}, err
	}
	envelope.Invoice.Items = envelope.Items
	return envelope.Invoice, nil
}

// InvoiceUpdate carries a partial header update; nil fields are left
// unchanged by the server.
type InvoiceUpdate struct {
	InvoiceNumber  *string  `json:"invoice_number,omitempty"`
	InvoiceDate    *string  `json:"invoice_date,omitempty"`
	VendorName     *string  `json:"vendor_name,omitempty"`
	SubTotal       *float64 `json:"sub_total,omitempty"`
	Discount       *float64 `json:"discount,omitempty"`
	GrandTotal     *float64 `json:"grand_total,omitempty"`
	EwaybillNumber *string  `json:"ewaybill_number,omitempty"`
}

func (c *Client) UpdateInvoice(ctx context.Context, id int64, update InvoiceUpdate) (domain.Invoice, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, fmt.Sprintf("/invoices/%d", id), update)
	if err != nil {
		return domain.Invoice{}, err
	}
	var envelope invoiceEnvelope
	if err := c.do(req, &envelope); err != nil {
		return domain.Invoice{}, err
	}
	envelope.Invoice.Items = envelope.Items
	return envelope.Invoice, nil
}

func (c *Client) DeleteInvoice(ctx context.Context, id int64) error {
	req, err := c.jsonRequest(ctx, http.MethodDelete, fmt.Sprintf("/invoices/%d", id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) AddInvoiceItem(ctx context.Context, invoiceID int64, item domain.ItemPayload) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/invoices/%d/items", invoiceID), item)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) DeleteInvoiceItem(ctx context.Context, itemID int64) error {
	req, err := c.jsonRequest(ctx, http.MethodDelete, fmt.Sprintf("/invoice_items/%d", itemID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UploadPDF sends an invoice PDF to the extraction endpoint. The
// client-side constraints are enforced before any bytes leave the
// machine: the file must be a PDF and at most 5 MiB.
func (c *Client) UploadPDF(ctx context.Context, filename string, content io.Reader, size int64) (extraction.Result, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return extraction.Result{}, fmt.Errorf("please upload a PDF file")
	}
	if size > MaxUploadBytes {
		return extraction.Result{}, fmt.Errorf("file size exceeds 5MB")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return extraction.Result{}, err
	}
	if _, err := io.Copy(part, io.LimitReader(content, MaxUploadBytes+1)); err != nil {
		return extraction.Result{}, err
	}
	if err := writer.Close(); err != nil {
		return extraction.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-pdf/", body)
	if err != nil {
		return extraction.Result{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result extraction.Result
	if err := c.do(req, &result); err != nil {
		return extraction.Result{}, err
	}
	return result, nil
}

func (c *Client) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, "/vendors/", nil)
	if err != nil {
		return nil, err
	}
	var vendors []domain.Vendor
	if err := c.do(req, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (c *Client) GetVendor(ctx context.Context, id int64) (domain.Vendor, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/vendors/%d", id), nil)
	if err != nil {
		return domain.Vendor{}, err
	}
	var vendor domain.Vendor
	if err := c.do(req, &vendor); err != nil {
		return domain.Vendor{}, err
	}
	return vendor, nil
}

func (c *Client) CreateVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/vendors/", vendor)
	if err != nil {
		return domain.Vendor{}, err
	}
	var created domain.Vendor
	if err := c.do(req, &created); err != nil {
		return domain.Vendor{}, err
	}
	return created, nil
}

func (c *Client) UpdateVendor(ctx context.Context, id int64, vendor domain.Vendor) (domain.Vendor, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, fmt.Sprintf("/vendors/%d", id), vendor)
	if err != nil {
		return domain.Vendor{}, err
	}
	var updated domain.Vendor
	if err := c.do(req, &updated); err != nil {
		return domain.Vendor{}, err
	}
	return updated, nil
}

func (c *Client) DeleteVendor(ctx context.Context, id int64) error {
	req, err := c.jsonRequest(ctx, http.MethodDelete, fmt.Sprintf("/vendors/%d", id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return &UpstreamError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage pulls the service's detail message out of an error
// body, tolerating both the {"detail": ...} and {"error": ...} shapes.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
