package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
	"github.com/gaurav7717/PurchaseInvoice/internal/extraction"
	"github.com/gaurav7717/PurchaseInvoice/internal/repository"
	"github.com/gaurav7717/PurchaseInvoice/internal/service"
)

type Handler struct {
	svc            *service.Service
	tokens         TokenIssuer
	validate       *validator.Validate
	maxUploadBytes int64
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	Generate(username string) (string, error)
}

func NewHandler(svc *service.Service, tokens TokenIssuer, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &Handler{
		svc:            svc,
		tokens:         tokens,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// Token implements the OAuth2 password flow the original service exposed:
// form-encoded credentials in, bearer token out.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	user, err := h.svc.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.tokens.Generate(user.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access_token": token, "token_type": "bearer"})
}

type invoiceItemRequest struct {
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

type createInvoiceRequest struct {
	InvoiceNumber  string               `json:"invoice_number" validate:"required"`
	InvoiceDate    string               `json:"invoice_date" validate:"required"`
	VendorName     string               `json:"vendor_name" validate:"required"`
	SubTotal       float64              `json:"sub_total"`
	Discount       float64              `json:"discount"`
	GrandTotal     float64              `json:"grand_total"`
	EwaybillNumber *string              `json:"ewaybill_number"`
	Items          []invoiceItemRequest `json:"items" validate:"required"`
}

func itemPayload(item invoiceItemRequest) domain.ItemPayload {
	return domain.ItemPayload{
		Description:     item.Description,
		HSNSAC:          item.HSNSAC,
		Expiry:          item.Expiry,
		Quantity:        item.Quantity,
		Deal:            item.Deal,
		TotalQuantity:   item.TotalQuantity,
		MRP:             item.MRP,
		Tax:             item.Tax,
		DiscountPercent: item.DiscountPercent,
		Amount:          item.Amount,
	}
}

func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	items := make([]domain.ItemPayload, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, itemPayload(item))
	}
	created, err := h.svc.CreateInvoice(r.Context(), domain.SubmissionPayload{
		InvoiceNumber:  req.InvoiceNumber,
		InvoiceDate:    req.InvoiceDate,
		VendorName:     req.VendorName,
		SubTotal:       req.SubTotal,
		Discount:       req.Discount,
		GrandTotal:     req.GrandTotal,
		EwaybillNumber: req.EwaybillNumber,
		Items:          items,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items2 := created.Items
	created.Items = nil
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Invoice created successfully",
		"invoice": created,
		"items":   items2,
	})
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.ListInvoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoice, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	items := invoice.Items
	invoice.Items = nil
	writeJSON(w, http.StatusOK, map[string]any{"invoice": invoice, "items": items})
}

type updateInvoiceRequest struct {
	InvoiceNumber  *string  `json:"invoice_number"`
	InvoiceDate    *string  `json:"invoice_date"`
	VendorName     *string  `json:"vendor_name"`
	SubTotal       *float64 `json:"sub_total"`
	Discount       *float64 `json:"discount"`
	GrandTotal     *float64 `json:"grand_total"`
	EwaybillNumber *string  `json:"ewaybill_number"`
}

func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.svc.UpdateInvoiceHeader(r.Context(), id, repository.InvoiceHeaderUpdate{
		InvoiceNumber:  req.InvoiceNumber,
		InvoiceDate:    req.InvoiceDate,
		VendorName:     req.VendorName,
		SubTotal:       req.SubTotal,
		Discount:       req.Discount,
		GrandTotal:     req.GrandTotal,
		EwaybillNumber: req.EwaybillNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			writeError(w, http.StatusBadRequest, "No fields to update")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "Invoice not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	items := updated.Items
	updated.Items = nil
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Invoice updated successfully",
		"invoice": updated,
		"items":   items,
	})
}

func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteInvoice(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Invoice and related items deleted successfully"})
}

func (h *Handler) AddInvoiceItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req invoiceItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	itemID, err := h.svc.AddInvoiceItem(r.Context(), id, itemPayload(req))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Invoice item created successfully", "item_id": itemID})
}

func (h *Handler) DeleteInvoiceItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteInvoiceItem(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Invoice item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Invoice item deleted successfully and invoice totals updated"})
}

// UploadPDF receives an invoice PDF and returns the loosely-typed
// extraction result the client-side normalizer consumes.
func (h *Handler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "Please upload a PDF file.")
		return
	}
	if header.Size > h.maxUploadBytes {
		writeError(w, http.StatusBadRequest, "File size exceeds 5MB.")
		return
	}

	// The PDF reader needs random access, so the upload is staged on
	// disk for the duration of the extraction.
	tempPath := filepath.Join(os.TempDir(), "upload-"+uuid.NewString()+".pdf")
	temp, err := os.Create(tempPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	defer func() {
		_ = os.Remove(tempPath)
	}()
	if _, err := io.Copy(temp, file); err != nil {
		_ = temp.Close()
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	if err := temp.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}

	result, err := extraction.ExtractFile(tempPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing PDF: %v", err))
		return
	}
	result.Message = "PDF processed successfully"
	writeJSON(w, http.StatusOK, result)
}

type vendorRequest struct {
	VendorName       string   `json:"vendor_name" validate:"required"`
	PhoneNumber      string   `json:"phone_number" validate:"omitempty,numeric,len=10"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	StateCode        string   `json:"state_code"`
	Zipcode          string   `json:"zipcode" validate:"omitempty,numeric,len=5"`
	LicenseNumber    string   `json:"license_number"`
	AssociatedBrands []string `json:"associated_brands"`
}

func (req vendorRequest) vendor() domain.Vendor {
	return domain.Vendor{
		VendorName:       req.VendorName,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		StateCode:        req.StateCode,
		Zipcode:          req.Zipcode,
		LicenseNumber:    req.LicenseNumber,
		AssociatedBrands: req.AssociatedBrands,
	}
}

func (h *Handler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.svc.ListVendors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *Handler) GetVendor(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vendor, err := h.svc.GetVendor(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vendor not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := h.svc.CreateVendor(r.Context(), req.vendor())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req vendorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := h.svc.UpdateVendor(r.Context(), id, req.vendor())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vendor not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteVendor(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vendor not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Vendor deleted successfully"})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError keeps the {"detail": ...} error shape of the original
// service so existing clients keep working.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"detail": message})
}
