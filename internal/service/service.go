// Package service sits between the HTTP layer and the repository,
// applying the input normalization the handlers should not care about.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaurav7717/PurchaseInvoice/internal/auth"
	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
	"github.com/gaurav7717/PurchaseInvoice/internal/repository"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// ErrBadCredentials is returned for unknown users and wrong passwords
// alike, so login failures do not leak which half was wrong.
var ErrBadCredentials = fmt.Errorf("incorrect username or password")

func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	record, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, record.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return &record.User, nil
}

// EnsureDefaultAdmin seeds the configured admin account on first start.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("default admin credentials are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}
	return s.repo.EnsureUser(ctx, username, hash)
}

func (s *Service) CreateInvoice(ctx context.Context, payload domain.SubmissionPayload) (*domain.Invoice, error) {
	payload.InvoiceNumber = strings.TrimSpace(payload.InvoiceNumber)
	if payload.InvoiceNumber == "" {
		return nil, fmt.Errorf("invoice_number is required")
	}
	return s.repo.CreateInvoice(ctx, payload)
}

func (s *Service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) UpdateInvoiceHeader(ctx context.Context, id int64, update repository.InvoiceHeaderUpdate) (*domain.Invoice, error) {
	return s.repo.UpdateInvoiceHeader(ctx, id, update)
}

func (s *Service) DeleteInvoice(ctx context.Context, id int64) error {
	return s.repo.DeleteInvoice(ctx, id)
}

func (s *Service) AddInvoiceItem(ctx context.Context, invoiceID int64, item domain.ItemPayload) (int64, error) {
	return s.repo.AddInvoiceItem(ctx, invoiceID, item)
}

func (s *Service) DeleteInvoiceItem(ctx context.Context, itemID int64) error {
	return s.repo.DeleteInvoiceItem(ctx, itemID)
}

func (s *Service) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	return s.repo.ListVendors(ctx)
}

func (s *Service) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	return s.repo.GetVendor(ctx, id)
}

func (s *Service) CreateVendor(ctx context.Context, vendor domain.Vendor) (*domain.Vendor, error) {
	vendor.VendorName = strings.TrimSpace(vendor.VendorName)
	if vendor.VendorName == "" {
		return nil, fmt.Errorf("vendor_name is required")
	}
	return s.repo.CreateVendor(ctx, vendor)
}

func (s *Service) UpdateVendor(ctx context.Context, id int64, vendor domain.Vendor) (*domain.Vendor, error) {
	vendor.VendorName = strings.TrimSpace(vendor.VendorName)
	if vendor.VendorName == "" {
		return nil, fmt.Errorf("vendor_name is required")
	}
	return s.repo.UpdateVendor(ctx, id, vendor)
}

func (s *Service) DeleteVendor(ctx context.Context, id int64) error {
	return s.repo.DeleteVendor(ctx, id)
}
