package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

const vendorColumns = `id, vendor_name, phone_number, email, address, city, state, state_code, zipcode, license_number, associated_brands, created_at`

func (r *Repository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY vendor_name, id`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := make([]domain.Vendor, 0)
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}

func (r *Repository) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
	vendor, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *Repository) CreateVendor(ctx context.Context, vendor domain.Vendor) (*domain.Vendor, error) {
	brands := vendor.AssociatedBrands
	if brands == nil {
		brands = []string{}
	}
	var id int64
	if err := r.pool.QueryRow(ctx, `
		INSERT INTO vendors (vendor_name, phone_number, email, address, city, state, state_code, zipcode, license_number, associated_brands)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		vendor.VendorName,
		vendor.PhoneNumber,
		vendor.Email,
		vendor.Address,
		vendor.City,
		vendor.State,
		vendor.StateCode,
		vendor.Zipcode,
		vendor.LicenseNumber,
		brands,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert vendor: %w", err)
	}
	return r.GetVendor(ctx, id)
}

func (r *Repository) UpdateVendor(ctx context.Context, id int64, vendor domain.Vendor) (*domain.Vendor, error) {
	brands := vendor.AssociatedBrands
	if brands == nil {
		brands = []string{}
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendors SET
			vendor_name = $2,
			phone_number = $3,
			email = $4,
			address = $5,
			city = $6,
			state = $7,
			state_code = $8,
			zipcode = $9,
			license_number = $10,
			associated_brands = $11
		WHERE id = $1
	`,
		id,
		vendor.VendorName,
		vendor.PhoneNumber,
		vendor.Email,
		vendor.Address,
		vendor.City,
		vendor.State,
		vendor.StateCode,
		vendor.Zipcode,
		vendor.LicenseNumber,
		brands,
	)
	if err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetVendor(ctx, id)
}

func (r *Repository) DeleteVendor(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanVendor(row rowScanner) (domain.Vendor, error) {
	var vendor domain.Vendor
	if err := row.Scan(
		&vendor.ID,
		&vendor.VendorName,
		&vendor.PhoneNumber,
		&vendor.Email,
		&vendor.Address,
		&vendor.City,
		&vendor.State,
		&vendor.StateCode,
		&vendor.Zipcode,
		&vendor.LicenseNumber,
		&vendor.AssociatedBrands,
		&vendor.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vendor{}, pgx.ErrNoRows
		}
		return domain.Vendor{}, fmt.Errorf("scan vendor: %w", err)
	}
	return vendor, nil
}
