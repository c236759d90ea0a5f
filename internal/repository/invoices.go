package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gaurav7717/PurchaseInvoice/internal/domain"
)

const invoiceColumns = `id, invoice_number, invoice_date, vendor_name, sub_total, discount, grand_total, ewaybill_number, created_at`

const itemColumns = `id, invoice_id, description, hsn_sac, expiry, quantity, deal, total_quantity, mrp, tax, discount_percent, amount`

// InvoiceHeaderUpdate is a partial header update; nil fields are left
// unchanged.
type InvoiceHeaderUpdate struct {
	InvoiceNumber  *string
	InvoiceDate    *string
	VendorName     *string
	SubTotal       *float64
	Discount       *float64
	GrandTotal     *float64
	EwaybillNumber *string
}

func (r *Repository) CreateInvoice(ctx context.Context, payload domain.SubmissionPayload) (*domain.Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create invoice: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var invoiceID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, invoice_date, vendor_name, sub_total, discount, grand_total, ewaybill_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		payload.InvoiceNumber,
		payload.InvoiceDate,
		payload.VendorName,
		payload.SubTotal,
		payload.Discount,
		payload.GrandTotal,
		payload.EwaybillNumber,
	).Scan(&invoiceID); err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	for _, item := range payload.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, description, hsn_sac, expiry, quantity, deal, total_quantity, mrp, tax, discount_percent, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			invoiceID,
			item.Description,
			item.HSNSAC,
			item.Expiry,
			item.Quantity,
			item.Deal,
			item.TotalQuantity,
			item.MRP,
			item.Tax,
			item.DiscountPercent,
			item.Amount,
		); err != nil {
			return nil, fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create invoice: %w", err)
	}
	return r.GetInvoice(ctx, invoiceID)
}

func (r *Repository) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0)
	index := make(map[int64]int)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		index[invoice.ID] = len(invoices)
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	itemRows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM invoice_items ORDER BY invoice_id, id`)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanItem(itemRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[item.InvoiceID]; ok {
			invoices[i].Items = append(invoices[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	return invoices, nil
}

func (r *Repository) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.GetInvoiceItems(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return &invoice, nil
}

func (r *Repository) GetInvoiceItems(ctx context.Context, invoiceID int64) ([]domain.InvoiceItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InvoiceItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	return items, nil
}

func (r *Repository) UpdateInvoiceHeader(ctx context.Context, id int64, update InvoiceHeaderUpdate) (*domain.Invoice, error) {
	assignments := make([]string, 0, 7)
	args := make([]any, 0, 8)
	assign := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.InvoiceNumber != nil {
		assign("invoice_number", *update.InvoiceNumber)
	}
	if update.InvoiceDate != nil {
		assign("invoice_date", *update.InvoiceDate)
	}
	if update.VendorName != nil {
		assign("vendor_name", *update.VendorName)
	}
	if update.SubTotal != nil {
		assign("sub_total", *update.SubTotal)
	}
	if update.Discount != nil {
		assign("discount", *update.Discount)
	}
	if update.GrandTotal != nil {
		assign("grand_total", *update.GrandTotal)
	}
	if update.EwaybillNumber != nil {
		assign("ewaybill_number", *update.EwaybillNumber)
	}
	if len(assignments) == 0 {
		return nil, ErrNoFields
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE invoices SET %s WHERE id = $%d", strings.Join(assignments, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetInvoice(ctx, id)
}

func (r *Repository) DeleteInvoice(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete invoice: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// AddInvoiceItem appends one item to a stored invoice and refreshes the
// stored totals from the item amounts, keeping the behavior of the
// original per-item endpoint.
func (r *Repository) AddInvoiceItem(ctx context.Context, invoiceID int64, item domain.ItemPayload) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin add item: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invoices WHERE id = $1)`, invoiceID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check invoice: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}

	var itemID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO invoice_items (invoice_id, description, hsn_sac, expiry, quantity, deal, total_quantity, mrp, tax, discount_percent, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		invoiceID,
		item.Description,
		item.HSNSAC,
		item.Expiry,
		item.Quantity,
		item.Deal,
		item.TotalQuantity,
		item.MRP,
		item.Tax,
		item.DiscountPercent,
		item.Amount,
	).Scan(&itemID); err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE invoices SET
			sub_total = totals.amount_sum,
			grand_total = totals.amount_sum - invoices.discount
		FROM (
			SELECT COALESCE(SUM(amount), 0) AS amount_sum
			FROM invoice_items WHERE invoice_id = $1
		) AS totals
		WHERE invoices.id = $1
	`, invoiceID); err != nil {
		return 0, fmt.Errorf("refresh invoice totals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit add item: %w", err)
	}
	return itemID, nil
}

// DeleteInvoiceItem removes one item and deducts its amount from the
// stored totals.
func (r *Repository) DeleteInvoiceItem(ctx context.Context, itemID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete item: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var invoiceID int64
	var amount float64
	if err := tx.QueryRow(ctx, `SELECT invoice_id, amount FROM invoice_items WHERE id = $1`, itemID).Scan(&invoiceID, &amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load item: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE invoices SET
			sub_total = sub_total - $2,
			grand_total = sub_total - $2 - discount
		WHERE id = $1
	`, invoiceID, amount); err != nil {
		return fmt.Errorf("refresh invoice totals: %w", err)
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (domain.Invoice, error) {
	var invoice domain.Invoice
	if err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.InvoiceDate,
		&invoice.VendorName,
		&invoice.SubTotal,
		&invoice.Discount,
		&invoice.GrandTotal,
		&invoice.EwaybillNumber,
		&invoice.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invoice{}, pgx.ErrNoRows
		}
		return domain.Invoice{}, fmt.Errorf("scan invoice: %w", err)
	}
	return invoice, nil
}

func scanItem(row rowScanner) (domain.InvoiceItem, error) {
	var item domain.InvoiceItem
	if err := row.Scan(
		&item.ID,
		&item.InvoiceID,
		&item.Description,
		&item.HSNSAC,
		&item.Expiry,
		&item.Quantity,
		&item.Deal,
		&item.TotalQuantity,
		&item.MRP,
		&item.Tax,
		&item.DiscountPercent,
		&item.Amount,
	); err != nil {
		return domain.InvoiceItem{}, fmt.Errorf("scan invoice item: %w", err)
	}
	return item, nil
}
