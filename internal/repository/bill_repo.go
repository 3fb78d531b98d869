package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"invoice_server/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BillRepository defines operations for bills. Every read and write is
// narrowed by an OwnerFilter.
type BillRepository interface {
	Create(ctx context.Context, b *model.Bill) error
	List(ctx context.Context, scope OwnerFilter) ([]model.Bill, error)
	Find(ctx context.Context, id string, scope OwnerFilter) (*model.Bill, error)
	Update(ctx context.Context, b *model.Bill, scope OwnerFilter) error
	Delete(ctx context.Context, id string, scope OwnerFilter) error
}

type billRepository struct {
	db DB
}

func NewBillRepository(db DB) BillRepository {
	return &billRepository{db: db}
}

// billWritable is every column a create or update writes, in billValues order.
var billWritable = []string{
	"bill_no", "user_id", "user_phone", "invoice_number", "items",
	"subtotal", "tax_rate", "tax_amount", "gst_type",
	"cgst_rate", "sgst_rate", "igst_rate", "cgst_amount", "sgst_amount", "igst_amount",
	"discount_percent", "discount_amount", "grand_total",
	"customer_name", "customer_address", "customer_phone", "status", "order_id",
}

var billColumns = "id, " + strings.Join(billWritable, ", ") + ", created_at, updated_at"

func billValues(b *model.Bill) ([]any, error) {
	items := b.Items
	if items == nil {
		items = []model.BillItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bill items: %w", err)
	}
	return []any{
		b.BillNo, b.UserID, b.UserPhone, b.InvoiceNumber, raw,
		b.Subtotal, b.TaxRate, b.TaxAmount, b.GSTType,
		b.CGSTRate, b.SGSTRate, b.IGSTRate, b.CGSTAmount, b.SGSTAmount, b.IGSTAmount,
		b.DiscountPercent, b.DiscountAmount, b.GrandTotal,
		b.CustomerName, b.CustomerAddress, b.CustomerPhone, b.Status, b.OrderID,
	}, nil
}

func scanBill(row rowScanner) (*model.Bill, error) {
	b := &model.Bill{}
	var items []byte
	err := row.Scan(
		&b.ID, &b.BillNo, &b.UserID, &b.UserPhone, &b.InvoiceNumber, &items,
		&b.Subtotal, &b.TaxRate, &b.TaxAmount, &b.GSTType,
		&b.CGSTRate, &b.SGSTRate, &b.IGSTRate, &b.CGSTAmount, &b.SGSTAmount, &b.IGSTAmount,
		&b.DiscountPercent, &b.DiscountAmount, &b.GrandTotal,
		&b.CustomerName, &b.CustomerAddress, &b.CustomerPhone, &b.Status, &b.OrderID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Items = []model.BillItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, fmt.Errorf("failed to decode bill items: %w", err)
		}
	}
	return b, nil
}

// Create inserts a bill. The id is generated when empty.
func (r *billRepository) Create(ctx context.Context, b *model.Bill) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	values, err := billValues(b)
	if err != nil {
		return err
	}
	sql := fmt.Sprintf(`INSERT INTO bills (id, %s) VALUES ($1, %s) RETURNING created_at, updated_at`,
		strings.Join(billWritable, ", "), placeholders(len(billWritable), 2))
	args := append([]any{b.ID}, values...)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// List returns the bills in scope, newest first.
func (r *billRepository) List(ctx context.Context, scope OwnerFilter) ([]model.Bill, error) {
	bills := []model.Bill{}
	if scope.MatchesNothing() {
		return bills, nil
	}
	where, args := scope.Where(1)
	rows, err := r.db.Query(ctx, `SELECT `+billColumns+` FROM bills WHERE `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill rows: %w", err)
	}
	return bills, nil
}

func (r *billRepository) Find(ctx context.Context, id string, scope OwnerFilter) (*model.Bill, error) {
	if scope.MatchesNothing() {
		return nil, ErrNotFound
	}
	where, args := scope.Where(2)
	sql := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 AND ` + where
	b, err := scanBill(r.db.QueryRow(ctx, sql, append([]any{id}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill by ID: %w", err)
	}
	return b, nil
}

// Update writes every column of b. The row must still be in scope.
func (r *billRepository) Update(ctx context.Context, b *model.Bill, scope OwnerFilter) error {
	if scope.MatchesNothing() {
		return ErrNotFound
	}
	values, err := billValues(b)
	if err != nil {
		return err
	}
	n := len(billWritable)
	where, scopeArgs := scope.Where(n + 2)
	sql := fmt.Sprintf(`UPDATE bills SET %s WHERE id = $%d AND %s RETURNING updated_at`,
		assignments(billWritable, 1), n+1, where)
	args := append(append(values, b.ID), scopeArgs...)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return nil
}

func (r *billRepository) Delete(ctx context.Context, id string, scope OwnerFilter) error {
	if scope.MatchesNothing() {
		return ErrNotFound
	}
	where, args := scope.Where(2)
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM bills WHERE id = $1 AND `+where, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
