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

// BottleOrderRepository mirrors BillRepository for deposit-bottle orders.
type BottleOrderRepository interface {
	Create(ctx context.Context, o *model.BottleOrder) error
	List(ctx context.Context, scope OwnerFilter) ([]model.BottleOrder, error)
	Find(ctx context.Context, id string, scope OwnerFilter) (*model.BottleOrder, error)
	Update(ctx context.Context, o *model.BottleOrder, scope OwnerFilter) error
	Delete(ctx context.Context, id string, scope OwnerFilter) error
}

type bottleOrderRepository struct {
	db DB
}

func NewBottleOrderRepository(db DB) BottleOrderRepository {
	return &bottleOrderRepository{db: db}
}

var bottleOrderWritable = []string{
	"order_no", "user_id", "user_phone", "bill_id",
	"customer_name", "customer_phone", "customer_address", "items",
	"bottle_type", "quantity", "deposit_amount", "status",
	"order_date", "delivery_date", "return_date", "notes",
}

var bottleOrderColumns = "id, " + strings.Join(bottleOrderWritable, ", ") + ", created_at, updated_at"

func bottleOrderValues(o *model.BottleOrder) ([]any, error) {
	items := o.Items
	if items == nil {
		items = []model.BottleOrderItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}
	return []any{
		o.OrderNo, o.UserID, o.UserPhone, o.BillID,
		o.CustomerName, o.CustomerPhone, o.CustomerAddress, raw,
		o.BottleType, o.Quantity, o.DepositAmount, o.Status,
		o.OrderDate, o.DeliveryDate, o.ReturnDate, o.Notes,
	}, nil
}

func scanBottleOrder(row rowScanner) (*model.BottleOrder, error) {
	o := &model.BottleOrder{}
	var items []byte
	err := row.Scan(
		&o.ID, &o.OrderNo, &o.UserID, &o.UserPhone, &o.BillID,
		&o.CustomerName, &o.CustomerPhone, &o.CustomerAddress, &items,
		&o.BottleType, &o.Quantity, &o.DepositAmount, &o.Status,
		&o.OrderDate, &o.DeliveryDate, &o.ReturnDate, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Items = []model.BottleOrderItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}
	return o, nil
}

func (r *bottleOrderRepository) Create(ctx context.Context, o *model.BottleOrder) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	values, err := bottleOrderValues(o)
	if err != nil {
		return err
	}
	sql := fmt.Sprintf(`INSERT INTO bottle_orders (id, %s) VALUES ($1, %s) RETURNING created_at, updated_at`,
		strings.Join(bottleOrderWritable, ", "), placeholders(len(bottleOrderWritable), 2))
	args := append([]any{o.ID}, values...)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create bottle order: %w", err)
	}
	return nil
}

// List returns the orders in scope, latest order date first.
func (r *bottleOrderRepository) List(ctx context.Context, scope OwnerFilter) ([]model.BottleOrder, error) {
	orders := []model.BottleOrder{}
	if scope.MatchesNothing() {
		return orders, nil
	}
	where, args := scope.Where(1)
	sql := `SELECT ` + bottleOrderColumns + ` FROM bottle_orders WHERE ` + where + ` ORDER BY order_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bottle orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanBottleOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bottle order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bottle order rows: %w", err)
	}
	return orders, nil
}

func (r *bottleOrderRepository) Find(ctx context.Context, id string, scope OwnerFilter) (*model.BottleOrder, error) {
	if scope.MatchesNothing() {
		return nil, ErrNotFound
	}
	where, args := scope.Where(2)
	sql := `SELECT ` + bottleOrderColumns + ` FROM bottle_orders WHERE id = $1 AND ` + where
	o, err := scanBottleOrder(r.db.QueryRow(ctx, sql, append([]any{id}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bottle order by ID: %w", err)
	}
	return o, nil
}

func (r *bottleOrderRepository) Update(ctx context.Context, o *model.BottleOrder, scope OwnerFilter) error {
	if scope.MatchesNothing() {
		return ErrNotFound
	}
	values, err := bottleOrderValues(o)
	if err != nil {
		return err
	}
	n := len(bottleOrderWritable)
	where, scopeArgs := scope.Where(n + 2)
	sql := fmt.Sprintf(`UPDATE bottle_orders SET %s WHERE id = $%d AND %s RETURNING updated_at`,
		assignments(bottleOrderWritable, 1), n+1, where)
	args := append(append(values, o.ID), scopeArgs...)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update bottle order: %w", err)
	}
	return nil
}

func (r *bottleOrderRepository) Delete(ctx context.Context, id string, scope OwnerFilter) error {
	if scope.MatchesNothing() {
		return ErrNotFound
	}
	where, args := scope.Where(2)
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM bottle_orders WHERE id = $1 AND `+where, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to delete bottle order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
