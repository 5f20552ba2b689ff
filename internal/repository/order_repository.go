package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateBatch(ctx context.Context, orders []*domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `o.id, o.customer_id, o.product_id, o.status, o.note, o.created_at, o.updated_at, p.name
        FROM orders o JOIN products p ON p.id = o.product_id`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (customer_id, product_id, status, note)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.CustomerID,
		order.ProductID,
		order.Status,
		order.Note,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

// CreateBatch inserts all orders inside one transaction. Either every row
// lands or none does.
func (r *orderRepository) CreateBatch(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO orders (customer_id, product_id, status, note)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	for _, order := range orders {
		if err := tx.QueryRow(ctx, query,
			order.CustomerID,
			order.ProductID,
			order.Status,
			order.Note,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET product_id=$1, status=$2, note=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		order.ProductID,
		order.Status,
		order.Note,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` WHERE o.id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.ProductID,
		&order.Status,
		&order.Note,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.ProductName,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` WHERE o.customer_id=$1 ORDER BY o.created_at`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + orderColumns + ` ORDER BY o.created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (r *orderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status=$1`, status).Scan(&count)
	return count, err
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.ProductID,
			&order.Status,
			&order.Note,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.ProductName,
		); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
