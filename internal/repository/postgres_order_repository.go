package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"tradebot/internal/domain"
)

// PostgresOrderRepository stores buy lots in Postgres. Open orders have
// status='open' and null sell columns; a close fills all of them in one
// statement.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

func (r *PostgresOrderRepository) Insert(ctx context.Context, buyTime time.Time, quantity, buyPrice, targetPrice float64) (*domain.Order, error) {
	order := &domain.Order{
		ID:             uuid.NewString(),
		BuyTime:        buyTime,
		Quantity:       quantity,
		BuyPrice:       buyPrice,
		TargetPrice:    targetPrice,
		ValuePurchased: quantity * buyPrice,
		Status:         domain.OrderStatusOpen,
	}

	_, err := r.pool.Exec(ctx, `
		insert into orders(
			id, buy_time, quantity, buy_price, target_price, value_purchased,
			sell_price, value_end, profit, sell_time, status
		) values ($1,$2,$3,$4,$5,$6,null,null,null,null,$7)
	`,
		order.ID,
		order.BuyTime,
		order.Quantity,
		order.BuyPrice,
		order.TargetPrice,
		order.ValuePurchased,
		order.Status,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "insert order", Err: err}
	}
	return order, nil
}

func (r *PostgresOrderRepository) ListOpen(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `
		select id, buy_time, quantity, buy_price, target_price, value_purchased,
			sell_price, value_end, profit, sell_time, status
		from orders
		where status = 'open'
		order by buy_time
	`)
}

func (r *PostgresOrderRepository) ListClosed(ctx context.Context, from time.Time) ([]*domain.Order, error) {
	return r.list(ctx, `
		select id, buy_time, quantity, buy_price, target_price, value_purchased,
			sell_price, value_end, profit, sell_time, status
		from orders
		where status = 'closed' and sell_time is not null and sell_time >= $1
		order by sell_time desc
	`, from)
}

func (r *PostgresOrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list orders", Err: err}
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, &domain.PersistenceError{Op: "scan order", Err: scanErr}
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// CloseBatch closes each order with a single guarded update that computes the
// end value and profit from the stored quantity and purchase value. The
// status='open' guard makes a retry with the same ids a no-op, and a failure
// on one id does not stop the rest; the first failure is reported after the
// whole batch has been attempted.
func (r *PostgresOrderRepository) CloseBatch(ctx context.Context, ids []string, sellPrice float64, sellTime time.Time) (domain.CloseResult, error) {
	var result domain.CloseResult
	var firstErr error

	for _, id := range ids {
		row := r.pool.QueryRow(ctx, `
			update orders
			set status = 'closed',
				sell_price = $2,
				value_end = $2 * quantity,
				profit = $2 * quantity - value_purchased,
				sell_time = $3
			where id = $1 and status = 'open'
			returning profit
		`, id, sellPrice, sellTime)

		var profit float64
		if err := row.Scan(&profit); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Unknown or already closed: skip, keeping the call retryable.
				continue
			}
			if firstErr == nil {
				firstErr = &domain.PersistenceError{Op: "close order " + id, Err: err}
			}
			continue
		}

		result.ClosedIDs = append(result.ClosedIDs, id)
		result.TotalProfit += profit
	}

	return result, firstErr
}

// Helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var o domain.Order
	var sellPrice pgtype.Float8
	var valueEnd pgtype.Float8
	var profit pgtype.Float8
	var sellTime pgtype.Timestamptz

	if err := s.Scan(
		&o.ID,
		&o.BuyTime,
		&o.Quantity,
		&o.BuyPrice,
		&o.TargetPrice,
		&o.ValuePurchased,
		&sellPrice,
		&valueEnd,
		&profit,
		&sellTime,
		&o.Status,
	); err != nil {
		return nil, err
	}

	if sellPrice.Valid {
		v := sellPrice.Float64
		o.SellPrice = &v
	}
	if valueEnd.Valid {
		v := valueEnd.Float64
		o.ValueEnd = &v
	}
	if profit.Valid {
		v := profit.Float64
		o.Profit = &v
	}
	if sellTime.Valid {
		v := sellTime.Time
		o.SellTime = &v
	}

	return &o, nil
}

// compile-time check
var _ domain.OrderRepository = (*PostgresOrderRepository)(nil)
