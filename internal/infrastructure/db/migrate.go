package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the orders table if it does not exist. The schema is fixed
// and append/update-only: rows are inserted on buy and closed on sell, never
// deleted in normal operation.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists orders (
			id text primary key,
			buy_time timestamptz not null,
			quantity double precision not null,
			buy_price double precision not null,
			target_price double precision not null,
			value_purchased double precision not null,
			sell_price double precision null,
			value_end double precision null,
			profit double precision null,
			sell_time timestamptz null,
			status text not null
		);`,
		`create index if not exists orders_status_idx on orders(status);`,
		`create index if not exists orders_sell_time_idx on orders(sell_time);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
