package domain

import (
	"context"
	"time"
)

// Order represents one buy lot and its eventual sell outcome.
// While the order is open, SellPrice, ValueEnd, Profit and SellTime are nil;
// a close populates all four together.
type Order struct {
	ID             string      `json:"id"`
	BuyTime        time.Time   `json:"buyTime"`
	Quantity       float64     `json:"quantity"`
	BuyPrice       float64     `json:"buyPrice"`
	TargetPrice    float64     `json:"targetPrice"`
	ValuePurchased float64     `json:"valuePurchased"`
	SellPrice      *float64    `json:"sellPrice,omitempty"`
	ValueEnd       *float64    `json:"valueEnd,omitempty"`
	Profit         *float64    `json:"profit,omitempty"`
	SellTime       *time.Time  `json:"sellTime,omitempty"`
	Status         OrderStatus `json:"status"`
}

type OrderStatus string

const (
	OrderStatusOpen   OrderStatus = "open"
	OrderStatusClosed OrderStatus = "closed"
)

// CloseResult reports which orders a CloseBatch call actually closed and the
// realized profit accumulated across them.
type CloseResult struct {
	ClosedIDs   []string `json:"closedIds"`
	TotalProfit float64  `json:"totalProfit"`
}

// OrderRepository is the persisted ledger of buy lots. Orders are never
// deleted in normal operation; an open order is closed exactly once.
type OrderRepository interface {
	// Insert creates an open order and assigns its id. ValuePurchased is
	// computed here, at creation, and never recomputed afterwards.
	Insert(ctx context.Context, buyTime time.Time, quantity, buyPrice, targetPrice float64) (*Order, error)

	// ListOpen returns all orders with status open.
	ListOpen(ctx context.Context) ([]*Order, error)

	// ListClosed returns orders closed at or after the given time.
	ListClosed(ctx context.Context, from time.Time) ([]*Order, error)

	// CloseBatch closes every given open order at sellPrice, setting status,
	// sell price, end value, profit and sell time in one atomic step per
	// order. Ids that are unknown or already closed are skipped, so a retry
	// with the same arguments is a no-op. One order's failure does not block
	// the others.
	CloseBatch(ctx context.Context, ids []string, sellPrice float64, sellTime time.Time) (CloseResult, error)
}
