package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tradebot/internal/domain"
)

// InMemoryOrderRepository keeps the ledger in memory. It backs simulation
// runs without a database and the engine tests. The mutex matters even with
// serialized ticks because the HTTP handlers read it concurrently.
type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

func (r *InMemoryOrderRepository) Insert(_ context.Context, buyTime time.Time, quantity, buyPrice, targetPrice float64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order := &domain.Order{
		ID:             uuid.NewString(),
		BuyTime:        buyTime,
		Quantity:       quantity,
		BuyPrice:       buyPrice,
		TargetPrice:    targetPrice,
		ValuePurchased: quantity * buyPrice,
		Status:         domain.OrderStatusOpen,
	}
	r.orders[order.ID] = order

	copied := *order
	return &copied, nil
}

func (r *InMemoryOrderRepository) ListOpen(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	open := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if o.Status == domain.OrderStatusOpen {
			copied := *o
			open = append(open, &copied)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].BuyTime.Before(open[j].BuyTime) })
	return open, nil
}

func (r *InMemoryOrderRepository) ListClosed(_ context.Context, from time.Time) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	closed := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if o.Status == domain.OrderStatusClosed && o.SellTime != nil && !o.SellTime.Before(from) {
			copied := *o
			closed = append(closed, &copied)
		}
	}
	sort.Slice(closed, func(i, j int) bool { return closed[i].SellTime.After(*closed[j].SellTime) })
	return closed, nil
}

func (r *InMemoryOrderRepository) CloseBatch(_ context.Context, ids []string, sellPrice float64, sellTime time.Time) (domain.CloseResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result domain.CloseResult
	for _, id := range ids {
		o, exists := r.orders[id]
		if !exists || o.Status != domain.OrderStatusOpen {
			continue
		}

		valueEnd := sellPrice * o.Quantity
		profit := valueEnd - o.ValuePurchased
		price := sellPrice
		at := sellTime

		o.Status = domain.OrderStatusClosed
		o.SellPrice = &price
		o.ValueEnd = &valueEnd
		o.Profit = &profit
		o.SellTime = &at

		result.ClosedIDs = append(result.ClosedIDs, id)
		result.TotalProfit += profit
	}
	return result, nil
}

// compile-time check
var _ domain.OrderRepository = (*InMemoryOrderRepository)(nil)
