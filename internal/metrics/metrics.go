// Package metrics exposes the bot's Prometheus collectors, served at /metrics
// by the HTTP server started in main.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ticks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_ticks_total",
			Help: "Decision ticks by result",
		},
		[]string{"result"}, // ok|error|skipped
	)

	ordersOpened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_orders_opened_total",
			Help: "Buy lots recorded in the ledger",
		},
	)

	ordersClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_orders_closed_total",
			Help: "Orders closed by profitable exits",
		},
	)

	realizedProfit = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_realized_profit_total",
			Help: "Cumulative realized profit in quote currency since start",
		},
	)

	openOrders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_open_orders",
			Help: "Open orders after the last tick",
		},
	)

	lastPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_last_price",
			Help: "Last observed price of the traded symbol",
		},
	)

	paused = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_paused",
			Help: "1 while the scheduler is paused",
		},
	)

	snapshotsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_snapshots_dropped_total",
			Help: "Chart snapshots dropped because the feed queue was full",
		},
	)
)

func init() {
	prometheus.MustRegister(ticks, ordersOpened, ordersClosed, realizedProfit)
	prometheus.MustRegister(openOrders, lastPrice, paused, snapshotsDropped)
}

func IncTick(result string) { ticks.WithLabelValues(result).Inc() }

func IncOrdersOpened() { ordersOpened.Inc() }

func AddOrdersClosed(n int) { ordersClosed.Add(float64(n)) }

func AddRealizedProfit(v float64) { realizedProfit.Add(v) }

func SetOpenOrders(n int) { openOrders.Set(float64(n)) }

func SetLastPrice(p float64) { lastPrice.Set(p) }

func IncSnapshotsDropped() { snapshotsDropped.Inc() }

func SetPaused(isPaused bool) {
	if isPaused {
		paused.Set(1)
	} else {
		paused.Set(0)
	}
}
