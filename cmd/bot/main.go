package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"tradebot/internal/config"
	delivery "tradebot/internal/delivery/http"
	deliveryws "tradebot/internal/delivery/websocket"
	"tradebot/internal/domain"
	"tradebot/internal/infrastructure/binance"
	"tradebot/internal/infrastructure/db"
	"tradebot/internal/infrastructure/fcm"
	"tradebot/internal/repository"
	"tradebot/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orders, cleanup, err := buildOrderRepository(ctx, cfg, log)
	if err != nil {
		log.Fatalf("failed to set up order ledger: %v", err)
	}
	defer cleanup()

	fcmClient, err := fcm.NewClient(log)
	if err != nil {
		log.Fatalf("failed to initialize FCM: %v", err)
	}
	tokens := repository.NewTokenRepository()
	notifier := usecase.NewNotifier(fcmClient, tokens, log)

	venue := buildVenue(cfg, log)

	trader := usecase.NewTrader(cfg, venue, orders, notifier, log)
	if err := trader.Init(ctx); err != nil {
		log.Fatalf("failed to initialize trader: %v", err)
	}

	scheduler := usecase.NewScheduler(trader, cfg.ParsedTickInterval, log)
	hub := deliveryws.NewHub(log)

	orderHandler := delivery.NewOrderHandler(orders, log)
	controlHandler := delivery.NewControlHandler(scheduler, log)
	tokenHandler := delivery.NewTokenHandler(tokens, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.Handle)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/orders/open", orderHandler.GetOpenOrders)
	mux.HandleFunc("/api/orders/history", orderHandler.GetHistory)
	mux.HandleFunc("/api/pause", controlHandler.Pause)
	mux.HandleFunc("/api/tokens/register", tokenHandler.RegisterToken)
	mux.HandleFunc("/api/tokens/unregister", tokenHandler.UnregisterToken)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		log.Infof("http server listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	go hub.Run(scheduler.Snapshots())

	log.WithFields(logrus.Fields{
		"symbol":   cfg.Symbol,
		"interval": cfg.ParsedTickInterval,
	}).Info("bot starting")

	scheduler.Run(ctx)

	// Context canceled: the scheduler has returned and closed the snapshot
	// feed. Drain the hub, then stop serving.
	hub.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}

	log.Info("bot stopped")
}

// buildOrderRepository returns the postgres ledger when a database URL is
// configured, and the in-memory ledger for database-less simulation runs.
func buildOrderRepository(ctx context.Context, cfg *config.Config, log *logrus.Logger) (domain.OrderRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		if !cfg.Simulation.Enabled {
			return nil, nil, errors.New("database_url is required outside simulation mode")
		}
		log.Warn("no database_url configured, using in-memory ledger")
		return repository.NewInMemoryOrderRepository(), func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfigFromEnv())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	log.Info("connected to postgres ledger")
	return repository.NewPostgresOrderRepository(pool), pool.Close, nil
}

func buildVenue(cfg *config.Config, log *logrus.Logger) domain.Venue {
	public := binance.NewClient("")

	if cfg.Simulation.Enabled {
		log.WithFields(logrus.Fields{
			"price":   cfg.Simulation.Price,
			"balance": cfg.Simulation.Balance,
		}).Info("running in simulation mode")
		return binance.NewSimulatedVenue(public, cfg.Simulation.Price, cfg.Simulation.Balance, log)
	}

	trading := binance.NewTradingClient(cfg.APIKey, cfg.APISecret, "")
	return binance.NewLiveVenue(public, trading, cfg.FeeScale)
}
