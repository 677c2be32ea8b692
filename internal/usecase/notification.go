package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"tradebot/internal/domain"
	"tradebot/internal/infrastructure/fcm"
	"tradebot/internal/repository"
)

// Notifier pushes trade alerts to registered devices. A nil or disabled FCM
// client turns every call into a no-op.
type Notifier struct {
	fcm    *fcm.Client
	tokens *repository.TokenRepository
	log    *logrus.Logger
}

func NewNotifier(fcmClient *fcm.Client, tokens *repository.TokenRepository, log *logrus.Logger) *Notifier {
	return &Notifier{fcm: fcmClient, tokens: tokens, log: log}
}

func (n *Notifier) enabled() bool {
	return n != nil && n.fcm != nil && n.fcm.IsEnabled() && n.tokens.GetTokenCount() > 0
}

// OrderOpened announces a new buy lot.
func (n *Notifier) OrderOpened(ctx context.Context, symbol string, order *domain.Order) {
	if !n.enabled() {
		return
	}

	title := fmt.Sprintf("Bought %s", symbol)
	body := fmt.Sprintf("%.8f @ %.2f, target %.2f", order.Quantity, order.BuyPrice, order.TargetPrice)
	data := map[string]string{
		"type":    "order_opened",
		"orderId": order.ID,
	}

	if err := n.fcm.SendMulticast(ctx, n.tokens.GetAllTokens(), title, body, data); err != nil {
		n.log.WithError(err).Warn("failed to send buy notification")
	}
}

// OrdersClosed announces a batch exit with its realized profit.
func (n *Notifier) OrdersClosed(ctx context.Context, symbol string, result domain.CloseResult, sellPrice float64) {
	if !n.enabled() || len(result.ClosedIDs) == 0 {
		return
	}

	title := fmt.Sprintf("Sold %s", symbol)
	body := fmt.Sprintf("closed %d order(s) @ %.2f, profit %.2f", len(result.ClosedIDs), sellPrice, result.TotalProfit)
	data := map[string]string{
		"type":   "orders_closed",
		"profit": fmt.Sprintf("%.2f", result.TotalProfit),
	}

	if err := n.fcm.SendMulticast(ctx, n.tokens.GetAllTokens(), title, body, data); err != nil {
		n.log.WithError(err).Warn("failed to send sell notification")
	}
}
