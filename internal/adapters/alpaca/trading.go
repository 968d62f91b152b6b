package alpaca

// trading.go — ejecución real de órdenes contra el trading API de Alpaca.
//
// Implementa ports.OrderExecutor. Todas las órdenes son market: la estrategia
// decide cantidades, no precios. Cada orden lleva un client_order_id propio
// para que un reintento nunca se convierta en una orden duplicada.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

const (
	fillPollInterval = 500 * time.Millisecond
	fillPollAttempts = 20 // ~10s antes de rendirse
)

// Trader implementa ports.OrderExecutor sobre el trading API.
type Trader struct {
	client *Client
	crypto bool // crypto no admite time_in_force=day
}

// NewTrader crea un Trader. crypto=true para baskets de pares crypto.
func NewTrader(client *Client, crypto bool) *Trader {
	return &Trader{client: client, crypto: crypto}
}

// VerifyAccount comprueba las credenciales contra GET /v2/account.
// Se llama una vez en el arranque: mejor morir ahí que en el primer rebalanceo.
func (t *Trader) VerifyAccount(ctx context.Context) error {
	var acct accountResponse
	if err := t.client.getTrading(ctx, "/v2/account", &acct); err != nil {
		return fmt.Errorf("alpaca.Trader: verify account: %w", err)
	}
	if acct.TradeBlocked {
		return fmt.Errorf("alpaca.Trader: account %s has trading blocked", acct.AccountNumber)
	}
	slog.Info("alpaca account verified",
		"account", acct.AccountNumber,
		"status", acct.Status,
		"buying_power", acct.BuyingPower,
	)
	return nil
}

// Submit envía una orden market por el delta del intent y espera el fill.
// Si devuelve error la posición local no debe tocarse: o la orden nunca
// entró, o quedó viva en el broker y el ID ya está logueado.
func (t *Trader) Submit(ctx context.Context, intent domain.OrderIntent) (domain.Fill, error) {
	if intent.Delta == 0 {
		return domain.Fill{}, errors.New("alpaca.Trader: zero delta intent")
	}

	side := "buy"
	qty := intent.Delta
	if qty < 0 {
		side = "sell"
		qty = -qty
	}
	tif := "day"
	if t.crypto {
		tif = "gtc"
	}

	req := orderRequest{
		Symbol:        intent.Symbol,
		Qty:           strconv.Itoa(qty),
		Side:          side,
		Type:          "market",
		TimeInForce:   tif,
		ClientOrderID: uuid.NewString(),
	}

	var resp orderResponse
	if err := t.client.post(ctx, "/v2/orders", req, &resp); err != nil {
		return domain.Fill{}, fmt.Errorf("alpaca.Trader: submit %s %s x%d: %w", side, intent.Symbol, qty, err)
	}

	filled, err := t.awaitFill(ctx, resp.ID)
	if err != nil {
		slog.Error("order not confirmed filled, leaving position unchanged",
			"order_id", resp.ID, "symbol", intent.Symbol, "err", err)
		return domain.Fill{}, fmt.Errorf("alpaca.Trader: await fill %s: %w", resp.ID, err)
	}

	price := parsePrice(filled.FilledAvgPrice)
	if price <= 0 {
		price = intent.Price
	}
	signedQty := qty
	if side == "sell" {
		signedQty = -qty
	}
	return domain.Fill{
		OrderID:   filled.ID,
		Symbol:    intent.Symbol,
		Quantity:  signedQty,
		Price:     price,
		Timestamp: time.Now().UTC(),
	}, nil
}

// awaitFill sondea la orden hasta verla filled o agotar el presupuesto.
func (t *Trader) awaitFill(ctx context.Context, orderID string) (orderResponse, error) {
	var resp orderResponse
	for attempt := 0; attempt < fillPollAttempts; attempt++ {
		if err := t.client.getTrading(ctx, "/v2/orders/"+orderID, &resp); err != nil {
			return orderResponse{}, err
		}
		switch resp.Status {
		case "filled":
			return resp, nil
		case "canceled", "expired", "rejected":
			return orderResponse{}, fmt.Errorf("order %s terminal status %q", orderID, resp.Status)
		}

		select {
		case <-ctx.Done():
			return orderResponse{}, ctx.Err()
		case <-time.After(fillPollInterval):
		}
	}
	return orderResponse{}, fmt.Errorf("order %s still %q after %d polls", orderID, resp.Status, fillPollAttempts)
}

// CancelOpen cancela todas las órdenes abiertas de la cuenta. Las que no se
// dejan cancelar quedan logueadas con su ID para reconciliación manual.
func (t *Trader) CancelOpen(ctx context.Context) error {
	var open []orderResponse
	if err := t.client.getTrading(ctx, "/v2/orders?status=open", &open); err != nil {
		return fmt.Errorf("alpaca.Trader: list open orders: %w", err)
	}
	if len(open) == 0 {
		return nil
	}

	var failed int
	for _, o := range open {
		if err := t.client.del(ctx, "/v2/orders/"+o.ID); err != nil {
			failed++
			slog.Error("could not cancel order, reconcile manually",
				"order_id", o.ID, "symbol", o.Symbol, "side", o.Side, "err", err)
			continue
		}
		slog.Info("cancelled open order", "order_id", o.ID, "symbol", o.Symbol)
	}
	if failed > 0 {
		return fmt.Errorf("alpaca.Trader: %d of %d open orders could not be cancelled", failed, len(open))
	}
	return nil
}

func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
