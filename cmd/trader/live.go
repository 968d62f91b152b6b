package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/config"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/adapters/alpaca"
)

// confirmLive verifica las credenciales contra el broker y da al usuario una
// ventana de 5 segundos para abortar antes de operar con dinero real.
// Devuelve (nil, nil) si el usuario abortó durante la cuenta atrás.
func confirmLive(ctx context.Context, client *alpaca.Client, cfg *config.Config, isCrypto bool) (*alpaca.Trader, error) {
	trader := alpaca.NewTrader(client, isCrypto)

	if err := trader.VerifyAccount(ctx); err != nil {
		return nil, fmt.Errorf("credential check failed: %w", err)
	}

	fmt.Printf("\n!!  LIVE TRADING MODE -- REAL ORDERS WILL BE SUBMITTED\n")
	fmt.Printf("    Basket: %v | Position size: $%.0f | Max position: %d\n",
		cfg.Trading.Tickers, cfg.Trading.PositionSize, cfg.Trading.MaxPosition)
	fmt.Printf("    Press Ctrl+C within 5 seconds to abort...\n\n")

	abortTimer := time.NewTimer(5 * time.Second)
	defer abortTimer.Stop()
	select {
	case <-abortTimer.C:
	case <-ctx.Done():
		slog.Info("live trading aborted by user")
		return nil, nil
	}

	return trader, nil
}
