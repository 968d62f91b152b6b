package alpaca

// marketdata.go — feed de market data sobre el data API de Alpaca.
//
// Implementa ports.MarketDataFeed y ports.MarketClock. Equities y crypto
// viven en endpoints distintos; el feed decide por la clase del instrumento.

import (
	"context"
	"fmt"
	"net/url"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// Feed implementa ports.MarketDataFeed.
type Feed struct {
	client *Client
}

// NewFeed crea un Feed sobre el client dado.
func NewFeed(client *Client) *Feed {
	return &Feed{client: client}
}

// FetchLatestBar devuelve el último bar cerrado del instrumento. Los retries
// ante fallos transitorios ya los hace el client; un error aquí significa
// que el presupuesto de reintentos se agotó y el ciclo debe saltar este símbolo.
func (f *Feed) FetchLatestBar(ctx context.Context, inst domain.Instrument) (domain.Bar, error) {
	switch inst.Class {
	case domain.ClassCrypto:
		return f.latestCryptoBar(ctx, inst.Symbol)
	default:
		return f.latestStockBar(ctx, inst.Symbol)
	}
}

func (f *Feed) latestStockBar(ctx context.Context, symbol string) (domain.Bar, error) {
	var resp latestStockBarResponse
	path := fmt.Sprintf("/v2/stocks/%s/bars/latest", url.PathEscape(symbol))
	if err := f.client.getData(ctx, path, &resp); err != nil {
		return domain.Bar{}, fmt.Errorf("alpaca.Feed: latest bar %s: %w", symbol, err)
	}
	return toDomainBar(symbol, resp.Bar), nil
}

func (f *Feed) latestCryptoBar(ctx context.Context, symbol string) (domain.Bar, error) {
	var resp latestCryptoBarsResponse
	path := "/v1beta3/crypto/us/latest/bars?symbols=" + url.QueryEscape(symbol)
	if err := f.client.getData(ctx, path, &resp); err != nil {
		return domain.Bar{}, fmt.Errorf("alpaca.Feed: latest crypto bar %s: %w", symbol, err)
	}
	wb, ok := resp.Bars[symbol]
	if !ok {
		return domain.Bar{}, fmt.Errorf("alpaca.Feed: no bar returned for %s", symbol)
	}
	return toDomainBar(symbol, wb), nil
}

func toDomainBar(symbol string, wb wireBar) domain.Bar {
	return domain.Bar{
		Symbol:    symbol,
		Timestamp: wb.Timestamp.UTC(),
		Open:      wb.Open,
		High:      wb.High,
		Low:       wb.Low,
		Close:     wb.Close,
		Volume:    wb.Volume,
	}
}

// Clock implementa ports.MarketClock sobre GET /v2/clock.
// Para baskets crypto no se usa: el mercado nunca cierra.
type Clock struct {
	client *Client
}

// NewClock crea un Clock sobre el client dado.
func NewClock(client *Client) *Clock {
	return &Clock{client: client}
}

// IsOpen consulta si el mercado de equities está abierto ahora mismo.
func (c *Clock) IsOpen(ctx context.Context) (bool, error) {
	var resp clockResponse
	if err := c.client.getTrading(ctx, "/v2/clock", &resp); err != nil {
		return false, fmt.Errorf("alpaca.Clock: %w", err)
	}
	return resp.IsOpen, nil
}
