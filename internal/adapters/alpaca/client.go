package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

const (
	defaultPaperBase = "https://paper-api.alpaca.markets"
	defaultLiveBase  = "https://api.alpaca.markets"
	defaultDataBase  = "https://data.alpaca.markets"

	// Rate limits al 60% del límite documentado (200 req/min por cuenta).
	// Data y trading comparten cuota, así que cada limiter se queda corto
	// a propósito: 200/min → 120/min → 2/s.
	tradingRatePerSec = 2
	dataRatePerSec    = 2

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Credentials son las claves de la API de Alpaca. Viajan solo en headers,
// nunca en query strings ni en ficheros de config.
type Credentials struct {
	KeyID     string
	SecretKey string
}

// Client es el HTTP client de Alpaca con rate limiting y retries.
// Un mismo Client sirve para los endpoints de trading y de market data.
type Client struct {
	http           *http.Client
	tradingBase    string
	dataBase       string
	creds          Credentials
	tradingLimiter *rate.Limiter
	dataLimiter    *rate.Limiter
}

// NewClient crea un Client. Con live=false apunta al entorno paper de Alpaca.
// tradingBase y dataBase vacíos usan los URLs de producción.
func NewClient(creds Credentials, live bool, tradingBase, dataBase string) *Client {
	if tradingBase == "" {
		if live {
			tradingBase = defaultLiveBase
		} else {
			tradingBase = defaultPaperBase
		}
	}
	if dataBase == "" {
		dataBase = defaultDataBase
	}
	return &Client{
		http:           &http.Client{Timeout: 10 * time.Second},
		tradingBase:    tradingBase,
		dataBase:       dataBase,
		creds:          creds,
		tradingLimiter: rate.NewLimiter(tradingRatePerSec, 5),
		dataLimiter:    rate.NewLimiter(dataRatePerSec, 10),
	}
}

// getTrading hace un GET contra el API de trading.
func (c *Client) getTrading(ctx context.Context, path string, out any) error {
	return c.get(ctx, c.tradingLimiter, c.tradingBase+path, out)
}

// getData hace un GET contra el API de market data.
func (c *Client) getData(ctx context.Context, path string, out any) error {
	return c.get(ctx, c.dataLimiter, c.dataBase+path, out)
}

// get hace un GET autenticado con rate limiting y retries.
func (c *Client) get(ctx context.Context, limiter *rate.Limiter, url string, out any) error {
	return c.doWithRetry(ctx, limiter, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)
		return c.http.Do(req)
	}, out)
}

// post hace un POST JSON autenticado contra el API de trading.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doWithRetry(ctx, c.tradingLimiter, func() (*http.Response, error) {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tradingBase+path, bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		c.setHeaders(req)
		return c.http.Do(req)
	}, out)
}

// del hace un DELETE autenticado contra el API de trading.
func (c *Client) del(ctx context.Context, path string) error {
	return c.doWithRetry(ctx, c.tradingLimiter, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.tradingBase+path, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)
		return c.http.Do(req)
	}, nil)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("APCA-API-KEY-ID", c.creds.KeyID)
	req.Header.Set("APCA-API-SECRET-KEY", c.creds.SecretKey)
}

// doWithRetry ejecuta la función con backoff exponencial, respetando el
// contexto. 401/403 no se reintentan: credenciales malas no mejoran esperando.
func (c *Client) doWithRetry(ctx context.Context, limiter *rate.Limiter, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return fmt.Errorf("alpaca: status %d: %w", resp.StatusCode, domain.ErrUnauthorized)

		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			slog.Warn("rate limited by alpaca", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode >= 500:
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		if out == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil
		}
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
