package alpaca

import "time"

// types.go — structs de wire del API de Alpaca.
// Solo los campos que consumimos; el resto del payload se ignora al decodificar.

// wireBar es un bar OHLCV tal como lo devuelve el data API.
type wireBar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
}

// latestStockBarResponse es GET /v2/stocks/{symbol}/bars/latest.
type latestStockBarResponse struct {
	Symbol string  `json:"symbol"`
	Bar    wireBar `json:"bar"`
}

// latestCryptoBarsResponse es GET /v1beta3/crypto/us/latest/bars.
type latestCryptoBarsResponse struct {
	Bars map[string]wireBar `json:"bars"`
}

// clockResponse es GET /v2/clock.
type clockResponse struct {
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// accountResponse es GET /v2/account. Usado para verificar credenciales
// en el arranque y para el log de la sesión live.
type accountResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	Cash          string `json:"cash"`
	BuyingPower   string `json:"buying_power"`
	TradeBlocked  bool   `json:"trading_blocked"`
}

// orderRequest es el body de POST /v2/orders. Siempre órdenes market DAY;
// la estrategia no trabaja con límites.
type orderRequest struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	Side          string `json:"side"` // "buy" | "sell"
	Type          string `json:"type"` // "market"
	TimeInForce   string `json:"time_in_force"`
	ClientOrderID string `json:"client_order_id"`
}

// orderResponse es la respuesta de POST /v2/orders y GET /v2/orders/{id}.
type orderResponse struct {
	ID             string `json:"id"`
	ClientOrderID  string `json:"client_order_id"`
	Symbol         string `json:"symbol"`
	Status         string `json:"status"`
	Side           string `json:"side"`
	FilledQty      string `json:"filled_qty"`
	FilledAvgPrice string `json:"filled_avg_price"`
}
