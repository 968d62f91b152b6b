package config

import (
	"fmt"
	"sort"
	"strings"
)

// presets.go — baskets predefinidos listos para arrancar sin YAML.
//
// Un preset solo rellena la parte de trading; el resto de la config
// (storage, log, api) sigue el camino normal. Los flags de CLI siempre
// ganan al preset, y el preset gana a los defaults.

// Preset es un basket predefinido con su tuning.
type Preset struct {
	Description string
	Trading     TradingConfig
}

var presets = map[string]Preset{
	"treasury": {
		Description: "Rotación de duración en treasuries (IEI/IEF/TLH/TLT)",
		Trading: TradingConfig{
			Tickers:         []string{"IEI", "IEF", "TLH", "TLT"},
			Strategy:        "momentum",
			MinWarmupBars:   90,
			PositionSize:    1500,
			MaxPosition:     25,
			RebalancePeriod: 120,
			PollSeconds:     60,
			LongShort:       true,
		},
	},
	"risk": {
		Description: "Basket risk-on/risk-off entre clases de activos",
		Trading: TradingConfig{
			Tickers:         []string{"QQQ", "HYG", "EEM", "TLT", "GLD", "UUP"},
			Strategy:        "momentum",
			MinWarmupBars:   45,
			PositionSize:    800,
			MaxPosition:     15,
			RebalancePeriod: 45,
			PollSeconds:     60,
			LongShort:       true,
		},
	},
	"sector": {
		Description: "Rotación de sectores US (SPDR)",
		Trading: TradingConfig{
			Tickers:         []string{"XLK", "XLF", "XLE", "XLV", "XLI", "XLU"},
			Strategy:        "momentum",
			MinWarmupBars:   60,
			PositionSize:    1000,
			MaxPosition:     20,
			RebalancePeriod: 60,
			PollSeconds:     60,
			LongShort:       false,
		},
	},
	"faang": {
		Description: "Momentum long-only en megacaps",
		Trading: TradingConfig{
			Tickers:         []string{"META", "AAPL", "AMZN", "NFLX", "GOOGL"},
			Strategy:        "momentum",
			MinWarmupBars:   30,
			PositionSize:    1200,
			MaxPosition:     10,
			RebalancePeriod: 30,
			PollSeconds:     60,
			LongShort:       false,
		},
	},
	"crypto": {
		Description: "Pares crypto 24/7, sin market clock",
		Trading: TradingConfig{
			Tickers:         []string{"BTC/USD", "ETH/USD", "LTC/USD"},
			Strategy:        "momentum",
			MinWarmupBars:   30,
			PositionSize:    500,
			MaxPosition:     5,
			RebalancePeriod: 30,
			PollSeconds:     30,
			LongShort:       true,
		},
	},
}

// ApplyPreset vuelca un preset sobre la config. Solo pisa los campos de
// trading; se llama ANTES de aplicar los flags para que estos ganen.
func ApplyPreset(cfg *Config, name string) error {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("config.ApplyPreset: unknown preset %q (available: %s)",
			name, strings.Join(PresetNames(), ", "))
	}
	cfg.Trading = p.Trading
	return nil
}

// PresetNames devuelve los nombres de preset disponibles, ordenados.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetDescription devuelve la descripción de un preset, o "" si no existe.
func PresetDescription(name string) string {
	return presets[strings.ToLower(name)].Description
}
