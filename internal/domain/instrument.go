package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AssetClass distingue los dos tipos de instrumento que soporta el engine.
type AssetClass int

const (
	ClassEquity AssetClass = iota
	ClassCrypto
)

// String devuelve el nombre legible de la clase de activo.
func (c AssetClass) String() string {
	if c == ClassCrypto {
		return "crypto"
	}
	return "equity"
}

// Instrument es un símbolo tradeable. Inmutable una vez arranca el engine.
type Instrument struct {
	Symbol string
	Class  AssetClass
}

// DetectAssetClass infiere la clase de activo de un basket de símbolos.
// Los símbolos crypto llevan "/" (BTC/USD); los de equities no (AAPL).
// Mezclar ambos tipos en un mismo basket es un error de configuración.
func DetectAssetClass(symbols []string) (AssetClass, error) {
	crypto := 0
	for _, s := range symbols {
		if strings.Contains(s, "/") {
			crypto++
		}
	}
	if crypto > 0 && crypto < len(symbols) {
		return ClassEquity, fmt.Errorf(
			"mixed asset types: %d crypto and %d equity symbols in one basket",
			crypto, len(symbols)-crypto)
	}
	if crypto > 0 {
		return ClassCrypto, nil
	}
	return ClassEquity, nil
}

// NewBasket construye el basket de instrumentos a partir de los símbolos dados.
// El basket queda ordenado por símbolo para que todos los recorridos
// posteriores (fetch, ranking, intents) sean deterministas.
func NewBasket(symbols []string) ([]Instrument, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("basket is empty")
	}
	class, err := DetectAssetClass(symbols)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(symbols))
	basket := make([]Instrument, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		basket = append(basket, Instrument{Symbol: s, Class: class})
	}
	if len(basket) == 0 {
		return nil, fmt.Errorf("basket is empty")
	}

	sort.Slice(basket, func(i, j int) bool { return basket[i].Symbol < basket[j].Symbol })
	return basket, nil
}
