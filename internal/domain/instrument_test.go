package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAssetClass(t *testing.T) {
	tests := []struct {
		name    string
		symbols []string
		want    AssetClass
		wantErr bool
	}{
		{"equities", []string{"AAPL", "MSFT"}, ClassEquity, false},
		{"crypto", []string{"BTC/USD", "ETH/USD"}, ClassCrypto, false},
		{"mixed", []string{"AAPL", "BTC/USD"}, ClassEquity, true},
		{"empty", nil, ClassEquity, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectAssetClass(tt.symbols)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewBasket_SortedAndDeduplicated(t *testing.T) {
	basket, err := NewBasket([]string{"XLK", "XLE", "XLK", " XLF "})
	require.NoError(t, err)

	require.Len(t, basket, 3)
	assert.Equal(t, "XLE", basket[0].Symbol)
	assert.Equal(t, "XLF", basket[1].Symbol)
	assert.Equal(t, "XLK", basket[2].Symbol)
	assert.Equal(t, ClassEquity, basket[0].Class)
}

func TestNewBasket_RejectsEmpty(t *testing.T) {
	_, err := NewBasket(nil)
	assert.Error(t, err)

	_, err = NewBasket([]string{"", "  "})
	assert.Error(t, err)
}
