package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/adapters/notify"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

func makeSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Cycle:      4,
		Timestamp:  time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
		WarmCount:  2,
		BasketSize: 2,
		Signals: []domain.Signal{
			{Symbol: "TLT", Score: 0.021, Rank: 1},
			{Symbol: "IEF", Score: -0.013, Rank: 2},
		},
		Positions: []domain.Position{
			{Symbol: "TLT", Quantity: 7, EntryPrice: 92.5},
		},
		Prices:     map[string]float64{"TLT": 92.5, "IEF": 96.2},
		Rebalanced: true,
		OrdersSent: 2,
	}
}

func TestConsole_CompactLine(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.Notify(context.Background(), makeSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "cycle 4")
	assert.Contains(t, out, "#1 TLT")
	assert.Contains(t, out, "#2 IEF")
	assert.Contains(t, out, "REBAL orders:2")
}

func TestConsole_CompactWarmup(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	snap := domain.Snapshot{
		Cycle:      1,
		Timestamp:  time.Now(),
		WarmCount:  0,
		BasketSize: 4,
	}
	require.NoError(t, n.Notify(context.Background(), snap))

	assert.Contains(t, buf.String(), "warmup 0/4")
}

func TestConsole_TableMode(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.Notify(context.Background(), makeSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "TLT")
	assert.Contains(t, out, "+0.0210")
	assert.Contains(t, out, "92.50")
	assert.Contains(t, out, "rebalanced (2 orders)")
}

func TestConsole_SessionSummary(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	n.PrintSessionSummary(domain.ModePaper, time.Now().Add(-90*time.Second), 42, 6, []domain.Position{
		{Symbol: "TLT", Quantity: 7, EntryPrice: 92.5},
		{Symbol: "IEF", Quantity: -4, EntryPrice: 96.2},
	})

	out := buf.String()
	assert.Contains(t, out, "SESSION SUMMARY [PAPER]")
	assert.Contains(t, out, "Cycles:   42")
	assert.Contains(t, out, "Orders:   6")
	assert.Contains(t, out, "TLT      +7 @ 92.50")
	assert.Contains(t, out, "IEF      -4 @ 96.20")
}

func TestConsole_SessionSummaryFlat(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	n.PrintSessionSummary(domain.ModeLive, time.Now(), 3, 0, nil)

	out := buf.String()
	assert.Contains(t, out, "SESSION SUMMARY [LIVE]")
	assert.Contains(t, out, "Flat: no open positions")
}

func TestConsole_Warnings(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	snap := makeSnapshot()
	snap.Warnings = []string{"order failed for IEF (delta -4): rejected"}
	require.NoError(t, n.Notify(context.Background(), snap))

	assert.Contains(t, buf.String(), "!! order failed for IEF")
}
