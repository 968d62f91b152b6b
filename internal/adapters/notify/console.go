package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el estado del ciclo en el modo configurado.
func (c *Console) Notify(_ context.Context, snap domain.Snapshot) error {
	if c.table {
		c.printFull(snap)
	} else {
		c.printCompact(snap)
	}
	return nil
}

// printCompact imprime lo esencial en una línea por ciclo.
func (c *Console) printCompact(snap domain.Snapshot) {
	now := snap.Timestamp.Format("15:04:05")

	var sb strings.Builder
	if snap.WarmCount < snap.BasketSize {
		fmt.Fprintf(&sb, "[%s] cycle %d warmup %d/%d",
			now, snap.Cycle, snap.WarmCount, snap.BasketSize)
	} else {
		fmt.Fprintf(&sb, "[%s] cycle %d", now, snap.Cycle)
	}

	shown := 0
	for _, sig := range snap.Signals {
		if shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | #%d %s %+.4f", sig.Rank, sig.Symbol, sig.Score)
		shown++
	}

	if snap.Rebalanced {
		fmt.Fprintf(&sb, " | REBAL orders:%d", snap.OrdersSent)
	}
	if n := len(snap.Positions); n > 0 {
		fmt.Fprintf(&sb, " | pos:%d", n)
	}
	for i, warn := range snap.Warnings {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&sb, "\n  !! %s", warn)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de señales y posiciones del ciclo.
func (c *Console) printFull(snap domain.Snapshot) {
	now := snap.Timestamp.Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] cycle %d — %d/%d warm", now, snap.Cycle, snap.WarmCount, snap.BasketSize)
	if snap.Rebalanced {
		fmt.Fprintf(c.out, " — rebalanced (%d orders)", snap.OrdersSent)
	}
	fmt.Fprintln(c.out)

	if len(snap.Signals) == 0 {
		fmt.Fprintln(c.out, "  (warmup in progress, no signals yet)")
		return
	}

	held := make(map[string]domain.Position, len(snap.Positions))
	for _, pos := range snap.Positions {
		held[pos.Symbol] = pos
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Rank", "Symbol", "Signal", "Price", "Position", "Entry")

	for _, sig := range snap.Signals {
		pos := held[sig.Symbol]
		entry := "-"
		if pos.Quantity != 0 {
			entry = fmt.Sprintf("%.2f", pos.EntryPrice)
		}
		table.Append(
			fmt.Sprintf("%d", sig.Rank),
			sig.Symbol,
			fmt.Sprintf("%+.4f", sig.Score),
			fmt.Sprintf("%.2f", snap.Prices[sig.Symbol]),
			fmt.Sprintf("%+d", pos.Quantity),
			entry,
		)
	}
	table.Render()

	c.printHeldOutsideRanking(snap, held)

	for _, warn := range snap.Warnings {
		fmt.Fprintf(c.out, "  !! %s\n", warn)
	}
}

// printHeldOutsideRanking lista posiciones de símbolos que este ciclo no
// rankearon (p.ej. instrumentos que dejaron de estar warm).
func (c *Console) printHeldOutsideRanking(snap domain.Snapshot, held map[string]domain.Position) {
	ranked := make(map[string]bool, len(snap.Signals))
	for _, sig := range snap.Signals {
		ranked[sig.Symbol] = true
	}

	var extra []string
	for sym, pos := range held {
		if !ranked[sym] && pos.Quantity != 0 {
			extra = append(extra, fmt.Sprintf("%s %+d @ %.2f", sym, pos.Quantity, pos.EntryPrice))
		}
	}
	if len(extra) == 0 {
		return
	}
	sort.Strings(extra)
	fmt.Fprintf(c.out, "  held outside ranking: %s\n", strings.Join(extra, ", "))
}

// PrintSessionSummary imprime el cierre de sesión.
func (c *Console) PrintSessionSummary(mode domain.Mode, started time.Time, cycles, orders int, positions []domain.Position) {
	fmt.Fprintf(c.out, "\n=== SESSION SUMMARY [%s] ===\n", strings.ToUpper(mode.String()))
	fmt.Fprintf(c.out, "  Duration: %s\n", time.Since(started).Round(time.Second))
	fmt.Fprintf(c.out, "  Cycles:   %d\n", cycles)
	fmt.Fprintf(c.out, "  Orders:   %d\n", orders)

	if len(positions) == 0 {
		fmt.Fprintln(c.out, "  Flat: no open positions")
		return
	}
	fmt.Fprintf(c.out, "  Open positions (%d):\n", len(positions))
	for _, pos := range positions {
		fmt.Fprintf(c.out, "    %-8s %+d @ %.2f\n", pos.Symbol, pos.Quantity, pos.EntryPrice)
	}
}
