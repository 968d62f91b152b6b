package engine

// engine.go — loop de control del trading adaptativo.
//
// Un único loop lógico, un ciclo cada vez: fetch concurrente con barrera →
// ventanas de warmup → señales → sizing → rebalanceo (cada N ciclos) →
// ejecución. PortfolioState y las ventanas son propiedad exclusiva del loop;
// ninguna otra goroutine las escribe.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/ports"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/strategy"
)

const windowSlack = 10 // bars extra retenidos sobre el mínimo de warmup

// Config contiene los parámetros del engine ya validados.
type Config struct {
	MinWarmupBars      int
	PositionSize       float64 // unidades de moneda por instrumento
	MaxPosition        int     // tope de cantidad por instrumento
	RebalancePeriod    int     // ciclos entre rebalanceos
	PollInterval       time.Duration
	LongShort          bool    // basket cross-sectional con cortos
	LongFraction       float64 // proporción del ranking que va larga
	ShortFraction      float64
	MinWarmInstruments int     // mínimo de instrumentos warm antes de rebalancear
	MaxExposure        float64 // exposición bruta máxima; 0 = sin límite
}

// Engine es el controlador de trading: posee el portfolio y las ventanas
// y orquesta cada ciclo.
type Engine struct {
	cfg       Config
	basket    []domain.Instrument
	strat     strategy.Strategy
	feed      ports.MarketDataFeed
	clock     ports.MarketClock // nil = mercado siempre abierto (crypto)
	executor  ports.OrderExecutor
	recorder  ports.DataRecorder // nil = persistencia deshabilitada
	notifier  ports.Notifier     // nil = sin output de ciclo
	portfolio *domain.Portfolio

	windows     map[string]*domain.Window
	scheduler   *Scheduler
	sizer       *Sizer
	cycle       int
	lastApplied int // último ciclo cuyo RebalanceEvent se aplicó

	// Estadísticas de sesión
	barsReceived    int
	ordersSubmitted int
	ordersFailed    int
	rebalances      int
}

// New crea el engine con todas las dependencias inyectadas.
// recorder, notifier y clock pueden ser nil.
func New(
	cfg Config,
	basket []domain.Instrument,
	strat strategy.Strategy,
	feed ports.MarketDataFeed,
	clock ports.MarketClock,
	executor ports.OrderExecutor,
	recorder ports.DataRecorder,
	notifier ports.Notifier,
	portfolio *domain.Portfolio,
) *Engine {
	if cfg.MinWarmInstruments <= 0 {
		if cfg.LongShort {
			cfg.MinWarmInstruments = 2
		} else {
			cfg.MinWarmInstruments = 1
		}
	}

	windows := make(map[string]*domain.Window, len(basket))
	for _, inst := range basket {
		windows[inst.Symbol] = domain.NewWindow(cfg.MinWarmupBars + windowSlack)
	}

	return &Engine{
		cfg:       cfg,
		basket:    basket,
		strat:     strat,
		feed:      feed,
		clock:     clock,
		executor:  executor,
		recorder:  recorder,
		notifier:  notifier,
		portfolio: portfolio,
		windows:   windows,
		scheduler: NewScheduler(cfg.RebalancePeriod),
		sizer:     NewSizer(cfg.PositionSize, cfg.MaxPosition, cfg.LongShort, cfg.LongFraction, cfg.ShortFraction),
	}
}

// Run ejecuta el loop de ciclos hasta que el contexto se cancele.
// Devuelve error solo ante fallos que exigen parar (credenciales rechazadas
// a mitad de sesión); todo lo demás degrada a "saltar este ciclo".
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"mode", e.portfolio.Mode(),
		"basket", len(e.basket),
		"strategy", e.strat.Name(),
		"min_warmup_bars", e.cfg.MinWarmupBars,
		"rebalance_period", e.cfg.RebalancePeriod,
		"poll_interval", e.cfg.PollInterval,
	)

	if e.recorder != nil {
		last, err := e.recorder.LastAppliedCycle(ctx)
		if err != nil {
			slog.Warn("engine: could not load last applied rebalance", "err", err)
		} else if last > 0 {
			e.lastApplied = last
			e.cycle = last
			slog.Info("engine: resuming after restart", "last_applied_cycle", last)
		}
	}

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := e.step(ctx); err != nil {
			e.shutdown(ctx)
			return err
		}

		select {
		case <-ctx.Done():
			e.shutdown(ctx)
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce ejecuta exactamente un ciclo. Útil para tests y modo --once.
func (e *Engine) RunOnce(ctx context.Context) (domain.Snapshot, error) {
	return e.runCycle(ctx)
}

// Stats devuelve los contadores de la sesión y las posiciones abiertas,
// para el resumen de cierre en consola.
func (e *Engine) Stats() (cycles, orders int, positions []domain.Position) {
	return e.cycle, e.ordersSubmitted, e.portfolio.Positions()
}

// step ejecuta un ciclo si el mercado está abierto. Los errores de ciclo se
// loguean y se tragan salvo los de autenticación, que paran el engine.
func (e *Engine) step(ctx context.Context) error {
	if e.clock != nil {
		open, err := e.clock.IsOpen(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return fmt.Errorf("engine: market clock: %w", err)
			}
			slog.Warn("engine: market clock check failed, assuming open", "err", err)
		} else if !open {
			slog.Debug("engine: market closed, skipping poll")
			return nil
		}
	}

	snap, err := e.runCycle(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("engine: halting, cannot trade blind: %w", err)
		}
		slog.Error("engine: cycle failed", "cycle", e.cycle, "err", err)
		return nil
	}

	if e.notifier != nil {
		if nerr := e.notifier.Notify(ctx, snap); nerr != nil {
			slog.Warn("engine: notifier error", "err", nerr)
		}
	}
	return nil
}

// runCycle es un ciclo completo: fetch → warmup → señales → sizing →
// rebalanceo condicionado → registro.
func (e *Engine) runCycle(ctx context.Context) (domain.Snapshot, error) {
	e.cycle++
	start := time.Now()

	bars, authErr := e.fetchAll(ctx)
	if authErr != nil {
		return domain.Snapshot{}, authErr
	}

	for _, bar := range bars {
		e.windows[bar.Symbol].Append(bar)
		e.barsReceived++
	}

	prices := e.lastPrices()
	signals := e.computeSignals()
	ranked := domain.RankSignals(signals)
	targets := e.sizer.Targets(ranked, prices)

	snap := domain.Snapshot{
		Cycle:      e.cycle,
		Timestamp:  start,
		WarmCount:  len(ranked),
		BasketSize: len(e.basket),
		Signals:    ranked,
		Prices:     prices,
	}

	if len(ranked) < len(e.basket) {
		slog.Info("engine: warmup in progress",
			"cycle", e.cycle,
			"warm", len(ranked),
			"basket", len(e.basket),
			"min_warmup_bars", e.cfg.MinWarmupBars,
		)
	}

	if e.scheduler.Fires(e.cycle) {
		switch {
		case len(ranked) < e.cfg.MinWarmInstruments:
			slog.Info("engine: rebalance due but not enough warm instruments",
				"cycle", e.cycle, "warm", len(ranked), "required", e.cfg.MinWarmInstruments)
		default:
			event := domain.RebalanceEvent{
				Cycle:     e.cycle,
				Timestamp: start,
				Intents:   domain.DiffTargets(e.portfolio, targets, prices),
			}
			sent, warnings := e.applyEvent(ctx, event)
			snap.Rebalanced = true
			snap.OrdersSent = sent
			snap.Warnings = warnings
		}
	}

	e.recordBars(ctx, bars, ranked)
	snap.Positions = e.portfolio.Positions()

	slog.Info("engine: cycle complete",
		"cycle", e.cycle,
		"bars", len(bars),
		"warm", len(ranked),
		"rebalanced", snap.Rebalanced,
		"orders", snap.OrdersSent,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return snap, nil
}

// fetchAll obtiene el último bar de cada instrumento en paralelo y sincroniza
// en la barrera antes de devolver. Un fetch fallido (retries ya agotados por
// el feed) solo excluye a su instrumento de este ciclo; nunca devuelve bars
// fabricados. Solo los errores de autenticación suben al caller.
func (e *Engine) fetchAll(ctx context.Context) ([]domain.Bar, error) {
	type result struct {
		bar domain.Bar
		err error
		sym string
	}

	resultCh := make(chan result, len(e.basket))
	var wg sync.WaitGroup
	for _, inst := range e.basket {
		wg.Add(1)
		go func(inst domain.Instrument) {
			defer wg.Done()
			bar, err := e.feed.FetchLatestBar(ctx, inst)
			resultCh <- result{bar: bar, err: err, sym: inst.Symbol}
		}(inst)
	}
	wg.Wait()
	close(resultCh)

	var bars []domain.Bar
	var authErr error
	for r := range resultCh {
		if r.err != nil {
			if errors.Is(r.err, domain.ErrUnauthorized) {
				authErr = r.err
			}
			slog.Warn("engine: fetch failed, skipping instrument this cycle",
				"symbol", r.sym, "err", r.err)
			continue
		}
		if !r.bar.Valid() {
			slog.Debug("engine: discarding invalid bar", "symbol", r.sym)
			continue
		}
		bars = append(bars, r.bar)
	}
	if authErr != nil {
		return nil, authErr
	}
	return bars, nil
}

// computeSignals puntúa cada instrumento warm. Los que no llegan al mínimo
// de warmup no producen señal y quedan fuera del ranking del ciclo.
func (e *Engine) computeSignals() []domain.Signal {
	var signals []domain.Signal
	for _, inst := range e.basket {
		w := e.windows[inst.Symbol]
		if !w.Warm(e.cfg.MinWarmupBars) {
			continue
		}
		score, ok := e.strat.Score(w)
		if !ok {
			continue
		}
		last, _ := w.Last()
		signals = append(signals, domain.Signal{
			Symbol:    inst.Symbol,
			Timestamp: last.Timestamp,
			Score:     score,
		})
	}
	return signals
}

// lastPrices devuelve el último close conocido por símbolo.
func (e *Engine) lastPrices() map[string]float64 {
	prices := make(map[string]float64, len(e.basket))
	for sym, w := range e.windows {
		if last, ok := w.Last(); ok {
			prices[sym] = last.Close
		}
	}
	return prices
}

// applyEvent ejecuta los intents de un RebalanceEvent secuencialmente.
// Idempotente por evento: un ciclo ya aplicado (tras un reinicio) se salta.
// Un intent fallido deja su posición intacta y no detiene el resto.
func (e *Engine) applyEvent(ctx context.Context, event domain.RebalanceEvent) (sent int, warnings []string) {
	if event.Cycle <= e.lastApplied {
		slog.Info("engine: rebalance already applied, skipping",
			"cycle", event.Cycle, "last_applied", e.lastApplied)
		return 0, nil
	}

	slog.Info("engine: rebalancing", "cycle", event.Cycle, "intents", len(event.Intents))

	for _, intent := range event.Intents {
		if msg, ok := e.exposureExceeded(intent); ok {
			warnings = append(warnings, msg)
			slog.Warn("engine: intent rejected by exposure cap",
				"symbol", intent.Symbol, "delta", intent.Delta)
			continue
		}

		fill, err := e.executor.Submit(ctx, intent)
		if err != nil {
			e.ordersFailed++
			msg := fmt.Sprintf("order failed for %s (delta %+d): %v", intent.Symbol, intent.Delta, err)
			warnings = append(warnings, msg)
			slog.Warn("engine: order failed, position unchanged",
				"symbol", intent.Symbol, "delta", intent.Delta, "err", err)
			continue
		}

		e.portfolio.Apply(fill)
		e.ordersSubmitted++
		sent++

		if e.recorder != nil {
			if rerr := e.recorder.RecordFill(ctx, event.Cycle, fill); rerr != nil {
				slog.Warn("engine: could not record fill", "err", rerr)
			}
		}

		slog.Info("engine: position updated",
			"symbol", fill.Symbol,
			"delta", fill.Quantity,
			"price", fmt.Sprintf("%.2f", fill.Price),
			"now_holding", e.portfolio.Quantity(fill.Symbol),
		)
	}

	e.lastApplied = event.Cycle
	e.rebalances++
	if e.recorder != nil {
		if err := e.recorder.MarkRebalanceApplied(ctx, event.Cycle); err != nil {
			slog.Warn("engine: could not persist applied rebalance", "err", err)
		}
	}
	return sent, warnings
}

// exposureExceeded comprueba si aplicar el intent superaría MaxExposure.
func (e *Engine) exposureExceeded(intent domain.OrderIntent) (string, bool) {
	if e.cfg.MaxExposure <= 0 || intent.Price <= 0 {
		return "", false
	}
	prices := e.lastPrices()
	current := e.portfolio.Exposure(prices)
	held := math.Abs(float64(e.portfolio.Quantity(intent.Symbol))) * intent.Price
	projected := current - held + math.Abs(float64(intent.Target))*intent.Price
	if projected <= e.cfg.MaxExposure {
		return "", false
	}
	return fmt.Sprintf("exposure cap: %s target %d would push gross exposure to %.2f (max %.2f)",
		intent.Symbol, intent.Target, projected, e.cfg.MaxExposure), true
}

// recordBars persiste los bars del ciclo, best-effort: un fallo de escritura
// se loguea y el ciclo sigue.
func (e *Engine) recordBars(ctx context.Context, bars []domain.Bar, ranked []domain.Signal) {
	if e.recorder == nil {
		return
	}
	scoreBySym := make(map[string]float64, len(ranked))
	for _, s := range ranked {
		scoreBySym[s.Symbol] = s.Score
	}
	for _, bar := range bars {
		if err := e.recorder.RecordBar(ctx, bar, scoreBySym[bar.Symbol], e.portfolio.Quantity(bar.Symbol)); err != nil {
			slog.Warn("engine: could not record bar", "symbol", bar.Symbol, "err", err)
		}
	}
}

// shutdown deja el broker y el sink en un estado reconciliable: cancela las
// órdenes abiertas (o deja sus IDs logueados) y cierra el recorder. El proceso
// nunca termina en silencio con órdenes vivas en el broker.
func (e *Engine) shutdown(ctx context.Context) {
	slog.Info("engine: shutting down")

	cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := e.executor.CancelOpen(cancelCtx); err != nil {
		slog.Error("engine: could not cancel open orders, reconcile manually", "err", err)
	}

	slog.Info("session summary",
		"cycles", e.cycle,
		"bars_received", e.barsReceived,
		"orders_submitted", e.ordersSubmitted,
		"orders_failed", e.ordersFailed,
		"rebalances", e.rebalances,
		"open_positions", len(e.portfolio.Positions()),
	)
}
