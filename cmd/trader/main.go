package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/config"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/adapters/alpaca"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/adapters/notify"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/adapters/paper"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/adapters/storage"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/engine"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/ports"
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	preset := flag.String("preset", "", "basket preset: "+strings.Join(config.PresetNames(), "|"))
	listPresets := flag.Bool("presets", false, "list available presets and exit")
	tickers := flag.String("tickers", "", "comma-separated symbols (overrides config/preset)")
	strategyName := flag.String("strategy", "", "signal strategy: momentum|ma_divergence")
	live := flag.Bool("live", false, "trade with real orders (default: paper)")
	saveData := flag.Bool("save-data", false, "persist bars and fills to SQLite")
	dataFile := flag.String("data-file", "", "SQLite path for --save-data (overrides config)")
	minWarmupBars := flag.Int("min-warmup-bars", 0, "bars required before an instrument produces signals")
	positionSize := flag.Float64("position-size", 0, "currency units per instrument")
	maxPosition := flag.Int("max-position", 0, "max quantity per instrument")
	rebalancePeriod := flag.Int("rebalance-period", 0, "cycles between rebalances")
	once := flag.Bool("once", false, "run one cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full per-cycle table (default: compact 1-line)")
	flag.Parse()

	if *listPresets {
		for _, name := range config.PresetNames() {
			fmt.Printf("  %-10s %s\n", name, config.PresetDescription(name))
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	// Precedencia: flags > preset > YAML > defaults.
	if *preset != "" {
		if err := config.ApplyPreset(cfg, *preset); err != nil {
			slog.Error("failed to apply preset", "err", err)
			os.Exit(1)
		}
	}
	applyFlagOverrides(cfg, *tickers, *strategyName, *minWarmupBars, *positionSize, *maxPosition, *rebalancePeriod, *saveData, *dataFile)

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	basket, err := domain.NewBasket(cfg.Trading.Tickers)
	if err != nil {
		slog.Error("invalid basket", "err", err)
		os.Exit(1)
	}
	isCrypto := basket[0].Class == domain.ClassCrypto

	creds, err := config.LoadCredentials()
	if err != nil {
		slog.Error("missing broker credentials", "err", err)
		os.Exit(1)
	}

	strat, err := strategy.New(cfg.Trading.Strategy, cfg.Trading.MinWarmupBars)
	if err != nil {
		slog.Error("invalid strategy", "err", err)
		os.Exit(1)
	}

	client := alpaca.NewClient(
		alpaca.Credentials{KeyID: creds.KeyID, SecretKey: creds.SecretKey},
		*live, cfg.API.TradingBase, cfg.API.DataBase,
	)
	feed := alpaca.NewFeed(client)

	// Crypto opera 24/7: sin market clock.
	var clock ports.MarketClock
	if !isCrypto {
		clock = alpaca.NewClock(client)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mode := domain.ModePaper
	var executor ports.OrderExecutor
	if *live {
		trader, err := confirmLive(ctx, client, cfg, isCrypto)
		if err != nil {
			slog.Error("live session not started", "err", err)
			os.Exit(1)
		}
		if trader == nil {
			return // abortado por el usuario durante la cuenta atrás
		}
		executor = trader
		mode = domain.ModeLive
	} else {
		executor = paper.NewExecutor()
	}

	var recorder ports.DataRecorder
	if cfg.Storage.SaveData {
		rec, err := storage.NewSQLiteRecorder(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open data recorder", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer rec.Close()
		recorder = rec
	}

	notifier := notify.NewConsole(*table)

	slog.Info("trader starting",
		"mode", mode,
		"preset", *preset,
		"tickers", strings.Join(cfg.Trading.Tickers, ","),
		"strategy", strat.Name(),
		"save_data", cfg.Storage.SaveData,
		"once", *once,
	)

	eng := engine.New(engine.Config{
		MinWarmupBars:      cfg.Trading.MinWarmupBars,
		PositionSize:       cfg.Trading.PositionSize,
		MaxPosition:        cfg.Trading.MaxPosition,
		RebalancePeriod:    cfg.Trading.RebalancePeriod,
		PollInterval:       cfg.PollInterval(),
		LongShort:          cfg.Trading.LongShort,
		LongFraction:       cfg.Trading.LongFraction,
		ShortFraction:      cfg.Trading.ShortFraction,
		MinWarmInstruments: cfg.Risk.MinWarmInstruments,
		MaxExposure:        cfg.Risk.MaxExposure,
	}, basket, strat, feed, clock, executor, recorder, notifier, domain.NewPortfolio(mode))

	if *once {
		snap, err := eng.RunOnce(ctx)
		if err != nil {
			slog.Error("cycle failed", "err", err)
			os.Exit(1)
		}
		if nerr := notifier.Notify(ctx, snap); nerr != nil {
			slog.Warn("notifier error", "err", nerr)
		}
		return
	}

	started := time.Now()
	runErr := eng.Run(ctx)

	cycles, orders, positions := eng.Stats()
	notifier.PrintSessionSummary(mode, started, cycles, orders, positions)

	if runErr != nil {
		slog.Error("trader exited with error", "err", runErr)
		os.Exit(1)
	}
	slog.Info("trader stopped cleanly")
}

// applyFlagOverrides pisa la config con los flags explícitos. Un flag en su
// valor cero se considera "no pasado" y no toca nada.
func applyFlagOverrides(cfg *config.Config, tickers, strategyName string, minWarmupBars int, positionSize float64, maxPosition, rebalancePeriod int, saveData bool, dataFile string) {
	if tickers != "" {
		var list []string
		for _, t := range strings.Split(tickers, ",") {
			if t = strings.TrimSpace(t); t != "" {
				list = append(list, t)
			}
		}
		cfg.Trading.Tickers = list
	}
	if strategyName != "" {
		cfg.Trading.Strategy = strategyName
	}
	if minWarmupBars > 0 {
		cfg.Trading.MinWarmupBars = minWarmupBars
	}
	if positionSize > 0 {
		cfg.Trading.PositionSize = positionSize
	}
	if maxPosition > 0 {
		cfg.Trading.MaxPosition = maxPosition
	}
	if rebalancePeriod > 0 {
		cfg.Trading.RebalancePeriod = rebalancePeriod
	}
	if saveData {
		cfg.Storage.SaveData = true
	}
	if dataFile != "" {
		cfg.Storage.DSN = dataFile
		cfg.Storage.SaveData = true
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
