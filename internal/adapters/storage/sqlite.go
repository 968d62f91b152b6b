package storage

// sqlite.go — sink de datos de la sesión.
//
// Estrategia:
//   - `bars`: una fila por bar recibido, con la señal y la posición del
//     momento. Es el dataset que luego se analiza offline.
//   - `fills`: una fila por orden ejecutada, ligada a su ciclo de rebalanceo.
//   - `rebalances`: un registro por ciclo aplicado. Es lo que hace idempotente
//     el rebalanceo entre reinicios: un ciclo presente aquí no se reaplica.
//
// Un fallo de escritura nunca tira la sesión: el engine loguea y sigue.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Un bar por fila, con el estado de la estrategia en ese momento
CREATE TABLE IF NOT EXISTS bars (
    id        INTEGER  PRIMARY KEY AUTOINCREMENT,
    timestamp DATETIME NOT NULL,
    symbol    TEXT     NOT NULL,
    open      REAL     NOT NULL,
    high      REAL     NOT NULL,
    low       REAL     NOT NULL,
    close     REAL     NOT NULL,
    volume    REAL     NOT NULL DEFAULT 0,
    signal    REAL     NOT NULL DEFAULT 0,
    position  INTEGER  NOT NULL DEFAULT 0
);

-- Una fila por orden ejecutada
CREATE TABLE IF NOT EXISTS fills (
    id        INTEGER  PRIMARY KEY AUTOINCREMENT,
    cycle     INTEGER  NOT NULL,
    order_id  TEXT     NOT NULL,
    symbol    TEXT     NOT NULL,
    quantity  INTEGER  NOT NULL,
    price     REAL     NOT NULL,
    filled_at DATETIME NOT NULL
);

-- Registro de rebalanceos ya aplicados
CREATE TABLE IF NOT EXISTS rebalances (
    cycle      INTEGER  PRIMARY KEY,
    applied_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bars_symbol_ts ON bars(symbol, timestamp);
CREATE INDEX IF NOT EXISTS idx_fills_cycle    ON fills(cycle);
`

// SQLiteRecorder implementa ports.DataRecorder usando SQLite (pure Go, sin CGo).
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder abre (o crea) la base de datos en la ruta dada y
// aplica el schema.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteRecorder: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteRecorder: apply schema: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

// RecordBar persiste un bar junto con la señal y la posición vigentes.
func (s *SQLiteRecorder) RecordBar(ctx context.Context, bar domain.Bar, signal float64, position int) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO bars (timestamp, symbol, open, high, low, close, volume, signal, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bar.Timestamp.UTC(), bar.Symbol, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		signal, position,
	); err != nil {
		return fmt.Errorf("storage.RecordBar: insert %s: %w", bar.Symbol, err)
	}
	return nil
}

// RecordFill persiste una orden ejecutada ligada a su ciclo de rebalanceo.
func (s *SQLiteRecorder) RecordFill(ctx context.Context, cycle int, fill domain.Fill) error {
	ts := fill.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO fills (cycle, order_id, symbol, quantity, price, filled_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cycle, fill.OrderID, fill.Symbol, fill.Quantity, fill.Price, ts.UTC(),
	); err != nil {
		return fmt.Errorf("storage.RecordFill: insert %s: %w", fill.Symbol, err)
	}
	return nil
}

// MarkRebalanceApplied registra el ciclo como ya aplicado. Reinsertar el
// mismo ciclo es un no-op, no un error.
func (s *SQLiteRecorder) MarkRebalanceApplied(ctx context.Context, cycle int) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO rebalances (cycle, applied_at) VALUES (?, ?)
		 ON CONFLICT(cycle) DO NOTHING`,
		cycle, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("storage.MarkRebalanceApplied: cycle %d: %w", cycle, err)
	}
	return nil
}

// LastAppliedCycle devuelve el último ciclo con rebalanceo aplicado,
// o 0 si la sesión es nueva.
func (s *SQLiteRecorder) LastAppliedCycle(ctx context.Context) (int, error) {
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(cycle) FROM rebalances`).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("storage.LastAppliedCycle: %w", err)
	}
	return int(last.Int64), nil
}

// BarCount devuelve el número de bars persistidos para un símbolo.
func (s *SQLiteRecorder) BarCount(ctx context.Context, symbol string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bars WHERE symbol = ?`, symbol).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage.BarCount: %w", err)
	}
	return n, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteRecorder) Close() error {
	return s.db.Close()
}
