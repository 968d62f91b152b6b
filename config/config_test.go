package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeYAML(t, `
trading:
  tickers: ["IEI", "IEF", "TLT"]
  strategy: momentum
  min_warmup_bars: 90
  position_size: 1500
  max_position: 25
  rebalance_period: 120
  poll_seconds: 60
  long_short: true
risk:
  max_exposure: 50000
storage:
  save_data: true
  dsn: session.db
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"IEI", "IEF", "TLT"}, cfg.Trading.Tickers)
	assert.Equal(t, 90, cfg.Trading.MinWarmupBars)
	assert.True(t, cfg.Trading.LongShort)
	assert.Equal(t, 50000.0, cfg.Risk.MaxExposure)
	assert.True(t, cfg.Storage.SaveData)
	assert.Equal(t, "session.db", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "momentum", cfg.Trading.Strategy)
	assert.Equal(t, 30, cfg.Trading.MinWarmupBars)
	assert.Equal(t, 60, cfg.Trading.PollSeconds)
	assert.Equal(t, "trader.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}

func TestValidate_RejectsEmptyTickers(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticker")
}

func TestValidate_RejectsMixedAssetClasses(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Trading.Tickers = []string{"BTC/USD", "SPY"}

	err = cfg.Validate()
	require.Error(t, err)
}

func TestValidate_RejectsBadNumbers(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min_warmup_bars", func(c *Config) { c.Trading.MinWarmupBars = 1 }},
		{"position_size", func(c *Config) { c.Trading.PositionSize = -5 }},
		{"max_position", func(c *Config) { c.Trading.MaxPosition = 0 }},
		{"rebalance_period", func(c *Config) { c.Trading.RebalancePeriod = -1 }},
		{"max_exposure", func(c *Config) { c.Risk.MaxExposure = -100 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			cfg.Trading.Tickers = []string{"SPY"}
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyPreset_Treasury(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.NoError(t, ApplyPreset(cfg, "treasury"))

	assert.Equal(t, []string{"IEI", "IEF", "TLH", "TLT"}, cfg.Trading.Tickers)
	assert.Equal(t, 90, cfg.Trading.MinWarmupBars)
	assert.Equal(t, 1500.0, cfg.Trading.PositionSize)
	assert.Equal(t, 25, cfg.Trading.MaxPosition)
	assert.Equal(t, 120, cfg.Trading.RebalancePeriod)
	require.NoError(t, cfg.Validate())
}

func TestApplyPreset_AllPresetsValidate(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			require.NoError(t, ApplyPreset(cfg, name))
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestApplyPreset_UnknownName(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	err = ApplyPreset(cfg, "moonshot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}

func TestLoadCredentials_FromEnv(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "key")
	t.Setenv("APCA_API_SECRET_KEY", "secret")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "key", creds.KeyID)
	assert.Equal(t, "secret", creds.SecretKey)
}

func TestLoadCredentials_MissingIsAnError(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "")
	t.Setenv("APCA_API_SECRET_KEY", "")

	_, err := LoadCredentials()
	require.Error(t, err)
}
