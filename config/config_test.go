package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "passimpay_gateway", cfg.Database.DBName)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "passimpay-gateway", cfg.JWT.Issuer)

	assert.Equal(t, "https://passimpay.io/api/createorder", cfg.Passimpay.CreateOrderURL)
	assert.Equal(t, "https://passimpay.io/api/orderstatus", cfg.Passimpay.OrderStatusURL)
	assert.Equal(t, []string{"RUB", "USD"}, cfg.Passimpay.AllowedCurrencies)
	assert.Equal(t, 15*time.Second, cfg.Passimpay.Timeout)

	assert.Equal(t, "http://www.cbr.ru/scripts/XML_daily.asp", cfg.Rates.FeedURL)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090
  mode: "release"
passimpay:
  platform_id: "7"
  api_key: "testkey"
  merchant_id: "42"
  allowed_currencies: ["USD"]
return:
  success_url: "https://shop.example/pay/ok"
  fail_url: "https://shop.example/pay/fail"
  pending_url: "https://shop.example/pay/pending"
`)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)

	assert.Equal(t, "7", cfg.Passimpay.PlatformID)
	assert.Equal(t, "testkey", cfg.Passimpay.APIKey)
	assert.Equal(t, "42", cfg.Passimpay.MerchantID)
	assert.Equal(t, []string{"USD"}, cfg.Passimpay.AllowedCurrencies)

	assert.Equal(t, "https://shop.example/pay/ok", cfg.Return.SuccessURL)
	assert.Equal(t, "https://shop.example/pay/fail", cfg.Return.FailURL)
	assert.Equal(t, "https://shop.example/pay/pending", cfg.Return.PendingURL)

	// Untouched sections keep defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PPGW_PASSIMPAY_API_KEY", "env-key")
	t.Setenv("PPGW_SERVER_PORT", "9999")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Passimpay.APIKey)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestCurrencyAllowed(t *testing.T) {
	p := PassimpayConfig{AllowedCurrencies: []string{"RUB", "USD"}}

	assert.True(t, p.CurrencyAllowed("RUB"))
	assert.True(t, p.CurrencyAllowed("USD"))
	assert.False(t, p.CurrencyAllowed("EUR"))
	assert.False(t, p.CurrencyAllowed("rub"))
}
