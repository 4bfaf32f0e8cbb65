package config

import "time"

// MarketDataConfig contains pricing feed configuration.
type MarketDataConfig struct {
	// BaseURL is the upstream quote service. When empty, a deterministic
	// synthetic feed is used (development and tests).
	BaseURL string `env:"BASE_URL"`

	// APIKey authenticates against the upstream feed.
	APIKey string `env:"API_KEY"`

	// Timeout bounds each upstream request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to market data configuration values.
func (m *MarketDataConfig) Sanitize() {
	if m.Timeout <= 0 {
		m.Timeout = 10 * time.Second
	}
}
