package core

import (
	"fmt"
	"strings"
	"time"
)

type PaymentsConfig struct {
	FeePercent int64         `koanf:"fee_percent" mapstructure:"fee_percent"`
	Window     time.Duration `koanf:"window" mapstructure:"window"`
}

type LedgerConfig struct {
	ScanWindow uint64 `koanf:"scan_window" mapstructure:"scan_window"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Payments    PaymentsConfig `koanf:"payments" mapstructure:"payments"`
	Ledger      LedgerConfig   `koanf:"ledger" mapstructure:"ledger"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "waste-market",
		Payments: PaymentsConfig{
			FeePercent: 5,
			Window:     5 * time.Minute,
		},
		Ledger: LedgerConfig{
			ScanWindow: 32,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Payments.FeePercent < 0 || c.Payments.FeePercent > 100 {
		return fmt.Errorf("core: payments.fee_percent must be between 0 and 100")
	}
	if c.Payments.Window <= 0 {
		return fmt.Errorf("core: payments.window must be positive")
	}
	if c.Ledger.ScanWindow == 0 {
		return fmt.Errorf("core: ledger.scan_window must be positive")
	}
	return nil
}
