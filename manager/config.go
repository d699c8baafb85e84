package manager

import (
	"fmt"
	"time"

	"github.com/jonwraymond/tenantkit/token"
	"github.com/jonwraymond/tenantkit/wallet"
)

// Settings keys recognized by ConfigFromMap. These match the host's
// configuration surface.
const (
	SettingStrategy         = "manager.class_name"
	SettingAlwaysCheckKey   = "manager.always_check_provided_wallet_key"
	SettingExpiryUnits      = "token_expiry.units"
	SettingExpiryAmount     = "token_expiry.amount"
	SettingErrorUnneededKey = "errors.on_unneeded_wallet_key"
)

// Config is the process-wide manager configuration. It is read once at
// construction and never mutated afterwards; changing it later has no
// effect on a running Manager or on already-issued tokens.
type Config struct {
	// StrategyName selects the wallet strategy by registry name.
	// Default: "multi_wallet"
	StrategyName string

	// SkipProvidedKeyCheck disables verification of wallet keys that are
	// provided but not strictly needed to open storage. The zero value
	// verifies every provided key.
	SkipProvidedKeyCheck bool

	// IgnoreUnneededKey silently drops a wallet key supplied for a tenant
	// that does not use one. The zero value rejects such requests with
	// ErrUnneededWalletKey.
	IgnoreUnneededKey bool

	// Issuer is recorded and verified in issued tokens when set.
	Issuer string

	// Expiry controls the lifetime of issued tokens.
	// Default: 52 weeks.
	Expiry token.ExpiryConfig

	// StoreTimeout bounds each external store call.
	// Default: 30 seconds.
	StoreTimeout time.Duration
}

// withDefaults fills in the default strategy and store timeout.
func (c Config) withDefaults() Config {
	if c.StrategyName == "" {
		c.StrategyName = wallet.StrategyMultiWallet
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 30 * time.Second
	}
	return c
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()

	known := false
	for _, name := range wallet.DefaultRegistry.List() {
		if name == c.StrategyName {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("manager: unknown strategy %q", c.StrategyName)
	}

	return c.Expiry.Validate()
}

// ConfigFromMap builds a Config from a host-supplied settings map. Missing
// keys keep their defaults; values of the wrong type are an error.
func ConfigFromMap(settings map[string]any) (Config, error) {
	cfg := Config{}

	if v, ok := settings[SettingStrategy]; ok {
		s, ok := v.(string)
		if !ok {
			return Config{}, fmt.Errorf("manager: %s must be a string", SettingStrategy)
		}
		cfg.StrategyName = s
	}

	if v, ok := settings[SettingAlwaysCheckKey]; ok {
		b, ok := v.(bool)
		if !ok {
			return Config{}, fmt.Errorf("manager: %s must be a bool", SettingAlwaysCheckKey)
		}
		cfg.SkipProvidedKeyCheck = !b
	}

	if v, ok := settings[SettingErrorUnneededKey]; ok {
		b, ok := v.(bool)
		if !ok {
			return Config{}, fmt.Errorf("manager: %s must be a bool", SettingErrorUnneededKey)
		}
		cfg.IgnoreUnneededKey = !b
	}

	if v, ok := settings[SettingExpiryUnits]; ok {
		s, ok := v.(string)
		if !ok {
			return Config{}, fmt.Errorf("manager: %s must be a string", SettingExpiryUnits)
		}
		cfg.Expiry.Units = s
	}

	if v, ok := settings[SettingExpiryAmount]; ok {
		switch n := v.(type) {
		case int:
			cfg.Expiry.Amount = n
		case float64:
			cfg.Expiry.Amount = int(n)
		default:
			return Config{}, fmt.Errorf("manager: %s must be a number", SettingExpiryAmount)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
