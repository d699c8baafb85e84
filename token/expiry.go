package token

import (
	"fmt"
	"time"
)

// Expiry units accepted by ExpiryConfig.Units.
const (
	UnitWeeks   = "weeks"
	UnitDays    = "days"
	UnitHours   = "hours"
	UnitMinutes = "minutes"
)

// unitDurations maps an expiry unit to its base duration.
var unitDurations = map[string]time.Duration{
	UnitWeeks:   7 * 24 * time.Hour,
	UnitDays:    24 * time.Hour,
	UnitHours:   time.Hour,
	UnitMinutes: time.Minute,
}

// ExpiryConfig controls how long issued tokens stay valid. The duration is
// fixed at issuance; changing the configuration later does not alter
// already-issued tokens.
type ExpiryConfig struct {
	// Units is the duration unit: weeks, days, hours or minutes.
	// Default: "weeks"
	Units string

	// Amount is the number of units. Must be positive.
	// Default: 52
	Amount int
}

// withDefaults fills in the default expiry of 52 weeks.
func (c ExpiryConfig) withDefaults() ExpiryConfig {
	if c.Units == "" {
		c.Units = UnitWeeks
	}
	if c.Amount == 0 {
		c.Amount = 52
	}
	return c
}

// Validate checks the expiry configuration after defaults are applied.
func (c ExpiryConfig) Validate() error {
	c = c.withDefaults()
	if _, ok := unitDurations[c.Units]; !ok {
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidExpiry, c.Units)
	}
	if c.Amount < 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidExpiry, c.Amount)
	}
	return nil
}

// Duration returns the configured token lifetime.
func (c ExpiryConfig) Duration() time.Duration {
	c = c.withDefaults()
	return time.Duration(c.Amount) * unitDurations[c.Units]
}
