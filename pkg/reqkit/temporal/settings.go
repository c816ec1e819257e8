package temporal

import (
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit/config"
)

// Default decorator settings used when a key is absent from the
// configuration source.
const (
	DefaultCacheTTL        = time.Minute
	DefaultRateLimitCalls  = 10
	DefaultRateLimitWindow = time.Minute
	DefaultThrottleGap     = time.Second
	DefaultDebounceDelay   = 500 * time.Millisecond
)

// Settings bundles the tunable parameters of the temporal decorators
// so they can be loaded from a configuration file and applied in one
// place.
type Settings struct {
	// CacheTTL is the time-to-live for cached verdicts.
	CacheTTL time.Duration

	// CacheMaxEntries bounds cache growth. Zero means unbounded.
	CacheMaxEntries int

	// RateLimitCalls is the sliding-window call budget.
	RateLimitCalls int

	// RateLimitWindow is the sliding-window width.
	RateLimitWindow time.Duration

	// ThrottleInterval is the minimum gap between admitted calls.
	ThrottleInterval time.Duration

	// DebounceDelay is the quiet period before a trailing evaluation.
	DebounceDelay time.Duration
}

// DefaultSettings returns Settings populated with the package defaults.
func DefaultSettings() Settings {
	return Settings{
		CacheTTL:         DefaultCacheTTL,
		RateLimitCalls:   DefaultRateLimitCalls,
		RateLimitWindow:  DefaultRateLimitWindow,
		ThrottleInterval: DefaultThrottleGap,
		DebounceDelay:    DefaultDebounceDelay,
	}
}

// SettingsFromConfig extracts decorator settings from cfg, falling back
// to the package defaults for absent keys. Recognized keys:
//
//	cache:
//	  ttl: 30s
//	  max_entries: 1024
//	ratelimit:
//	  max_calls: 3
//	  window: 1m
//	throttle:
//	  interval: 2s
//	debounce:
//	  delay: 300ms
func SettingsFromConfig(cfg config.Config) Settings {
	s := DefaultSettings()

	cache := cfg.Section("cache")
	s.CacheTTL = cache.Duration("ttl", s.CacheTTL)
	s.CacheMaxEntries = cache.Int("max_entries", s.CacheMaxEntries)

	rl := cfg.Section("ratelimit")
	s.RateLimitCalls = rl.Int("max_calls", s.RateLimitCalls)
	s.RateLimitWindow = rl.Duration("window", s.RateLimitWindow)

	s.ThrottleInterval = cfg.Section("throttle").Duration("interval", s.ThrottleInterval)
	s.DebounceDelay = cfg.Section("debounce").Duration("delay", s.DebounceDelay)

	return s
}

// CacheOptions expands the settings into options for NewCache.
func CacheOptions[C comparable](s Settings) []CacheOption[C] {
	opts := []CacheOption[C]{WithTTL[C](s.CacheTTL)}
	if s.CacheMaxEntries > 0 {
		opts = append(opts, WithMaxEntries[C](s.CacheMaxEntries))
	}
	return opts
}
