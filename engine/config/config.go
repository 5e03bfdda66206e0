// Package config loads engine-wide tunables from the environment,
// matching r3e-network-service_layer/pkg/config's envdecode+godotenv
// convention: a single struct tagged with `env:"...,default=..."`,
// optionally preloaded from a .env file in development.
package config

import (
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config carries every environment-tunable knob the engine scheduler and
// ECS World need at startup.
type Config struct {
	// TickTarget is the latency budget negotiated with every agent each
	// tick (gorna.NegotiationRequest.TargetLatency).
	TickTarget time.Duration `env:"KHORA_TICK_TARGET,default=16ms"`

	// GCBudget is the GC agent's balanced-strategy count of pending-hole/
	// pending-orphan units RunGC may drain per tick; the agent scales it
	// up or down when the DCC selects another strategy.
	GCBudget int `env:"KHORA_GC_BUDGET,default=64"`

	// QueryPlanCacheSize bounds the query planner's LRU cache of
	// requested-type-tuple -> QueryPlan entries.
	QueryPlanCacheSize int `env:"KHORA_QUERY_PLAN_CACHE_SIZE,default=256"`

	// DomainCountHint is decoded from the environment, but no engine code
	// reads it; the World's domain maps grow on demand.
	DomainCountHint int `env:"KHORA_DOMAIN_COUNT_HINT,default=5"`

	// AssetPackRoot is the directory containing index.bin and data.pack.
	AssetPackRoot string `env:"KHORA_ASSET_PACK_ROOT,default=./assets"`

	// StatusAddr is the listen address for the /status and /metrics HTTP
	// surface; empty disables it.
	StatusAddr string `env:"KHORA_STATUS_ADDR,default=:9090"`

	// AssetRetrySchedule is the cron expression (seconds-field form) the
	// asset agent uses to wake up and retry its pending load queue.
	AssetRetrySchedule string `env:"KHORA_ASSET_RETRY_SCHEDULE,default=*/10 * * * * *"`
}

// Load reads .env (if present, ignored if not) then decodes environment
// variables into a Config, the same two-step load r3e-network-service_layer
// uses.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
