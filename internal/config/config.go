package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/swingeats/swingeats/internal/es"
	"github.com/swingeats/swingeats/internal/scheduler"
	"github.com/swingeats/swingeats/internal/timing"
	base "github.com/swingeats/swingeats/pkg/config"
)

type Config struct {
	base.Config

	ESMenuIndex string
	BayCount    int
	SeedMenu    bool

	Timing    timing.Config
	Scheduler scheduler.Config
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv(), nil
}

func FromEnv() *Config {
	td := timing.DefaultConfig()
	sd := scheduler.DefaultConfig()

	return &Config{
		Config: base.Load(),

		ESMenuIndex: base.EnvDefault("ES_MENU_INDEX", "menu_items"),
		BayCount:    base.EnvIntDefault("BAY_COUNT", 30),
		SeedMenu:    base.EnvBoolDefault("SEED_MENU", true),

		Timing: timing.Config{
			PrepBuffer:         base.EnvDurationDefault("PREP_BUFFER", td.PrepBuffer),
			ExpoBuffer:         base.EnvDurationDefault("EXPO_BUFFER", td.ExpoBuffer),
			DelayGrace:         base.EnvDurationDefault("DELAY_GRACE", td.DelayGrace),
			DefaultCookSeconds: base.EnvIntDefault("DEFAULT_COOK_SECONDS", td.DefaultCookSeconds),
			DelayThreshold:     base.EnvDurationDefault("DELAY_THRESHOLD", td.DelayThreshold),
		},
		Scheduler: scheduler.Config{
			ItemSweepInterval:   base.EnvDurationDefault("ITEM_SWEEP_INTERVAL", sd.ItemSweepInterval),
			DiningSweepInterval: base.EnvDurationDefault("DINING_SWEEP_INTERVAL", sd.DiningSweepInterval),
			DiningDwell:         base.EnvDurationDefault("DINING_DWELL", sd.DiningDwell),
		},
	}
}

func (c *Config) ES() es.Config {
	return es.Config{URL: c.ESURL, User: c.ESUser, Password: c.ESPassword}
}

// Validate stops the process on settings the service cannot run with.
func (c *Config) Validate() {
	base.MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	base.MustPositive(c.ServerPort, "SERVER_PORT")
	base.MustPositive(c.BayCount, "BAY_COUNT")
	base.MustPositive(c.Timing.DefaultCookSeconds, "DEFAULT_COOK_SECONDS")
	if c.Timing.DelayThreshold < time.Minute {
		log.Printf("Notice: DELAY_THRESHOLD %s is unusually short", c.Timing.DelayThreshold)
	}
}
