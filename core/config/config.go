package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu    sync.Mutex
	cache = make(map[reflect.Type]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. Each configuration type is
// loaded only once per process; later calls for the same type return the
// cached value. A .env file in the working directory is loaded before the
// first parse, if present.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// Missing .env files are fine; real environments set vars directly.
		_ = godotenv.Load()
	})

	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(*cfg)
	if cached, ok := cache[t]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse %s from environment: %w", t, err)
	}
	cache[t] = *cfg
	return nil
}

// MustLoad is Load that panics on failure, for use at startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
