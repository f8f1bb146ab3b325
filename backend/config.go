package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/tranquocphongvn/caro/engine"
)

type Config struct {
	// AiSeed seeds tie-breaking. Zero keeps ties deterministic (row-major).
	AiSeed         int64         `json:"ai_seed"`
	AiMinThinkMs   int           `json:"ai_min_think_ms"`
	AiLogDecisions bool          `json:"ai_log_decisions"`
	Engine         engine.Config `json:"engine"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiSeed:         0,
		AiMinThinkMs:   0,
		AiLogDecisions: true,
		Engine:         engine.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if c.AiMinThinkMs < 0 {
		return fmt.Errorf("ai_min_think_ms must not be negative, got %d", c.AiMinThinkMs)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// EngineConfig is the engine configuration with the backend switches applied.
func (c Config) EngineConfig() engine.Config {
	cfg := c.Engine
	cfg.LogDecisions = cfg.LogDecisions || c.AiLogDecisions
	return cfg
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
	return nil
}

// LoadSettings reads a JSON config file on top of the defaults, so missing
// keys keep their default value.
func LoadSettings(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func StoreSettings(path string, config Config) error {
	if path == "" {
		return errors.New("settings path is empty")
	}
	data, err := json.MarshalIndent(config, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// loadOrCreateSettings returns the settings stored at path, writing the
// defaults there first when the file does not exist yet.
func loadOrCreateSettings(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	config, err := LoadSettings(path)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	config = DefaultConfig()
	if err := StoreSettings(path, config); err != nil {
		// Not fatal: the server runs on defaults.
		log.Printf("[backend] could not store default settings to %s: %v", path, err)
	}
	return config, nil
}
