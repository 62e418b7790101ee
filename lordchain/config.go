// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lordchain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config protocol-level parameters shared by every component.
type Config struct {
	// ChainID goes into the purchase-authorization signature preimage.
	ChainID uint64 `yaml:"chainId"`

	// MinLock / MaxLock lock duration bounds in seconds.
	MinLock uint64 `yaml:"minLock"`
	MaxLock uint64 `yaml:"maxLock"`

	// MinAmountForQuality per-quality entry thresholds in whole tokens.
	MinAmountForQuality map[uint8]uint64 `yaml:"minAmountForQuality"`
}

// DefaultConfig returns the built-in protocol parameters.
func DefaultConfig() *Config {
	return &Config{
		ChainID:             1,
		MinLock:             DefaultMinLock,
		MaxLock:             DefaultMaxLock,
		MinAmountForQuality: DefaultMinAmountForQuality(),
	}
}

// LoadConfig reads a yaml config file, filling unset fields with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks internal consistency.
func (c *Config) Validate() error {
	if c.MinLock == 0 || c.MinLock >= c.MaxLock {
		return fmt.Errorf("invalid lock bounds: min %d, max %d", c.MinLock, c.MaxLock)
	}
	for quality := range c.MinAmountForQuality {
		if quality <= MasterQuality || quality > MaxQuality {
			return fmt.Errorf("invalid quality %d in threshold table", quality)
		}
	}
	return nil
}
