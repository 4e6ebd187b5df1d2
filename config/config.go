/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for pdxscript. There is no
// process-wide configuration: values loaded here are passed explicitly to
// the constructors that need them.
package config

import (
	"fmt"
	"time"
)

// Config holds the pdxscript configuration.
type Config struct {
	// BaseFolder is the root the parse methods resolve paths against,
	// typically the game's installation directory.
	BaseFolder string `yaml:"baseFolder" json:"baseFolder" toml:"baseFolder"`

	// Executable is the path to the external grammar tool. When empty, the
	// built-in parser is used instead.
	Executable string `yaml:"executable" json:"executable" toml:"executable"`

	// ParseTimeout bounds a single external tool invocation, in
	// time.ParseDuration syntax ("30s"). Empty means no bound.
	ParseTimeout string `yaml:"parseTimeout" json:"parseTimeout" toml:"parseTimeout"`

	// CacheDir enables the parsed-tree disk cache when set.
	CacheDir string `yaml:"cacheDir" json:"cacheDir" toml:"cacheDir"`

	// GameVersion keys the disk cache. Cached trees are assumed stable for
	// a given game version.
	GameVersion string `yaml:"gameVersion" json:"gameVersion" toml:"gameVersion"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{}
}

// Timeout returns the parsed ParseTimeout, or zero when unset.
func (c *Config) Timeout() (time.Duration, error) {
	if c.ParseTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ParseTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid parseTimeout: %w", err)
	}
	return d, nil
}
