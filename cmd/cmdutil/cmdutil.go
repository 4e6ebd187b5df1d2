/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmdutil provides shared setup for the pdxscript subcommands.
package cmdutil

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EliaValkyr/pdxscript/backend"
	"github.com/EliaValkyr/pdxscript/backend/native"
	"github.com/EliaValkyr/pdxscript/config"
	pdxfs "github.com/EliaValkyr/pdxscript/fs"
	"github.com/EliaValkyr/pdxscript/parser"
	"github.com/EliaValkyr/pdxscript/workaround"
)

// NewParser builds a Parser from the persistent flags, the environment and
// the optional config file, in that precedence order. When no external
// grammar executable is configured the built-in parser is used.
func NewParser(cmd *cobra.Command) (*parser.Parser, *config.Config, error) {
	filesystem := pdxfs.NewOSFileSystem()
	cfg := config.LoadOrDefault(filesystem, ".")

	base := viper.GetString("base")
	if base == "" {
		base = cfg.BaseFolder
	}
	if base == "" {
		base = "."
	}

	executable := viper.GetString("executable")
	if executable == "" {
		executable = cfg.Executable
	}

	b, err := newBackend(cmd, cfg, executable)
	if err != nil {
		return nil, nil, err
	}

	return parser.New(base, b), cfg, nil
}

func newBackend(cmd *cobra.Command, cfg *config.Config, executable string) (backend.Backend, error) {
	if executable == "" {
		return native.New(), nil
	}

	timeout, err := resolveTimeout(cmd, cfg)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		return backend.NewExec(executable, backend.WithTimeout(timeout))
	}
	return backend.NewExec(executable)
}

func resolveTimeout(cmd *cobra.Command, cfg *config.Config) (time.Duration, error) {
	flag, err := cmd.Flags().GetString("timeout")
	if err == nil && flag != "" {
		d, err := time.ParseDuration(flag)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout: %w", err)
		}
		return d, nil
	}
	return cfg.Timeout()
}

// ResolveWorkarounds maps --workaround flag values to built-in workarounds.
func ResolveWorkarounds(names []string) ([]*workaround.Workaround, error) {
	var out []*workaround.Workaround
	for _, name := range names {
		w, ok := workaround.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown workaround %q", name)
		}
		out = append(out, w)
	}
	return out, nil
}
