/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for pdxscript.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EliaValkyr/pdxscript/cmd/merge"
	"github.com/EliaValkyr/pdxscript/cmd/parse"
	"github.com/EliaValkyr/pdxscript/cmd/search"
	"github.com/EliaValkyr/pdxscript/cmd/version"
)

var rootCmd = &cobra.Command{
	Use:   "pdxscript",
	Short: "Parse game script files into generic trees",
	Long: `pdxscript parses the key/value script files of Paradox-style games into
generic ordered trees and prints them as JSON. Duplicate keys are grouped
into lists instead of being overwritten.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("base", "b", "", "Base folder the file arguments are relative to (defaults to the configured baseFolder)")
	rootCmd.PersistentFlags().StringP("executable", "x", "", "Path to the external grammar tool; empty uses the built-in parser")
	rootCmd.PersistentFlags().String("timeout", "", "Per-file bound on external tool invocations, e.g. 30s")

	viper.BindPFlag("executable", rootCmd.PersistentFlags().Lookup("executable"))
	viper.BindEnv("executable", "PDXSCRIPT_RAKALY")
	viper.BindPFlag("base", rootCmd.PersistentFlags().Lookup("base"))
	viper.BindEnv("base", "PDXSCRIPT_BASE")

	rootCmd.AddCommand(parse.Cmd)
	rootCmd.AddCommand(merge.Cmd)
	rootCmd.AddCommand(search.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
