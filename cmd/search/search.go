/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package search provides the search command for pdxscript.
package search

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EliaValkyr/pdxscript/cmd/cmdutil"
	"github.com/EliaValkyr/pdxscript/parser"
)

// Cmd is the search cobra command.
var Cmd = &cobra.Command{
	Use:   "search <folder> <key>",
	Short: "Find every value bound to a key anywhere in a folder's files",
	Long: `Parse a folder into one merged tree and print every value bound to the
key at any nesting depth, one JSON document per line, in depth-first order.`,
	Args: cobra.ExactArgs(2),
	RunE: run,
}

func init() {
	Cmd.Flags().String("extension", "txt", "Only parse files with this extension")
}

func run(cmd *cobra.Command, args []string) error {
	extension, _ := cmd.Flags().GetString("extension")

	p, _, err := cmdutil.NewParser(cmd)
	if err != nil {
		return err
	}

	opts := parser.DefaultFolderOptions()
	opts.FileExtension = extension
	t, err := p.ParseFolderAsOneFile(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	for value := range t.FindAllRecursively(args[1]) {
		out, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}
	return nil
}
