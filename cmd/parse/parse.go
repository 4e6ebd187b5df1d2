/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parse provides the parse command for pdxscript.
package parse

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EliaValkyr/pdxscript/cmd/cmdutil"
)

// Cmd is the parse cobra command.
var Cmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse one script file and print it as JSON",
	Long: `Parse one script file into a tree and print it as JSON with keys in
source order. Duplicate keys are grouped into lists.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringArray("workaround", nil, "Apply a named pre-parse workaround (repeatable)")
	Cmd.Flags().Bool("merge-duplicates", false, "Fold top-level duplicate-key groups of trees into single trees")
}

func run(cmd *cobra.Command, args []string) error {
	names, _ := cmd.Flags().GetStringArray("workaround")
	mergeDuplicates, _ := cmd.Flags().GetBool("merge-duplicates")

	workarounds, err := cmdutil.ResolveWorkarounds(names)
	if err != nil {
		return err
	}

	p, _, err := cmdutil.NewParser(cmd)
	if err != nil {
		return err
	}

	t, err := p.ParseFile(cmd.Context(), args[0], workarounds...)
	if err != nil {
		return err
	}
	if mergeDuplicates {
		t.MergeDuplicateKeys()
	}

	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
