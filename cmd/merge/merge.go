/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package merge provides the merge command for pdxscript.
package merge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EliaValkyr/pdxscript/cache"
	"github.com/EliaValkyr/pdxscript/cmd/cmdutil"
	pdxfs "github.com/EliaValkyr/pdxscript/fs"
	"github.com/EliaValkyr/pdxscript/parser"
	"github.com/EliaValkyr/pdxscript/tree"
)

// Cmd is the merge cobra command.
var Cmd = &cobra.Command{
	Use:   "merge <folder>",
	Short: "Parse a folder's script files into one merged tree",
	Long: `Parse every matching file in a folder, in sorted path order, and merge
them into one tree printed as JSON. By default a top-level key from a later
file overwrites the same key from an earlier file.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("recursive", true, "Include files in subfolders")
	Cmd.Flags().String("extension", "txt", "Only parse files with this extension")
	Cmd.Flags().StringArray("workaround", nil, "Apply a named pre-parse workaround (repeatable)")
	Cmd.Flags().Bool("overwrite", true, "Later files overwrite duplicate top-level keys; with --overwrite=false colliding trees merge shallowly and scalars group into lists")
}

func run(cmd *cobra.Command, args []string) error {
	recursive, _ := cmd.Flags().GetBool("recursive")
	extension, _ := cmd.Flags().GetString("extension")
	names, _ := cmd.Flags().GetStringArray("workaround")
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	workarounds, err := cmdutil.ResolveWorkarounds(names)
	if err != nil {
		return err
	}

	p, cfg, err := cmdutil.NewParser(cmd)
	if err != nil {
		return err
	}

	opts := parser.FolderOptions{
		Recursive:                      recursive,
		FileExtension:                  extension,
		Workarounds:                    workarounds,
		OverwriteDuplicateToplevelKeys: overwrite,
	}

	folder := args[0]
	store := cache.New(pdxfs.NewOSFileSystem(), cfg.CacheDir, cfg.GameVersion)
	t, err := store.Fetch(cacheName(folder, opts), func() (*tree.Tree, error) {
		return p.ParseFolderAsOneFile(cmd.Context(), folder, opts)
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// cacheName derives a filename-safe cache key from the folder and the merge
// options that change the result.
func cacheName(folder string, opts parser.FolderOptions) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(folder)
	if !opts.Recursive {
		name += "-flat"
	}
	if !opts.OverwriteDuplicateToplevelKeys {
		name += "-grouped"
	}
	if len(opts.Workarounds) > 0 {
		name += "-rewritten"
	}
	return name + "-" + opts.FileExtension
}
