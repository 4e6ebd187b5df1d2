/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Command pdxscript parses Paradox-style game script files into generic
// trees and prints them as JSON.
package main

import (
	"os"

	"github.com/EliaValkyr/pdxscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
