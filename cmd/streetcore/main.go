// StreetCore is a deterministic, data-driven survival event engine.
// Usage: streetcore [--version] [--plain] [--seed <n>] [--weights <file>] [--script <file>] [<game_directory>]
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nathoo/streetcore/cli"
	"github.com/nathoo/streetcore/engine"
	"github.com/nathoo/streetcore/engine/selector"
	"github.com/nathoo/streetcore/loader"
	"github.com/nathoo/streetcore/tui"
	"github.com/nathoo/streetcore/world"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	var gameDir string
	var scriptFile string
	var weightsFile string
	seed := time.Now().UnixNano()

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("streetcore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed = n
		case "--weights":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--weights requires a file path\n")
				os.Exit(1)
			}
			i++
			weightsFile = args[i]
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	// Load and compile Lua game content. An unusable directory falls back
	// to the built-in catalog with a warning; no directory at all goes
	// straight to it.
	var cat = loader.Builtin()
	if gameDir != "" {
		cat = loader.Load(gameDir, os.Stderr)
	}

	weights, err := selector.LoadWeights(weightsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sess := engine.New(cat, weights, seed, os.Stderr)
	w := world.New(cat, sess.RNG, "")
	sess.Bind(w)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		fmt.Printf("%s v%s\n\n", cat.Game.Title, cat.Game.Version)
		c := cli.New(sess, w)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		fmt.Printf("%s v%s\n\n", cat.Game.Title, cat.Game.Version)
		c := cli.New(sess, w)
		c.Run()
		return
	}

	if err := tui.Run(sess, w); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
