// Package loader loads Lua game content into the immutable catalog.
// The Lua VM is sandboxed and discarded after loading — zero Lua at runtime.
// Content failures degrade, never crash: an unusable content directory
// falls back to the built-in catalog, and malformed entries are skipped
// with warnings while the rest of the catalog loads.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/streetcore/engine/catalog"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game      *lua.LTable
	locations []rawDef
	factions  []rawDef
	items     []rawDef
	events    []rawDef
	quests    []rawDef
}

// rawDef holds one authored table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// Load reads all .lua files from dir and compiles them into a catalog.
// It never returns nil: when the directory is missing, empty, or fails to
// execute, the built-in default catalog is returned and the failure goes
// to the warn sink.
func Load(dir string, warn io.Writer) *catalog.Catalog {
	if warn == nil {
		warn = os.Stderr
	}

	coll, err := execDir(dir)
	if err != nil {
		fmt.Fprintf(warn, "warning: loading content from %s: %v; using built-in catalog\n", dir, err)
		return Builtin()
	}

	cat, errs := compile(coll, warn)
	for _, e := range errs {
		fmt.Fprintf(warn, "warning: %s\n", e)
	}
	if len(cat.Events) == 0 {
		fmt.Fprintf(warn, "warning: content in %s produced no usable events; using built-in catalog\n", dir)
		return Builtin()
	}

	validate(cat, warn)
	return cat
}

// execDir runs every .lua file in dir through a sandboxed VM.
func execDir(dir string) (*collector, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory: %w", err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found")
	}

	// game.lua first so metadata exists before content; rest alphabetical.
	sort.Slice(luaFiles, func(i, j int) bool {
		if luaFiles[i] == "game.lua" {
			return true
		}
		if luaFiles[j] == "game.lua" {
			return false
		}
		return luaFiles[i] < luaFiles[j]
	})

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}
	return coll, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Remove math.randomseed to preserve determinism.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
