package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua content constructors and helpers as globals.
// Constructors follow the curried form: Event "id" { ... }.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", author = "...", version = "...", intro = "..." }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	curried := func(sink *[]rawDef) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				*sink = append(*sink, rawDef{id: id, table: tbl})
				return 0
			}))
			return 1
		})
	}

	L.SetGlobal("Location", curried(&coll.locations))
	L.SetGlobal("Faction", curried(&coll.factions))
	L.SetGlobal("Item", curried(&coll.items))
	L.SetGlobal("Event", curried(&coll.events))
	L.SetGlobal("Quest", curried(&coll.quests))

	// Require { period = {...}, stats = {...}, ... } — pass-through marker.
	L.SetGlobal("Require", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))

	// Choice(text, outcome [, opts]) — opts: requires, success, fail.
	L.SetGlobal("Choice", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		outcomeTbl := L.CheckTable(2)
		tbl := L.NewTable()
		tbl.RawSetString("text", lua.LString(text))
		tbl.RawSetString("outcome", outcomeTbl)
		if opts, ok := L.Get(3).(*lua.LTable); ok {
			tbl.RawSetString("requires", opts.RawGetString("requires"))
			tbl.RawSetString("success", opts.RawGetString("success"))
			tbl.RawSetString("fail", opts.RawGetString("fail"))
		}
		L.Push(tbl)
		return 1
	}))

	// Chain(match, next [, guard]) — fires when the chosen choice's text
	// contains match (case-insensitive).
	L.SetGlobal("Chain", L.NewFunction(func(L *lua.LState) int {
		match := L.CheckString(1)
		next := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("match", lua.LString(match))
		tbl.RawSetString("next", lua.LString(next))
		if guard, ok := L.Get(3).(*lua.LTable); ok {
			tbl.RawSetString("guard", guard)
		}
		L.Push(tbl)
		return 1
	}))

	// ChainAt(index, next [, guard]) — fires on the zero-based choice index.
	L.SetGlobal("ChainAt", L.NewFunction(func(L *lua.LState) int {
		index := L.CheckInt(1)
		next := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("index", lua.LNumber(index))
		tbl.RawSetString("next", lua.LString(next))
		if guard, ok := L.Get(3).(*lua.LTable); ok {
			tbl.RawSetString("guard", guard)
		}
		L.Push(tbl)
		return 1
	}))

	// BranchRep(at_step, faction, min_rep, target) — reputation path.
	L.SetGlobal("BranchRep", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("at_step", lua.LNumber(L.CheckInt(1)))
		tbl.RawSetString("faction", lua.LString(L.CheckString(2)))
		tbl.RawSetString("min_rep", lua.LNumber(L.CheckInt(3)))
		tbl.RawSetString("target", lua.LString(L.CheckString(4)))
		L.Push(tbl)
		return 1
	}))

	// BranchFlag(at_step, flag, target) — story-flag path.
	L.SetGlobal("BranchFlag", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("at_step", lua.LNumber(L.CheckInt(1)))
		tbl.RawSetString("flag", lua.LString(L.CheckString(2)))
		tbl.RawSetString("target", lua.LString(L.CheckString(3)))
		L.Push(tbl)
		return 1
	}))
}
