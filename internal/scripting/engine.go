package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/bodyfx/engine/internal/data"
	"github.com/bodyfx/engine/internal/timeline"
)

// Engine wraps a single gopher-lua VM used at boot to register scripted
// timelines and event mappings into the data table. Single-goroutine
// access only; scripts run once during load.
//
// Script API:
//
//	register_timeline("belly_ramp", {
//	    { time = 0.0, role = "caster", scale = { node = "Head", factor = 0.5 } },
//	    { time = 2.0, role = "target", morph = { name = "Belly Bulge", delta = 20, tween = 1.0 } },
//	})
//	map_event("PairStart_belly", "belly_ramp")
type Engine struct {
	vm    *lua.LState
	table *data.Table
	log   *zap.Logger
}

// NewEngine creates a Lua engine, installs the registration API, and
// runs every .lua file in scriptsDir. A missing directory is fine.
func NewEngine(scriptsDir string, table *data.Table, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, table: table, log: log}
	vm.SetGlobal("register_timeline", vm.NewFunction(e.luaRegisterTimeline))
	vm.SetGlobal("map_event", vm.NewFunction(e.luaMapEvent))

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load timeline scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// register_timeline(name, { {time=..., role=..., scale|morph|vis={...}}, ... })
func (e *Engine) luaRegisterTimeline(L *lua.LState) int {
	name := L.CheckString(1)
	tbl := L.CheckTable(2)

	n := tbl.Len()
	out := make([]timeline.TimedCommand, 0, n)
	for i := 1; i <= n; i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.RaiseError("register_timeline %q: command %d is not a table", name, i)
			return 0
		}
		cmd, err := data.BuildCommand(specFromTable(entry))
		if err != nil {
			L.RaiseError("register_timeline %q: command %d: %v", name, i, err)
			return 0
		}
		out = append(out, cmd)
	}

	e.table.RegisterTimeline(name, out)
	e.log.Debug("lua timeline registered", zap.String("name", name), zap.Int("commands", len(out)))
	return 0
}

// map_event(tag, timeline_name)
func (e *Engine) luaMapEvent(L *lua.LState) int {
	tag := L.CheckString(1)
	name := L.CheckString(2)
	e.table.MapEvent(tag, name)
	return 0
}

func specFromTable(t *lua.LTable) data.CommandSpec {
	spec := data.CommandSpec{
		Time: float64(lua.LVAsNumber(t.RawGetString("time"))),
		Role: lua.LVAsString(t.RawGetString("role")),
	}

	if st, ok := t.RawGetString("scale").(*lua.LTable); ok {
		spec.Scale = &data.ScaleSpec{
			Node:   lua.LVAsString(st.RawGetString("node")),
			Factor: float64(lua.LVAsNumber(st.RawGetString("factor"))),
		}
	}
	if mt, ok := t.RawGetString("morph").(*lua.LTable); ok {
		spec.Morph = &data.MorphSpec{
			Name:  lua.LVAsString(mt.RawGetString("name")),
			Delta: float64(lua.LVAsNumber(mt.RawGetString("delta"))),
			Tween: float64(lua.LVAsNumber(mt.RawGetString("tween"))),
			Curve: lua.LVAsString(mt.RawGetString("curve")),
		}
	}
	if vt, ok := t.RawGetString("vis").(*lua.LTable); ok {
		spec.Vis = &data.VisSpec{
			Key:     lua.LVAsString(vt.RawGetString("key")),
			Visible: lua.LVAsBool(vt.RawGetString("visible")),
		}
	}
	return spec
}
