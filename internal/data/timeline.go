package data

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bodyfx/engine/internal/timeline"
)

// Clamp ranges applied at load time. Runtime code can then trust every
// command it is handed.
const (
	scaleFactorMin = 0.0
	scaleFactorMax = 5.0
	morphDeltaMin  = -1000.0
	morphDeltaMax  = 1000.0
)

// Table holds the loaded timeline definitions: animation event tag →
// timeline name, vis group expansions, and the command lists themselves
// (sorted ascending by time, values clamped). Built at boot, read-only
// afterwards except for Lua script registration before the loop starts.
type Table struct {
	strict    bool
	log       *zap.Logger
	eventMap  map[string]string
	visGroups map[string][]string
	timelines map[string][]timeline.TimedCommand
}

// NewTable returns an empty table, for hosts that define all of their
// content through scripts.
func NewTable(strict bool, log *zap.Logger) *Table {
	return &Table{
		strict:    strict,
		log:       log,
		eventMap:  make(map[string]string),
		visGroups: make(map[string][]string),
		timelines: make(map[string][]timeline.TimedCommand),
	}
}

// Timeline returns the command list registered under name.
func (t *Table) Timeline(name string) ([]timeline.TimedCommand, bool) {
	cmds, ok := t.timelines[name]
	return cmds, ok
}

// TimelineForEvent maps an animation event tag to its timeline.
func (t *Table) TimelineForEvent(tag string) (string, []timeline.TimedCommand, bool) {
	name, ok := t.eventMap[tag]
	if !ok {
		return "", nil, false
	}
	cmds, ok := t.timelines[name]
	if !ok {
		if t.strict {
			t.log.Warn("event maps to unknown timeline",
				zap.String("tag", tag), zap.String("timeline", name))
		}
		return name, nil, false
	}
	return name, cmds, true
}

// VisGroups returns the group key → exact object names expansion.
func (t *Table) VisGroups() map[string][]string { return t.visGroups }

func (t *Table) TimelineCount() int { return len(t.timelines) }
func (t *Table) EventCount() int    { return len(t.eventMap) }

// MapEvent registers an event tag → timeline mapping. Used by Lua
// scripts at boot; later mappings win.
func (t *Table) MapEvent(tag, name string) {
	if tag == "" || name == "" {
		return
	}
	t.eventMap[tag] = name
}

// RegisterTimeline installs a command list under name, applying the same
// sort and clamp the YAML loader applies. Used by Lua scripts at boot.
func (t *Table) RegisterTimeline(name string, cmds []timeline.TimedCommand) {
	if name == "" {
		return
	}
	sortAndClamp(cmds)
	t.timelines[name] = cmds
}

// --- YAML loading ---

// CommandSpec is the loosely-typed command description shared by the
// YAML loader and the Lua script API. BuildCommand validates it into a
// runtime command.
type CommandSpec struct {
	Time  float64    `yaml:"time"`
	Role  string     `yaml:"role"`
	Scale *ScaleSpec `yaml:"scale"`
	Morph *MorphSpec `yaml:"morph"`
	Vis   *VisSpec   `yaml:"vis"`
}

type ScaleSpec struct {
	Node   string  `yaml:"node"`
	Factor float64 `yaml:"factor"`
}

type MorphSpec struct {
	Name  string  `yaml:"name"`
	Delta float64 `yaml:"delta"`
	Tween float64 `yaml:"tween"`
	Curve string  `yaml:"curve"`
}

type VisSpec struct {
	Key     string `yaml:"key"`
	Visible bool   `yaml:"visible"`
}

type timelineFile struct {
	General struct {
		Strict bool `yaml:"strict"`
	} `yaml:"general"`
	EventMap  map[string]string        `yaml:"event_map"`
	VisGroups map[string][]string      `yaml:"vis_groups"`
	Timelines map[string][]CommandSpec `yaml:"timelines"`
}

// Load reads the timeline definition file. In strict mode a malformed
// command fails the load; otherwise it is dropped with a warning.
func Load(path string, log *zap.Logger) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timelines %s: %w", path, err)
	}
	var file timelineFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse timelines %s: %w", path, err)
	}

	t := &Table{
		strict:    file.General.Strict,
		log:       log,
		eventMap:  make(map[string]string, len(file.EventMap)),
		visGroups: make(map[string][]string, len(file.VisGroups)),
		timelines: make(map[string][]timeline.TimedCommand, len(file.Timelines)),
	}
	for tag, name := range file.EventMap {
		t.MapEvent(tag, name)
	}
	for key, names := range file.VisGroups {
		t.visGroups[key] = names
	}

	for name, entries := range file.Timelines {
		cmds := make([]timeline.TimedCommand, 0, len(entries))
		for i, entry := range entries {
			cmd, err := BuildCommand(entry)
			if err != nil {
				if t.strict {
					return nil, fmt.Errorf("timeline %q command %d: %w", name, i, err)
				}
				log.Warn("dropping malformed timeline command",
					zap.String("timeline", name), zap.Int("index", i), zap.Error(err))
				continue
			}
			cmds = append(cmds, cmd)
		}
		sortAndClamp(cmds)
		t.timelines[name] = cmds
	}

	return t, nil
}

// BuildCommand validates a spec into a runtime command. Only linear
// tween curves pass; anything else is refused here so the runtime never
// sees it.
func BuildCommand(entry CommandSpec) (timeline.TimedCommand, error) {
	var cmd timeline.TimedCommand
	cmd.TimeSeconds = entry.Time

	switch strings.ToLower(strings.TrimSpace(entry.Role)) {
	case "", "caster":
		cmd.Role = timeline.RoleCaster
	case "target":
		cmd.Role = timeline.RoleTarget
	default:
		return cmd, fmt.Errorf("unknown role %q", entry.Role)
	}

	payloads := 0
	if entry.Scale != nil {
		payloads++
	}
	if entry.Morph != nil {
		payloads++
	}
	if entry.Vis != nil {
		payloads++
	}
	if payloads != 1 {
		return cmd, fmt.Errorf("want exactly one of scale/morph/vis, got %d", payloads)
	}

	switch {
	case entry.Scale != nil:
		node, ok := ResolveNodeKey(entry.Scale.Node)
		if !ok {
			return cmd, fmt.Errorf("unknown node key %q", entry.Scale.Node)
		}
		cmd.Kind = timeline.KindScale
		cmd.Key = node
		cmd.Scale = entry.Scale.Factor

	case entry.Morph != nil:
		if entry.Morph.Name == "" {
			return cmd, fmt.Errorf("morph command missing name")
		}
		// Non-linear curves are a reserved extension: recognized in the
		// schema, refused here.
		switch strings.ToLower(strings.TrimSpace(entry.Morph.Curve)) {
		case "", "linear":
		default:
			return cmd, fmt.Errorf("unsupported tween curve %q", entry.Morph.Curve)
		}
		cmd.Kind = timeline.KindMorph
		cmd.MorphName = ResolveMorphAlias(entry.Morph.Name)
		cmd.Delta = entry.Morph.Delta
		cmd.TweenSeconds = entry.Morph.Tween
		cmd.Curve = timeline.CurveLinear

	case entry.Vis != nil:
		if entry.Vis.Key == "" {
			return cmd, fmt.Errorf("vis command missing key")
		}
		cmd.Kind = timeline.KindVisibility
		cmd.Key = entry.Vis.Key
		cmd.Visible = entry.Vis.Visible
	}

	return cmd, nil
}

// sortAndClamp is the load-time invariant the runtime relies on:
// non-negative times in ascending order, payload values inside their
// safety ranges.
func sortAndClamp(cmds []timeline.TimedCommand) {
	for i := range cmds {
		c := &cmds[i]
		if c.TimeSeconds < 0 {
			c.TimeSeconds = 0
		}
		if c.TweenSeconds < 0 {
			c.TweenSeconds = 0
		}
		switch c.Kind {
		case timeline.KindScale:
			c.Scale = clamp(c.Scale, scaleFactorMin, scaleFactorMax)
		case timeline.KindMorph:
			c.Delta = clamp(c.Delta, morphDeltaMin, morphDeltaMax)
		}
	}
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].TimeSeconds < cmds[j].TimeSeconds
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
