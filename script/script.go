// Package script runs mechanics written in tengo. A script assigns the hooks
// it cares about (on_cast, on_action, on_object, on_director, on_timer,
// on_combat, on_weather, on_reset) and drives attacks through the engine
// functions handed to every hook.
package script

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
	"github.com/milk9111/raidsim/rng"
	"go.uber.org/zap"
)

var ErrReentrant = errors.New("script: hook called from inside a hook")

// prelude declares every hook as a no-op so scripts only assign the ones they
// use.
const prelude = `
on_reset := func(engine, state) {}
on_cast := func(engine, state, ev) {}
on_action := func(engine, state, ev) {}
on_object := func(engine, state, ev) {}
on_director := func(engine, state, category) {}
on_timer := func(engine, state, name) {}
on_combat := func(engine, state, started) {}
on_weather := func(engine, state, weather) {}
`

const dispatch = `
if __hook == "reset" {
	on_reset(__engine, __state)
} else if __hook == "cast" {
	on_cast(__engine, __state, __event)
} else if __hook == "action" {
	on_action(__engine, __state, __event)
} else if __hook == "object" {
	on_object(__engine, __state, __event)
} else if __hook == "director" {
	on_director(__engine, __state, __event)
} else if __hook == "timer" {
	on_timer(__engine, __state, __event)
} else if __hook == "combat" {
	on_combat(__engine, __state, __event)
} else if __hook == "weather" {
	on_weather(__engine, __state, __event)
}
`

// modules are the stdlib modules scripts may import.
var modules = []string{"math", "text", "enum", "rand"}

// Mechanic is a mechanic whose behaviour lives in a tengo script.
type Mechanic struct {
	mechanic.Base
	source   string
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
	rnd      *rand.Rand
	running  bool
}

var _ mechanic.Mechanic = (*Mechanic)(nil)

// New compiles src. The script body runs once to validate it before New
// returns.
func New(name string, src []byte, d mechanic.Deps) (*Mechanic, error) {
	m := &Mechanic{
		Base:   mechanic.NewBase(name, d),
		source: name,
		state:  &tengo.Map{Value: map[string]tengo.Object{}},
	}
	m.rnd = rng.Salted(0, 0)

	s := tengo.NewScript([]byte(prelude + "\n" + string(src) + "\n" + dispatch))
	for _, v := range []string{"__hook", "__event"} {
		if err := s.Add(v, ""); err != nil {
			return nil, fmt.Errorf("script: %s: %w", name, err)
		}
	}
	if err := s.Add("__engine", map[string]any{}); err != nil {
		return nil, fmt.Errorf("script: %s: %w", name, err)
	}
	if err := s.Add("__state", map[string]any{}); err != nil {
		return nil, fmt.Errorf("script: %s: %w", name, err)
	}
	s.SetImports(stdlib.GetModuleMap(modules...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	m.compiled = compiled
	m.engine = m.buildEngine()

	if err := m.run("", tengo.UndefinedValue); err != nil {
		return nil, fmt.Errorf("script: %s: %w", name, err)
	}
	return m, nil
}

// Load compiles the named script from prefabs/scripts.
func Load(name, scriptName string, d mechanic.Deps) (*Mechanic, error) {
	src, err := prefabs.LoadScript(scriptName)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", scriptName, err)
	}
	m, err := New(name, src, d)
	if err != nil {
		return nil, err
	}
	m.source = scriptName
	return m, nil
}

// Factory loads scriptName for every activation. A script that fails to
// load leaves an inert mechanic behind and logs why.
func Factory(name, scriptName string) mechanic.Factory {
	return func(d mechanic.Deps) mechanic.Mechanic {
		m, err := Load(name, scriptName, d)
		if err != nil {
			log := d.Log
			if log == nil {
				log = zap.NewNop()
			}
			log.Error("failed to load scripted mechanic", zap.String("script", scriptName), zap.Error(err))
			inert := mechanic.NewBase(name, d)
			return &inert
		}
		return m
	}
}

// Source names the script the mechanic runs.
func (m *Mechanic) Source() string { return m.source }

// State is the script's persistent state map.
func (m *Mechanic) State() map[string]any {
	out := make(map[string]any, len(m.state.Value))
	for k, v := range m.state.Value {
		out[k] = tengo.ToInterface(v)
	}
	return out
}

func (m *Mechanic) SetSeed(seed int32) {
	m.Base.SetSeed(seed)
	m.rnd = m.Rand(0)
}

func (m *Mechanic) Reset() {
	m.Base.Reset()
	m.rnd = m.Rand(0)
	m.state = &tengo.Map{Value: map[string]tengo.Object{}}
	m.call("reset", tengo.UndefinedValue)
}

// Close drops the compiled script. Hooks after Close do nothing.
func (m *Mechanic) Close() {
	m.Base.Close()
	m.compiled = nil
}

func (m *Mechanic) OnCastStart(c host.CastStart) {
	m.call("cast", &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"action":   &tengo.Int{Value: int64(c.ActionID)},
		"source":   &tengo.Int{Value: int64(c.SourceID)},
		"x":        &tengo.Float{Value: c.Position.X},
		"y":        &tengo.Float{Value: c.Position.Y},
		"z":        &tengo.Float{Value: c.Position.Z},
		"rotation": &tengo.Float{Value: c.Rotation},
	}})
}

func (m *Mechanic) OnActionEffect(a host.ActionEffect) {
	targets := make([]tengo.Object, 0, len(a.Targets))
	for _, t := range a.Targets {
		targets = append(targets, &tengo.Int{Value: int64(t)})
	}
	m.call("action", &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"action":        &tengo.Int{Value: int64(a.ActionID)},
		"source":        &tengo.Int{Value: int64(a.SourceID)},
		"source_player": boolObject(a.SourceIsPlayer),
		"x":             &tengo.Float{Value: a.SourcePosition.X},
		"y":             &tengo.Float{Value: a.SourcePosition.Y},
		"z":             &tengo.Float{Value: a.SourcePosition.Z},
		"rotation":      &tengo.Float{Value: a.SourceRotation},
		"targets":       &tengo.ImmutableArray{Value: targets},
	}})
}

func (m *Mechanic) OnObjectCreated(o host.ObjectCreated) {
	m.call("object", &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"object":   &tengo.Int{Value: int64(o.ObjectID)},
		"data_id":  &tengo.Int{Value: int64(o.DataID)},
		"x":        &tengo.Float{Value: o.Position.X},
		"y":        &tengo.Float{Value: o.Position.Y},
		"z":        &tengo.Float{Value: o.Position.Z},
		"rotation": &tengo.Float{Value: o.Rotation},
	}})
}

func (m *Mechanic) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
	m.call("director", &tengo.String{Value: c.String()})
}

func (m *Mechanic) OnCombatStart() { m.call("combat", tengo.TrueValue) }

func (m *Mechanic) OnCombatEnd() {
	m.call("combat", tengo.FalseValue)
	m.Reset()
}

func (m *Mechanic) OnWeatherChanged(weather uint8) {
	m.call("weather", &tengo.Int{Value: int64(weather)})
}

// call runs one hook and logs a failing script instead of stopping the
// encounter.
func (m *Mechanic) call(hook string, ev tengo.Object) {
	if err := m.run(hook, ev); err != nil {
		m.Log().Error("script hook failed", zap.String("hook", hook), zap.String("script", m.source), zap.Error(err))
	}
}

func (m *Mechanic) run(hook string, ev tengo.Object) error {
	if m.compiled == nil {
		return nil
	}
	if m.running {
		return ErrReentrant
	}
	m.running = true
	defer func() { m.running = false }()

	if err := m.compiled.Set("__hook", hook); err != nil {
		return err
	}
	if err := m.compiled.Set("__event", ev); err != nil {
		return err
	}
	if err := m.compiled.Set("__engine", m.engine); err != nil {
		return err
	}
	if err := m.compiled.Set("__state", m.state); err != nil {
		return err
	}
	return m.compiled.Run()
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectString(obj tengo.Object) string {
	if s, ok := tengo.ToString(obj); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
