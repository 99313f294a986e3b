package script

import (
	"github.com/d5/tengo/v2"
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/status"
	"go.uber.org/zap"
)

// owns reports whether e is a live entity this script spawned.
func (m *Mechanic) owns(e ecs.Entity) bool {
	for _, t := range m.Tracked() {
		if t == e {
			return true
		}
	}
	return false
}

// buildEngine exposes the host functions scripts call. Entities cross into
// the script as ints; zero means nothing was created.
func (m *Mechanic) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["spawn"] = &tengo.UserFunction{Name: "spawn", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		kind := objectString(args[0])
		var s attack.Spawn
		if len(args) > 1 {
			s = spawnFromObject(args[1])
		}
		e, ok := m.Spawn(kind, s)
		if !ok {
			return &tengo.Int{Value: 0}, nil
		}
		return &tengo.Int{Value: int64(e)}, nil
	}}

	values["destroy"] = &tengo.UserFunction{Name: "destroy", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, ok := entityArg(args[0])
		if !ok || !m.owns(e) {
			return tengo.FalseValue, nil
		}
		ecs.DestroyEntity(m.World(), e)
		return tengo.TrueValue, nil
	}}

	values["alive"] = &tengo.UserFunction{Name: "alive", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, ok := entityArg(args[0])
		return boolObject(ok && m.World().IsAlive(e)), nil
	}}

	values["contains"] = &tengo.UserFunction{Name: "contains", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, ok := entityArg(args[0])
		x, okX := tengo.ToFloat64(args[1])
		z, okZ := tengo.ToFloat64(args[2])
		if !ok || !okX || !okZ {
			return tengo.FalseValue, nil
		}
		return boolObject(attack.OmenContains(m.World(), e, geom.V3(x, 0, z))), nil
	}}

	values["after"] = &tengo.UserFunction{Name: "after", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		delay, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "delay", Expected: "float", Found: args[0].TypeName()}
		}
		name := objectString(args[1])
		m.After(delay, func() {
			m.call("timer", &tengo.String{Value: name})
		})
		return tengo.TrueValue, nil
	}}

	values["player"] = &tengo.UserFunction{Name: "player", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p, ok := m.LocalPlayer()
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"id":       &tengo.Int{Value: int64(p.ID)},
			"x":        &tengo.Float{Value: p.Position.X},
			"y":        &tengo.Float{Value: p.Position.Y},
			"z":        &tengo.Float{Value: p.Position.Z},
			"rotation": &tengo.Float{Value: p.Rotation},
			"alive":    boolObject(p.Alive),
		}}, nil
	}}

	values["apply"] = &tengo.UserFunction{Name: "apply", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		duration, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "duration", Expected: "float", Found: args[1].TypeName()}
		}
		p, ok := m.LocalPlayer()
		sink := m.Deps().Status
		if !ok || !p.Alive || sink == nil {
			return tengo.FalseValue, nil
		}
		sink.Apply(p.ID, status.Effect{Kind: status.Kind(objectString(args[0])), Duration: duration})
		return tengo.TrueValue, nil
	}}

	values["rand"] = &tengo.UserFunction{Name: "rand", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, ok := tengo.ToInt(args[0])
		if !ok || n <= 0 {
			return &tengo.Int{Value: 0}, nil
		}
		return &tengo.Int{Value: int64(m.rnd.Intn(n))}, nil
	}}

	values["seed"] = &tengo.UserFunction{Name: "seed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(m.Seed())}, nil
	}}

	values["now"] = &tengo.UserFunction{Name: "now", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: m.Now()}, nil
	}}

	values["setting"] = &tengo.UserFunction{Name: "setting", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		key := objectString(args[0])
		switch def := args[1].(type) {
		case *tengo.Int:
			return &tengo.Int{Value: int64(m.Settings().EncounterInt(key, int(def.Value)))}, nil
		case *tengo.Float:
			return &tengo.Float{Value: m.Settings().EncounterFloat(key, def.Value)}, nil
		case *tengo.Bool:
			return boolObject(m.Settings().EncounterBool(key, !def.IsFalsy())), nil
		default:
			return &tengo.String{Value: m.Settings().EncounterString(key, objectString(def))}, nil
		}
	}}

	values["toast"] = &tengo.UserFunction{Name: "toast", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		m.Toast(objectString(args[0]))
		return tengo.UndefinedValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]any, 0, len(args))
		for _, a := range args {
			parts = append(parts, tengo.ToInterface(a))
		}
		m.Log().Info("script", zap.String("script", m.source), zap.Any("args", parts))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// spawnFromObject reads x, y, z, rotation and scale from a script map. A
// scalar scale is applied to every axis.
func spawnFromObject(obj tengo.Object) attack.Spawn {
	var fields map[string]tengo.Object
	switch v := obj.(type) {
	case *tengo.Map:
		fields = v.Value
	case *tengo.ImmutableMap:
		fields = v.Value
	default:
		return attack.Spawn{}
	}
	num := func(key string) float64 {
		if o, ok := fields[key]; ok {
			if f, ok := tengo.ToFloat64(o); ok {
				return f
			}
		}
		return 0
	}
	s := attack.Spawn{
		Position: geom.V3(num("x"), num("y"), num("z")),
		Rotation: num("rotation"),
	}
	if sc := num("scale"); sc > 0 {
		s.Scale = geom.V3(sc, sc, sc)
	}
	return s
}

func entityArg(obj tengo.Object) (ecs.Entity, bool) {
	v, ok := tengo.ToInt64(obj)
	if !ok || v == 0 {
		return ecs.Nil, false
	}
	return ecs.Entity(v), true
}
