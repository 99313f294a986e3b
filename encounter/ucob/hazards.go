package ucob

import (
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
	"github.com/milk9111/raidsim/status"
)

// pull is a mechanic whose only state is the attacks it tracks. It is cleared
// when the pull ends.
type pull struct {
	mechanic.Base
}

func (p *pull) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		p.Reset()
	}
}

func (p *pull) OnCombatEnd() { p.Reset() }

const twisterObject uint32 = 0x1E8910

// PermanentTwister leaves a twister wherever the fight spawns one.
type PermanentTwister struct {
	pull
}

func NewPermanentTwister(d mechanic.Deps) *PermanentTwister {
	return &PermanentTwister{pull{mechanic.NewBase("PermanentTwister", d)}}
}

// OnCombatEnd keeps twisters up until the director resets the pull.
func (m *PermanentTwister) OnCombatEnd() {}

func (m *PermanentTwister) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID != twisterObject {
		return
	}
	if _, ok := m.LocalPlayer(); !ok {
		return
	}
	m.Spawn(attack.KindTwister, attack.Spawn{Position: o.Position, Rotation: o.Rotation})
}

const earthshakerObject uint32 = 0x1E9663

const (
	earthshakerStarOmen = 4.75
	earthshakerStarVfx  = "vfx/monster/gimmick5/eff/x6r7_b3_g08_c0p.avfx"
	earthshakerStun     = 10.0

	earthshakerPuddleVfx = "bgcommon/world/common/vfx_for_btl/b0801/eff/b0801_yuka_o.avfx"
)

// EarthShakerStar drops a star on every earthshaker puddle.
type EarthShakerStar struct {
	pull
}

func NewEarthShakerStar(d mechanic.Deps) *EarthShakerStar {
	return &EarthShakerStar{pull{mechanic.NewBase("EarthShakerStar", d)}}
}

func (m *EarthShakerStar) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID != earthshakerObject {
		return
	}
	e, ok := m.Spawn(attack.KindStar, attack.Spawn{Position: o.Position})
	if !ok {
		return
	}
	if s, ok := ecs.Get(m.World(), e, attack.StarComponent.Kind()); ok {
		s.OmenTime = earthshakerStarOmen
		s.VfxPath = earthshakerStarVfx
		s.OnHit = m.stun
	}
}

func (m *EarthShakerStar) stun(_ *ecs.World, target host.Actor) {
	if sink := m.Deps().Status; sink != nil {
		sink.Apply(target.ID, status.NewStun(earthshakerStun))
	}
}

// ExpandingEarthshakerPuddles grows the earthshaker puddles well past their
// normal size for the rest of the phase.
type ExpandingEarthshakerPuddles struct {
	pull
}

func NewExpandingEarthshakerPuddles(d mechanic.Deps) *ExpandingEarthshakerPuddles {
	return &ExpandingEarthshakerPuddles{pull{mechanic.NewBase("ExpandingEarthshakerPuddles", d)}}
}

func (m *ExpandingEarthshakerPuddles) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID != earthshakerObject {
		return
	}
	e, ok := m.Spawn(attack.KindExpandingPuddle, attack.Spawn{Position: o.Position, Rotation: o.Rotation})
	if !ok {
		return
	}
	if p, ok := ecs.Get(m.World(), e, attack.ExpandingPuddleComponent.Kind()); ok {
		*p = attack.ExpandingPuddle{
			VfxPath:     earthshakerPuddleVfx,
			StartScale:  0.5,
			EndScale:    5,
			ExpandSpeed: 0.25,
			Lifetime:    22,
		}
	}
}

// LiquidHeaven turns every neurolink into a liquid heaven.
type LiquidHeaven struct {
	pull
}

func NewLiquidHeaven(d mechanic.Deps) *LiquidHeaven {
	return &LiquidHeaven{pull{mechanic.NewBase("LiquidHeaven", d)}}
}

func (m *LiquidHeaven) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID != neurolinkObject {
		return
	}
	if _, ok := m.LocalPlayer(); !ok {
		return
	}
	m.Spawn(attack.KindLiquidHeaven, attack.Spawn{Position: o.Position, Rotation: o.Rotation})
}

// JumpableShockwaves sends a shockwave out from where the big hits land.
type JumpableShockwaves struct {
	pull
	actions prefabs.ActionSet
	delay   float64
}

func NewJumpableShockwaves(d mechanic.Deps, spec prefabs.ShockwaveSpec) *JumpableShockwaves {
	return &JumpableShockwaves{
		pull:    pull{mechanic.NewBase("JumpableShockwaves", d)},
		actions: prefabs.NewActionSet(spec.Actions...),
		delay:   spec.Delay,
	}
}

func (m *JumpableShockwaves) OnActionEffect(a host.ActionEffect) {
	if len(a.Targets) == 0 || !m.actions.Has(a.ActionID) {
		return
	}
	pos := a.TargetPosition
	pos.Y = 0
	m.After(m.delay, func() {
		m.Spawn(attack.KindJumpableShockwave, attack.Spawn{Position: pos})
	})
}
