package main

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/milk9111/raidsim/encounter"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/host/hosttest"
	"gopkg.in/yaml.v3"
)

//go:embed timelines/*.yaml
var timelinesFS embed.FS

var errBadEvent = errors.New("timeline: bad event")

const bossID uint64 = 50

// Timeline is a scripted pull: the casts, hits and objects the real fight
// would produce, replayed against the simulation.
type Timeline struct {
	Territory uint16          `yaml:"territory"`
	Boss      uint32          `yaml:"boss_data_id"`
	SpawnX    float64         `yaml:"spawn_x"`
	SpawnZ    float64         `yaml:"spawn_z"`
	Loop      float64         `yaml:"loop"`
	Events    []TimelineEvent `yaml:"events"`
}

// TimelineEvent is one host event. Exactly one of the event fields is set.
type TimelineEvent struct {
	At       float64  `yaml:"at"`
	Cast     uint32   `yaml:"cast"`
	Action   uint32   `yaml:"action"`
	Object   uint32   `yaml:"object"`
	Vfx      string   `yaml:"vfx"`
	Director string   `yaml:"director"`
	Weather  *uint8   `yaml:"weather"`
	Combat   *bool    `yaml:"combat"`
	X        float64  `yaml:"x"`
	Y        float64  `yaml:"y"`
	Z        float64  `yaml:"z"`
	Facing   float64  `yaml:"facing"`
	Targets  []string `yaml:"targets"`
}

func (e TimelineEvent) kinds() int {
	n := 0
	for _, set := range []bool{e.Cast != 0, e.Action != 0, e.Object != 0, e.Vfx != "", e.Director != "", e.Weather != nil, e.Combat != nil} {
		if set {
			n++
		}
	}
	return n
}

func (e TimelineEvent) position() geom.Vec3 { return geom.V3(e.X, e.Y, e.Z) }

func (e TimelineEvent) rotation() float64 { return geom.DegToRad(e.Facing) }

// ParseTimeline decodes and validates a timeline. Events come back ordered
// by time.
func ParseTimeline(data []byte) (Timeline, error) {
	var tl Timeline
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return Timeline{}, fmt.Errorf("timeline: %w", err)
	}
	for i, e := range tl.Events {
		if e.kinds() != 1 {
			return Timeline{}, fmt.Errorf("timeline: event %d: %w: want one event kind, got %d", i, errBadEvent, e.kinds())
		}
		if e.Director != "" {
			if _, ok := parseDirector(e.Director); !ok {
				return Timeline{}, fmt.Errorf("timeline: event %d: %w: director %q", i, errBadEvent, e.Director)
			}
		}
		for _, t := range e.Targets {
			if t != "player" && t != "boss" && t != "party" {
				return Timeline{}, fmt.Errorf("timeline: event %d: %w: target %q", i, errBadEvent, t)
			}
		}
	}
	sort.SliceStable(tl.Events, func(i, j int) bool { return tl.Events[i].At < tl.Events[j].At })
	return tl, nil
}

// LoadTimeline reads path from disk, or one of the bundled timelines by
// name.
func LoadTimeline(path string) (Timeline, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !strings.ContainsAny(path, `/\`) {
		name := strings.TrimSuffix(path, ".yaml") + ".yaml"
		data, err = timelinesFS.ReadFile("timelines/" + name)
	}
	if err != nil {
		return Timeline{}, fmt.Errorf("timeline: load %s: %w", path, err)
	}
	return ParseTimeline(data)
}

func parseDirector(s string) (host.DirectorCategory, bool) {
	for _, c := range []host.DirectorCategory{host.DirectorCommence, host.DirectorRecommence, host.DirectorComplete, host.DirectorWipe} {
		if strings.EqualFold(s, c.String()) {
			return c, true
		}
	}
	return 0, false
}

// Playback walks a timeline forward as simulated time passes.
type Playback struct {
	tl      Timeline
	game    *hosttest.Game
	em      *encounter.Manager
	elapsed float64
	next    int
}

func NewPlayback(tl Timeline, game *hosttest.Game, em *encounter.Manager) *Playback {
	if tl.Boss != 0 {
		game.AddActor(host.Actor{ID: bossID, Alive: true, DataID: tl.Boss})
	}
	return &Playback{tl: tl, game: game, em: em}
}

// Elapsed is the time since the pull started.
func (p *Playback) Elapsed() float64 { return p.elapsed }

// Advance plays every event due within dt and reports how many fired.
func (p *Playback) Advance(dt float64) int {
	p.elapsed += dt
	fired := 0
	for p.next < len(p.tl.Events) && p.tl.Events[p.next].At <= p.elapsed {
		p.play(p.tl.Events[p.next])
		p.next++
		fired++
	}
	if p.next == len(p.tl.Events) && p.tl.Loop > 0 && p.elapsed >= p.tl.Loop {
		p.Restart()
	}
	return fired
}

// Restart rewinds to the first event.
func (p *Playback) Restart() {
	p.elapsed = 0
	p.next = 0
}

func (p *Playback) targets(names []string) []uint64 {
	var out []uint64
	for _, n := range names {
		switch n {
		case "player":
			if pl, ok := p.game.LocalPlayer(); ok {
				out = append(out, pl.ID)
			}
		case "boss":
			out = append(out, bossID)
		case "party":
			for _, a := range p.game.PartyMembers() {
				out = append(out, a.ID)
			}
		}
	}
	return out
}

func (p *Playback) play(e TimelineEvent) {
	pos, rot := e.position(), e.rotation()
	switch {
	case e.Cast != 0:
		p.em.OnCastStart(host.CastStart{ActionID: e.Cast, SourceID: bossID, Position: pos, Rotation: rot})
	case e.Action != 0:
		targets := p.targets(e.Targets)
		ev := host.ActionEffect{
			ActionID:       e.Action,
			SourceID:       bossID,
			SourcePosition: pos,
			SourceRotation: rot,
			Targets:        targets,
		}
		if len(targets) > 0 {
			if a, ok := p.game.Actor(targets[0]); ok {
				ev.TargetPosition = a.Position
			}
		}
		p.em.OnActionEffect(ev)
	case e.Object != 0:
		p.em.OnObjectCreated(host.ObjectCreated{DataID: e.Object, Position: pos, Rotation: rot})
	case e.Vfx != "":
		p.em.OnVfxSpawned(host.VfxSpawned{TargetID: bossID, Path: e.Vfx})
	case e.Director != "":
		c, _ := parseDirector(e.Director)
		p.em.OnDirectorUpdate(c)
	case e.Weather != nil:
		p.em.OnWeatherChanged(*e.Weather)
	case e.Combat != nil:
		p.game.Combat = *e.Combat
	}
}
