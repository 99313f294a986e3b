package prefabs

import (
	"fmt"
	"sort"

	"github.com/milk9111/raidsim/status"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ActionSet is a set of action ids.
type ActionSet map[uint32]struct{}

func NewActionSet(ids ...uint32) ActionSet {
	s := make(ActionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ActionSet) Has(id uint32) bool {
	_, ok := s[id]
	return ok
}

// ActionsSpec lists the player abilities mechanics care about.
type ActionsSpec struct {
	DamageActions map[string][]uint32 `yaml:"damage_actions"`
	AutoAttacks   []uint32            `yaml:"auto_attacks"`
}

// Damage returns every damage action across jobs.
func (s ActionsSpec) Damage() ActionSet {
	out := make(ActionSet)
	for _, ids := range s.DamageActions {
		for _, id := range ids {
			out[id] = struct{}{}
		}
	}
	return out
}

// Jobs returns the job names in sorted order.
func (s ActionsSpec) Jobs() []string {
	jobs := make([]string, 0, len(s.DamageActions))
	for j := range s.DamageActions {
		jobs = append(jobs, j)
	}
	sort.Strings(jobs)
	return jobs
}

func LoadActionsSpec() (ActionsSpec, error) {
	return LoadSpec[ActionsSpec]("actions.yaml")
}

type ArenaSpec struct {
	Radius float64 `yaml:"radius"`
}

type ShockwaveSpec struct {
	Actions []uint32 `yaml:"actions"`
	Delay   float64  `yaml:"delay"`
}

type ExaflareSpec struct {
	Radius           float64  `yaml:"radius"`
	RowActions       []uint32 `yaml:"row_actions"`
	LiquidHell       uint32   `yaml:"liquid_hell"`
	LiquidHellEvery  int      `yaml:"liquid_hell_every"`
	EarthshakerCast  uint32   `yaml:"earthshaker_cast"`
	GoldenEnableCast uint32   `yaml:"golden_enable_cast"`
	GoldenCast       uint32   `yaml:"golden_cast"`
}

// HeatSpec is the temperature change one hit causes. Stacking hits grow by
// one step each time they land.
type HeatSpec struct {
	Action   uint32  `yaml:"action"`
	Value    float64 `yaml:"value"`
	Delay    float64 `yaml:"delay"`
	Stacking bool    `yaml:"stacking"`
}

type ADSDifficultySpec struct {
	Count    int     `yaml:"count"`
	Interval float64 `yaml:"interval"`
	Gap      int     `yaml:"gap"`
}

type ADSSpec struct {
	ReuseDelay         float64             `yaml:"reuse_delay"`
	FlareBreathTimeout float64             `yaml:"flare_breath_timeout"`
	Difficulties       []ADSDifficultySpec `yaml:"difficulties"`
}

// JunctionSpec places the junction adds for one telegraph, as slot indices
// around the arena.
type JunctionSpec struct {
	Kaliya   int   `yaml:"kaliya"`
	Melusine int   `yaml:"melusine"`
	ADS      []int `yaml:"ads"`
}

type CrowdControlEffectSpec struct {
	Action        uint32      `yaml:"action"`
	Kind          status.Kind `yaml:"kind"`
	Duration      float64     `yaml:"duration"`
	Effectiveness float64     `yaml:"effectiveness"`
}

type CrowdControlSpec struct {
	Twintania               uint32                   `yaml:"twintania"`
	DurationMultiplier      float64                  `yaml:"duration_multiplier"`
	EffectivenessMultiplier float64                  `yaml:"effectiveness_multiplier"`
	BaitActions             []uint32                 `yaml:"bait_actions"`
	Effects                 []CrowdControlEffectSpec `yaml:"effects"`
}

// Effect returns the crowd control action inflicts.
func (s CrowdControlSpec) Effect(action uint32) (CrowdControlEffectSpec, bool) {
	for _, e := range s.Effects {
		if e.Action == action {
			return e, true
		}
	}
	return CrowdControlEffectSpec{}, false
}

type UCoBSpec struct {
	Name              string           `yaml:"name"`
	Territory         uint16           `yaml:"territory"`
	Arena             ArenaSpec        `yaml:"arena"`
	AftershockActions []uint32         `yaml:"aftershock_actions"`
	Shockwaves        ShockwaveSpec    `yaml:"shockwaves"`
	Exaflares         ExaflareSpec     `yaml:"exaflares"`
	Heat              []HeatSpec       `yaml:"heat"`
	ADS               ADSSpec          `yaml:"ads"`
	Junction          []JunctionSpec   `yaml:"junction"`
	CrowdControl      CrowdControlSpec `yaml:"crowd_control"`
}

// HeatFor returns the heat entry for action.
func (s UCoBSpec) HeatFor(action uint32) (HeatSpec, bool) {
	for _, h := range s.Heat {
		if h.Action == action {
			return h, true
		}
	}
	return HeatSpec{}, false
}

func LoadUCoBSpec() (UCoBSpec, error) {
	spec, err := LoadSpec[UCoBSpec]("ucob.yaml")
	if err != nil {
		return spec, err
	}
	if err := spec.validate(); err != nil {
		return spec, fmt.Errorf("prefabs: ucob.yaml: %w", err)
	}
	return spec, nil
}

func (s UCoBSpec) validate() error {
	if len(s.ADS.Difficulties) == 0 {
		return fmt.Errorf("no ads difficulties")
	}
	for i, d := range s.ADS.Difficulties {
		if d.Count <= 2*d.Gap+1 {
			return fmt.Errorf("ads difficulty %d: %d turrets cannot leave a gap of %d", i, d.Count, d.Gap)
		}
	}
	if len(s.Junction) != 8 {
		return fmt.Errorf("junction table has %d telegraphs, want 8", len(s.Junction))
	}
	return nil
}
