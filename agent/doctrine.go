package agent

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Posture is the opponent's mode for one activation: march on the enemy
// flag, or fall back and defend its own.
type Posture int

const (
	PostureOffensive Posture = iota
	PostureDefensive
)

func (p Posture) String() string {
	if p == PostureDefensive {
		return "defensive"
	}
	return "offensive"
}

// PostureEnv is the expr evaluation environment for posture rules. Threat is
// the scalar threat level against the opponent's own flag, Coin a fresh
// uniform draw in [0,1), DiceLead own live dice minus the human's.
type PostureEnv struct {
	Threat   float64
	Coin     float64
	DiceLead int
}

// PostureRule is one condition → posture pair. Rules fire in priority
// order; the first match wins.
type PostureRule struct {
	Name         string
	Priority     int
	ConditionSrc string
	Posture      Posture

	program *vm.Program
}

// Doctrine is a compiled, swappable posture rule set. The director swaps it
// at runtime as the match situation changes; compilation happens before the
// swap so a bad rule set can never replace a working one.
type Doctrine struct {
	mu    sync.RWMutex
	name  string
	rules []*PostureRule
}

// NewDoctrine compiles a rule set. Conditions are expr source evaluated
// against PostureEnv and must yield a bool.
func NewDoctrine(name string, rules []*PostureRule) (*Doctrine, error) {
	compiled, err := compilePostureRules(rules)
	if err != nil {
		return nil, err
	}
	return &Doctrine{name: name, rules: compiled}, nil
}

// Name returns the active rule set's name.
func (d *Doctrine) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rules remain active.
func (d *Doctrine) Swap(name string, rules []*PostureRule) error {
	compiled, err := compilePostureRules(rules)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.name = name
	d.rules = compiled
	d.mu.Unlock()
	slog.Info("doctrine swapped", "name", name, "rules", len(compiled))
	return nil
}

// Evaluate returns the posture of the first rule whose condition holds.
// Defaults to offensive when nothing fires.
func (d *Doctrine) Evaluate(env PostureEnv) Posture {
	d.mu.RLock()
	rules := d.rules
	d.mu.RUnlock()

	for _, r := range rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("posture rule error", "rule", r.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); ok && match {
			return r.Posture
		}
	}
	return PostureOffensive
}

func compilePostureRules(rules []*PostureRule) ([]*PostureRule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(PostureEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile posture rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}

// BalancedRules is the baseline doctrine: defend under real pressure, flip
// a coin under mild pressure, otherwise march. The thresholds are the
// game's tuned values; the cautious and reckless presets shift them.
func BalancedRules() []*PostureRule {
	return []*PostureRule{
		{Name: "hold-the-line", Priority: 100, ConditionSrc: "Threat > 3.0", Posture: PostureDefensive},
		{Name: "hedge", Priority: 50, ConditionSrc: "Threat > 1.0 && Coin < 0.5", Posture: PostureDefensive},
		{Name: "march", Priority: 0, ConditionSrc: "true", Posture: PostureOffensive},
	}
}

// CautiousRules defends earlier and hedges more often; the director picks
// it when the opponent is ahead on dice and wants to protect the lead.
func CautiousRules() []*PostureRule {
	return []*PostureRule{
		{Name: "hold-the-line", Priority: 100, ConditionSrc: "Threat > 2.0", Posture: PostureDefensive},
		{Name: "hedge", Priority: 50, ConditionSrc: "Threat > 0.5 && Coin < 0.7", Posture: PostureDefensive},
		{Name: "march", Priority: 0, ConditionSrc: "true", Posture: PostureOffensive},
	}
}

// RecklessRules all but ignores threats; the director picks it when the
// opponent is behind and a slow game only loses slower.
func RecklessRules() []*PostureRule {
	return []*PostureRule{
		{Name: "hold-the-line", Priority: 100, ConditionSrc: "Threat > 4.5", Posture: PostureDefensive},
		{Name: "hedge", Priority: 50, ConditionSrc: "Threat > 1.0 && Coin < 0.25", Posture: PostureDefensive},
		{Name: "march", Priority: 0, ConditionSrc: "true", Posture: PostureOffensive},
	}
}
