package system

import (
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
)

// TriggerScripts runs hazard contact scripts. Scripts see four builtins:
// damage(n), heal(n), kill(cause) and health(), all bound to the mortality
// state machine. Compiled scripts are cached by source.
type TriggerScripts struct {
	mortality *Mortality
	cache     map[string]*tengo.Compiled
}

func NewTriggerScripts(mortality *Mortality) *TriggerScripts {
	return &TriggerScripts{
		mortality: mortality,
		cache:     map[string]*tengo.Compiled{},
	}
}

// Run executes the script source for a hazard contact. Errors are logged and
// swallowed: a broken trap script must not take the game loop down.
func (ts *TriggerScripts) Run(src string, hazard ecs.Entity) {
	if ts == nil || src == "" {
		return
	}
	compiled, err := ts.compile(src)
	if err != nil {
		log.Printf("script: hazard %v compile error: %v", hazard, err)
		return
	}
	if err := compiled.Run(); err != nil {
		log.Printf("script: hazard %v error: %v", hazard, err)
	}
}

func (ts *TriggerScripts) compile(src string) (*tengo.Compiled, error) {
	if compiled, ok := ts.cache[src]; ok {
		return compiled, nil
	}

	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	_ = script.Add("damage", &tengo.UserFunction{Name: "damage", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, ok := tengo.ToInt(args[0])
		if !ok {
			return tengo.UndefinedValue, nil
		}
		ts.mortality.ApplyDamage(n)
		return tengo.UndefinedValue, nil
	}})

	_ = script.Add("heal", &tengo.UserFunction{Name: "heal", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, ok := tengo.ToInt(args[0])
		if !ok {
			return tengo.UndefinedValue, nil
		}
		ts.mortality.Heal(n)
		return tengo.UndefinedValue, nil
	}})

	_ = script.Add("kill", &tengo.UserFunction{Name: "kill", Value: func(args ...tengo.Object) (tengo.Object, error) {
		cause := component.DeathCauseGeneric
		if len(args) == 1 {
			if s, ok := tengo.ToString(args[0]); ok && s == "forced_fall" {
				cause = component.DeathCauseForcedFall
			}
		}
		ts.mortality.Die(cause)
		return tengo.UndefinedValue, nil
	}})

	_ = script.Add("health", &tengo.UserFunction{Name: "health", Value: func(args ...tengo.Object) (tengo.Object, error) {
		current, _ := ts.mortality.Health()
		return &tengo.Int{Value: int64(current)}, nil
	}})

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	ts.cache[src] = compiled
	return compiled, nil
}
