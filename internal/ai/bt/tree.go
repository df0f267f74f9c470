package bt

// BuildCombatTree собирает основное боевое дерево:
//
//	Selector
//	├── GuardHighHP
//	│   └── Selector
//	│       ├── Sequence: TargetVisible? → Engage
//	│       ├── Sequence: HasLastKnown? → Search
//	│       └── RandSel: Patrol | LookAround
//	└── GuardLowHP
//	    └── Selector
//	        ├── GuardThreat → Flee
//	        └── Repeat → Sequence: MicroPatrol → LookAround
func BuildCombatTree(env *Env) Node {
	high := NewGuardHighHP(env, NewSelector(
		NewSequence(TargetVisible(env), NewEngage(env)),
		NewSequence(HasLastKnown(env), NewSearch(env)),
		NewRandomSelector(env.Rng, NewPatrol(env), NewLookAround(env)),
	))

	low := NewGuardLowHP(env, NewSelector(
		NewGuardThreat(env, NewFlee(env)),
		NewRepeat(NewSequence(NewMicroPatrol(env), NewLookAround(env))),
	))

	return NewSelector(high, low)
}
