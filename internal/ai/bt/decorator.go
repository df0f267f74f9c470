package bt

// Repeat перезапускает ребёнка после каждого завершения. Всегда Running.
type Repeat struct {
	child  Node
	active bool
}

func NewRepeat(child Node) *Repeat {
	return &Repeat{child: child}
}

func (r *Repeat) Name() string { return "Repeat" }

func (r *Repeat) OnEnter() {
	r.child.OnEnter()
	r.active = true
}

func (r *Repeat) OnExit() {
	if r.active {
		r.child.OnExit()
		r.active = false
	}
}

func (r *Repeat) Tick(dt float64) Status {
	if !r.active {
		r.OnEnter()
	}
	if r.child.Tick(dt) == Running {
		return Running
	}
	r.child.OnExit()
	r.child.OnEnter()
	return Running
}

func (r *Repeat) ActiveChild() Node {
	if !r.active {
		return nil
	}
	return r.child
}

// Guard пропускает Tick к ребёнку, пока предикат истинен. Когда предикат
// становится ложным, активный ребёнок выходит, а Guard возвращает Failure.
type Guard struct {
	name   string
	pred   func() bool
	child  Node
	active bool
}

func NewGuard(name string, pred func() bool, child Node) *Guard {
	return &Guard{name: name, pred: pred, child: child}
}

// NewGuardHighHP - ветка здорового танка. Идущее отступление её не пускает.
func NewGuardHighHP(env *Env, child Node) *Guard {
	return NewGuard("GuardHighHP", func() bool {
		return env.BB.Self.HP > env.Cfg.LowHPThreshold && !env.BB.Fleeing
	}, child)
}

// NewGuardLowHP - ветка раненого танка. Держится, пока идёт отступление.
func NewGuardLowHP(env *Env, child Node) *Guard {
	return NewGuard("GuardLowHP", func() bool {
		return env.BB.Self.HP <= env.Cfg.LowHPThreshold || env.BB.Fleeing
	}, child)
}

// NewGuardThreat - угроза видна или известно, где она была.
func NewGuardThreat(env *Env, child Node) *Guard {
	return NewGuard("GuardThreat", func() bool {
		if _, ok := env.BB.TargetVisible(); ok {
			return true
		}
		_, ok := env.BB.LastKnown()
		return ok || env.BB.Fleeing
	}, child)
}

func (g *Guard) Name() string { return g.name }

func (g *Guard) OnEnter() {
	g.active = false
	if g.pred() {
		g.child.OnEnter()
		g.active = true
	}
}

func (g *Guard) OnExit() {
	if g.active {
		g.child.OnExit()
		g.active = false
	}
}

func (g *Guard) Tick(dt float64) Status {
	if !g.pred() {
		g.OnExit()
		return Failure
	}
	if !g.active {
		g.child.OnEnter()
		g.active = true
	}
	return g.child.Tick(dt)
}

func (g *Guard) ActiveChild() Node {
	if !g.active {
		return nil
	}
	return g.child
}
