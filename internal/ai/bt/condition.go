package bt

// Condition - лист без состояния: Success, если предикат истинен.
type Condition struct {
	name string
	pred func() bool
}

func NewCondition(name string, pred func() bool) *Condition {
	return &Condition{name: name, pred: pred}
}

func (c *Condition) Name() string { return c.name }
func (c *Condition) OnEnter()     {}
func (c *Condition) OnExit()      {}

func (c *Condition) Tick(float64) Status {
	if c.pred() {
		return Success
	}
	return Failure
}

func TargetVisible(env *Env) *Condition {
	return NewCondition("TargetVisible?", func() bool {
		_, ok := env.BB.TargetVisible()
		return ok
	})
}

func HasLastKnown(env *Env) *Condition {
	return NewCondition("HasLastKnown?", func() bool {
		_, ok := env.BB.LastKnown()
		return ok
	})
}

func HighHP(env *Env) *Condition {
	return NewCondition("HighHP?", func() bool {
		return env.BB.Self.HP > env.Cfg.LowHPThreshold
	})
}
