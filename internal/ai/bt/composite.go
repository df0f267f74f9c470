package bt

import "math/rand"

const none = -1

// Selector перебирает детей по порядку до первого не-Failure.
type Selector struct {
	children []Node
	current  int
}

func NewSelector(children ...Node) *Selector {
	return &Selector{children: children, current: none}
}

func (s *Selector) Name() string { return "Selector" }

func (s *Selector) OnEnter() {
	s.current = none
	if len(s.children) > 0 {
		s.children[0].OnEnter()
		s.current = 0
	}
}

func (s *Selector) OnExit() {
	if s.current != none {
		s.children[s.current].OnExit()
		s.current = none
	}
}

func (s *Selector) Tick(dt float64) Status {
	for i, child := range s.children {
		fresh := i != s.current
		if fresh {
			child.OnEnter()
		}

		st := child.Tick(dt)
		switch st {
		case Failure:
			child.OnExit()
			if !fresh {
				s.current = none
			}
			continue

		case Running:
			// Передача управления: прежний активный ребёнок выходит
			if fresh {
				if s.current != none {
					s.children[s.current].OnExit()
				}
				s.current = i
			}
			return Running

		default:
			child.OnExit()
			if fresh && s.current != none {
				s.children[s.current].OnExit()
			}
			s.current = none
			return Success
		}
	}
	return Failure
}

func (s *Selector) ActiveChild() Node {
	if s.current == none {
		return nil
	}
	return s.children[s.current]
}

// Sequence выполняет детей по очереди. Любой Failure откатывает к первому ребёнку.
// Успех ребёнка продвигает очередь на следующий тик.
type Sequence struct {
	children []Node
	current  int
	entered  bool
}

func NewSequence(children ...Node) *Sequence {
	return &Sequence{children: children}
}

func (s *Sequence) Name() string { return "Sequence" }

func (s *Sequence) OnEnter() {
	s.current = 0
	s.entered = false
	if len(s.children) > 0 {
		s.children[0].OnEnter()
		s.entered = true
	}
}

func (s *Sequence) OnExit() {
	if s.entered {
		s.children[s.current].OnExit()
		s.entered = false
	}
}

func (s *Sequence) Tick(dt float64) Status {
	if s.current >= len(s.children) {
		return Success
	}

	child := s.children[s.current]
	if !s.entered {
		child.OnEnter()
		s.entered = true
	}

	switch child.Tick(dt) {
	case Running:
		return Running
	case Failure:
		child.OnExit()
		s.entered = false
		s.current = 0
		return Failure
	}

	child.OnExit()
	s.entered = false
	s.current++
	if s.current < len(s.children) {
		s.children[s.current].OnEnter()
		s.entered = true
		return Running
	}
	return Success
}

func (s *Sequence) ActiveChild() Node {
	if !s.entered {
		return nil
	}
	return s.children[s.current]
}

// RandomSelector выбирает случайного ребёнка, доводит его до конца и выбирает снова.
// Сам никогда не завершается.
type RandomSelector struct {
	children []Node
	rng      *rand.Rand
	current  int
	active   bool
}

func NewRandomSelector(rng *rand.Rand, children ...Node) *RandomSelector {
	return &RandomSelector{children: children, rng: rng}
}

func (s *RandomSelector) Name() string { return "RandSel" }

func (s *RandomSelector) OnEnter() {
	s.active = false
	s.selectNew()
}

func (s *RandomSelector) OnExit() {
	if s.active {
		s.children[s.current].OnExit()
		s.active = false
	}
}

func (s *RandomSelector) Tick(dt float64) Status {
	if len(s.children) == 0 {
		return Failure
	}
	if !s.active {
		s.selectNew()
	}

	child := s.children[s.current]
	if child.Tick(dt) == Running {
		return Running
	}
	child.OnExit()
	s.active = false
	s.selectNew()
	return Running
}

func (s *RandomSelector) selectNew() {
	if len(s.children) == 0 {
		return
	}
	s.current = s.rng.Intn(len(s.children))
	s.active = true
	s.children[s.current].OnEnter()
}

func (s *RandomSelector) ActiveChild() Node {
	if !s.active {
		return nil
	}
	return s.children[s.current]
}
