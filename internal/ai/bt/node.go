// Package bt - дерево поведения танка.
//
// Каждый узел живёт периодами активности: OnEnter, затем Tick не чаще раза
// за шаг симуляции, затем ровно один OnExit. Составные узлы сами входят в
// детей перед первым Tick и выходят из них при смене управления.
package bt

import (
	"math/rand"
	"tankai-server/internal/ai"

	behaviortree "github.com/joeycumines/go-behaviortree"
)

// Status - результат Tick. Используем тип go-behaviortree, чтобы дерево
// можно было встроить в его планировщик.
type Status = behaviortree.Status

const (
	Running = behaviortree.Running
	Success = behaviortree.Success
	Failure = behaviortree.Failure
)

// StatusName - короткое имя статуса для отладки.
func StatusName(s Status) string {
	switch s {
	case Running:
		return "RUNNING"
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	default:
		return "NONE"
	}
}

type Node interface {
	Tick(dt float64) Status
	OnEnter()
	OnExit()
	Name() string
}

// parent - узел с детьми. ActiveChild возвращает nil, если активного ребёнка нет.
type parent interface {
	ActiveChild() Node
}

// Env - общее окружение узлов одного дерева.
type Env struct {
	BB  *Blackboard
	GW  ai.Gateway
	Cfg Config
	Rng *rand.Rand
}

// ActivePath возвращает узлы вдоль активной ветви от root до листа.
func ActivePath(root Node) []Node {
	var path []Node
	for n := root; n != nil; {
		path = append(path, n)
		p, ok := n.(parent)
		if !ok {
			break
		}
		n = p.ActiveChild()
	}
	return path
}
