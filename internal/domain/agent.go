package domain

import (
	"strconv"

	"github.com/paulmach/orb"
)

// AgentID - идентификатор танка в матче. Совпадает с индексом слота появления.
type AgentID uint32

func (id AgentID) String() string {
	return "tank_" + strconv.FormatUint(uint64(id), 10)
}

// Agent - физическое тело танка. Сервисы движения и боя управляют им только
// через этот интерфейс, поэтому в тестах его легко подменить.
type Agent interface {
	ID() AgentID
	Position() orb.Point
	Rotation() float64
	Radius() float64
	Health() int
	Alive() bool

	// Move сдвигает танк вдоль текущего направления. Отрицательное значение - задний ход.
	Move(distance float64)
	// Rotate увеличивает угол поворота на delta радиан.
	Rotate(delta float64)
	// Shoot копит заряд, пока want == true, и выпускает снаряд на отпускании.
	Shoot(want bool, dt float64)
	ChargeTime() float64
}

// LifecycleHooks - колбэки жизненного цикла танка.
type LifecycleHooks struct {
	OnDamage  func(amount int)
	OnDeath   func()
	OnRespawn func()
}

// Path - полилиния маршрута. Пустой путь означает "маршрут не найден".
type Path = orb.LineString
