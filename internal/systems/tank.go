package systems

import (
	"tankai-server/internal/domain"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

const (
	TankMaxHealth  = 3
	TankRespawnSec = 3.0
	TankRadius     = domain.DefaultRadius

	MaxChargeSec         = 2.0
	BulletBaseSpeed      = 350.0
	BulletSpeedPerCharge = 50.0
	BulletBaseRange      = 100.0
	BulletRangePerCharge = 150.0
)

// Tank - физическое тело танка. Реализует domain.Agent.
type Tank struct {
	world *World
	log   *logrus.Entry

	id     domain.AgentID
	spawn  orb.Point
	pos    orb.Point
	rot    float64
	radius float64

	health       int
	alive        bool
	respawnTimer float64

	charging bool
	charge   float64

	hooks domain.LifecycleHooks
}

var _ domain.Agent = (*Tank)(nil)

func (t *Tank) ID() domain.AgentID { return t.id }

func (t *Tank) Position() orb.Point { return t.pos }

func (t *Tank) Rotation() float64 { return t.rot }

func (t *Tank) Radius() float64 { return t.radius }

func (t *Tank) Health() int { return t.health }

func (t *Tank) Alive() bool { return t.alive }

func (t *Tank) ChargeTime() float64 { return t.charge }

func (t *Tank) Charging() bool { return t.charging }

func (t *Tank) SpawnPoint() orb.Point { return t.spawn }

// SetHooks подписывает на урон, смерть и появление. Повторный вызов заменяет колбэки.
func (t *Tank) SetHooks(h domain.LifecycleHooks) { t.hooks = h }

// Place ставит танк в точку без проверки столкновений.
func (t *Tank) Place(p orb.Point, rot float64) {
	t.pos = p
	t.rot = geom.WrapAngle(rot)
}

func (t *Tank) Move(distance float64) {
	if !t.alive {
		return
	}
	res := CalculateMove(t, distance, t.world)
	t.pos = res.Pos
}

func (t *Tank) Rotate(delta float64) {
	if !t.alive {
		return
	}
	t.rot = geom.WrapAngle(t.rot + delta)
}

// Shoot копит заряд, пока want, и выпускает пулю на отпускании.
// Скорость и дальность растут с зарядом, заряд ограничен MaxChargeSec.
func (t *Tank) Shoot(want bool, dt float64) {
	if !t.alive {
		t.charging, t.charge = false, 0
		return
	}
	if want {
		t.charging = true
		t.charge = min(t.charge+dt, MaxChargeSec)
		return
	}
	if !t.charging {
		return
	}

	speed := BulletBaseSpeed + t.charge*BulletSpeedPerCharge
	reach := BulletBaseRange + t.charge*BulletRangePerCharge
	t.world.spawnBullet(t.pos, geom.Scale(geom.Heading(t.rot), speed), reach, t.id)
	t.log.WithFields(logrus.Fields{"charge": t.charge, "range": reach}).Debug("shot fired")

	t.charging = false
	t.charge = 0
}

// TakeDamage наносит урон живому танку. Возвращает true, если танк погиб.
func (t *Tank) TakeDamage(amount int) bool {
	if !t.alive {
		return false
	}
	t.health -= max(0, amount)
	if t.hooks.OnDamage != nil {
		t.hooks.OnDamage(amount)
	}
	if t.health > 0 {
		return false
	}

	t.health = 0
	t.alive = false
	t.respawnTimer = TankRespawnSec
	t.charging, t.charge = false, 0
	t.log.Info("tank destroyed")
	if t.hooks.OnDeath != nil {
		t.hooks.OnDeath()
	}
	return true
}

// Respawn возвращает танк в игру в точке p с полным здоровьем.
func (t *Tank) Respawn(p orb.Point) {
	t.pos = p
	t.health = TankMaxHealth
	t.alive = true
	t.respawnTimer = 0
	t.log.WithField("pos", p).Info("tank respawned")
	if t.hooks.OnRespawn != nil {
		t.hooks.OnRespawn()
	}
}

// Update ведёт таймер появления мёртвого танка.
func (t *Tank) Update(dt float64) {
	if t.alive {
		return
	}
	t.respawnTimer -= dt
	if t.respawnTimer <= 0 {
		t.Respawn(t.spawn)
	}
}
