package systems

import (
	"tankai-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// BulletDamage - урон одного попадания.
const BulletDamage = 1

// ApplyHit засчитывает попадание пули в танк: пуля гаснет, танк получает урон.
// Возвращает true, если танк погиб.
func ApplyHit(b *Bullet, target *Tank) bool {
	hitLogger := logger.Component("combat_system").WithFields(logrus.Fields{
		"shooter_id": b.Owner,
		"target_id":  target.id,
	})

	b.Kill()
	if !target.alive {
		hitLogger.Debug("Hit ignored: target is already dead.")
		return false
	}

	hpBefore := target.health
	died := target.TakeDamage(BulletDamage)

	hitLogger.WithFields(logrus.Fields{
		"hp_before":   hpBefore,
		"hp_after":    target.health,
		"target_died": died,
	}).Debug("Hit resolved.")
	return died
}
