package network

import (
	"sync"
	"tankai-server/pkg/api"
	"tankai-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SubscriberBuffer - сколько снимков может ждать отправки одному зрителю.
// Медленный зритель пропускает кадры, игровой цикл его не ждёт.
const SubscriberBuffer = 16

// Broadcaster занимается только рассылкой снимков подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> Личный канал
	subscribers map[string]chan api.Snapshot
	dropped     map[string]int

	log *logrus.Entry
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.Snapshot),
		dropped:     make(map[string]int),
		log:         logger.Component("hub"),
	}
}

// Register создает личный канал для сессии зрителя
func (b *Broadcaster) Register(sessionID string) chan api.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[sessionID]; ok {
		close(old)
	}

	ch := make(chan api.Snapshot, SubscriberBuffer)
	b.subscribers[sessionID] = ch
	b.dropped[sessionID] = 0
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		close(ch)
		delete(b.subscribers, sessionID)
		delete(b.dropped, sessionID)
	}
}

// SendTo отправляет снимок конкретной сессии (Unicast). Возвращает false,
// если сессии нет или её канал переполнен.
func (b *Broadcaster) SendTo(sessionID string, msg api.Snapshot) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[sessionID]
	if !ok {
		return false
	}
	return b.offer(sessionID, ch, msg)
}

// Broadcast отправляет всем зрителям
func (b *Broadcaster) Broadcast(msg api.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		b.offer(id, ch, msg)
	}
}

func (b *Broadcaster) offer(id string, ch chan api.Snapshot, msg api.Snapshot) bool {
	select {
	case ch <- msg:
		return true
	default:
		b.dropped[id]++
		// Раз в секунду при 60 кадрах
		if b.dropped[id]%60 == 1 {
			b.log.WithFields(logrus.Fields{
				"session": id,
				"dropped": b.dropped[id],
			}).Warn("slow viewer, frames dropped")
		}
		return false
	}
}

// HasSubscriber проверяет, подключена ли сессия
func (b *Broadcaster) HasSubscriber(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[sessionID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
// Игровой цикл не строит снимки, пока смотреть некому.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - сколько снимков сессия пропустила из-за переполненного канала.
func (b *Broadcaster) Dropped(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped[sessionID]
}
