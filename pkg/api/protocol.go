package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера
const (
	TypeSnapshot = "SNAPSHOT"
	TypeError    = "ERROR"
)

// Snapshot это корневой объект, который сервер рассылает зрителям.
// Представляет полный "снимок" матча на конец кадра.
type Snapshot struct {
	// Type тип сообщения. Для снимков всегда "SNAPSHOT".
	Type string `json:"type"`

	MatchID string `json:"matchId"`

	// Frame номер кадра симуляции, Time - симулированное время в секундах.
	Frame uint64  `json:"frame"`
	Time  float64 `json:"time"`

	AIEnabled bool `json:"aiEnabled"`

	// Arena статическая раскладка. Отправляется только в первом снимке сессии.
	Arena *ArenaView `json:"arena,omitempty"`

	Tanks   []TankView   `json:"tanks"`
	Bullets []BulletView `json:"bullets"`

	// Agents отладочное состояние ИИ по каждому танку.
	Agents []AgentView `json:"agents,omitempty"`
}

// Vec точка или вектор на плоскости арены (пиксели).
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RectView прямоугольник постройки: левый верхний угол и размер.
type RectView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ArenaView статическая часть матча.
type ArenaView struct {
	Name       string     `json:"name"`
	Boundary   RectView   `json:"boundary"`
	Structures []RectView `json:"structures"`
	Spawns     []Vec      `json:"spawns"`
}

// TankView это DTO для танка.
type TankView struct {
	ID       string  `json:"id"`
	Pos      Vec     `json:"pos"`
	Rotation float64 `json:"rotation"`
	Radius   float64 `json:"radius"`
	HP       int     `json:"hp"`
	MaxHP    int     `json:"maxHp"`
	IsDead   bool    `json:"isDead"`
	Charging bool    `json:"charging,omitempty"`
	Charge   float64 `json:"charge,omitempty"`
}

// BulletView это DTO для снаряда.
type BulletView struct {
	Owner string `json:"owner"`
	Pos   Vec    `json:"pos"`
	Vel   Vec    `json:"vel"`
}

// AgentView отладочное состояние контроллера одного танка.
type AgentView struct {
	ID         string `json:"id"`
	Controller string `json:"controller"`
	Active     bool   `json:"active"`

	// State имя состояния автомата или путь активных узлов дерева.
	State string `json:"state"`

	Motion    string  `json:"motion"`
	Goal      *Vec    `json:"goal,omitempty"`
	Path      []Vec   `json:"path,omitempty"`
	Lookahead *Vec    `json:"lookahead,omitempty"`
	AimTarget *Vec    `json:"aimTarget,omitempty"`
	Charge    float64 `json:"charge,omitempty"`

	Visible []string      `json:"visible,omitempty"`
	Memory  []ContactView `json:"memory,omitempty"`
	Counts  EventCounts   `json:"counts"`
}

// ContactView запись памяти восприятия.
type ContactView struct {
	ID         string  `json:"id"`
	Pos        Vec     `json:"pos"`
	Age        float64 `json:"age"`
	Confidence float64 `json:"confidence"`
}

// EventCounts счётчики доставленных контроллеру событий.
type EventCounts struct {
	Spotted int `json:"spotted"`
	Lost    int `json:"lost"`
	Sounds  int `json:"sounds"`
	Arrived int `json:"arrived"`
	Blocked int `json:"blocked"`
	Damage  int `json:"damage"`
}

// GraphView навигационный граф арены.
type GraphView struct {
	Nodes []Vec    `json:"nodes"`
	Edges [][2]int `json:"edges"`
}

// PathView результат отладочного запроса маршрута.
type PathView struct {
	Found     bool          `json:"found"`
	Cost      float64       `json:"cost,omitempty"`
	Polyline  []Vec         `json:"polyline,omitempty"`
	Straights [][2]Vec      `json:"straights,omitempty"`
	Arcs      []ArcView     `json:"arcs,omitempty"`
	Stats     *PrimitiveLog `json:"stats,omitempty"`
}

// ArcView дуга сглаженного маршрута.
type ArcView struct {
	Center     Vec     `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	CW         bool    `json:"cw"`
}

// PrimitiveLog статистика разложения маршрута на примитивы.
type PrimitiveLog struct {
	Corners           int `json:"corners"`
	Placed            int `json:"placed"`
	RejectedShort     int `json:"rejectedShort"`
	RejectedClearance int `json:"rejectedClearance"`
}

// ErrorResponse сообщение об отклонённой команде.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// Команды зрителя
const (
	ActionSetAI         = "SET_AI"
	ActionSetController = "SET_CONTROLLER"
)

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// AIPayload включает или выключает ИИ всех танков (SET_AI).
type AIPayload struct {
	Enabled bool `json:"enabled"`
}

// ControllerPayload меняет стратегию одного танка (SET_CONTROLLER).
type ControllerPayload struct {
	TankID uint32 `json:"tankId"`
	Kind   string `json:"kind"` // "fsm" или "bt"
}
