package server

import (
	"net/http"
	"tankai-server/internal/engine"
	"tankai-server/pkg/api"
	"tankai-server/pkg/logger"
	"tankai-server/pkg/utils"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService. Зритель получает
// снимки матча и может слать команды SET_AI / SET_CONTROLLER.
type Client struct {
	Game      *engine.GameService
	Conn      *websocket.Conn
	SessionID string

	updates chan api.Snapshot
	errs    chan api.ErrorResponse
	log     *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	id := utils.GenerateID()
	return &Client{
		Game:      game,
		Conn:      conn,
		SessionID: id,
		errs:      make(chan api.ErrorResponse, 8),
		log:       logger.Component("ws").WithField("session", id),
	}
}

// Start подписывает сессию на снимки и запускает пампы.
func (c *Client) Start() {
	c.updates = c.Game.Hub.Register(c.SessionID)
	c.log.WithField("viewers", c.Game.Hub.SubscriberCount()).Info("viewer connected")

	go c.writePump()
	go c.readPump()
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Game.Hub.Unregister(c.SessionID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("viewer disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("ws read error")
			}
			return
		}

		if err := c.Game.ProcessCommand(cmd); err != nil {
			c.log.WithError(err).WithField("action", cmd.Action).Warn("command rejected")
			select {
			case c.errs <- api.ErrorResponse{Type: api.TypeError, Message: err.Error()}:
			default:
			}
			continue
		}
		c.log.WithField("action", cmd.Action).Info("command accepted")
	}
}

// writePump отправляет снимки и ошибки клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	// Первый снимок несёт раскладку арены
	first := c.Game.Latest()
	first.Arena = engine.ArenaView(c.Game.Match.Layout())
	if !c.write(first) {
		return
	}

	for {
		select {
		case snap, ok := <-c.updates:
			if !ok {
				c.deadline()
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if !c.write(snap) {
				return
			}

		case msg := <-c.errs:
			if !c.write(msg) {
				return
			}

		case <-ticker.C:
			c.deadline()
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func (c *Client) deadline() {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.WithError(err).Warn("failed to set write deadline")
	}
}

func (c *Client) write(msg any) bool {
	c.deadline()
	if err := c.Conn.WriteJSON(msg); err != nil {
		c.log.WithError(err).Debug("write json message failed")
		return false
	}
	return true
}
