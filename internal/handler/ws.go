package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"dispatch/internal/broadcast"
	"dispatch/internal/service"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// WSMessage is the wire envelope for realtime events.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WSHandler upgrades HTTP requests to websocket connections and bridges
// them onto the broadcast hub. Dispatch and driver connections differ
// only in the group they join; both receive every trip event.
type WSHandler struct {
	hub      *broadcast.Hub
	registry *service.TripRegistry
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *broadcast.Hub, registry *service.TripRegistry, log *logrus.Logger) *WSHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WSHandler{
		hub:      hub,
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Dispatch handles GET /v1/ws/dispatch
func (h *WSHandler) Dispatch(c *gin.Context) {
	h.serve(c, broadcast.GroupDispatch)
}

// Drivers handles GET /v1/ws/drivers
func (h *WSHandler) Drivers(c *gin.Context) {
	h.serve(c, broadcast.GroupDrivers)
}

// serve joins the connection to a group, pushes the current trip list
// for initial sync and pumps hub events out until the peer goes away.
func (h *WSHandler) serve(c *gin.Context, group broadcast.Group) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.hub.Join(group)
	defer h.hub.Leave(sub)

	h.hub.SnapshotTo(sub, h.registry.List())

	done := make(chan struct{})
	go h.readLoop(conn, done)
	h.writeLoop(conn, sub, done)
}

// readLoop discards inbound frames; the realtime channel is push-only.
// It exists to notice the peer closing the connection.
func (h *WSHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("websocket read ended")
			}
			return
		}
	}
}

func (h *WSHandler) writeLoop(conn *websocket.Conn, sub *broadcast.Subscriber, done <-chan struct{}) {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := h.writeEvent(conn, ev); err != nil {
				h.log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *WSHandler) writeEvent(conn *websocket.Conn, ev broadcast.Event) error {
	var payload any
	switch ev.Kind {
	case broadcast.EventTripSnapshot:
		payload = toTripPayloads(ev.Trips)
	default:
		payload = toTripPayload(*ev.Trip)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(WSMessage{Event: string(ev.Kind), Data: data})
}
