package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/validation"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The endpoint sits behind session-token auth; the embedded admin panel
	// runs on the storefront's origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is a middleman between the websocket connection and a validation
// session.
type Client struct {
	ID      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session *validation.Session
	logger  *zap.SugaredLogger
}

// inboundMessage is what the client sends: keystrokes and manual triggers
type inboundMessage struct {
	Type  string `json:"type"`  // "input" or "validate"
	Value string `json:"value"` // raw CIF text for "input"
}

// outboundMessage wraps session events pushed to the client
type outboundMessage struct {
	Type        string                 `json:"type"` // "state", "result", "company"
	State       string                 `json:"state,omitempty"`
	Result      *validation.Result     `json:"result,omitempty"`
	Badge       interface{}            `json:"badge,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Company     *validation.ClientData `json:"company,omitempty"`
}

// readPump routes client messages into the validation session.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warnw("websocket read error", "client", c.ID, "error", err)
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Debugw("dropping malformed message", "client", c.ID, "error", err)
			continue
		}

		switch msg.Type {
		case "input":
			c.session.Submit(msg.Value)
		case "validate":
			c.session.ValidateNow()
		}
	}
}

// writePump pumps session events to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push queues an event for the client, dropping it if the client is slow.
// A dropped frame is always followed by a newer one carrying fresher state.
func (c *Client) push(v outboundMessage) {
	msg, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// ServeWs upgrades the request and wires a validation session to the
// connection.
func ServeWs(hub *Hub, lookup validation.LookupFunc, settle time.Duration, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		logger: hub.logger,
	}

	client.session = validation.NewSession(lookup, settle, validation.Callbacks{
		OnState: func(s validation.State) {
			client.push(outboundMessage{Type: "state", State: s.String()})
		},
		OnResult: func(res *validation.Result) {
			msg := outboundMessage{Type: "result", Result: res}
			if res != nil {
				msg.Badge = validation.StatusBadge(res)
				msg.Suggestions = validation.SuggestionsFor(res)
			}
			client.push(msg)
		},
		OnCompany: func(data *validation.ClientData) {
			client.push(outboundMessage{Type: "company", Company: data})
		},
	}, hub.logger)

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
