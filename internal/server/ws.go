package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/hittest"
	"github.com/ayusman/airsketch/internal/input"
)

// sendBuffer is the per-client outbound queue length. Notifications for a
// client that falls this far behind are dropped.
const sendBuffer = 32

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Inbound message types.
const (
	msgFrame   = "frame"
	msgTouch   = "touch"
	msgLayout  = "layout"
	msgCommand = "command"
	msgKey     = "key"
	msgControl = "control"
)

type inputMessage struct {
	Type    string            `json:"type"`
	Frame   *detector.Frame   `json:"frame,omitempty"`
	Touch   *input.TouchEvent `json:"touch,omitempty"`
	Layout  *layoutMessage    `json:"layout,omitempty"`
	Command string            `json:"command,omitempty"`
	Key     string            `json:"key,omitempty"`
	Ctrl    bool              `json:"ctrl,omitempty"`
	Control string            `json:"control,omitempty"`
}

type layoutMessage struct {
	Display input.Rect              `json:"display"`
	Regions []hittest.ControlRegion `json:"regions"`
}

type keyReply struct {
	Type    string `json:"type"`
	Key     string `json:"key"`
	Handled bool   `json:"handled"`
}

type notificationMessage struct {
	Type string `json:"type"`
	app.Notification
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// InputHandler accepts pointer input over a WebSocket and pushes change
// notifications back to every connected client.
type InputHandler struct {
	app         *app.App
	clients     map[*client]bool
	mu          sync.RWMutex
	unsubscribe func()
}

// NewInputHandler creates a new InputHandler posting to a.
func NewInputHandler(a *app.App) *InputHandler {
	h := &InputHandler{
		app:     a,
		clients: make(map[*client]bool),
	}
	h.unsubscribe = a.Subscribe(h.broadcast)
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *InputHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop()
	}()

	defer func() {
		h.mu.Lock()
		if h.clients[c] {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
		<-writerDone
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if err := h.handleMessage(r.Context(), c, data); err != nil {
			log.Printf("Closing input socket: %v", err)
			break
		}
	}
}

// handleMessage posts one inbound message. Malformed messages are skipped;
// an error is returned only when the app has stopped.
func (h *InputHandler) handleMessage(ctx context.Context, c *client, data []byte) error {
	var msg inputMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil
	}

	var ev app.Event
	switch msg.Type {
	case msgFrame:
		if msg.Frame == nil {
			ev = app.FrameEvent{}
		} else {
			ev = app.FrameEvent{Frame: *msg.Frame}
		}
	case msgTouch:
		if msg.Touch == nil {
			return nil
		}
		ev = app.TouchEvent{Touch: *msg.Touch}
	case msgLayout:
		if msg.Layout == nil {
			return nil
		}
		ev = app.LayoutEvent{Display: msg.Layout.Display, Regions: msg.Layout.Regions}
	case msgCommand:
		ev = app.CommandEvent{ID: msg.Command}
	case msgControl:
		ev = app.ControlEvent{Name: msg.Control}
	case msgKey:
		handled, err := h.app.HandleKey(ctx, msg.Key, msg.Ctrl)
		if err != nil {
			return err
		}
		reply, _ := json.Marshal(keyReply{Type: msgKey, Key: msg.Key, Handled: handled})
		h.sendTo(c, reply)
		return nil
	default:
		return nil
	}

	return h.app.Post(ev)
}

// broadcast runs on the app loop and must not block.
func (h *InputHandler) broadcast(n app.Notification) {
	msg, err := json.Marshal(notificationMessage{Type: "notify", Notification: n})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (h *InputHandler) sendTo(c *client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *InputHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops notifications and disconnects every client.
func (h *InputHandler) Close() {
	h.unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
}

func (c *client) writeLoop() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			// Drain so senders never block on a dead client.
			for range c.send {
			}
			return
		}
	}
}
