// Package streamd broadcasts a live hardware-state/gesture stream over
// WebSocket, so a host process can attach a visualizer or capture tool
// to a running pipeline. It is a debug companion, not part of the data
// path: the pipeline never depends on it, and a slow or stuck client
// never blocks an interpreter — messages to a client whose buffer is
// full are dropped along with the client.
package streamd

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/8ff/gestures"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local debug tool; origin checks are the host's job
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// MessageType tags one broadcast envelope.
type MessageType string

const (
	MsgHardwareState MessageType = "hwstate"
	MsgGesture       MessageType = "gesture"
)

// Message is the WebSocket message envelope.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// hwStatePayload mirrors the activity log's hardware-state key names so
// a client can consume both formats with one decoder.
type hwStatePayload struct {
	Timestamp   float64         `json:"timestamp"`
	ButtonsDown uint32          `json:"buttonsDown"`
	TouchCnt    int             `json:"touchCnt"`
	Fingers     []fingerPayload `json:"fingers"`
}

type fingerPayload struct {
	X          float64 `json:"positionX"`
	Y          float64 `json:"positionY"`
	Pressure   float64 `json:"pressure"`
	TrackingID int16   `json:"trackingId"`
	Flags      uint32  `json:"flags"`
}

type gesturePayload struct {
	Type        string  `json:"type"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	DX          float64 `json:"dx"`
	DY          float64 `json:"dy"`
	DZ          float64 `json:"dz,omitempty"`
	ButtonsDown uint32  `json:"buttonsDown,omitempty"`
	ButtonsUp   uint32  `json:"buttonsUp,omitempty"`
	IsTap       bool    `json:"isTap,omitempty"`
}

// client is one connected WebSocket subscriber.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	closed bool
}

// Server accepts WebSocket subscribers and fans broadcast messages out
// to all of them. The zero value is not usable; use New.
type Server struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// New returns a Server with no subscribers.
func New() *Server {
	return &Server{clients: make(map[*client]struct{})}
}

// ServeHTTP upgrades the request to a WebSocket and subscribes it to
// the broadcast stream. The connection is read-discarded: subscribers
// only listen.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 256)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go c.writePump()
	go s.readPump(c)
}

// readPump drains (and discards) inbound frames until the client goes
// away, then unsubscribes it. Reading is required even for a
// broadcast-only stream so close/ping control frames are processed.
func (s *Server) readPump(c *client) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		c.close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	c.conn.Close()
}

// enqueue hands data to the client's writer; a full buffer means the
// client is too slow to keep up and is dropped.
func (c *client) enqueue(data []byte) (ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.closed = true
		close(c.send)
		return false
	}
}

func (s *Server) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if !c.enqueue(data) {
			delete(s.clients, c)
		}
	}
}

// ClientCount returns the number of live subscribers.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// BroadcastHardwareState publishes one frame to every subscriber.
func (s *Server) BroadcastHardwareState(hs gestures.HardwareState) {
	p := hwStatePayload{
		Timestamp:   hs.Timestamp.Seconds(),
		ButtonsDown: uint32(hs.ButtonsDown),
		TouchCnt:    hs.TouchCnt,
		Fingers:     make([]fingerPayload, len(hs.Fingers)),
	}
	for i, f := range hs.Fingers {
		p.Fingers[i] = fingerPayload{
			X: f.X, Y: f.Y, Pressure: f.Pressure,
			TrackingID: f.TrackingID, Flags: uint32(f.Flags),
		}
	}
	s.broadcast(Message{Type: MsgHardwareState, Payload: jsonRaw(p)})
}

// BroadcastGesture publishes one gesture to every subscriber.
func (s *Server) BroadcastGesture(g gestures.Gesture) {
	p := gesturePayload{
		Type:      g.Type.String(),
		StartTime: g.StartTime.Seconds(),
		EndTime:   g.EndTime.Seconds(),
		DX:        g.Move.DX, DY: g.Move.DY, DZ: g.DZ,
		ButtonsDown: uint32(g.ButtonsDown), ButtonsUp: uint32(g.ButtonsUp),
		IsTap: g.IsTap,
	}
	s.broadcast(Message{Type: MsgGesture, Payload: jsonRaw(p)})
}

// ConsumeGesture implements gestures.GestureConsumer, so a host can
// tee the façade's gesture sink straight into the broadcast stream.
func (s *Server) ConsumeGesture(g gestures.Gesture) {
	s.BroadcastGesture(g)
}

func jsonRaw(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
