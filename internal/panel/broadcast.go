package panel

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

const clientBuffer = 64

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Broadcaster fans messages out to every connected page.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*client]bool)}
}

// AddClient registers conn and queues initial messages for it.
func (b *Broadcaster) AddClient(conn *websocket.Conn, initial ...any) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	for _, msg := range initial {
		b.Send(c, msg)
	}
	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
}

// Send queues msg for one client. A full queue drops the client.
func (b *Broadcaster) Send(c *client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("panel: marshal message: %v", err)
		return
	}
	b.deliver(c, data)
}

// Broadcast queues msg for every client.
func (b *Broadcaster) Broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("panel: marshal message: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		b.deliver(c, data)
	}
}

func (b *Broadcaster) deliver(c *client, data []byte) {
	b.mu.RLock()
	_, ok := b.clients[c]
	if ok {
		select {
		case c.send <- data:
			b.mu.RUnlock()
			return
		default:
		}
	}
	b.mu.RUnlock()

	if ok {
		log.Printf("panel: client too slow, disconnecting")
		b.RemoveClient(c)
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		close(c.send)
	}
}
