package dispatch

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/example/guriri-dispatch/internal/models"
)

// ErrNoSession means the courier has no live websocket connection.
var ErrNoSession = errors.New("no websocket session")

// WSSession is one connected courier app.
type WSSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *WSSession) Send(offer models.AssignmentOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(offer)
}

// WSRegistry holds courier sessions keyed by motoboy id.
type WSRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*WSSession
}

func NewWSRegistry() *WSRegistry {
	return &WSRegistry{sessions: make(map[string]*WSSession)}
}

func (r *WSRegistry) Add(motoboyID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[motoboyID] = &WSSession{conn: conn}
}

func (r *WSRegistry) Remove(motoboyID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, motoboyID)
}

func (r *WSRegistry) Offer(motoboyID string, offer models.AssignmentOffer) error {
	r.mu.RLock()
	s, ok := r.sessions[motoboyID]
	r.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}
	return s.Send(offer)
}
