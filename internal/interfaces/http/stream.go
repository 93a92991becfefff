package httpinterface

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

const (
	streamBufferSize = 64
	writeWait        = 10 * time.Second
)

// TransactionStream forwards every processed message to the connected
// websocket clients. Clients that can't keep up are disconnected.
type TransactionStream struct {
	lock     *sync.RWMutex
	clients  map[*streamClient]struct{}
	upgrader *websocket.Upgrader
}

type streamClient struct {
	send chan domain.Transaction
	once sync.Once
}

func (c *streamClient) close() {
	c.once.Do(func() { close(c.send) })
}

func NewTransactionStream() *TransactionStream {
	return &TransactionStream{
		lock:    &sync.RWMutex{},
		clients: make(map[*streamClient]struct{}),
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Notify is meant to be registered as a transaction listener of the
// network. It never blocks.
func (s *TransactionStream) Notify(tx domain.Transaction) {
	s.lock.RLock()
	var slow []*streamClient
	for c := range s.clients {
		select {
		case c.send <- tx:
		default:
			slow = append(slow, c)
		}
	}
	s.lock.RUnlock()

	for _, c := range slow {
		log.Debug("stream: dropping slow client")
		s.remove(c)
	}
}

// Close disconnects all clients.
func (s *TransactionStream) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	for c := range s.clients {
		delete(s.clients, c)
		c.close()
	}
}

func (s *TransactionStream) add(c *streamClient) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.clients[c] = struct{}{}
}

func (s *TransactionStream) remove(c *streamClient) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		c.close()
	}
}

func (s *TransactionStream) serve(c *gin.Context) {
	client := &streamClient{
		send: make(chan domain.Transaction, streamBufferSize),
	}
	// The client is registered before completing the handshake so that it
	// can't miss anything processed after its dial returned.
	s.add(client)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.remove(client)
		log.WithError(err).Debug("stream: websocket upgrade failed")
		return
	}
	defer conn.Close()

	go func() {
		defer s.remove(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for tx := range client.send {
		//nolint
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(newTransactionView(tx)); err != nil {
			log.WithError(err).Debug("stream: write failed")
			s.remove(client)
			return
		}
	}
}
