package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mirosubs/xdrpc/rpc"
)

// ErrClosed is returned for calls on a Messenger whose connection is gone.
var ErrClosed = errors.New("rpc/ws: connection closed")

// SocketURL maps a base URL onto the messaging socket at <base>xd/,
// switching http(s) to ws(s).
func SocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		baseURL = "wss://" + baseURL[len("https://"):]
	case strings.HasPrefix(baseURL, "http://"):
		baseURL = "ws://" + baseURL[len("http://"):]
	}
	return baseURL + rpc.CrossDomain.Path()
}

var _ rpc.Transport = &Messenger{}

// Messenger is a cross-domain rpc.Transport which multiplexes calls over a
// single websocket. Responses are matched to calls by message ID, so calls
// may complete in any order.
type Messenger struct {
	conn    *websocket.Conn
	muWrite sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Message

	closeOnce sync.Once
	closed    chan struct{}
	err       error
}

// Dial opens the messaging socket for baseURL, presenting origin as the
// calling page's origin, and starts routing responses.
func Dial(ctx context.Context, baseURL string, origin string) (*Messenger, error) {
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, SocketURL(baseURL), header)
	if err != nil {
		return nil, err
	}
	m := &Messenger{
		conn:    conn,
		pending: map[string]chan Message{},
		closed:  make(chan struct{}),
	}
	go m.serve()
	return m, nil
}

func (m *Messenger) serve() {
	for {
		var msg Message
		if err := m.conn.ReadJSON(&msg); err != nil {
			m.shutdown(err)
			return
		}
		m.mu.Lock()
		ch, ok := m.pending[msg.ID]
		delete(m.pending, msg.ID)
		m.mu.Unlock()
		if !ok {
			logger.Printf("Messenger.serve(): Dropping unexpected message: %q", msg.ID)
			continue
		}
		ch <- msg
	}
}

func (m *Messenger) shutdown(err error) {
	m.closeOnce.Do(func() {
		m.err = err
		close(m.closed)
		logger.Printf("Messenger closed: %s", err)
	})
}

// Send writes req as a Message and waits for the matching response.
func (m *Messenger) Send(ctx context.Context, req *rpc.Request) ([]byte, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	ch := make(chan Message, 1)

	m.mu.Lock()
	select {
	case <-m.closed:
		m.mu.Unlock()
		return nil, ErrClosed
	default:
	}
	m.pending[id] = ch
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
	}()

	msg := Message{
		ID:   id,
		URL:  req.URL,
		Args: req.Args,
	}
	m.muWrite.Lock()
	err := m.conn.WriteJSON(&msg)
	m.muWrite.Unlock()
	if err != nil {
		return nil, err
	}

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return nil, ErrRemote{ID: resp.ID, Message: resp.Error}
		}
		if len(resp.Result) == 0 {
			return []byte("null"), nil
		}
		return []byte(resp.Result), nil
	case <-m.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts down the socket. Calls in flight fail with ErrClosed.
func (m *Messenger) Close() error {
	m.muWrite.Lock()
	_ = m.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	m.muWrite.Unlock()
	err := m.conn.Close()
	m.shutdown(ErrClosed)
	return err
}

// Err returns why the connection closed, or nil while it is open.
func (m *Messenger) Err() error {
	select {
	case <-m.closed:
		return m.err
	default:
		return nil
	}
}
