package endpoint

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	rpcws "github.com/mirosubs/xdrpc/rpc/ws"
)

// serveSocket upgrades to a websocket and answers rpcws.Message requests
// until the peer goes away. Requests are handled concurrently, so responses
// may be written out of order.
func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); !s.originAllowed(origin) {
		http.Error(w, "origin not allowed: "+origin, http.StatusForbidden)
		return
	}
	upgrader := ws.HTTPUpgrader{}
	conn, _, _, err := upgrader.Upgrade(r, w)
	if err != nil {
		logger.Printf("websocket upgrade error from %s: %s", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var muWrite sync.Mutex
	for {
		data, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			if err != io.EOF {
				logger.Printf("socket from %s closed: %s", r.RemoteAddr, err)
			}
			return
		}
		if op != ws.OpText && op != ws.OpBinary {
			continue
		}
		var msg rpcws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Printf("socket from %s: dropping invalid message: %s", r.RemoteAddr, err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.handleMessage(ctx, &msg)
			if err := writeMessage(conn, &muWrite, resp); err != nil {
				logger.Printf("socket from %s: write failed: %s", r.RemoteAddr, err)
			}
		}()
	}
}

func (s *Server) handleMessage(ctx context.Context, msg *rpcws.Message) *rpcws.Message {
	method := msg.MethodName()
	logger.Printf("xd socket %s (request %s)", method, msg.ID)

	resp := &rpcws.Message{ID: msg.ID}
	args, err := rawArgs(msg.Args)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	result, err := s.Dispatch(ctx, method, args)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	if resp.Result, err = json.Marshal(result); err != nil {
		resp.Error = "failed to encode response: " + err.Error()
	}
	return resp
}

func writeMessage(conn net.Conn, mu *sync.Mutex, msg *rpcws.Message) error {
	out, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return wsutil.WriteServerMessage(conn, ws.OpText, out)
}
