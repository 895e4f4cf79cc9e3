package ws

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message is the envelope exchanged over the messaging socket. Requests
// carry URL and Args, responses carry Result or Error. ID pairs them up.
type Message struct {
	ID     string            `json:"id"`
	URL    string            `json:"url,omitempty"`
	Args   map[string]string `json:"args,omitempty"`
	Result json.RawMessage   `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// MethodName extracts the method from a request URL of the form
// <base>xd/<method>.
func (msg *Message) MethodName() string {
	u := msg.URL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.LastIndex(u, "xd/"); i >= 0 {
		return u[i+len("xd/"):]
	}
	return ""
}

// ErrRemote is an error reported by the other end of the socket.
type ErrRemote struct {
	ID      string
	Message string
}

func (err ErrRemote) Error() string {
	return fmt.Sprintf("remote error: %s", err.Message)
}
