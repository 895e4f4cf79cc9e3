package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const jsonContentType = "application/json"

// HandlerFunc serves a single method. Args hold the JSON value of every named
// argument; the result is encoded as JSON.
type HandlerFunc func(ctx context.Context, args map[string]json.RawMessage) (interface{}, error)

// Server contains the method registry and serves it over HTTP. Methods must
// be registered before serving.
type Server struct {
	// AllowedOrigins are the page origins allowed to make cross-domain
	// calls. Empty allows any origin.
	AllowedOrigins []string
	// MaxContentLength is the request size limit (optional)
	MaxContentLength int64

	registry map[string]HandlerFunc
}

// Register adds valid methods from the receiver to the registry with the given
// prefix. The first letter of method names is lowercased.
func (s *Server) Register(prefix string, receiver interface{}) error {
	methods, err := Methods(receiver)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for name, m := range methods {
		buf.WriteString(prefix)
		buf.WriteRune(unicode.ToLower(rune(name[0])))
		buf.WriteString(name[1:])
		s.RegisterFunc(buf.String(), m.Func())
		buf.Reset()
	}
	return nil
}

// RegisterFunc adds a single method to the registry, replacing any method of
// the same name.
func (s *Server) RegisterFunc(name string, fn HandlerFunc) {
	if s.registry == nil {
		s.registry = map[string]HandlerFunc{}
	}
	s.registry[name] = fn
}

// MethodNames returns the sorted names of all registered methods.
func (s *Server) MethodNames() []string {
	names := make([]string, 0, len(s.registry))
	for name := range s.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch calls a registered method.
func (s *Server) Dispatch(ctx context.Context, method string, args map[string]json.RawMessage) (interface{}, error) {
	fn, ok := s.registry[method]
	if !ok {
		return nil, ErrMethodNotFound{Method: method}
	}
	return fn(ctx, args)
}

// Handler returns the HTTP routes for both wire shapes, relative to the base
// URL the server is mounted at.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/xhr/{method}", s.serveXHR)
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
		r.Post("/xd/{method}", s.serveXD)
		// Preflight requests are answered by the cors middleware.
		r.Options("/xd/{method}", func(w http.ResponseWriter, r *http.Request) {})
	})
	r.Get("/xd/", s.serveSocket)
	return r
}

// originAllowed reports whether a page origin may open the messaging socket.
func (s *Server) originAllowed(origin string) bool {
	if origin == "" || len(s.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// rawArgs checks that every serialized argument is valid JSON.
func rawArgs(serialized map[string]string) (map[string]json.RawMessage, error) {
	args := make(map[string]json.RawMessage, len(serialized))
	for key, value := range serialized {
		if !json.Valid([]byte(value)) {
			return nil, ErrInvalidArgs{Key: key, Cause: errInvalidJSON}
		}
		args[key] = json.RawMessage(value)
	}
	return args, nil
}
