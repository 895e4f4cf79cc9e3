package endpoint

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

var errInvalidJSON = errors.New("value is not valid JSON")

func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	if s.MaxContentLength > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxContentLength)
	}
}

// serveXHR handles same-origin calls: an urlencoded form of JSON values.
func (s *Server) serveXHR(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	if s.MaxContentLength > 0 && r.ContentLength > s.MaxContentLength {
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return
	}
	s.limitBody(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	serialized := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		serialized[key] = r.PostForm.Get(key)
	}
	s.respond(w, r, "xhr", method, serialized)
}

// serveXD handles cross-domain calls: a JSON object of JSON-encoded strings.
func (s *Server) serveXD(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	if s.MaxContentLength > 0 && r.ContentLength > s.MaxContentLength {
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return
	}
	s.limitBody(w, r)

	var serialized map[string]string
	if err := json.NewDecoder(r.Body).Decode(&serialized); err != nil && err != io.EOF {
		http.Error(w, "failed to parse request: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.respond(w, r, "xd", method, serialized)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, kind string, method string, serialized map[string]string) {
	logger.Printf("%s %s from %s (request %s)", kind, method, r.RemoteAddr, r.Header.Get("X-Request-Id"))

	args, err := rawArgs(serialized)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.Dispatch(r.Context(), method, args)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusCode(err), errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody{Error: "failed to encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	w.Write(body)
}
