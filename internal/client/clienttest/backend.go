// Package clienttest provides an in-process fake of the content API.
package clienttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
)

// Request is one call the backend received.
type Request struct {
	Method string
	Path   string
	Body   string
	Token  string
}

// Backend serves GET /content, POST /login, PUT /content, PUT /services,
// PUT /content/document, GET /me and POST /logout from memory.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	doc      *content.Document
	users    map[string]string
	token    string
	requests []Request
	// failures maps "METHOD /path" or "PUT /content:key" to a status code.
	failures map[string]int
}

// NewBackend starts a backend seeded with content.Default() and the admin
// "admin"/"admin123". Call Close when done.
func NewBackend() *Backend {
	b := &Backend{
		doc:      content.Default(),
		users:    map[string]string{"admin": "admin123"},
		token:    "test-token",
		failures: map[string]int{},
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	return b
}

func (b *Backend) URL() string { return b.Server.URL }
func (b *Backend) Close()      { b.Server.Close() }

// Token is the bearer token handed out on successful login.
func (b *Backend) Token() string { return b.token }

// Document returns a copy of the stored document.
func (b *Backend) Document() *content.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc.Clone()
}

// SetDocument replaces the stored document.
func (b *Backend) SetDocument(doc *content.Document) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = doc.Clone()
}

// Fail makes requests matching key answer with status. Keys are
// "METHOD /path", or "PUT /content:<key>" for a single field.
func (b *Backend) Fail(key string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[key] = status
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Writes returns the PUT requests received so far.
func (b *Backend) Writes() []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Method == http.MethodPut {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body), Token: token})

	route := r.Method + " " + r.URL.Path
	if status, ok := b.failures[route]; ok {
		writeJSON(w, status, map[string]string{"error": "injected failure"})
		return
	}

	authed := token == b.token
	switch route {
	case "GET /content":
		writeJSON(w, http.StatusOK, b.doc)
	case "POST /login":
		var req struct{ Username, Password string }
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if pw, ok := b.users[req.Username]; !ok || pw != req.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": b.token, "token_type": "bearer"})
	case "GET /me":
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"username": "admin"})
	case "POST /logout":
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	case "PUT /content":
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		var req struct{ Key, Value string }
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if status, ok := b.failures["PUT /content:"+req.Key]; ok {
			writeJSON(w, status, map[string]string{"error": "injected failure"})
			return
		}
		if err := b.doc.SetField(req.Key, req.Value); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Content key not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Content updated successfully", "key": req.Key, "value": req.Value})
	case "PUT /services":
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		var req struct {
			Services []content.Service `json:"services"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		b.doc.Services = content.CloneServices(req.Services)
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Services updated successfully", "services": b.doc.Services})
	case "PUT /content/document":
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		var doc content.Document
		if err := json.Unmarshal(body, &doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		b.doc = doc.Clone()
		writeJSON(w, http.StatusOK, b.doc)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}
