// Package web serves the item browser: HTML pages for humans, a small JSON
// API mirroring the same view-models, and a websocket feed that nudges open
// pages after a dataset reload.
package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/BobbyLangan/ultracube-factoriopedia/internal/index"
	"github.com/BobbyLangan/ultracube-factoriopedia/internal/view"
)

const detailCacheSize = 512

// Server holds the current index and the capabilities to rebuild it. The
// index itself is immutable; a reload builds a fresh one and swaps the
// pointer under the lock.
type Server struct {
	mu    sync.RWMutex
	idx   *index.Index
	cache *lru.Cache[string, view.Detail]

	src     index.Source
	iconDir string
	hub     *hub
	router  *mux.Router
}

func New(idx *index.Index, src index.Source, iconDir string) (*Server, error) {
	cache, err := lru.New[string, view.Detail](detailCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Server{
		idx:     idx,
		cache:   cache,
		src:     src,
		iconDir: iconDir,
		hub:     newHub(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleListPage).Methods(http.MethodGet)
	r.HandleFunc("/item/{id}", s.handleDetailPage).Methods(http.MethodGet)
	r.HandleFunc("/api/items", s.handleItemsAPI).Methods(http.MethodGet)
	r.HandleFunc("/api/items/{id}", s.handleItemAPI).Methods(http.MethodGet)
	r.HandleFunc("/api/types", s.handleTypesAPI).Methods(http.MethodGet)
	r.HandleFunc("/api/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/reload", s.handleReload).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.hub.handle)
	r.PathPrefix("/icons/").Handler(
		http.StripPrefix("/icons/", http.FileServer(http.Dir(iconDir))))
	s.router = r
	return s, nil
}

// Handler returns the full handler chain.
func (s *Server) Handler() http.Handler {
	return withCORS(s.router)
}

func (s *Server) index() *index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}

// detail composes (or serves the cached) detail view-model for one id. The
// whole lookup-or-fill runs under the read lock; the reload path purges the
// cache under the write lock, so a fill against the old index cannot land
// after the purge.
func (s *Server) detail(id string) (view.Detail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.cache.Get(id); ok {
		return d, true
	}
	d, ok := view.ComposeDetail(s.idx, id)
	if ok {
		s.cache.Add(id, d)
	}
	return d, ok
}

func listStateFromRequest(r *http.Request) view.ListState {
	q := r.URL.Query()
	st := view.ListState{
		Query: q.Get("q"),
		Type:  q.Get("type"),
		Sort:  q.Get("sort"),
	}
	if st.Sort != view.SortByType {
		st.Sort = view.SortByName
	}
	return st
}

type listPage struct {
	State view.ListState
	List  view.List
}

func (s *Server) handleListPage(w http.ResponseWriter, r *http.Request) {
	st := listStateFromRequest(r)
	renderHTML(w, http.StatusOK, listTmpl, listPage{
		State: st,
		List:  view.ComposeList(s.index(), st),
	})
}

func (s *Server) handleDetailPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	d, ok := s.detail(id)
	if !ok {
		renderHTML(w, http.StatusNotFound, notFoundTmpl, struct{ ID string }{ID: id})
		return
	}
	renderHTML(w, http.StatusOK, detailTmpl, d)
}

func (s *Server) handleItemsAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, view.ComposeList(s.index(), listStateFromRequest(r)))
}

func (s *Server) handleItemAPI(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	d, ok := s.detail(id)
	if !ok {
		writeError(w, http.StatusNotFound, "item not found: "+id)
		return
	}
	writeJSON(w, d)
}

func (s *Server) handleTypesAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.index().ItemTypes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleReload rebuilds the index from the source and swaps it in wholesale.
// On failure the old index keeps serving.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	idx, err := index.Load(r.Context(), s.src)
	if err != nil {
		log.Printf("reload failed: %v", err)
		writeError(w, http.StatusBadGateway, "dataset is currently unavailable, keeping the loaded one")
		return
	}
	s.mu.Lock()
	s.idx = idx
	s.cache.Purge()
	s.mu.Unlock()
	s.hub.broadcast(wsMsg{Type: "reload"})

	items, recipes, machines, techs := idx.Len()
	log.Printf("reload: %d items, %d recipes, %d machines, %d technologies", items, recipes, machines, techs)
	writeJSON(w, map[string]int{
		"items":        items,
		"recipes":      recipes,
		"machines":     machines,
		"technologies": techs,
	})
}

func renderHTML(w http.ResponseWriter, code int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

// simple CORS for GET/POST/OPTIONS
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
